package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hitoshi/octofit/internal/leaderboard"
)

// LeaderboardServiceInterface はリーダーボードハンドラーが必要とするサービスインターフェース。
type LeaderboardServiceInterface interface {
	// List はランク昇順のエントリ一覧を導出情報付きで返す。
	List(ctx context.Context) ([]leaderboard.EntryInfo, error)
	// Recompute は全エントリを再計算して置き換え、置き換えた件数を返す。
	Recompute(ctx context.Context) (int, error)
}

// LeaderboardHandler はリーダーボードのHTTPハンドラー。
type LeaderboardHandler struct {
	service LeaderboardServiceInterface
}

// NewLeaderboardHandler はLeaderboardHandlerを生成する。
func NewLeaderboardHandler(service LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

// leaderboardEntryResponse はリーダーボードエントリのAPIレスポンス。
// user、team、total_points、periodは読み取り時の導出値で保存されない。
type leaderboardEntryResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	User            string    `json:"user"`
	TeamID          string    `json:"team_id"`
	Team            *string   `json:"team"`
	TotalActivities int       `json:"total_activities"`
	TotalCalories   int       `json:"total_calories"`
	TotalDuration   int       `json:"total_duration"`
	TotalPoints     int       `json:"total_points"`
	Rank            int       `json:"rank"`
	Period          string    `json:"period"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// recomputeResponse は再計算結果のAPIレスポンス。
type recomputeResponse struct {
	EntriesReplaced int `json:"entries_replaced"`
}

func toLeaderboardEntryResponse(info *leaderboard.EntryInfo) leaderboardEntryResponse {
	return leaderboardEntryResponse{
		ID:              info.ID,
		UserID:          info.UserID,
		User:            info.UserName,
		TeamID:          info.TeamID,
		Team:            info.TeamName,
		TotalActivities: info.TotalActivities,
		TotalCalories:   info.TotalCalories,
		TotalDuration:   info.TotalDuration,
		TotalPoints:     info.TotalPoints,
		Rank:            info.Rank,
		Period:          info.Period,
		UpdatedAt:       info.UpdatedAt,
	}
}

// ListEntries はランク昇順のリーダーボード一覧を取得する。
// GET /api/leaderboard
func (h *LeaderboardHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]leaderboardEntryResponse, len(infos))
	for i := range infos {
		responses[i] = toLeaderboardEntryResponse(&infos[i])
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// Recompute はリーダーボードの再計算を処理する。
// POST /api/leaderboard/recompute
func (h *LeaderboardHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Recompute(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, recomputeResponse{EntriesReplaced: count})
}
