package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/team"
)

// TeamServiceInterface はチームハンドラーが必要とするサービスインターフェース。
type TeamServiceInterface interface {
	Create(ctx context.Context, input team.Input) (*team.TeamInfo, error)
	Get(ctx context.Context, id string) (*team.TeamInfo, error)
	List(ctx context.Context) ([]team.TeamInfo, error)
	Update(ctx context.Context, id string, input team.Input) (*team.TeamInfo, error)
	Delete(ctx context.Context, id string) error
}

// TeamHandler はチーム管理のHTTPハンドラー。
type TeamHandler struct {
	service TeamServiceInterface
}

// NewTeamHandler はTeamHandlerを生成する。
func NewTeamHandler(service TeamServiceInterface) *TeamHandler {
	return &TeamHandler{
		service: service,
	}
}

// teamRequest はチーム作成・更新リクエストのボディ。
type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// teamResponse はチーム情報のAPIレスポンス。
// member_countは現在の所属ユーザー数。
type teamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int       `json:"member_count"`
}

func toTeamResponse(info *team.TeamInfo) teamResponse {
	return teamResponse{
		ID:          info.ID,
		Name:        info.Name,
		Description: info.Description,
		CreatedAt:   info.CreatedAt,
		MemberCount: info.MemberCount,
	}
}

// CreateTeam はチーム作成を処理する。
// POST /api/teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	info, err := h.service.Create(r.Context(), team.Input{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toTeamResponse(info))
}

// GetTeam はチーム詳細を取得する。
// GET /api/teams/:id
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTeamResponse(info))
}

// ListTeams はチーム一覧を取得する。
// GET /api/teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]teamResponse, len(infos))
	for i := range infos {
		responses[i] = toTeamResponse(&infos[i])
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// UpdateTeam はチーム更新を処理する。
// PUT /api/teams/:id
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	info, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), team.Input{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toTeamResponse(info))
}

// DeleteTeam はチーム削除を処理する。
// DELETE /api/teams/:id
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
