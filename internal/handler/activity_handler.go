package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/activity"
)

// ActivityServiceInterface は活動記録ハンドラーが必要とするサービスインターフェース。
// 活動記録は監査証跡のため更新操作を持たない。
type ActivityServiceInterface interface {
	Create(ctx context.Context, input activity.CreateInput) (*activity.ActivityInfo, error)
	Get(ctx context.Context, id string) (*activity.ActivityInfo, error)
	List(ctx context.Context) ([]activity.ActivityInfo, error)
	ListByUserID(ctx context.Context, userID string) ([]activity.ActivityInfo, error)
	Delete(ctx context.Context, id string) error
}

// ActivityHandler は活動記録のHTTPハンドラー。
type ActivityHandler struct {
	service ActivityServiceInterface
}

// NewActivityHandler はActivityHandlerを生成する。
func NewActivityHandler(service ActivityServiceInterface) *ActivityHandler {
	return &ActivityHandler{
		service: service,
	}
}

// createActivityRequest は活動記録作成リクエストのボディ。
// dateを省略した場合はサーバー側で現在時刻が使用される。
type createActivityRequest struct {
	UserID         string     `json:"user_id"`
	ActivityType   string     `json:"activity_type"`
	Duration       int        `json:"duration"`
	CaloriesBurned int        `json:"calories_burned"`
	Date           *time.Time `json:"date"`
	Notes          string     `json:"notes"`
}

// activityResponse は活動記録のAPIレスポンス。
// userは所有ユーザー名の解決結果で、解決できない場合は"Unknown User"。
type activityResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	User           string    `json:"user"`
	ActivityType   string    `json:"activity_type"`
	Duration       int       `json:"duration"`
	CaloriesBurned int       `json:"calories_burned"`
	Date           time.Time `json:"date"`
	Notes          string    `json:"notes"`
}

func toActivityResponse(info *activity.ActivityInfo) activityResponse {
	return activityResponse{
		ID:             info.ID,
		UserID:         info.UserID,
		User:           info.UserName,
		ActivityType:   info.ActivityType,
		Duration:       info.Duration,
		CaloriesBurned: info.CaloriesBurned,
		Date:           info.Date,
		Notes:          info.Notes,
	}
}

// CreateActivity は活動記録の作成を処理する。
// POST /api/activities
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	input := activity.CreateInput{
		UserID:         req.UserID,
		ActivityType:   req.ActivityType,
		Duration:       req.Duration,
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	info, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toActivityResponse(info))
}

// GetActivity は活動記録の詳細を取得する。
// GET /api/activities/:id
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toActivityResponse(info))
}

// ListActivities は活動記録の一覧を取得する。
// user_idクエリパラメータを指定した場合は当該ユーザーの記録のみを返す。
// GET /api/activities
// GET /api/activities?user_id=:user_id
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	var (
		infos []activity.ActivityInfo
		err   error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		infos, err = h.service.ListByUserID(r.Context(), userID)
	} else {
		infos, err = h.service.List(r.Context())
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]activityResponse, len(infos))
	for i := range infos {
		responses[i] = toActivityResponse(&infos[i])
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// DeleteActivity は活動記録の削除を処理する。
// DELETE /api/activities/:id
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
