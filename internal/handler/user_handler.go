package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Create(ctx context.Context, input user.CreateInput) (*user.UserInfo, error)
	Get(ctx context.Context, id string) (*user.UserInfo, error)
	List(ctx context.Context) ([]user.UserInfo, error)
	Update(ctx context.Context, id string, input user.UpdateInput) (*user.UserInfo, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// createUserRequest はユーザー作成リクエストのボディ。
type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamID   string `json:"team_id"`
}

// updateUserRequest はユーザー更新リクエストのボディ。
type updateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	TeamID string `json:"team_id"`
}

// userResponse はユーザー情報のAPIレスポンス。
// usernameはnameの別名。teamは所属チーム名の解決結果で未所属はnull。
// パスワードハッシュは含めない。
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	TeamID    string    `json:"team_id"`
	Team      *string   `json:"team"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(info *user.UserInfo) userResponse {
	return userResponse{
		ID:        info.ID,
		Name:      info.Name,
		Username:  info.Name,
		Email:     info.Email,
		TeamID:    info.TeamID,
		Team:      info.TeamName,
		CreatedAt: info.CreatedAt,
	}
}

// CreateUser はユーザー作成を処理する。
// POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	info, err := h.service.Create(r.Context(), user.CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		TeamID:   req.TeamID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toUserResponse(info))
}

// GetUser はユーザー詳細を取得する。
// GET /api/users/:id
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(info))
}

// ListUsers はユーザー一覧を取得する。
// GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	infos, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]userResponse, len(infos))
	for i := range infos {
		responses[i] = toUserResponse(&infos[i])
	}

	writeJSONResponse(w, http.StatusOK, responses)
}

// UpdateUser はユーザー更新を処理する。
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestBodyError())
		return
	}

	info, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), user.UpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		TeamID: req.TeamID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(info))
}

// DeleteUser はユーザー削除を処理する。
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
