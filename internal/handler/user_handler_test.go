package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/user"
)

// --- モック ---

type mockUserService struct {
	createFn func(ctx context.Context, input user.CreateInput) (*user.UserInfo, error)
	getFn    func(ctx context.Context, id string) (*user.UserInfo, error)
	listFn   func(ctx context.Context) ([]user.UserInfo, error)
	updateFn func(ctx context.Context, id string, input user.UpdateInput) (*user.UserInfo, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockUserService) Create(ctx context.Context, input user.CreateInput) (*user.UserInfo, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, nil
}
func (m *mockUserService) Get(ctx context.Context, id string) (*user.UserInfo, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserService) List(ctx context.Context) ([]user.UserInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserService) Update(ctx context.Context, id string, input user.UpdateInput) (*user.UserInfo, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, nil
}
func (m *mockUserService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func userTestRouter(service UserServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewUserHandler(service)
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Put("/", h.UpdateUser)
			r.Delete("/", h.DeleteUser)
		})
	})
	return r
}

// --- テスト ---

// TestUserHandler_CreateUser は作成が201とレスポンス形式を返すことを検証する。
// レスポンスにパスワード関連のフィールドが含まれないことも確認する。
func TestUserHandler_CreateUser(t *testing.T) {
	teamName := "Team Marvel"
	service := &mockUserService{
		createFn: func(ctx context.Context, input user.CreateInput) (*user.UserInfo, error) {
			return &user.UserInfo{
				User: model.User{
					ID: "user-1", Name: input.Name, Email: input.Email,
					PasswordHash: "secret-hash", TeamID: input.TeamID,
				},
				TeamName: &teamName,
			}, nil
		},
	}

	body := `{"name":"Spider-Man","email":"spiderman@marvel.com","password":"with-great-power","team_id":"team-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	userTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["username"] != "Spider-Man" {
		t.Errorf("username = %v, want Spider-Man", resp["username"])
	}
	if resp["team"] != "Team Marvel" {
		t.Errorf("team = %v, want Team Marvel", resp["team"])
	}
	if _, exists := resp["password"]; exists {
		t.Error("response must not contain password")
	}
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Error("response must not contain password hash")
	}
}

// TestUserHandler_CreateUser_InvalidJSON は不正なJSONが400になることを検証する。
func TestUserHandler_CreateUser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	userTestRouter(&mockUserService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Code != "INVALID_REQUEST" {
		t.Errorf("code = %s, want INVALID_REQUEST", resp.Code)
	}
}

// TestUserHandler_GetUser_NotFound はUSER_NOT_FOUNDが404になることを検証する。
func TestUserHandler_GetUser_NotFound(t *testing.T) {
	service := &mockUserService{
		getFn: func(ctx context.Context, id string) (*user.UserInfo, error) {
			return nil, model.NewUserNotFoundError(id)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/missing", nil)
	rec := httptest.NewRecorder()
	userTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// TestUserHandler_CreateUser_DuplicateEmail はDUPLICATE_EMAILが409になることを検証する。
func TestUserHandler_CreateUser_DuplicateEmail(t *testing.T) {
	service := &mockUserService{
		createFn: func(ctx context.Context, input user.CreateInput) (*user.UserInfo, error) {
			return nil, model.NewDuplicateEmailError(input.Email)
		},
	}

	body := `{"name":"A","email":"taken@example.com","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	userTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

// TestUserHandler_DeleteUser は削除が204を返すことを検証する。
func TestUserHandler_DeleteUser(t *testing.T) {
	deleted := ""
	service := &mockUserService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/users/user-1", nil)
	rec := httptest.NewRecorder()
	userTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if deleted != "user-1" {
		t.Errorf("deleted = %q, want user-1", deleted)
	}
}

// TestUserHandler_ListUsers は一覧が配列で返ることを検証する。
func TestUserHandler_ListUsers(t *testing.T) {
	service := &mockUserService{
		listFn: func(ctx context.Context) ([]user.UserInfo, error) {
			return []user.UserInfo{
				{User: model.User{ID: "u1", Name: "A", Email: "a@example.com"}},
				{User: model.User{ID: "u2", Name: "B", Email: "b@example.com"}},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/", nil)
	rec := httptest.NewRecorder()
	userTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("len = %d, want 2", len(resp))
	}
	if resp[0]["team"] != nil {
		t.Errorf("team = %v, want null for user without team", resp[0]["team"])
	}
}
