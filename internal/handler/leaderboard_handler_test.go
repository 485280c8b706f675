package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/leaderboard"
	"github.com/hitoshi/octofit/internal/model"
)

type mockLeaderboardService struct {
	listFn      func(ctx context.Context) ([]leaderboard.EntryInfo, error)
	recomputeFn func(ctx context.Context) (int, error)
}

func (m *mockLeaderboardService) List(ctx context.Context) ([]leaderboard.EntryInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockLeaderboardService) Recompute(ctx context.Context) (int, error) {
	if m.recomputeFn != nil {
		return m.recomputeFn(ctx)
	}
	return 0, nil
}

func leaderboardTestRouter(service LeaderboardServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := NewLeaderboardHandler(service)
	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Get("/", h.ListEntries)
		r.Post("/recompute", h.Recompute)
	})
	return r
}

// TestLeaderboardHandler_ListEntries は導出フィールドを含むレスポンス形式を検証する。
func TestLeaderboardHandler_ListEntries(t *testing.T) {
	teamName := "Team Marvel"
	service := &mockLeaderboardService{
		listFn: func(ctx context.Context) ([]leaderboard.EntryInfo, error) {
			return []leaderboard.EntryInfo{
				{
					LeaderboardEntry: model.LeaderboardEntry{
						ID: "e1", UserID: "u1", TeamID: "team-1",
						TotalActivities: 10, TotalCalories: 1000, TotalDuration: 350, Rank: 1,
					},
					UserName:    "Spider-Man",
					TeamName:    &teamName,
					TotalPoints: 200,
					Period:      "Monthly",
				},
				{
					LeaderboardEntry: model.LeaderboardEntry{
						ID: "e2", UserID: "ghost", TotalActivities: 1, TotalCalories: 50, Rank: 2,
					},
					UserName:    model.UnknownUserName,
					TotalPoints: 15,
					Period:      "Monthly",
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard/", nil)
	rec := httptest.NewRecorder()
	leaderboardTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("len = %d, want 2", len(resp))
	}

	first := resp[0]
	if first["user"] != "Spider-Man" || first["team"] != "Team Marvel" {
		t.Errorf("first entry = (%v, %v), want (Spider-Man, Team Marvel)", first["user"], first["team"])
	}
	if first["total_points"] != float64(200) {
		t.Errorf("total_points = %v, want 200", first["total_points"])
	}
	if first["period"] != "Monthly" {
		t.Errorf("period = %v, want Monthly", first["period"])
	}

	second := resp[1]
	if second["user"] != "Unknown User" {
		t.Errorf("second user = %v, want Unknown User", second["user"])
	}
	if second["team"] != nil {
		t.Errorf("second team = %v, want null", second["team"])
	}
}

// TestLeaderboardHandler_Recompute は再計算が件数を返すことを検証する。
func TestLeaderboardHandler_Recompute(t *testing.T) {
	service := &mockLeaderboardService{
		recomputeFn: func(ctx context.Context) (int, error) {
			return 10, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard/recompute", nil)
	rec := httptest.NewRecorder()
	leaderboardTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp recomputeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.EntriesReplaced != 10 {
		t.Errorf("entries_replaced = %d, want 10", resp.EntriesReplaced)
	}
}

// TestLeaderboardHandler_Recompute_Error は内部エラーが500になることを検証する。
func TestLeaderboardHandler_Recompute_Error(t *testing.T) {
	service := &mockLeaderboardService{
		recomputeFn: func(ctx context.Context) (int, error) {
			return 0, errors.New("db down")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard/recompute", nil)
	rec := httptest.NewRecorder()
	leaderboardTestRouter(service).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
