package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/octofit/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	listFn func(ctx context.Context) ([]*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error    { return nil }
func (m *mockUserRepo) CountByTeamID(ctx context.Context, teamID string) (int, error) {
	return 0, nil
}

type mockTeamRepo struct {
	listFn func(ctx context.Context) ([]*model.Team, error)
}

func (m *mockTeamRepo) FindByID(ctx context.Context, id string) (*model.Team, error) {
	return nil, nil
}
func (m *mockTeamRepo) List(ctx context.Context) ([]*model.Team, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockTeamRepo) Create(ctx context.Context, team *model.Team) error { return nil }
func (m *mockTeamRepo) Update(ctx context.Context, team *model.Team) error { return nil }
func (m *mockTeamRepo) DeleteByID(ctx context.Context, id string) error    { return nil }

type mockActivityRepo struct {
	listFn func(ctx context.Context) ([]*model.Activity, error)
}

func (m *mockActivityRepo) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	return nil, nil
}
func (m *mockActivityRepo) List(ctx context.Context) ([]*model.Activity, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockActivityRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Activity, error) {
	return nil, nil
}
func (m *mockActivityRepo) Create(ctx context.Context, activity *model.Activity) error { return nil }
func (m *mockActivityRepo) DeleteByID(ctx context.Context, id string) error            { return nil }

type mockLeaderboardRepo struct {
	listFn       func(ctx context.Context) ([]*model.LeaderboardEntry, error)
	replaceAllFn func(ctx context.Context, entries []*model.LeaderboardEntry) error
}

func (m *mockLeaderboardRepo) List(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockLeaderboardRepo) ReplaceAll(ctx context.Context, entries []*model.LeaderboardEntry) error {
	if m.replaceAllFn != nil {
		return m.replaceAllFn(ctx, entries)
	}
	return nil
}

// --- テスト ---

// TestService_Recompute は再計算がスナップショット全体を置き換え、
// 置き換えたエントリ数を返すことを検証する。
func TestService_Recompute(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "user-a", Name: "A", TeamID: "team-1"},
				{ID: "user-b", Name: "B", TeamID: "team-2"},
			}, nil
		},
	}
	activityRepo := &mockActivityRepo{
		listFn: func(ctx context.Context) ([]*model.Activity, error) {
			return []*model.Activity{
				{UserID: "user-a", Duration: 30, CaloriesBurned: 100},
				{UserID: "user-b", Duration: 40, CaloriesBurned: 300},
			}, nil
		},
	}

	var replaced []*model.LeaderboardEntry
	lbRepo := &mockLeaderboardRepo{
		replaceAllFn: func(ctx context.Context, entries []*model.LeaderboardEntry) error {
			replaced = entries
			return nil
		},
	}

	svc := NewService(userRepo, &mockTeamRepo{}, activityRepo, lbRepo, nil)

	count, err := svc.Recompute(context.Background())
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if len(replaced) != 2 {
		t.Fatalf("replaced = %d entries, want 2", len(replaced))
	}
	if replaced[0].UserID != "user-b" || replaced[0].Rank != 1 {
		t.Errorf("top entry = (%s, rank %d), want (user-b, rank 1)",
			replaced[0].UserID, replaced[0].Rank)
	}
	for _, e := range replaced {
		if e.ID == "" {
			t.Errorf("entry %s has empty ID, want assigned ID", e.UserID)
		}
	}
}

// TestService_Recompute_ActivityLoadError は活動記録の読み込み失敗が
// エラーとして伝播し、置き換えが実行されないことを検証する。
func TestService_Recompute_ActivityLoadError(t *testing.T) {
	activityRepo := &mockActivityRepo{
		listFn: func(ctx context.Context) ([]*model.Activity, error) {
			return nil, errors.New("connection lost")
		},
	}

	replaceCalled := false
	lbRepo := &mockLeaderboardRepo{
		replaceAllFn: func(ctx context.Context, entries []*model.LeaderboardEntry) error {
			replaceCalled = true
			return nil
		},
	}

	svc := NewService(&mockUserRepo{}, &mockTeamRepo{}, activityRepo, lbRepo, nil)

	if _, err := svc.Recompute(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if replaceCalled {
		t.Error("ReplaceAll should not be called when loading fails")
	}
}

// TestService_List は読み取り時にユーザー名・チーム名・合計ポイント・
// 期間ラベルが導出されることを検証する。
func TestService_List(t *testing.T) {
	lbRepo := &mockLeaderboardRepo{
		listFn: func(ctx context.Context) ([]*model.LeaderboardEntry, error) {
			return []*model.LeaderboardEntry{
				{ID: "e1", UserID: "user-a", TeamID: "team-1", TotalActivities: 10, TotalCalories: 1000, Rank: 1},
				{ID: "e2", UserID: "ghost", TeamID: "team-gone", TotalActivities: 1, TotalCalories: 50, Rank: 2},
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{{ID: "user-a", Name: "Spider-Man"}}, nil
		},
	}
	teamRepo := &mockTeamRepo{
		listFn: func(ctx context.Context) ([]*model.Team, error) {
			return []*model.Team{{ID: "team-1", Name: "Team Marvel"}}, nil
		},
	}

	svc := NewService(userRepo, teamRepo, &mockActivityRepo{}, lbRepo, nil)

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("infos = %d, want 2", len(infos))
	}

	first := infos[0]
	if first.UserName != "Spider-Man" {
		t.Errorf("UserName = %q, want Spider-Man", first.UserName)
	}
	if first.TeamName == nil || *first.TeamName != "Team Marvel" {
		t.Errorf("TeamName = %v, want Team Marvel", first.TeamName)
	}
	if first.TotalPoints != 200 {
		t.Errorf("TotalPoints = %d, want 200", first.TotalPoints)
	}
	if first.Period != "Monthly" {
		t.Errorf("Period = %q, want Monthly", first.Period)
	}

	// 参照切れはセンチネル値へ解決される（非致命）
	second := infos[1]
	if second.UserName != model.UnknownUserName {
		t.Errorf("UserName = %q, want %q", second.UserName, model.UnknownUserName)
	}
	if second.TeamName != nil {
		t.Errorf("TeamName = %v, want nil for dangling team reference", second.TeamName)
	}
}
