package user

import (
	"context"
	"testing"

	"github.com/hitoshi/octofit/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	listFn        func(ctx context.Context) ([]*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
	updateFn      func(ctx context.Context, user *model.User) error
	deleteByIDFn  func(ctx context.Context, id string) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}
func (m *mockUserRepo) List(ctx context.Context) ([]*model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}
func (m *mockUserRepo) CountByTeamID(ctx context.Context, teamID string) (int, error) {
	return 0, nil
}

type mockTeamRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Team, error)
	listFn     func(ctx context.Context) ([]*model.Team, error)
}

func (m *mockTeamRepo) FindByID(ctx context.Context, id string) (*model.Team, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
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

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(raw string) string { return raw }

func newTestService(userRepo *mockUserRepo, teamRepo *mockTeamRepo) *Service {
	return NewService(userRepo, teamRepo, passthroughSanitizer{}, nil)
}

// --- テスト ---

// TestService_Create は正常系の作成を検証する。
// パスワードはbcryptハッシュとして保存され、平文は残らない。
func TestService_Create(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	teamRepo := &mockTeamRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "Team Marvel"}, nil
		},
	}

	svc := newTestService(userRepo, teamRepo)

	info, err := svc.Create(context.Background(), CreateInput{
		Name:     "Spider-Man",
		Email:    "Spiderman@Marvel.com",
		Password: "with-great-power",
		TeamID:   "team-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created == nil {
		t.Fatal("repository Create was not called")
	}
	if created.ID == "" {
		t.Error("ID not assigned")
	}
	if created.Email != "spiderman@marvel.com" {
		t.Errorf("Email = %q, want lowercased spiderman@marvel.com", created.Email)
	}
	if created.PasswordHash == "with-great-power" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("with-great-power")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	if info.TeamName == nil || *info.TeamName != "Team Marvel" {
		t.Errorf("TeamName = %v, want Team Marvel", info.TeamName)
	}
}

// TestService_Create_ValidationErrors は各検証エラーのコードを検証する。
func TestService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateInput
		wantCode string
	}{
		{
			name:     "空の表示名",
			input:    CreateInput{Name: "  ", Email: "a@example.com", Password: "longenough"},
			wantCode: model.ErrCodeInvalidName,
		},
		{
			name:     "無効なメールアドレス",
			input:    CreateInput{Name: "A", Email: "not-an-email", Password: "longenough"},
			wantCode: model.ErrCodeInvalidEmail,
		},
		{
			name:     "短すぎるパスワード",
			input:    CreateInput{Name: "A", Email: "a@example.com", Password: "short"},
			wantCode: model.ErrCodeInvalidPassword,
		},
	}

	svc := newTestService(&mockUserRepo{}, &mockTeamRepo{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			apiErr, ok := err.(*model.APIError)
			if !ok {
				t.Fatalf("error = %v, want *model.APIError", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", apiErr.Code, tt.wantCode)
			}
		})
	}
}

// TestService_Create_DuplicateEmail は登録済みメールアドレスが
// 拒否されることを検証する。
func TestService_Create_DuplicateEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}

	svc := newTestService(userRepo, &mockTeamRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "A",
		Email:    "taken@example.com",
		Password: "longenough",
	})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Fatalf("error = %v, want DUPLICATE_EMAIL", err)
	}
}

// TestService_Create_UnknownTeam は存在しないチームIDの指定が
// 書き込み時に拒否されることを検証する。
func TestService_Create_UnknownTeam(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockTeamRepo{})

	_, err := svc.Create(context.Background(), CreateInput{
		Name:     "A",
		Email:    "a@example.com",
		Password: "longenough",
		TeamID:   "no-such-team",
	})
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeTeamNotFound {
		t.Fatalf("error = %v, want TEAM_NOT_FOUND", err)
	}
}

// TestService_Get_DanglingTeam は読み取り時の参照切れチームが
// エラーにならずnilへ解決されることを検証する。
func TestService_Get_DanglingTeam(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "A", Email: "a@example.com", TeamID: "deleted-team"}, nil
		},
	}

	svc := newTestService(userRepo, &mockTeamRepo{})

	info, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if info.TeamName != nil {
		t.Errorf("TeamName = %v, want nil for dangling reference", info.TeamName)
	}
}

// TestService_Get_NotFound は不在ユーザーがUSER_NOT_FOUNDになることを検証する。
func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockTeamRepo{})

	_, err := svc.Get(context.Background(), "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_Update_Reassign はチーム再配属を含む更新を検証する。
// パスワードハッシュは変更されない。
func TestService_Update_Reassign(t *testing.T) {
	var updated *model.User
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID: id, Name: "A", Email: "a@example.com",
				PasswordHash: "hash", TeamID: "team-1",
			}, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}
	teamRepo := &mockTeamRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "Team DC"}, nil
		},
	}

	svc := newTestService(userRepo, teamRepo)

	info, err := svc.Update(context.Background(), "user-1", UpdateInput{
		Name:   "A2",
		Email:  "a@example.com",
		TeamID: "team-2",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("repository Update was not called")
	}
	if updated.TeamID != "team-2" || updated.Name != "A2" {
		t.Errorf("updated = (%s, %s), want (A2, team-2)", updated.Name, updated.TeamID)
	}
	if updated.PasswordHash != "hash" {
		t.Errorf("PasswordHash = %q, want unchanged", updated.PasswordHash)
	}
	if info.TeamName == nil || *info.TeamName != "Team DC" {
		t.Errorf("TeamName = %v, want Team DC", info.TeamName)
	}
}

// TestService_Update_SameEmailAllowed は自分自身のメールアドレスを
// そのまま送っても重複扱いにならないことを検証する。
func TestService_Update_SameEmailAllowed(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "A", Email: "a@example.com"}, nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			t.Error("FindByEmail should not be called for unchanged email")
			return nil, nil
		},
	}

	svc := newTestService(userRepo, &mockTeamRepo{})

	if _, err := svc.Update(context.Background(), "user-1", UpdateInput{
		Name:  "A",
		Email: "a@example.com",
	}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

// TestService_Delete_NotFound は不在ユーザーの削除がUSER_NOT_FOUNDになることを検証する。
func TestService_Delete_NotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockTeamRepo{})

	err := svc.Delete(context.Background(), "missing")
	apiErr, ok := err.(*model.APIError)
	if !ok || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("error = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_List はチーム名の一括解決を検証する。
func TestService_List(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(ctx context.Context) ([]*model.User, error) {
			return []*model.User{
				{ID: "u1", Name: "A", TeamID: "team-1"},
				{ID: "u2", Name: "B", TeamID: ""},
				{ID: "u3", Name: "C", TeamID: "gone"},
			}, nil
		},
	}
	teamRepo := &mockTeamRepo{
		listFn: func(ctx context.Context) ([]*model.Team, error) {
			return []*model.Team{{ID: "team-1", Name: "Team Marvel"}}, nil
		},
	}

	svc := newTestService(userRepo, teamRepo)

	infos, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("infos = %d, want 3", len(infos))
	}
	if infos[0].TeamName == nil || *infos[0].TeamName != "Team Marvel" {
		t.Errorf("infos[0].TeamName = %v, want Team Marvel", infos[0].TeamName)
	}
	if infos[1].TeamName != nil {
		t.Errorf("infos[1].TeamName = %v, want nil (no team)", infos[1].TeamName)
	}
	if infos[2].TeamName != nil {
		t.Errorf("infos[2].TeamName = %v, want nil (dangling)", infos[2].TeamName)
	}
}
