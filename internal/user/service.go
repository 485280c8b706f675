// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/repository"
	"github.com/hitoshi/octofit/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// 最小パスワード長。bcryptの上限（72バイト）は入力側で切り詰めない。
const minPasswordLength = 8

// UserInfo はユーザーに読み取り時の導出情報を付加した構造体。
// TeamNameは弱参照の解決結果で、未所属または参照切れの場合はnil。
type UserInfo struct {
	model.User
	TeamName *string
}

// CreateInput はユーザー作成の入力。
type CreateInput struct {
	Name     string
	Email    string
	Password string
	TeamID   string
}

// UpdateInput はユーザー更新の入力。
// 表示名・メールアドレス・所属チームのみ変更可能で、
// パスワードと作成日時は変更しない。
type UpdateInput struct {
	Name   string
	Email  string
	TeamID string
}

// Service はユーザー管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	teamRepo  repository.TeamRepository
	sanitizer security.TextSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// nowがnilの場合はtime.Nowを使用する。
func NewService(
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	sanitizer security.TextSanitizerService,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		userRepo:  userRepo,
		teamRepo:  teamRepo,
		sanitizer: sanitizer,
		now:       now,
	}
}

// Create は入力を検証し、資格情報をハッシュ化して新規ユーザーを作成する。
// 平文パスワードは永続化せず、bcryptハッシュのみを保存する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*UserInfo, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, model.NewInvalidNameError()
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewInvalidEmailError(input.Email)
	}

	if len(input.Password) < minPasswordLength {
		return nil, model.NewInvalidPasswordError()
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError(email)
	}

	teamName, err := s.resolveTeam(ctx, input.TeamID, true)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		TeamID:       input.TeamID,
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("ユーザーを作成しました",
		slog.String("user_id", u.ID),
		slog.String("team_id", u.TeamID),
	)

	return &UserInfo{User: *u, TeamName: teamName}, nil
}

// Get は指定IDのユーザーをチーム名付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*UserInfo, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError(id)
	}

	teamName, err := s.resolveTeam(ctx, u.TeamID, false)
	if err != nil {
		return nil, err
	}

	return &UserInfo{User: *u, TeamName: teamName}, nil
}

// List は全ユーザーをチーム名付きで返す。
func (s *Service) List(ctx context.Context) ([]UserInfo, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("チーム一覧の取得に失敗しました: %w", err)
	}
	teamNames := make(map[string]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	infos := make([]UserInfo, len(users))
	for i, u := range users {
		infos[i] = UserInfo{User: *u}
		if u.TeamID != "" {
			if name, ok := teamNames[u.TeamID]; ok {
				infos[i].TeamName = &name
			}
		}
	}

	return infos, nil
}

// Update はユーザーの表示名・メールアドレス・所属チームを更新する。
// 所属チームの変更（チーム再配属）もここで行う。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*UserInfo, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError(id)
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, model.NewInvalidNameError()
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewInvalidEmailError(input.Email)
	}

	if email != u.Email {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
		}
		if existing != nil {
			return nil, model.NewDuplicateEmailError(email)
		}
	}

	teamName, err := s.resolveTeam(ctx, input.TeamID, true)
	if err != nil {
		return nil, err
	}

	u.Name = name
	u.Email = email
	u.TeamID = input.TeamID

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}

	slog.Info("ユーザーを更新しました",
		slog.String("user_id", u.ID),
		slog.String("team_id", u.TeamID),
	)

	return &UserInfo{User: *u, TeamName: teamName}, nil
}

// Delete は指定IDのユーザーを削除する。
// 活動記録とリーダーボード行は削除しない（弱参照のため、
// 以後の読み取りではセンチネル値へ解決される）。
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.NewUserNotFoundError(id)
	}

	if err := s.userRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("ユーザーを削除しました",
		slog.String("user_id", id),
	)

	return nil
}

// resolveTeam はチームIDをチーム名へ解決する。
// 空のIDは未所属としてnilを返す。
// strictの場合、存在しないチームIDはTEAM_NOT_FOUNDエラーになる
// （書き込み時の検証）。strictでない場合は参照切れとしてnilを返す
// （読み取り時のセンチネル方針）。
func (s *Service) resolveTeam(ctx context.Context, teamID string, strict bool) (*string, error) {
	if teamID == "" {
		return nil, nil
	}

	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if team == nil {
		if strict {
			return nil, model.NewTeamNotFoundError(teamID)
		}
		return nil, nil
	}

	return &team.Name, nil
}
