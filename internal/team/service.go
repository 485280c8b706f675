// Package team はチーム管理のドメインロジックを提供する。
package team

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/repository"
	"github.com/hitoshi/octofit/internal/security"
)

// TeamInfo はチームに読み取り時の導出情報を付加した構造体。
// MemberCountは現在の所属ユーザー数で、保存せず毎回数える。
type TeamInfo struct {
	model.Team
	MemberCount int
}

// Input はチームの作成・更新の入力。
type Input struct {
	Name        string
	Description string
}

// Service はチーム管理のサービス層。
type Service struct {
	teamRepo  repository.TeamRepository
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizerService
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// nowがnilの場合はtime.Nowを使用する。
func NewService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		now:       now,
	}
}

// Create は入力を検証して新規チームを作成する。
func (s *Service) Create(ctx context.Context, input Input) (*TeamInfo, error) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, model.NewInvalidNameError()
	}

	t := &model.Team{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(s.sanitizer.Sanitize(input.Description)),
		CreatedAt:   s.now(),
	}

	if err := s.teamRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("チームの作成に失敗しました: %w", err)
	}

	slog.Info("チームを作成しました",
		slog.String("team_id", t.ID),
		slog.String("name", t.Name),
	)

	return &TeamInfo{Team: *t, MemberCount: 0}, nil
}

// Get は指定IDのチームを所属人数付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*TeamInfo, error) {
	t, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if t == nil {
		return nil, model.NewTeamNotFoundError(id)
	}

	count, err := s.userRepo.CountByTeamID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("所属人数の取得に失敗しました: %w", err)
	}

	return &TeamInfo{Team: *t, MemberCount: count}, nil
}

// List は全チームを所属人数付きで返す。
func (s *Service) List(ctx context.Context) ([]TeamInfo, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("チーム一覧の取得に失敗しました: %w", err)
	}

	infos := make([]TeamInfo, len(teams))
	for i, t := range teams {
		count, err := s.userRepo.CountByTeamID(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("所属人数の取得に失敗しました: %w", err)
		}
		infos[i] = TeamInfo{Team: *t, MemberCount: count}
	}

	return infos, nil
}

// Update はチームの名前と説明を更新する。
func (s *Service) Update(ctx context.Context, id string, input Input) (*TeamInfo, error) {
	t, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if t == nil {
		return nil, model.NewTeamNotFoundError(id)
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if name == "" {
		return nil, model.NewInvalidNameError()
	}

	t.Name = name
	t.Description = strings.TrimSpace(s.sanitizer.Sanitize(input.Description))

	if err := s.teamRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("チームの更新に失敗しました: %w", err)
	}

	slog.Info("チームを更新しました",
		slog.String("team_id", t.ID),
	)

	count, err := s.userRepo.CountByTeamID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("所属人数の取得に失敗しました: %w", err)
	}

	return &TeamInfo{Team: *t, MemberCount: count}, nil
}

// Delete は指定IDのチームを削除する。
// 所属ユーザーのteam_idはそのまま残る（弱参照のため、以後の
// 読み取りでは未所属として扱われる）。カスケード削除は行わない。
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("チームの取得に失敗しました: %w", err)
	}
	if t == nil {
		return model.NewTeamNotFoundError(id)
	}

	if err := s.teamRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("チームの削除に失敗しました: %w", err)
	}

	slog.Info("チームを削除しました",
		slog.String("team_id", id),
	)

	return nil
}
