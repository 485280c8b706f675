// Package activity は活動記録のドメインロジックを提供する。
package activity

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

// ActivityInfo は活動記録に読み取り時の導出情報を付加した構造体。
// UserNameは弱参照の解決結果で、解決できない場合はセンチネル値になる。
type ActivityInfo struct {
	model.Activity
	UserName string
}

// CreateInput は活動記録作成の入力。
// Dateがゼロ値の場合は現在時刻が使用される。
type CreateInput struct {
	UserID         string
	ActivityType   string
	Duration       int
	CaloriesBurned int
	Date           time.Time
	Notes          string
}

// Service は活動記録のサービス層。
// 活動記録は監査証跡として扱い、作成と削除のみを提供する（更新なし）。
type Service struct {
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	sanitizer    security.TextSanitizerService
	now          func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// nowがnilの場合はtime.Nowを使用する。
func NewService(
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		sanitizer:    sanitizer,
		now:          now,
	}
}

// Create は入力を検証して新規活動記録を作成する。
// 書き込み時には所有ユーザーの存在を要求する。記録後にユーザーが
// 削除されても記録自体は残る。
func (s *Service) Create(ctx context.Context, input CreateInput) (*ActivityInfo, error) {
	activityType := strings.TrimSpace(input.ActivityType)
	if activityType == "" {
		return nil, model.NewInvalidActivityTypeError()
	}
	if input.Duration <= 0 {
		return nil, model.NewInvalidDurationError(input.Duration)
	}
	if input.CaloriesBurned < 0 {
		return nil, model.NewInvalidCaloriesError(input.CaloriesBurned)
	}

	owner, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if owner == nil {
		return nil, model.NewUserNotFoundError(input.UserID)
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	a := &model.Activity{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		ActivityType:   activityType,
		Duration:       input.Duration,
		CaloriesBurned: input.CaloriesBurned,
		Date:           date,
		Notes:          strings.TrimSpace(s.sanitizer.Sanitize(input.Notes)),
	}

	if err := s.activityRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("活動記録の作成に失敗しました: %w", err)
	}

	slog.Info("活動記録を作成しました",
		slog.String("activity_id", a.ID),
		slog.String("user_id", a.UserID),
		slog.String("activity_type", a.ActivityType),
		slog.Int("calories_burned", a.CaloriesBurned),
	)

	return &ActivityInfo{Activity: *a, UserName: owner.Name}, nil
}

// Get は指定IDの活動記録をユーザー名付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*ActivityInfo, error) {
	a, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("活動記録の取得に失敗しました: %w", err)
	}
	if a == nil {
		return nil, model.NewActivityNotFoundError(id)
	}

	name, err := s.resolveUserName(ctx, a.UserID)
	if err != nil {
		return nil, err
	}

	return &ActivityInfo{Activity: *a, UserName: name}, nil
}

// List は全活動記録をユーザー名付きで新しい順に返す。
func (s *Service) List(ctx context.Context) ([]ActivityInfo, error) {
	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("活動記録一覧の取得に失敗しました: %w", err)
	}
	return s.enrich(ctx, activities)
}

// ListByUserID は指定ユーザーの活動記録を新しい順に返す。
func (s *Service) ListByUserID(ctx context.Context, userID string) ([]ActivityInfo, error) {
	activities, err := s.activityRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("活動記録一覧の取得に失敗しました: %w", err)
	}
	return s.enrich(ctx, activities)
}

// Delete は指定IDの活動記録を削除する。
// リーダーボードは次回の再計算まで古い集計のまま残る。
func (s *Service) Delete(ctx context.Context, id string) error {
	a, err := s.activityRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("活動記録の取得に失敗しました: %w", err)
	}
	if a == nil {
		return model.NewActivityNotFoundError(id)
	}

	if err := s.activityRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("活動記録の削除に失敗しました: %w", err)
	}

	slog.Info("活動記録を削除しました",
		slog.String("activity_id", id),
		slog.String("user_id", a.UserID),
	)

	return nil
}

// enrich は活動記録の所有ユーザー名を一括で解決する。
// 所有者が見つからない記録はセンチネル値で返し、失敗させない。
func (s *Service) enrich(ctx context.Context, activities []*model.Activity) ([]ActivityInfo, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	infos := make([]ActivityInfo, len(activities))
	for i, a := range activities {
		name, ok := names[a.UserID]
		if !ok {
			name = model.UnknownUserName
		}
		infos[i] = ActivityInfo{Activity: *a, UserName: name}
	}

	return infos, nil
}

// resolveUserName は単一の所有者参照を解決する。
func (s *Service) resolveUserName(ctx context.Context, userID string) (string, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.UnknownUserName, nil
	}
	return u.Name, nil
}
