// Package workout は推奨ワークアウトのドメインロジックを提供する。
package workout

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

// Input はワークアウトの作成・更新の入力。
// Difficultyは自由テキストで、定義済みの値には制限しない。
type Input struct {
	Name             string
	Description      string
	ActivityType     string
	Difficulty       string
	Duration         int
	CaloriesEstimate int
}

// Service はワークアウトカタログのサービス層。
// ワークアウトは他リソースを参照しない独立したカタログ項目。
type Service struct {
	workoutRepo repository.WorkoutRepository
	sanitizer   security.TextSanitizerService
	now         func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// nowがnilの場合はtime.Nowを使用する。
func NewService(
	workoutRepo repository.WorkoutRepository,
	sanitizer security.TextSanitizerService,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		workoutRepo: workoutRepo,
		sanitizer:   sanitizer,
		now:         now,
	}
}

// validate は共通の入力検証を行い、正規化済みの入力を返す。
func (s *Service) validate(input Input) (Input, error) {
	input.Name = strings.TrimSpace(s.sanitizer.Sanitize(input.Name))
	if input.Name == "" {
		return input, model.NewInvalidWorkoutError("名前が空です")
	}

	input.ActivityType = strings.TrimSpace(input.ActivityType)
	if input.ActivityType == "" {
		return input, model.NewInvalidWorkoutError("種目が空です")
	}

	if input.Duration <= 0 {
		return input, model.NewInvalidWorkoutError(fmt.Sprintf("無効な所要時間: %d分", input.Duration))
	}
	if input.CaloriesEstimate < 0 {
		return input, model.NewInvalidWorkoutError(fmt.Sprintf("無効な推定カロリー: %d", input.CaloriesEstimate))
	}

	input.Description = strings.TrimSpace(s.sanitizer.Sanitize(input.Description))
	input.Difficulty = strings.TrimSpace(s.sanitizer.Sanitize(input.Difficulty))

	return input, nil
}

// Create は入力を検証して新規ワークアウトを作成する。
func (s *Service) Create(ctx context.Context, input Input) (*model.Workout, error) {
	input, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	w := &model.Workout{
		ID:               uuid.New().String(),
		Name:             input.Name,
		Description:      input.Description,
		ActivityType:     input.ActivityType,
		Difficulty:       input.Difficulty,
		Duration:         input.Duration,
		CaloriesEstimate: input.CaloriesEstimate,
	}

	if err := s.workoutRepo.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("ワークアウトの作成に失敗しました: %w", err)
	}

	slog.Info("ワークアウトを作成しました",
		slog.String("workout_id", w.ID),
		slog.String("name", w.Name),
	)

	return w, nil
}

// Get は指定IDのワークアウトを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Workout, error) {
	w, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ワークアウトの取得に失敗しました: %w", err)
	}
	if w == nil {
		return nil, model.NewWorkoutNotFoundError(id)
	}
	return w, nil
}

// List は全ワークアウトを名前順に返す。
func (s *Service) List(ctx context.Context) ([]*model.Workout, error) {
	workouts, err := s.workoutRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ワークアウト一覧の取得に失敗しました: %w", err)
	}
	return workouts, nil
}

// Update は指定IDのワークアウトを更新する。
func (s *Service) Update(ctx context.Context, id string, input Input) (*model.Workout, error) {
	w, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ワークアウトの取得に失敗しました: %w", err)
	}
	if w == nil {
		return nil, model.NewWorkoutNotFoundError(id)
	}

	input, err = s.validate(input)
	if err != nil {
		return nil, err
	}

	w.Name = input.Name
	w.Description = input.Description
	w.ActivityType = input.ActivityType
	w.Difficulty = input.Difficulty
	w.Duration = input.Duration
	w.CaloriesEstimate = input.CaloriesEstimate

	if err := s.workoutRepo.Update(ctx, w); err != nil {
		return nil, fmt.Errorf("ワークアウトの更新に失敗しました: %w", err)
	}

	slog.Info("ワークアウトを更新しました",
		slog.String("workout_id", w.ID),
	)

	return w, nil
}

// Delete は指定IDのワークアウトを削除する。
// 他リソースから参照されないため、影響は当該行のみ。
func (s *Service) Delete(ctx context.Context, id string) error {
	w, err := s.workoutRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ワークアウトの取得に失敗しました: %w", err)
	}
	if w == nil {
		return model.NewWorkoutNotFoundError(id)
	}

	if err := s.workoutRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("ワークアウトの削除に失敗しました: %w", err)
	}

	slog.Info("ワークアウトを削除しました",
		slog.String("workout_id", id),
	)

	return nil
}
