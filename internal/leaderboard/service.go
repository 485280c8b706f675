package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/repository"
)

// EntryInfo はリーダーボードエントリに表示用の導出情報を付加した構造体。
// UserNameとTeamNameは読み取り時に弱参照を解決した結果であり、
// 解決できない場合はそれぞれセンチネル値（"Unknown User"）とnilになる。
// TotalPointsも読み取り時に毎回導出される。
type EntryInfo struct {
	model.LeaderboardEntry
	UserName    string
	TeamName    *string
	TotalPoints int
	Period      string
}

// Service はリーダーボードのサービス層。
// 再計算（compute-and-replace）と読み取り時のエンリッチを提供する。
// 再計算はスナップショットの単一ライター規律を前提としており、
// 同一スナップショットへの並行再計算は呼び出し側が避けること。
type Service struct {
	userRepo        repository.UserRepository
	teamRepo        repository.TeamRepository
	activityRepo    repository.ActivityRepository
	leaderboardRepo repository.LeaderboardRepository
	now             func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// nowがnilの場合はtime.Nowを使用する。
func NewService(
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	activityRepo repository.ActivityRepository,
	leaderboardRepo repository.LeaderboardRepository,
	now func() time.Time,
) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		userRepo:        userRepo,
		teamRepo:        teamRepo,
		activityRepo:    activityRepo,
		leaderboardRepo: leaderboardRepo,
		now:             now,
	}
}

// Recompute は全ユーザーと全活動記録を読み込み、ランクを再計算して
// スナップショット全体をアトミックに置き換える。
// 置き換えたエントリ数を返す。
func (s *Service) Recompute(ctx context.Context) (int, error) {
	start := s.now()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}

	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("活動記録一覧の取得に失敗しました: %w", err)
	}

	entries := Compute(users, activities, start)
	for _, entry := range entries {
		entry.ID = uuid.New().String()
	}

	if err := s.leaderboardRepo.ReplaceAll(ctx, entries); err != nil {
		return 0, fmt.Errorf("リーダーボードの置き換えに失敗しました: %w", err)
	}

	slog.Info("リーダーボードを再計算しました",
		slog.Int("entries", len(entries)),
		slog.Int("users", len(users)),
		slog.Int("activities", len(activities)),
		slog.Duration("duration", s.now().Sub(start)),
	)

	return len(entries), nil
}

// List は現在のスナップショットをランク順に、表示用の導出情報付きで返す。
// ユーザー名・チーム名の解決に失敗したエントリもセンチネル値で返し、
// 参照切れ1件のために全体を失敗させない。
func (s *Service) List(ctx context.Context) ([]EntryInfo, error) {
	entries, err := s.leaderboardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("リーダーボードの取得に失敗しました: %w", err)
	}

	userNames, err := s.userNamesByID(ctx)
	if err != nil {
		return nil, err
	}
	teamNames, err := s.teamNamesByID(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]EntryInfo, len(entries))
	for i, entry := range entries {
		info := EntryInfo{
			LeaderboardEntry: *entry,
			UserName:         model.UnknownUserName,
			TotalPoints:      TotalPoints(entry),
			Period:           model.LeaderboardPeriod,
		}
		if name, ok := userNames[entry.UserID]; ok {
			info.UserName = name
		}
		if entry.TeamID != "" {
			if name, ok := teamNames[entry.TeamID]; ok {
				info.TeamName = &name
			}
		}
		infos[i] = info
	}

	return infos, nil
}

// userNamesByID は全ユーザーのID→表示名マップを返す。
func (s *Service) userNamesByID(ctx context.Context) (map[string]string, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// teamNamesByID は全チームのID→名前マップを返す。
func (s *Service) teamNamesByID(ctx context.Context) (map[string]string, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("チーム一覧の取得に失敗しました: %w", err)
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}
