// Package seed はデモ用データセットの投入を提供する。
//
// 投入されるデータは決定的で、2チーム・10ユーザー・ユーザーごとに
// 5件の活動記録・リーダーボード全件・8件のワークアウトからなる。
// 既存データは投入前に全削除される。
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/octofit/internal/model"
	"github.com/hitoshi/octofit/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Recomputer はリーダーボードの再計算インターフェース。
type Recomputer interface {
	Recompute(ctx context.Context) (int, error)
}

// Summary は投入結果の件数サマリー。
type Summary struct {
	Teams              int
	Users              int
	Activities         int
	LeaderboardEntries int
	Workouts           int
}

// Seeder はデモデータの投入処理を行う。
type Seeder struct {
	cleaner      repository.Cleaner
	userRepo     repository.UserRepository
	teamRepo     repository.TeamRepository
	activityRepo repository.ActivityRepository
	workoutRepo  repository.WorkoutRepository
	leaderboard  Recomputer
	demoPassword string
	now          func() time.Time
}

// NewSeeder はSeederを生成する。
// demoPasswordは全デモユーザーに共通で設定される。
// nowがnilの場合はtime.Nowを使用する。
func NewSeeder(
	cleaner repository.Cleaner,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	activityRepo repository.ActivityRepository,
	workoutRepo repository.WorkoutRepository,
	leaderboard Recomputer,
	demoPassword string,
	now func() time.Time,
) *Seeder {
	if now == nil {
		now = time.Now
	}
	return &Seeder{
		cleaner:      cleaner,
		userRepo:     userRepo,
		teamRepo:     teamRepo,
		activityRepo: activityRepo,
		workoutRepo:  workoutRepo,
		leaderboard:  leaderboard,
		demoPassword: demoPassword,
		now:          now,
	}
}

type seedTeam struct {
	name        string
	description string
}

type seedUser struct {
	name  string
	email string
	team  int // seedTeamsのインデックス
}

var seedTeams = []seedTeam{
	{name: "Team Marvel", description: "The mightiest heroes of the Marvel Universe"},
	{name: "Team DC", description: "The legendary heroes of the DC Universe"},
}

var seedUsers = []seedUser{
	{name: "Spider-Man", email: "spiderman@marvel.com", team: 0},
	{name: "Iron Man", email: "ironman@marvel.com", team: 0},
	{name: "Captain America", email: "captainamerica@marvel.com", team: 0},
	{name: "Black Widow", email: "blackwidow@marvel.com", team: 0},
	{name: "Thor", email: "thor@marvel.com", team: 0},
	{name: "Batman", email: "batman@dc.com", team: 1},
	{name: "Superman", email: "superman@dc.com", team: 1},
	{name: "Wonder Woman", email: "wonderwoman@dc.com", team: 1},
	{name: "Flash", email: "flash@dc.com", team: 1},
	{name: "Aquaman", email: "aquaman@dc.com", team: 1},
}

var seedWorkouts = []model.Workout{
	{
		Name:             "Spider Strength Circuit",
		Description:      "Build strength and agility like Spider-Man with bodyweight exercises",
		ActivityType:     model.ActivityTypeWeightTraining,
		Difficulty:       "Intermediate",
		Duration:         45,
		CaloriesEstimate: 400,
	},
	{
		Name:             "Flash Speed Training",
		Description:      "High-intensity interval training to boost speed and endurance",
		ActivityType:     model.ActivityTypeRunning,
		Difficulty:       "Advanced",
		Duration:         30,
		CaloriesEstimate: 500,
	},
	{
		Name:             "Aquaman Swim Challenge",
		Description:      "Master the water with this comprehensive swimming workout",
		ActivityType:     model.ActivityTypeSwimming,
		Difficulty:       "Intermediate",
		Duration:         60,
		CaloriesEstimate: 600,
	},
	{
		Name:             "Captain America Endurance",
		Description:      "Build superhero stamina with long-distance running",
		ActivityType:     model.ActivityTypeRunning,
		Difficulty:       "Beginner",
		Duration:         40,
		CaloriesEstimate: 350,
	},
	{
		Name:             "Black Widow Combat Training",
		Description:      "Martial arts inspired boxing and combat conditioning",
		ActivityType:     model.ActivityTypeBoxing,
		Difficulty:       "Advanced",
		Duration:         50,
		CaloriesEstimate: 550,
	},
	{
		Name:             "Wonder Woman Warrior Flow",
		Description:      "Strength and flexibility yoga routine for warriors",
		ActivityType:     model.ActivityTypeYoga,
		Difficulty:       "Beginner",
		Duration:         35,
		CaloriesEstimate: 250,
	},
	{
		Name:             "Batman Night Patrol Cycling",
		Description:      "Long-distance cycling for vigilante-level endurance",
		ActivityType:     model.ActivityTypeCycling,
		Difficulty:       "Intermediate",
		Duration:         90,
		CaloriesEstimate: 700,
	},
	{
		Name:             "Thor Thunder Power Lift",
		Description:      "Heavy weight training to build godlike strength",
		ActivityType:     model.ActivityTypeWeightTraining,
		Difficulty:       "Advanced",
		Duration:         60,
		CaloriesEstimate: 450,
	},
}

// activitiesPerUser はユーザーごとに投入する活動記録の件数。
const activitiesPerUser = 5

// Run はデモデータを投入し、件数サマリーを返す。
// 既存データの全削除から始まるため、本番環境では実行しないこと。
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	slog.Info("デモデータの投入を開始します")

	if err := s.cleaner.ClearAll(ctx); err != nil {
		return nil, fmt.Errorf("既存データの削除に失敗しました: %w", err)
	}
	slog.Info("既存データを削除しました")

	now := s.now()

	// チーム
	teamIDs := make([]string, len(seedTeams))
	for i, st := range seedTeams {
		t := &model.Team{
			ID:          uuid.New().String(),
			Name:        st.name,
			Description: st.description,
			CreatedAt:   now,
		}
		if err := s.teamRepo.Create(ctx, t); err != nil {
			return nil, fmt.Errorf("チームの作成に失敗しました: %w", err)
		}
		teamIDs[i] = t.ID
	}
	slog.Info("チームを作成しました", slog.Int("count", len(seedTeams)))

	// ユーザー。ハッシュ化は1回だけ行い全ユーザーで共有する。
	hash, err := bcrypt.GenerateFromPassword([]byte(s.demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	users := make([]*model.User, len(seedUsers))
	for i, su := range seedUsers {
		u := &model.User{
			ID:           uuid.New().String(),
			Name:         su.name,
			Email:        su.email,
			PasswordHash: string(hash),
			TeamID:       teamIDs[su.team],
			CreatedAt:    now,
		}
		if err := s.userRepo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
		}
		users[i] = u
	}
	slog.Info("ユーザーを作成しました", slog.Int("count", len(users)))

	// 活動記録。種目は循環、時間は30分から10分刻み、カロリーは時間の8倍。
	activityCount := 0
	for _, u := range users {
		for i := 0; i < activitiesPerUser; i++ {
			activityType := model.DefaultActivityTypes[i%len(model.DefaultActivityTypes)]
			duration := 30 + i*10
			a := &model.Activity{
				ID:             uuid.New().String(),
				UserID:         u.ID,
				ActivityType:   activityType,
				Duration:       duration,
				CaloriesBurned: duration * 8,
				Date:           now.AddDate(0, 0, -i),
				Notes:          fmt.Sprintf("%s's %s session", u.Name, strings.ToLower(activityType)),
			}
			if err := s.activityRepo.Create(ctx, a); err != nil {
				return nil, fmt.Errorf("活動記録の作成に失敗しました: %w", err)
			}
			activityCount++
		}
	}
	slog.Info("活動記録を作成しました", slog.Int("count", activityCount))

	// リーダーボードは通常の再計算経路で生成する
	entryCount, err := s.leaderboard.Recompute(ctx)
	if err != nil {
		return nil, fmt.Errorf("リーダーボードの再計算に失敗しました: %w", err)
	}
	slog.Info("リーダーボードを生成しました", slog.Int("count", entryCount))

	// ワークアウト
	for _, sw := range seedWorkouts {
		w := sw
		w.ID = uuid.New().String()
		if err := s.workoutRepo.Create(ctx, &w); err != nil {
			return nil, fmt.Errorf("ワークアウトの作成に失敗しました: %w", err)
		}
	}
	slog.Info("ワークアウトを作成しました", slog.Int("count", len(seedWorkouts)))

	summary := &Summary{
		Teams:              len(seedTeams),
		Users:              len(users),
		Activities:         activityCount,
		LeaderboardEntries: entryCount,
		Workouts:           len(seedWorkouts),
	}

	slog.Info("デモデータの投入が完了しました",
		slog.Int("teams", summary.Teams),
		slog.Int("users", summary.Users),
		slog.Int("activities", summary.Activities),
		slog.Int("leaderboard_entries", summary.LeaderboardEntries),
		slog.Int("workouts", summary.Workouts),
	)

	return summary, nil
}
