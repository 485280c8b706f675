package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/octofit/internal/middleware"
)

// DBPinger はヘルスチェックで使用するデータベース疎通確認のインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 運用エンドポイント
	DB               DBPinger
	MetricsHandler   http.Handler
	MetricsCollector middleware.MetricsRecorder

	// ドメインサービス
	UserService        UserServiceInterface
	TeamService        TeamServiceInterface
	ActivityService    ActivityServiceInterface
	LeaderboardService LeaderboardServiceInterface
	WorkoutService     WorkoutServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → RateLimit(General)
//
// 書き込み系エンドポイントには追加でRateLimit(Mutation)が適用される。
// /healthと/metricsはレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.MetricsCollector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsCollector))
	}

	userHandler := NewUserHandler(deps.UserService)
	teamHandler := NewTeamHandler(deps.TeamService)
	activityHandler := NewActivityHandler(deps.ActivityService)
	leaderboardHandler := NewLeaderboardHandler(deps.LeaderboardService)
	workoutHandler := NewWorkoutHandler(deps.WorkoutService)

	// --- 運用エンドポイント（レート制限の対象外） ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- APIルート ---
	// ミドルウェアスタック: RateLimit(General) → RateLimit(Mutation)
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
			r.Use(deps.RateLimiter.MutationMiddleware())
		}

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Put("/", userHandler.UpdateUser)
				r.Delete("/", userHandler.DeleteUser)
			})
		})

		// チーム管理
		r.Route("/api/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListTeams)
			r.Post("/", teamHandler.CreateTeam)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", teamHandler.GetTeam)
				r.Put("/", teamHandler.UpdateTeam)
				r.Delete("/", teamHandler.DeleteTeam)
			})
		})

		// 活動記録（更新なし）
		r.Route("/api/activities", func(r chi.Router) {
			r.Get("/", activityHandler.ListActivities)
			r.Post("/", activityHandler.CreateActivity)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", activityHandler.GetActivity)
				r.Delete("/", activityHandler.DeleteActivity)
			})
		})

		// リーダーボード
		r.Route("/api/leaderboard", func(r chi.Router) {
			r.Get("/", leaderboardHandler.ListEntries)
			r.Post("/recompute", leaderboardHandler.Recompute)
		})

		// ワークアウトカタログ
		r.Route("/api/workouts", func(r chi.Router) {
			r.Get("/", workoutHandler.ListWorkouts)
			r.Post("/", workoutHandler.CreateWorkout)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", workoutHandler.GetWorkout)
				r.Put("/", workoutHandler.UpdateWorkout)
				r.Delete("/", workoutHandler.DeleteWorkout)
			})
		})
	})

	return r
}
