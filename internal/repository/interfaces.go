// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/octofit/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// List は全ユーザーを作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// Update はユーザーの表示名・メールアドレス・所属チームを更新する。
	Update(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 活動記録やリーダーボード行へのカスケードは行わない（弱参照のため）。
	DeleteByID(ctx context.Context, id string) error

	// CountByTeamID は指定チームに所属するユーザー数を返す。
	CountByTeamID(ctx context.Context, teamID string) (int, error)
}

// TeamRepository はチームデータの永続化インターフェース。
type TeamRepository interface {
	// FindByID は指定IDのチームを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Team, error)

	// List は全チームを作成日時の昇順で返す。
	List(ctx context.Context) ([]*model.Team, error)

	// Create はチームを作成する。
	Create(ctx context.Context, team *model.Team) error

	// Update はチームの名前と説明を更新する。
	Update(ctx context.Context, team *model.Team) error

	// DeleteByID は指定IDのチームを削除する。
	// メンバーのUser.TeamIDは更新しない（宙吊りの弱参照を許容する）。
	DeleteByID(ctx context.Context, id string) error
}

// ActivityRepository は活動記録データの永続化インターフェース。
// 活動記録は作成後イミュータブルであり、Updateは提供しない。
type ActivityRepository interface {
	// FindByID は指定IDの活動記録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Activity, error)

	// List は全活動記録を実施日時の降順で返す。
	List(ctx context.Context) ([]*model.Activity, error)

	// ListByUserID は指定ユーザーの活動記録を実施日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Activity, error)

	// Create は活動記録を作成する。
	Create(ctx context.Context, activity *model.Activity) error

	// DeleteByID は指定IDの活動記録を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// LeaderboardRepository はリーダーボードスナップショットの永続化インターフェース。
type LeaderboardRepository interface {
	// List は全エントリをランクの昇順で返す。
	List(ctx context.Context) ([]*model.LeaderboardEntry, error)

	// ReplaceAll はスナップショット全体を単一トランザクションで置き換える。
	// 旧スナップショットの全削除と新エントリの全挿入をアトミックに行い、
	// 新旧が混在した状態を外部に観測させない。
	ReplaceAll(ctx context.Context, entries []*model.LeaderboardEntry) error
}

// WorkoutRepository はワークアウトカタログの永続化インターフェース。
type WorkoutRepository interface {
	// FindByID は指定IDのワークアウトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Workout, error)

	// List は全ワークアウトを名前の昇順で返す。
	List(ctx context.Context) ([]*model.Workout, error)

	// Create はワークアウトを作成する。
	Create(ctx context.Context, workout *model.Workout) error

	// Update はワークアウトを上書き更新する。
	Update(ctx context.Context, workout *model.Workout) error

	// DeleteByID は指定IDのワークアウトを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Cleaner は全テーブルの一括削除インターフェース。
// デモデータ投入の前処理で使用する。
type Cleaner interface {
	// ClearAll は全リソースのデータを単一トランザクションで削除する。
	ClearAll(ctx context.Context) error
}
