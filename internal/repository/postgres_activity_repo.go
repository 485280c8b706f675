package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/octofit/internal/model"
)

// PostgresActivityRepo はPostgreSQLを使用した活動記録リポジトリ。
type PostgresActivityRepo struct {
	db *sql.DB
}

// NewPostgresActivityRepo はPostgresActivityRepoを生成する。
func NewPostgresActivityRepo(db *sql.DB) *PostgresActivityRepo {
	return &PostgresActivityRepo{db: db}
}

// FindByID は指定IDの活動記録を取得する。見つからない場合はnilを返す。
func (r *PostgresActivityRepo) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	activity := &model.Activity{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, activity_type, duration, calories_burned, date, notes
		 FROM activities WHERE id = $1`,
		id,
	).Scan(&activity.ID, &activity.UserID, &activity.ActivityType,
		&activity.Duration, &activity.CaloriesBurned, &activity.Date, &activity.Notes)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find activity by ID: %w", err)
	}

	return activity, nil
}

// List は全活動記録を実施日時の降順で返す。
func (r *PostgresActivityRepo) List(ctx context.Context) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, activity_type, duration, calories_burned, date, notes
		 FROM activities ORDER BY date DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListByUserID は指定ユーザーの活動記録を実施日時の降順で返す。
func (r *PostgresActivityRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, activity_type, duration, calories_burned, date, notes
		 FROM activities WHERE user_id = $1 ORDER BY date DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities by user: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// Create は活動記録を作成する。
func (r *PostgresActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, activity_type, duration, calories_burned, date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		activity.ID, activity.UserID, activity.ActivityType,
		activity.Duration, activity.CaloriesBurned, activity.Date, activity.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの活動記録を削除する。
func (r *PostgresActivityRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activities WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("activity not found: %s", id)
	}
	return nil
}

// scanActivities は活動記録の行セットをスキャンする。
func scanActivities(rows *sql.Rows) ([]*model.Activity, error) {
	var activities []*model.Activity
	for rows.Next() {
		activity := &model.Activity{}
		if err := rows.Scan(&activity.ID, &activity.UserID, &activity.ActivityType,
			&activity.Duration, &activity.CaloriesBurned, &activity.Date, &activity.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity rows: %w", err)
	}
	return activities, nil
}

// compile-time interface check
var _ ActivityRepository = (*PostgresActivityRepo)(nil)
