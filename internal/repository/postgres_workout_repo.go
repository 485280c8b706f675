package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/octofit/internal/model"
)

// PostgresWorkoutRepo はPostgreSQLを使用したワークアウトリポジトリ。
type PostgresWorkoutRepo struct {
	db *sql.DB
}

// NewPostgresWorkoutRepo はPostgresWorkoutRepoを生成する。
func NewPostgresWorkoutRepo(db *sql.DB) *PostgresWorkoutRepo {
	return &PostgresWorkoutRepo{db: db}
}

// FindByID は指定IDのワークアウトを取得する。見つからない場合はnilを返す。
func (r *PostgresWorkoutRepo) FindByID(ctx context.Context, id string) (*model.Workout, error) {
	workout := &model.Workout{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, activity_type, difficulty, duration, calories_estimate
		 FROM workouts WHERE id = $1`,
		id,
	).Scan(&workout.ID, &workout.Name, &workout.Description, &workout.ActivityType,
		&workout.Difficulty, &workout.Duration, &workout.CaloriesEstimate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find workout by ID: %w", err)
	}

	return workout, nil
}

// List は全ワークアウトを名前の昇順で返す。
func (r *PostgresWorkoutRepo) List(ctx context.Context) ([]*model.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, activity_type, difficulty, duration, calories_estimate
		 FROM workouts ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*model.Workout
	for rows.Next() {
		workout := &model.Workout{}
		if err := rows.Scan(&workout.ID, &workout.Name, &workout.Description, &workout.ActivityType,
			&workout.Difficulty, &workout.Duration, &workout.CaloriesEstimate); err != nil {
			return nil, fmt.Errorf("failed to scan workout row: %w", err)
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workout rows: %w", err)
	}

	return workouts, nil
}

// Create はワークアウトを作成する。
func (r *PostgresWorkoutRepo) Create(ctx context.Context, workout *model.Workout) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workouts (id, name, description, activity_type, difficulty, duration, calories_estimate)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		workout.ID, workout.Name, workout.Description, workout.ActivityType,
		workout.Difficulty, workout.Duration, workout.CaloriesEstimate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert workout: %w", err)
	}
	return nil
}

// Update はワークアウトを上書き更新する。
func (r *PostgresWorkoutRepo) Update(ctx context.Context, workout *model.Workout) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE workouts SET name = $2, description = $3, activity_type = $4,
		 difficulty = $5, duration = $6, calories_estimate = $7 WHERE id = $1`,
		workout.ID, workout.Name, workout.Description, workout.ActivityType,
		workout.Difficulty, workout.Duration, workout.CaloriesEstimate,
	)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("workout not found: %s", workout.ID)
	}
	return nil
}

// DeleteByID は指定IDのワークアウトを削除する。
func (r *PostgresWorkoutRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM workouts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("workout not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ WorkoutRepository = (*PostgresWorkoutRepo)(nil)
