package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/octofit/internal/model"
)

// PostgresLeaderboardRepo はPostgreSQLを使用したリーダーボードリポジトリ。
type PostgresLeaderboardRepo struct {
	db *sql.DB
}

// NewPostgresLeaderboardRepo はPostgresLeaderboardRepoを生成する。
func NewPostgresLeaderboardRepo(db *sql.DB) *PostgresLeaderboardRepo {
	return &PostgresLeaderboardRepo{db: db}
}

// List は全エントリをランクの昇順で返す。
func (r *PostgresLeaderboardRepo) List(ctx context.Context) ([]*model.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, team_id, total_activities, total_calories, total_duration, rank, updated_at
		 FROM leaderboard ORDER BY rank`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}
	defer rows.Close()

	var entries []*model.LeaderboardEntry
	for rows.Next() {
		entry := &model.LeaderboardEntry{}
		var teamID sql.NullString
		if err := rows.Scan(&entry.ID, &entry.UserID, &teamID,
			&entry.TotalActivities, &entry.TotalCalories, &entry.TotalDuration,
			&entry.Rank, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entry.TeamID = teamID.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard rows: %w", err)
	}

	return entries, nil
}

// ReplaceAll はスナップショット全体を単一トランザクションで置き換える。
// 全削除と全挿入を同一トランザクションで行うため、読み取り側が
// 新旧の混在したスナップショットを観測することはない。
func (r *PostgresLeaderboardRepo) ReplaceAll(ctx context.Context, entries []*model.LeaderboardEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 旧スナップショットを破棄
	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard`); err != nil {
		return fmt.Errorf("failed to clear leaderboard: %w", err)
	}

	// 新スナップショットを挿入
	for _, entry := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO leaderboard (id, user_id, team_id, total_activities, total_calories, total_duration, rank, updated_at)
			 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`,
			entry.ID, entry.UserID, entry.TeamID,
			entry.TotalActivities, entry.TotalCalories, entry.TotalDuration,
			entry.Rank, entry.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ LeaderboardRepository = (*PostgresLeaderboardRepo)(nil)
