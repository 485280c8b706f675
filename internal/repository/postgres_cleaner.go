package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresCleaner はCleanerのPostgreSQL実装。
type PostgresCleaner struct {
	db *sql.DB
}

// NewPostgresCleaner はPostgresCleanerを生成する。
func NewPostgresCleaner(db *sql.DB) *PostgresCleaner {
	return &PostgresCleaner{db: db}
}

var _ Cleaner = (*PostgresCleaner)(nil)

// ClearAll は全リソースのデータを単一トランザクションで削除する。
// 外部キー制約を持たないため削除順序に依存しないが、
// 参照する側から消す順に揃えている。
func (r *PostgresCleaner) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tables := []string{"leaderboard", "activities", "users", "teams", "workouts"}
	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
