// Package recompute はリーダーボードの定期再計算ジョブを提供する。
// 活動記録の作成や削除は即座にはリーダーボードへ反映されないため、
// 本ジョブが一定間隔でスナップショット全体を置き換える。
package recompute

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/octofit/internal/metrics"
)

// Recomputer はリーダーボードの再計算インターフェース。
type Recomputer interface {
	Recompute(ctx context.Context) (int, error)
}

// Job はリーダーボード再計算の定期実行ジョブ。
// 冪等: 同一データに対する再実行は同一のスナップショットを生む。
type Job struct {
	service   Recomputer
	collector metrics.MetricsCollector
	logger    *slog.Logger
	Interval  time.Duration
}

// NewJob は新しいJobを生成する。
// collectorはnilを許容する（メトリクスなしで動作する）。
func NewJob(service Recomputer, collector metrics.MetricsCollector, logger *slog.Logger, interval time.Duration) *Job {
	return &Job{
		service:   service,
		collector: collector,
		logger:    logger,
		Interval:  interval,
	}
}

// RunOnce は再計算を1回実行する。
func (j *Job) RunOnce(ctx context.Context) error {
	start := time.Now()

	count, err := j.service.Recompute(ctx)
	duration := time.Since(start)

	if j.collector != nil {
		j.collector.RecordRecomputeDuration(duration)
	}

	if err != nil {
		if j.collector != nil {
			j.collector.RecordRecomputeFailure()
		}
		j.logger.Error("リーダーボード再計算ジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return err
	}

	if j.collector != nil {
		j.collector.RecordRecomputeSuccess()
		j.collector.RecordEntriesReplaced(count)
	}
	j.logger.Info("リーダーボード再計算ジョブが完了しました",
		slog.Int("entries_replaced", count),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// Start は起動直後に1回実行し、以後Interval間隔で再計算を繰り返す。
// コンテキストのキャンセルで停止する。個々の実行の失敗はログに残し、
// ループ自体は継続する。
func (j *Job) Start(ctx context.Context) {
	j.logger.Info("リーダーボード再計算ワーカーを開始します",
		slog.Duration("interval", j.Interval),
	)

	if err := j.RunOnce(ctx); err != nil && ctx.Err() != nil {
		return
	}

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.RunOnce(ctx); err != nil && ctx.Err() != nil {
				return
			}
		case <-ctx.Done():
			j.logger.Info("リーダーボード再計算ワーカーを停止します")
			return
		}
	}
}
