// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ワーカーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordRecomputeSuccess()
	RecordRecomputeFailure()
	RecordRecomputeDuration(duration time.Duration)
	RecordEntriesReplaced(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
	recomputeSuccess  prometheus.Counter
	recomputeFail     prometheus.Counter
	recomputeDuration prometheus.Histogram
	entriesReplaced   prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "octofit_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "octofit_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		recomputeSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "octofit_leaderboard_recompute_success_total",
			Help: "リーダーボード再計算成功の合計数",
		}),
		recomputeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "octofit_leaderboard_recompute_fail_total",
			Help: "リーダーボード再計算失敗の合計数",
		}),
		recomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "octofit_leaderboard_recompute_duration_seconds",
			Help:    "リーダーボード再計算の所要時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		entriesReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "octofit_leaderboard_entries_replaced_total",
			Help: "置き換えられたリーダーボードエントリの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.recomputeSuccess,
		c.recomputeFail,
		c.recomputeDuration,
		c.entriesReplaced,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordRecomputeSuccess は再計算成功を記録する。
func (c *Collector) RecordRecomputeSuccess() {
	c.recomputeSuccess.Inc()
}

// RecordRecomputeFailure は再計算失敗を記録する。
func (c *Collector) RecordRecomputeFailure() {
	c.recomputeFail.Inc()
}

// RecordRecomputeDuration は再計算の所要時間を記録する。
func (c *Collector) RecordRecomputeDuration(duration time.Duration) {
	c.recomputeDuration.Observe(duration.Seconds())
}

// RecordEntriesReplaced は置き換えられたエントリ数を記録する。
func (c *Collector) RecordEntriesReplaced(count int) {
	c.entriesReplaced.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
