// Package metrics 提供基于Prometheus的指标收集
//
// 指标分两类：
//   - HTTP指标：请求总数、耗时、处理中请求数，由middleware.Metrics记录
//   - 业务指标：图书写操作、关系Upsert结果、领域事件发布，由application层记录
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值（method、route模板、status、op、result），
// 不要把book_id、user_id这类高基数值作为标签。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.IncCounterVec(metrics.BookOperationsTotal, map[string]string{
//	    "op":     "create",
//	    "result": "success",
//	})
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// BookOperationsTotal 图书写操作总数
	// 标签：op（create/replace/patch/delete）、result（success/forbidden/not_found/invalid/error）
	BookOperationsTotal *prometheus.CounterVec

	// RelationUpsertsTotal 关系Upsert总数
	// 标签：result（created/updated/error），retried（true/false，是否发生唯一索引冲突重试）
	RelationUpsertsTotal *prometheus.CounterVec

	// EventsPublishedTotal 领域事件发布总数
	// 标签：routing_key、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化并注册所有指标到默认Registry，可重复调用
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms ~ 10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BookOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_book_operations_total",
				Help: "图书写操作总数",
			},
			[]string{"op", "result"},
		)

		RelationUpsertsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_relation_upserts_total",
				Help: "用户-图书关系Upsert总数",
			},
			[]string{"result", "retried"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_events_published_total",
				Help: "领域事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// IncCounterVec 递增CounterVec（带标签）
// 未调用InitMetrics时（如单元测试）静默跳过
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Inc()
	}
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge != nil {
		gauge.Dec()
	}
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
