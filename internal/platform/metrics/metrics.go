// Package metrics exposes Prometheus metrics for HTTP traffic and provider calls.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Time taken to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// 外部プロバイダ
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "Total number of market data provider calls by outcome",
	}, []string{"operation", "outcome"})

	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Time taken for market data provider calls",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation"})
)

// Middleware はリクエスト数とレイテンシを記録します。
// route はマッチしたルートパターン (例: /api/v1/stocks/:symbol/price) で、未マッチは "unmatched" です。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler は /metrics 用のハンドラーです。
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// ObserveProvider は1回のプロバイダ呼び出しを記録します。
func ObserveProvider(operation, outcome string, d time.Duration) {
	ProviderRequestsTotal.WithLabelValues(operation, outcome).Inc()
	ProviderDuration.WithLabelValues(operation).Observe(d.Seconds())
}
