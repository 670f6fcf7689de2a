package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 服务指标集合
type Metrics struct {
	httpDuration  *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec
	jobResults    *prometheus.CounterVec
	upstreamCalls *prometheus.CounterVec
	ordersCreated prometheus.Counter
}

// New 在 reg 上注册指标；reg 为 nil 时返回空实现
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ramus",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ramus",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ramus",
			Name:      "job_duration_seconds",
			Help:      "Duration of background jobs in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		jobResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ramus",
			Name:      "job_results_total",
			Help:      "Background job executions by result.",
		}, []string{"job", "result"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ramus",
			Name:      "upstream_calls_total",
			Help:      "Calls to carrier, payment and chat providers.",
		}, []string{"provider", "operation", "result"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ramus",
			Name:      "orders_created_total",
			Help:      "Orders created by buyers.",
		}),
	}
	reg.MustRegister(m.httpDuration, m.httpRequests, m.jobDuration, m.jobResults, m.upstreamCalls, m.ordersCreated)
	return m
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveJob 记录一次后台任务执行
func (m *Metrics) ObserveJob(job string, duration time.Duration, err error) {
	if m == nil || m.jobDuration == nil {
		return
	}
	job = normalizeLabel(job)
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	m.jobResults.WithLabelValues(job, resultLabel(err)).Inc()
}

// ObserveUpstream 记录一次外部服务调用
func (m *Metrics) ObserveUpstream(provider, operation string, err error) {
	if m == nil || m.upstreamCalls == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(normalizeLabel(provider), normalizeLabel(operation), resultLabel(err)).Inc()
}

// IncOrdersCreated 订单创建计数
func (m *Metrics) IncOrdersCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
