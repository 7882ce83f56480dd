package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты попыток доставки.
const (
	ResultDelivered    = "delivered"
	ResultFailed       = "failed"
	ResultSkipped      = "skipped"
	ResultNotDelivered = "not_delivered"
)

// Notification содержит счётчики отправки уведомлений.
type Notification struct {
	Attempts *prometheus.CounterVec
	Dispatch *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewNotification регистрирует счётчики уведомлений в reg.
func NewNotification(reg prometheus.Registerer) *Notification {
	f := promauto.With(reg)
	return &Notification{
		Attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_attempts_total",
			Help: "Попытки отправки уведомления по каналам",
		}, []string{"channel", "result"}),
		Dispatch: f.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_dispatch_total",
			Help: "Итог отправки уведомления",
		}, []string{"result"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "notification_attempt_duration_seconds",
			Help:    "Длительность одной попытки отправки",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),
	}
}

// HTTP содержит метрики HTTP запросов.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP регистрирует метрики HTTP запросов в reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	f := promauto.With(reg)
	return &HTTP{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Количество HTTP запросов",
		}, []string{"method", "route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Длительность обработки HTTP запросов",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Middleware собирает метрики по каждому запросу. Маршрут берётся из шаблона gin,
// чтобы идентификаторы не раздували кардинальность.
func (m *HTTP) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.Duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
