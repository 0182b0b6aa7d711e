package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/speaking-practice-backend/internal/platform/envutil"
	"github.com/yungbote/speaking-practice-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	transcriptions       *CounterVec
	transcriptionLatency *HistogramVec
	scoring              *CounterVec
	scoringLatency       *HistogramVec
	submissions          *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second)
}

// Init builds the process-wide metrics registry. It returns nil when metrics are disabled;
// every Metrics method is safe on a nil receiver.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	latencyBuckets := []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}
	remoteBuckets := []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120}
	return &Metrics{
		apiRequests: NewCounterVec("sp_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("sp_api_request_duration_seconds", "API request latency in seconds by method/route/status.", []string{"method", "route", "status"}, latencyBuckets),
		apiInflight: NewGauge("sp_api_inflight_requests", "In-flight API requests."),

		aggregateOps:       NewCounterVec("sp_aggregate_operations_total", "Aggregate write attempts by operation/status.", []string{"op", "status"}),
		aggregateLatency:   NewHistogramVec("sp_aggregate_operation_duration_seconds", "Aggregate write attempt latency.", []string{"op", "status"}, latencyBuckets),
		aggregateConflicts: NewCounterVec("sp_aggregate_conflicts_total", "Aggregate write conflicts by operation.", []string{"op"}),
		aggregateRetries:   NewCounterVec("sp_aggregate_retries_total", "Retryable aggregate write failures by operation.", []string{"op"}),

		transcriptions:       NewCounterVec("sp_transcriptions_total", "Transcription attempts by provider/status.", []string{"method", "status"}),
		transcriptionLatency: NewHistogramVec("sp_transcription_duration_seconds", "Transcription provider latency.", []string{"method", "status"}, remoteBuckets),
		scoring:              NewCounterVec("sp_scoring_requests_total", "Scoring backend calls by status.", []string{"status"}),
		scoringLatency:       NewHistogramVec("sp_scoring_duration_seconds", "Scoring backend latency.", []string{"status"}, remoteBuckets),
		submissions:          NewCounterVec("sp_submissions_total", "Committed submissions by category/assessment status.", []string{"category", "assessment"}),

		dbStats:   NewGaugeVec("sp_db_pool_stats", "database/sql pool statistics.", []string{"stat"}),
		redisUp:   NewGauge("sp_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("sp_redis_ping_seconds", "Latest redis ping latency."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.transcriptions, m.transcriptionLatency, m.scoring, m.scoringLatency, m.submissions,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	op = orUnknown(op)
	status = orUnknown(status)
	m.aggregateOps.Inc(op, status)
	if dur > 0 {
		m.aggregateLatency.Observe(dur.Seconds(), op, status)
	}
}

func (m *Metrics) IncAggregateConflict(op string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(orUnknown(op))
}

func (m *Metrics) IncAggregateRetry(op string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(orUnknown(op))
}

func (m *Metrics) ObserveTranscription(method, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orUnknown(method)
	status = orUnknown(status)
	m.transcriptions.Inc(method, status)
	if dur > 0 {
		m.transcriptionLatency.Observe(dur.Seconds(), method, status)
	}
}

func (m *Metrics) ObserveScoring(status string, dur time.Duration) {
	if m == nil {
		return
	}
	status = orUnknown(status)
	m.scoring.Inc(status)
	if dur > 0 {
		m.scoringLatency.Observe(dur.Seconds(), status)
	}
}

func (m *Metrics) IncSubmission(category, assessment string) {
	if m == nil {
		return
	}
	m.submissions.Inc(orUnknown(category), orUnknown(assessment))
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings the lock store on an interval. The client is owned by the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
