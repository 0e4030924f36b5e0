package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "records_api"

var (
	cacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Consultas ao cache de resultados, por resultado (hit ou miss).",
	}, []string{"result"})
	cacheInvalidations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Quantidade de invalidações completas do cache.",
	})
	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Entradas atualmente armazenadas no cache.",
	})
	cachePurged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "purged_entries_total",
		Help:      "Entradas expiradas removidas pela limpeza periódica.",
	})
	recordsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "records",
		Name:      "ingested_total",
		Help:      "Registros gravados, por origem da ingestão.",
	}, []string{"source"})
	exportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "exports",
		Name:      "generated_total",
		Help:      "Exportações geradas, por formato.",
	}, []string{"format"})
	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duração das requisições HTTP, por método e status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		cacheRequests,
		cacheInvalidations,
		cacheEntries,
		cachePurged,
		recordsIngested,
		exportsGenerated,
		httpRequestDuration,
	)
}

func RecordCacheHit() {
	cacheRequests.WithLabelValues("hit").Inc()
}

func RecordCacheMiss() {
	cacheRequests.WithLabelValues("miss").Inc()
}

func RecordCacheInvalidation() {
	cacheInvalidations.Inc()
}

func SetCacheEntries(n int) {
	cacheEntries.Set(float64(n))
}

// RecordCachePurge contabiliza entradas removidas por expiração
func RecordCachePurge(n int) {
	if n <= 0 {
		return
	}
	cachePurged.Add(float64(n))
}

// RecordIngested contabiliza registros gravados; source é single, bulk ou csv
func RecordIngested(source string, n int) {
	if n <= 0 {
		return
	}
	recordsIngested.WithLabelValues(source).Add(float64(n))
}

func RecordExport(format string) {
	exportsGenerated.WithLabelValues(format).Inc()
}

func ObserveHTTPRequest(method string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
