package observability

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngested(t *testing.T) {
	before := testutil.ToFloat64(recordsIngested.WithLabelValues("csv"))

	RecordIngested("csv", 3)
	RecordIngested("csv", 0)

	assert.Equal(t, before+3, testutil.ToFloat64(recordsIngested.WithLabelValues("csv")))
}

func TestCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(cacheRequests.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheRequests.WithLabelValues("miss"))

	RecordCacheHit()
	RecordCacheMiss()
	RecordCacheMiss()
	SetCacheEntries(4)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheRequests.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheRequests.WithLabelValues("miss")))
	assert.Equal(t, float64(4), testutil.ToFloat64(cacheEntries))
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest(http.MethodGet, http.StatusOK, 20*time.Millisecond)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpRequestDuration), 1)
}
