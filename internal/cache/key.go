package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/records-api/internal/domain"
)

type Operation string

const (
	OperationStats      Operation = "stats"
	OperationAggregate  Operation = "aggregate"
	OperationTimeSeries Operation = "timeseries"
)

// Key identifica um resultado em cache. Campos não usados pela operação ficam com o valor zero.
type Key struct {
	Operation Operation
	GroupBy   domain.GroupBy
	Frequency domain.Frequency
	Category  string
	From      int64 // unix nano; 0 quando ausente
	To        int64
	Days      int
	Window    int
}

func StatsKey() Key {
	return Key{Operation: OperationStats}
}

func AggregateKey(groupBy domain.GroupBy, filter domain.RecordFilter) Key {
	key := Key{Operation: OperationAggregate, GroupBy: groupBy}
	key.withFilter(filter)
	return key
}

func TimeSeriesKey(freq domain.Frequency, filter domain.RecordFilter, days, window int) Key {
	key := Key{Operation: OperationTimeSeries, Frequency: freq, Days: days, Window: window}
	key.withFilter(filter)
	return key
}

func (k *Key) withFilter(filter domain.RecordFilter) {
	k.Category = filter.Category
	k.From = unixNano(filter.From)
	k.To = unixNano(filter.To)
}

func unixNano(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}

// String gera uma representação sem ambiguidade, usada como chave do singleflight
func (k Key) String() string {
	parts := []string{
		string(k.Operation),
		string(k.GroupBy),
		string(k.Frequency),
		strconv.Quote(k.Category),
		strconv.FormatInt(k.From, 10),
		strconv.FormatInt(k.To, 10),
		strconv.Itoa(k.Days),
		strconv.Itoa(k.Window),
	}
	return strings.Join(parts, "|")
}
