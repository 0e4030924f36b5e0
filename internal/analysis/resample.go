package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/records-api/internal/domain"
)

// ParseFrequency aceita hour, day, week e month, além dos apelidos H, D, W e M
func ParseFrequency(value string) (domain.Frequency, error) {
	switch strings.TrimSpace(value) {
	case "", "D", "d", "day", "DAY", "Day":
		return domain.FrequencyDay, nil
	case "H", "h", "hour", "HOUR", "Hour":
		return domain.FrequencyHour, nil
	case "W", "w", "week", "WEEK", "Week":
		return domain.FrequencyWeek, nil
	case "M", "month", "MONTH", "Month":
		return domain.FrequencyMonth, nil
	default:
		return "", newInvalidParameter("freq", value, "valores aceitos: hour, day, week, month")
	}
}

// PeriodStart trunca o instante para o início do período em UTC.
// Semanas começam na segunda-feira 00:00 e meses no dia 1 às 00:00.
func PeriodStart(t time.Time, freq domain.Frequency) (time.Time, error) {
	t = t.UTC()
	switch freq {
	case domain.FrequencyHour:
		return t.Truncate(time.Hour), nil
	case domain.FrequencyDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	case domain.FrequencyWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return time.Date(t.Year(), t.Month(), t.Day()-(weekday-1), 0, 0, 0, 0, time.UTC), nil
	case domain.FrequencyMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, newInvalidParameter("freq", string(freq), "valores aceitos: hour, day, week, month")
	}
}

// MaxBuckets limita o tamanho de uma série densa; cerca de onze anos em base horária
const MaxBuckets = 100_000

// bucketCount conta os períodos de first a last, inclusive, sem percorrer a série
func bucketCount(first, last time.Time, freq domain.Frequency) int64 {
	switch freq {
	case domain.FrequencyHour:
		return (last.Unix()-first.Unix())/3600 + 1
	case domain.FrequencyDay:
		return (last.Unix()-first.Unix())/86400 + 1
	case domain.FrequencyWeek:
		return (last.Unix()-first.Unix())/(7*86400) + 1
	default:
		return int64(last.Year()-first.Year())*12 + int64(last.Month()-first.Month()) + 1
	}
}

// nextPeriod assume que start já está alinhado
func nextPeriod(start time.Time, freq domain.Frequency) time.Time {
	switch freq {
	case domain.FrequencyHour:
		return start.Add(time.Hour)
	case domain.FrequencyDay:
		return start.AddDate(0, 0, 1)
	case domain.FrequencyWeek:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Resample soma os valores dos registros por período e devolve uma série densa,
// do primeiro ao último período com dados, preenchendo lacunas com zero.
func Resample(records []*domain.Record, freq domain.Frequency) ([]domain.Bucket, error) {
	if _, err := PeriodStart(time.Time{}, freq); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return []domain.Bucket{}, nil
	}

	sorted := make([]*domain.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})

	totals := make(map[int64]decimal.Decimal)
	for _, record := range sorted {
		start, _ := PeriodStart(record.RecordedAt, freq)
		key := start.Unix()
		totals[key] = totals[key].Add(decimal.NewFromFloat(record.Value))
	}

	first, _ := PeriodStart(sorted[0].RecordedAt, freq)
	last, _ := PeriodStart(sorted[len(sorted)-1].RecordedAt, freq)

	if n := bucketCount(first, last, freq); n > MaxBuckets {
		return nil, newInvalidParameter("freq", string(freq),
			fmt.Sprintf("intervalo gera %d períodos, máximo %d; use uma frequência maior ou um intervalo menor", n, MaxBuckets))
	}

	buckets := make([]domain.Bucket, 0, len(totals))
	for period := first; !period.After(last); period = nextPeriod(period, freq) {
		value, ok := totals[period.Unix()]
		if !ok {
			value = decimal.Zero
		}
		buckets = append(buckets, domain.Bucket{PeriodStart: period, Value: value})
	}

	return buckets, nil
}
