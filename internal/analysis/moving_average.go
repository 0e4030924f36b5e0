package analysis

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/records-api/internal/domain"
)

// MovingAverage calcula a média móvel à direita sobre a série.
// Os primeiros window-1 pontos ficam sem média.
func MovingAverage(series []domain.Bucket, window int) ([]domain.SmoothedPoint, error) {
	if window < 1 {
		return nil, newInvalidParameter("window", strconv.Itoa(window), "deve ser maior ou igual a 1")
	}

	points := make([]domain.SmoothedPoint, len(series))
	divisor := decimal.NewFromInt(int64(window))
	sum := decimal.Zero

	for i, bucket := range series {
		sum = sum.Add(bucket.Value)
		if i >= window {
			sum = sum.Sub(series[i-window].Value)
		}

		points[i] = domain.SmoothedPoint{
			PeriodStart: bucket.PeriodStart,
			Value:       bucket.Value,
		}

		if i >= window-1 {
			avg := sum.Div(divisor)
			points[i].MovingAverage = &avg
		}
	}

	return points, nil
}

// Smooth devolve a série sem média móvel, no mesmo formato de MovingAverage
func Smooth(series []domain.Bucket) []domain.SmoothedPoint {
	points := make([]domain.SmoothedPoint, len(series))
	for i, bucket := range series {
		points[i] = domain.SmoothedPoint{PeriodStart: bucket.PeriodStart, Value: bucket.Value}
	}
	return points
}
