package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type GroupBy string

const (
	GroupByCategory    GroupBy = "category"
	GroupBySubcategory GroupBy = "subcategory"
)

type Frequency string

const (
	FrequencyHour  Frequency = "hour"
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
)

type AggregateRow struct {
	GroupKey string          `json:"group_key"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// Bucket é um período alinhado ao calendário com a soma dos valores
type Bucket struct {
	PeriodStart time.Time       `json:"period_start"`
	Value       decimal.Decimal `json:"value"`
}

type SmoothedPoint struct {
	PeriodStart   time.Time        `json:"period_start"`
	Value         decimal.Decimal  `json:"value"`
	MovingAverage *decimal.Decimal `json:"moving_average"` // nil até a janela estar completa
}

// Pivot é a tabela período x categoria usada na exportação
type Pivot struct {
	Periods    []time.Time
	Categories []string
	Cells      [][]decimal.Decimal // Cells[período][categoria]
}

type TimeSeries struct {
	Frequency Frequency       `json:"frequency"`
	Window    int             `json:"window,omitempty"`
	Points    []SmoothedPoint `json:"points"`
}
