// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Record struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Value       float64   `json:"value"`
	RecordedAt  time.Time `json:"recorded_at"` // Sempre em UTC
	CreatedBy   *int      `json:"created_by,omitempty"`
}

// RecordFilter restringe consultas de registros. To é exclusivo.
type RecordFilter struct {
	Category string
	From     *time.Time
	To       *time.Time
}

type RecordPage struct {
	Records []*Record `json:"records"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Pages   int       `json:"pages"`
}

type DateRange struct {
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

type RecordStats struct {
	TotalRecords          int             `json:"total_records"`
	TotalValue            decimal.Decimal `json:"total_value"`
	AverageValue          decimal.Decimal `json:"average_value"`
	DistinctCategoryCount int             `json:"distinct_category_count"`
	DateRange             *DateRange      `json:"date_range"` // nil quando não há registros
}

// ImportResult resume uma ingestão em lote
type ImportResult struct {
	BatchID string `json:"batch_id"`
	Rows    int    `json:"rows"`
}
