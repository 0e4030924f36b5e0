package analysis

import (
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/records-api/internal/domain"
)

// BuildPivot monta a tabela período x categoria com a soma dos valores.
// Só entram períodos com dados; células sem registros valem zero.
func BuildPivot(records []*domain.Record, freq domain.Frequency) (domain.Pivot, error) {
	if _, err := PeriodStart(time.Time{}, freq); err != nil {
		return domain.Pivot{}, err
	}

	categories := lo.Uniq(lo.Map(records, func(r *domain.Record, _ int) string {
		return r.Category
	}))
	sort.Strings(categories)

	columnOf := make(map[string]int, len(categories))
	for i, category := range categories {
		columnOf[category] = i
	}

	rows := make(map[int64][]decimal.Decimal)
	for _, record := range records {
		start, _ := PeriodStart(record.RecordedAt, freq)
		key := start.Unix()

		row, ok := rows[key]
		if !ok {
			row = make([]decimal.Decimal, len(categories))
			for i := range row {
				row[i] = decimal.Zero
			}
			rows[key] = row
		}

		col := columnOf[record.Category]
		row[col] = row[col].Add(decimal.NewFromFloat(record.Value))
	}

	keys := lo.Keys(rows)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	pivot := domain.Pivot{
		Periods:    make([]time.Time, len(keys)),
		Categories: categories,
		Cells:      make([][]decimal.Decimal, len(keys)),
	}
	for i, key := range keys {
		pivot.Periods[i] = time.Unix(key, 0).UTC()
		pivot.Cells[i] = rows[key]
	}

	return pivot, nil
}
