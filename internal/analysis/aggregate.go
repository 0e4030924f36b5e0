// Package analysis implementa as agregações, séries temporais e tabelas dinâmicas
// calculadas sobre registros. Todas as funções são puras e não acessam o banco.
package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/records-api/internal/domain"
)

// ParseGroupBy converte o parâmetro textual em um GroupBy
func ParseGroupBy(value string) (domain.GroupBy, error) {
	switch domain.GroupBy(strings.ToLower(strings.TrimSpace(value))) {
	case "", domain.GroupByCategory:
		return domain.GroupByCategory, nil
	case domain.GroupBySubcategory:
		return domain.GroupBySubcategory, nil
	default:
		return "", newInvalidParameter("group_by", value, "valores aceitos: category, subcategory")
	}
}

// Aggregate agrupa os registros pela chave escolhida somando os valores.
// Registros sem subcategoria não entram no agrupamento por subcategoria.
// O resultado é ordenado pela chave em ordem crescente.
func Aggregate(records []*domain.Record, groupBy domain.GroupBy) ([]domain.AggregateRow, error) {
	var keyOf func(r *domain.Record) string

	switch groupBy {
	case domain.GroupByCategory:
		keyOf = func(r *domain.Record) string { return r.Category }
	case domain.GroupBySubcategory:
		keyOf = func(r *domain.Record) string { return r.Subcategory }
	default:
		return nil, newInvalidParameter("group_by", string(groupBy), "valores aceitos: category, subcategory")
	}

	groups := make(map[string]*domain.AggregateRow)
	for _, record := range records {
		key := keyOf(record)
		if key == "" {
			continue
		}

		row, ok := groups[key]
		if !ok {
			row = &domain.AggregateRow{GroupKey: key, Total: decimal.Zero}
			groups[key] = row
		}

		row.Count++
		row.Total = row.Total.Add(decimal.NewFromFloat(record.Value))
	}

	rows := make([]domain.AggregateRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].GroupKey < rows[j].GroupKey
	})

	return rows, nil
}
