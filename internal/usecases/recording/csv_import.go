package recording

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/records-api/internal/domain"
)

var requiredColumns = []string{"category", "value", "recorded_at"}

// Formatos aceitos em recorded_at; horários sem fuso são tratados como UTC
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseCSV lê um CSV com cabeçalho; nomes de coluna são aparados e comparados sem caixa.
// Colunas extras (id, created_by de uma exportação) são ignoradas.
func ParseCSV(r io.Reader) ([]*domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, &BatchValidationError{Index: 0, Field: "header", Reason: err.Error()}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	missing := make([]string, 0)
	for _, column := range requiredColumns {
		if _, ok := columns[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]*domain.Record, 0)
	for index := 0; ; index++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &BatchValidationError{Index: index, Field: "row", Reason: err.Error()}
		}

		record, err := parseRow(row, columns, index)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRow(row []string, columns map[string]int, index int) (*domain.Record, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rawValue := cell("value")
	if rawValue == "" {
		return nil, &BatchValidationError{Index: index, Field: "value", Reason: "campo obrigatório"}
	}

	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return nil, &BatchValidationError{Index: index, Field: "value", Reason: "número inválido"}
	}

	recordedAt, err := ParseTimestamp(cell("recorded_at"))
	if err != nil {
		return nil, &BatchValidationError{Index: index, Field: "recorded_at", Reason: err.Error()}
	}

	return &domain.Record{
		Category:    cell("category"),
		Subcategory: cell("subcategory"),
		Value:       value,
		RecordedAt:  recordedAt,
	}, nil
}

// ParseTimestamp aceita RFC 3339 e formatos sem fuso, sempre devolvendo UTC
func ParseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("campo obrigatório")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, errors.New("data inválida")
}

// ImportCSV interpreta o arquivo e grava todas as linhas em um único lote
func (s *Service) ImportCSV(ctx context.Context, actorID int, r io.Reader) (*domain.ImportResult, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	return s.BulkInsert(ctx, actorID, records, SourceCSV)
}
