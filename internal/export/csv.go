package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vfg2006/records-api/internal/domain"
)

// WriteCSV escreve os registros em CSV plano, uma linha por registro
func WriteCSV(w io.Writer, records []*domain.Record) error {
	if len(records) == 0 {
		return ErrEmptyDataset
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(RawColumns); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho do CSV: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.FormatInt(record.ID, 10),
			record.Category,
			record.Subcategory,
			formatValue(record.Value),
			formatTime(record.RecordedAt),
			formatCreatedBy(record.CreatedBy),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("erro ao escrever registro %d no CSV: %w", record.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
