// Package export gera os arquivos de relatório (planilha xlsx e CSV) a partir dos registros.
package export

import (
	"errors"
	"strconv"
	"time"
)

var ErrEmptyDataset = errors.New("nenhum registro para exportar")

const (
	PivotSheet = "Pivot"
	RawSheet   = "Raw"

	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CSVContentType      = "text/csv"
)

// RawColumns é o cabeçalho da aba Raw e do CSV
var RawColumns = []string{"id", "category", "subcategory", "value", "recorded_at", "created_by"}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// formatValue usa a menor representação que preserva o float64
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCreatedBy(createdBy *int) string {
	if createdBy == nil {
		return ""
	}
	return strconv.Itoa(*createdBy)
}

// FileName monta o nome do arquivo de download, ex.: report_20240101_153000.xlsx
func FileName(prefix, extension string, now time.Time) string {
	return prefix + "_" + now.Format("20060102_150405") + "." + extension
}
