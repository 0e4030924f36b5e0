package export

import (
	"fmt"
	"io"

	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook gera uma planilha com duas abas: Pivot (período x categoria) e Raw (registros)
func WriteWorkbook(w io.Writer, records []*domain.Record, freq domain.Frequency) error {
	if len(records) == 0 {
		return ErrEmptyDataset
	}

	pivot, err := analysis.BuildPivot(records, freq)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PivotSheet); err != nil {
		return fmt.Errorf("erro ao renomear aba: %w", err)
	}

	if _, err := f.NewSheet(RawSheet); err != nil {
		return fmt.Errorf("erro ao criar aba %s: %w", RawSheet, err)
	}

	if err := writePivotSheet(f, pivot); err != nil {
		return err
	}

	if err := writeRawSheet(f, records); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("erro ao gravar planilha: %w", err)
	}

	return nil
}

func writePivotSheet(f *excelize.File, pivot domain.Pivot) error {
	header := make([]any, 0, len(pivot.Categories)+1)
	header = append(header, "period_start")
	for _, category := range pivot.Categories {
		header = append(header, category)
	}

	if err := setRow(f, PivotSheet, 1, header); err != nil {
		return err
	}

	for i, period := range pivot.Periods {
		row := make([]any, 0, len(pivot.Categories)+1)
		row = append(row, formatTime(period))
		for _, cell := range pivot.Cells[i] {
			row = append(row, cell.InexactFloat64())
		}

		if err := setRow(f, PivotSheet, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeRawSheet(f *excelize.File, records []*domain.Record) error {
	header := make([]any, len(RawColumns))
	for i, column := range RawColumns {
		header[i] = column
	}

	if err := setRow(f, RawSheet, 1, header); err != nil {
		return err
	}

	for i, record := range records {
		var createdBy any
		if record.CreatedBy != nil {
			createdBy = *record.CreatedBy
		}

		row := []any{
			record.ID,
			record.Category,
			record.Subcategory,
			record.Value,
			formatTime(record.RecordedAt),
			createdBy,
		}

		if err := setRow(f, RawSheet, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("erro ao escrever linha %d da aba %s: %w", row, sheet, err)
	}

	return nil
}
