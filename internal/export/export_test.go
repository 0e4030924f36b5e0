package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []*domain.Record {
	author := 7
	return []*domain.Record{
		{ID: 1, Category: "A", Subcategory: "x", Value: 10, RecordedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), CreatedBy: &author},
		{ID: 2, Category: "A", Value: 5.25, RecordedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
		{ID: 3, Category: "B", Value: 3, RecordedAt: time.Date(2024, 1, 1, 12, 0, 0, 123000000, time.UTC)},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, RawColumns, rows[0])
	assert.Equal(t, []string{"1", "A", "x", "10", "2024-01-01T10:00:00Z", "7"}, rows[1])
	assert.Equal(t, []string{"2", "A", "", "5.25", "2024-01-02T09:00:00Z", ""}, rows[2])
	assert.Equal(t, "2024-01-01T12:00:00.123Z", rows[3][4])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteCSV(&buf, nil), ErrEmptyDataset)
	assert.Zero(t, buf.Len())
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleRecords(), domain.FrequencyDay))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{PivotSheet, RawSheet}, f.GetSheetList())

	pivot, err := f.GetRows(PivotSheet)
	require.NoError(t, err)
	require.Len(t, pivot, 3)
	assert.Equal(t, []string{"period_start", "A", "B"}, pivot[0])
	assert.Equal(t, []string{"2024-01-01T00:00:00Z", "10", "3"}, pivot[1])
	assert.Equal(t, []string{"2024-01-02T00:00:00Z", "5.25", "0"}, pivot[2])

	raw, err := f.GetRows(RawSheet)
	require.NoError(t, err)
	require.Len(t, raw, 4)
	assert.Equal(t, RawColumns, raw[0])
	assert.Equal(t, "A", raw[1][1])
	assert.Equal(t, "7", raw[1][5])
}

func TestWriteWorkbook_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteWorkbook(&buf, []*domain.Record{}, domain.FrequencyDay), ErrEmptyDataset)
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	assert.Equal(t, "report_20240305_140709.xlsx", FileName("report", "xlsx", now))
}
