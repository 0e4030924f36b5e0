package reporting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/infrastructure/repository/mocks"
	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/cache"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/export"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockRecordRepository, *cache.ResultCache) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRecordRepository(ctrl)
	resultCache := cache.New(time.Minute)

	service := NewService(repo, resultCache, 30)
	service.now = func() time.Time { return fixedNow }

	return service, repo, resultCache
}

func scenario() []*domain.Record {
	return []*domain.Record{
		{ID: 1, Category: "A", Value: 10, RecordedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Category: "B", Value: 3, RecordedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Category: "A", Value: 5, RecordedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func intPtr(v int) *int {
	return &v
}

func TestService_Stats_CachedUntilInvalidated(t *testing.T) {
	service, repo, resultCache := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().Stats(gomock.Any()).Return(&domain.RecordStats{TotalRecords: 3}, nil).Times(2)

	first, err := service.Stats(ctx)
	require.NoError(t, err)
	second, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)

	resultCache.InvalidateAll()

	_, err = service.Stats(ctx)
	require.NoError(t, err)
}

func TestService_Aggregate(t *testing.T) {
	service, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.EXPECT().ListAll(gomock.Any(), domain.RecordFilter{}).Return(scenario(), nil).Times(2)

	rows, err := service.Aggregate(ctx, domain.GroupByCategory, domain.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].GroupKey)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, "15", rows[0].Total.String())
	assert.Equal(t, "B", rows[1].GroupKey)
	assert.Equal(t, "3", rows[1].Total.String())

	// mesma chave vem do cache
	_, err = service.Aggregate(ctx, domain.GroupByCategory, domain.RecordFilter{})
	require.NoError(t, err)

	// outro agrupamento é outra chave
	rows, err = service.Aggregate(ctx, domain.GroupBySubcategory, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestService_Aggregate_ErrorNotCached(t *testing.T) {
	service, repo, _ := newTestService(t)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")),
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(scenario(), nil),
	)

	_, err := service.Aggregate(ctx, domain.GroupByCategory, domain.RecordFilter{})
	assert.ErrorIs(t, err, ErrReportFailed)

	rows, err := service.Aggregate(ctx, domain.GroupByCategory, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestService_Aggregate_InvalidRange(t *testing.T) {
	service, _, _ := newTestService(t)
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := service.Aggregate(context.Background(), domain.GroupByCategory, domain.RecordFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, recording.ErrInvalidQuery)
}

func TestService_TimeSeries(t *testing.T) {
	t.Run("usa os últimos dias padrão", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter domain.RecordFilter) ([]*domain.Record, error) {
			require.NotNil(t, filter.From)
			assert.Equal(t, fixedNow.AddDate(0, 0, -30), *filter.From)
			assert.Nil(t, filter.To)
			return scenario(), nil
		})

		series, err := service.TimeSeries(context.Background(), TimeSeriesQuery{Frequency: domain.FrequencyDay})
		require.NoError(t, err)
		require.Len(t, series.Points, 2)
		assert.Equal(t, "13", series.Points[0].Value.String())
		assert.Equal(t, "5", series.Points[1].Value.String())
		assert.Nil(t, series.Points[0].MovingAverage)
	})

	t.Run("média móvel", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(scenario(), nil)

		series, err := service.TimeSeries(context.Background(), TimeSeriesQuery{Frequency: domain.FrequencyDay, Days: 7, Window: intPtr(2)})
		require.NoError(t, err)
		require.Len(t, series.Points, 2)
		assert.Equal(t, 2, series.Window)
		assert.Nil(t, series.Points[0].MovingAverage)
		require.NotNil(t, series.Points[1].MovingAverage)
		assert.Equal(t, "9", series.Points[1].MovingAverage.String())
	})

	invalid := []struct {
		name      string
		query     TimeSeriesQuery
		parameter string
	}{
		{name: "dias acima do limite", query: TimeSeriesQuery{Frequency: domain.FrequencyDay, Days: 3651}, parameter: "days"},
		{name: "dias negativos", query: TimeSeriesQuery{Frequency: domain.FrequencyDay, Days: -1}, parameter: "days"},
		{name: "janela zero", query: TimeSeriesQuery{Frequency: domain.FrequencyDay, Window: intPtr(0)}, parameter: "window"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestService(t)

			_, err := service.TimeSeries(context.Background(), tt.query)

			var paramErr *analysis.InvalidParameterError
			require.ErrorAs(t, err, &paramErr)
			assert.Equal(t, tt.parameter, paramErr.Parameter)
		})
	}
}

func TestService_Exports(t *testing.T) {
	t.Run("sem registros", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return([]*domain.Record{}, nil).Times(2)

		_, err := service.ExportCSV(context.Background(), domain.RecordFilter{})
		assert.ErrorIs(t, err, export.ErrEmptyDataset)

		_, err = service.ExportWorkbook(context.Background(), domain.RecordFilter{}, domain.FrequencyDay)
		assert.ErrorIs(t, err, export.ErrEmptyDataset)
	})

	t.Run("csv não usa cache", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(scenario(), nil).Times(2)

		file, err := service.ExportCSV(context.Background(), domain.RecordFilter{})
		require.NoError(t, err)
		assert.Equal(t, "records_20240110_150000.csv", file.Name)
		assert.Equal(t, export.CSVContentType, file.ContentType)
		assert.True(t, strings.HasPrefix(string(file.Data), "id,category,subcategory,value,recorded_at,created_by"))

		_, err = service.ExportCSV(context.Background(), domain.RecordFilter{})
		require.NoError(t, err)
	})

	t.Run("planilha", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().ListAll(gomock.Any(), gomock.Any()).Return(scenario(), nil)

		file, err := service.ExportWorkbook(context.Background(), domain.RecordFilter{}, domain.FrequencyDay)
		require.NoError(t, err)
		assert.Equal(t, "report_20240110_150000.xlsx", file.Name)
		assert.NotEmpty(t, file.Data)
	})
}
