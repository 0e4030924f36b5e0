package reporting

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/cache"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/export"
	"github.com/vfg2006/records-api/internal/observability"
	"github.com/vfg2006/records-api/internal/usecases/recording"
)

const (
	MaxTimeSeriesDays = 3650

	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var ErrReportFailed = errors.New("erro ao gerar relatório")

// TimeSeriesQuery descreve uma série temporal. Sem From/To, o intervalo é dos últimos Days dias.
type TimeSeriesQuery struct {
	Frequency domain.Frequency
	Filter    domain.RecordFilter
	Days      int
	Window    *int
}

// ExportFile é um arquivo pronto para download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type Reporter interface {
	Stats(ctx context.Context) (*domain.RecordStats, error)
	Aggregate(ctx context.Context, groupBy domain.GroupBy, filter domain.RecordFilter) ([]domain.AggregateRow, error)
	TimeSeries(ctx context.Context, query TimeSeriesQuery) (*domain.TimeSeries, error)
	ExportWorkbook(ctx context.Context, filter domain.RecordFilter, freq domain.Frequency) (*ExportFile, error)
	ExportCSV(ctx context.Context, filter domain.RecordFilter) (*ExportFile, error)
}

type Service struct {
	recordRepository repository.RecordRepository
	cache            *cache.ResultCache
	defaultDays      int
	now              func() time.Time
}

func NewService(recordRepository repository.RecordRepository, resultCache *cache.ResultCache, defaultDays int) *Service {
	if defaultDays <= 0 {
		defaultDays = 30
	}

	return &Service{
		recordRepository: recordRepository,
		cache:            resultCache,
		defaultDays:      defaultDays,
		now:              time.Now,
	}
}

func (s *Service) Stats(ctx context.Context) (*domain.RecordStats, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.StatsKey(), 0, func(ctx context.Context) (*domain.RecordStats, error) {
		stats, err := s.recordRepository.Stats(ctx)
		if err != nil {
			logrus.WithError(err).Error("Erro ao calcular estatísticas")
			return nil, ErrReportFailed
		}
		return stats, nil
	})
}

func (s *Service) Aggregate(ctx context.Context, groupBy domain.GroupBy, filter domain.RecordFilter) ([]domain.AggregateRow, error) {
	if err := recording.ValidateFilter(filter); err != nil {
		return nil, err
	}

	return cache.GetOrCompute(ctx, s.cache, cache.AggregateKey(groupBy, filter), 0, func(ctx context.Context) ([]domain.AggregateRow, error) {
		records, err := s.listRecords(ctx, filter)
		if err != nil {
			return nil, err
		}

		return analysis.Aggregate(records, groupBy)
	})
}

// TimeSeries agrega os registros por período e, quando há janela, calcula a média móvel
func (s *Service) TimeSeries(ctx context.Context, query TimeSeriesQuery) (*domain.TimeSeries, error) {
	if err := recording.ValidateFilter(query.Filter); err != nil {
		return nil, err
	}

	useDays := query.Filter.From == nil && query.Filter.To == nil
	if useDays {
		if query.Days == 0 {
			query.Days = s.defaultDays
		}
		if query.Days < 1 || query.Days > MaxTimeSeriesDays {
			return nil, &analysis.InvalidParameterError{
				Parameter: "days",
				Value:     strconv.Itoa(query.Days),
				Reason:    "deve estar entre 1 e 3650",
			}
		}
	} else {
		query.Days = 0
	}

	window := 0
	if query.Window != nil {
		window = *query.Window
		if window < 1 {
			return nil, &analysis.InvalidParameterError{
				Parameter: "window",
				Value:     strconv.Itoa(window),
				Reason:    "deve ser maior ou igual a 1",
			}
		}
	}

	key := cache.TimeSeriesKey(query.Frequency, query.Filter, query.Days, window)

	return cache.GetOrCompute(ctx, s.cache, key, 0, func(ctx context.Context) (*domain.TimeSeries, error) {
		filter := query.Filter
		if useDays {
			from := s.now().UTC().AddDate(0, 0, -query.Days)
			filter.From = &from
		}

		records, err := s.listRecords(ctx, filter)
		if err != nil {
			return nil, err
		}

		buckets, err := analysis.Resample(records, query.Frequency)
		if err != nil {
			return nil, err
		}

		series := &domain.TimeSeries{Frequency: query.Frequency, Window: window}
		if window == 0 {
			series.Points = analysis.Smooth(buckets)
			return series, nil
		}

		series.Points, err = analysis.MovingAverage(buckets, window)
		if err != nil {
			return nil, err
		}

		return series, nil
	})
}

// ExportWorkbook gera a planilha com as abas Pivot e Raw; não passa pelo cache
func (s *Service) ExportWorkbook(ctx context.Context, filter domain.RecordFilter, freq domain.Frequency) (*ExportFile, error) {
	records, err := s.exportRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, records, freq); err != nil {
		return nil, err
	}

	observability.RecordExport(FormatXLSX)

	return &ExportFile{
		Name:        export.FileName("report", FormatXLSX, s.now()),
		ContentType: export.WorkbookContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) ExportCSV(ctx context.Context, filter domain.RecordFilter) (*ExportFile, error) {
	records, err := s.exportRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		return nil, err
	}

	observability.RecordExport(FormatCSV)

	return &ExportFile{
		Name:        export.FileName("records", FormatCSV, s.now()),
		ContentType: export.CSVContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *Service) exportRecords(ctx context.Context, filter domain.RecordFilter) ([]*domain.Record, error) {
	if err := recording.ValidateFilter(filter); err != nil {
		return nil, err
	}

	records, err := s.listRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, export.ErrEmptyDataset
	}

	return records, nil
}

func (s *Service) listRecords(ctx context.Context, filter domain.RecordFilter) ([]*domain.Record, error) {
	records, err := s.recordRepository.ListAll(ctx, filter)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar registros para relatório")
		return nil, ErrReportFailed
	}

	return records, nil
}
