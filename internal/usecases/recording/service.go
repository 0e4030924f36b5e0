package recording

import (
	"context"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/observability"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"github.com/vfg2006/records-api/pkg/utils"
)

// Origens de ingestão, usadas nas métricas e nos logs
const (
	SourceSingle = "single"
	SourceBulk   = "bulk"
	SourceCSV    = "csv"
)

const (
	MaxPageSize    = 1000
	maxLabelLength = 100
)

type CacheInvalidator interface {
	InvalidateAll()
}

type Recorder interface {
	Insert(ctx context.Context, actorID int, record *domain.Record) (int64, error)
	BulkInsert(ctx context.Context, actorID int, records []*domain.Record, source string) (*domain.ImportResult, error)
	ImportCSV(ctx context.Context, actorID int, r io.Reader) (*domain.ImportResult, error)
	Update(ctx context.Context, id int64, record *domain.Record) (*domain.Record, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Record, error)
	Query(ctx context.Context, filter domain.RecordFilter, page, perPage int) (*domain.RecordPage, error)
	Categories(ctx context.Context) ([]string, error)
}

type Service struct {
	recordRepository repository.RecordRepository
	cache            CacheInvalidator
}

func NewService(recordRepository repository.RecordRepository, cache CacheInvalidator) *Service {
	return &Service{
		recordRepository: recordRepository,
		cache:            cache,
	}
}

func (s *Service) Insert(ctx context.Context, actorID int, record *domain.Record) (int64, error) {
	if err := normalize(record); err != nil {
		return 0, err
	}
	record.CreatedBy = actorRef(actorID)

	id, err := s.recordRepository.Create(ctx, record)
	if err != nil {
		logrus.WithError(err).Error("Erro ao inserir registro")
		return 0, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao gravar registro")
	}

	s.invalidate()
	observability.RecordIngested(SourceSingle, 1)

	return id, nil
}

// BulkInsert valida todas as linhas antes de gravar; a primeira linha inválida rejeita o lote inteiro
func (s *Service) BulkInsert(ctx context.Context, actorID int, records []*domain.Record, source string) (*domain.ImportResult, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Field: "records", Reason: "lote vazio"}
	}

	createdBy := actorRef(actorID)
	for i, record := range records {
		if record == nil {
			return nil, &BatchValidationError{Index: i, Field: "record", Reason: "linha vazia"}
		}
		if err := normalize(record); err != nil {
			return nil, &BatchValidationError{Index: i, Field: err.Field, Reason: err.Reason}
		}
		record.CreatedBy = createdBy
	}

	batchID, err := utils.GenerateID()
	if err != nil {
		return nil, NewRecordError(ErrGenerateID, apiErrors.ErrInternalServer, "Falha ao gerar identificador do lote")
	}

	logger := logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"rows":     len(records),
		"source":   source,
	})

	if err := s.recordRepository.CreateBatch(ctx, records); err != nil {
		logger.WithError(err).Error("Erro ao gravar lote de registros")
		return nil, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao gravar lote de registros")
	}

	s.invalidate()
	observability.RecordIngested(source, len(records))
	logger.Info("Lote de registros importado com sucesso")

	return &domain.ImportResult{BatchID: batchID, Rows: len(records)}, nil
}

// Update substitui todos os campos editáveis do registro
func (s *Service) Update(ctx context.Context, id int64, record *domain.Record) (*domain.Record, error) {
	if err := normalize(record); err != nil {
		return nil, err
	}
	record.ID = id

	found, err := s.recordRepository.Update(ctx, record)
	if err != nil {
		logrus.WithError(err).WithField("record_id", id).Error("Erro ao atualizar registro")
		return nil, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao atualizar registro")
	}
	if !found {
		return nil, &NotFoundError{ID: id}
	}

	s.invalidate()

	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.recordRepository.Delete(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("record_id", id).Error("Erro ao remover registro")
		return NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao remover registro")
	}
	if !found {
		return &NotFoundError{ID: id}
	}

	s.invalidate()

	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Record, error) {
	record, err := s.recordRepository.GetByID(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("record_id", id).Error("Erro ao buscar registro")
		return nil, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao buscar registro")
	}
	if record == nil {
		return nil, &NotFoundError{ID: id}
	}

	return record, nil
}

// Query retorna uma página de registros, mais recentes primeiro
func (s *Service) Query(ctx context.Context, filter domain.RecordFilter, page, perPage int) (*domain.RecordPage, error) {
	if page < 1 {
		return nil, &InvalidQueryError{Parameter: "page", Reason: "deve ser maior ou igual a 1"}
	}
	if perPage < 1 || perPage > MaxPageSize {
		return nil, &InvalidQueryError{Parameter: "per_page", Reason: "deve estar entre 1 e 1000"}
	}
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}

	records, total, err := s.recordRepository.List(ctx, filter, page, perPage)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar registros")
		return nil, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar registros")
	}

	return &domain.RecordPage{
		Records: records,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   (total + perPage - 1) / perPage,
	}, nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.recordRepository.Categories(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar categorias")
		return nil, NewRecordError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Falha ao listar categorias")
	}

	return categories, nil
}

// ValidateFilter rejeita intervalos em que o início não é anterior ao fim (fim exclusivo)
func ValidateFilter(filter domain.RecordFilter) error {
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return &InvalidQueryError{Parameter: "start_date", Reason: "deve ser anterior ou igual à data final"}
	}
	return nil
}

func (s *Service) invalidate() {
	if s.cache != nil {
		s.cache.InvalidateAll()
	}
}

// normalize apara os textos, converte recorded_at para UTC e valida os campos
func normalize(record *domain.Record) *ValidationError {
	record.Category = strings.TrimSpace(record.Category)
	record.Subcategory = strings.TrimSpace(record.Subcategory)

	switch {
	case record.Category == "":
		return &ValidationError{Field: "category", Reason: "campo obrigatório"}
	case utf8.RuneCountInString(record.Category) > maxLabelLength:
		return &ValidationError{Field: "category", Reason: "máximo de 100 caracteres"}
	case utf8.RuneCountInString(record.Subcategory) > maxLabelLength:
		return &ValidationError{Field: "subcategory", Reason: "máximo de 100 caracteres"}
	case math.IsNaN(record.Value) || math.IsInf(record.Value, 0):
		return &ValidationError{Field: "value", Reason: "deve ser um número finito"}
	case record.RecordedAt.IsZero():
		return &ValidationError{Field: "recorded_at", Reason: "campo obrigatório"}
	}

	record.RecordedAt = record.RecordedAt.UTC()
	return nil
}

func actorRef(actorID int) *int {
	if actorID <= 0 {
		return nil
	}
	return &actorID
}
