// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/internal/domain"
)

//go:generate mockgen -source=record.go -destination=mocks/record.go -package=mocks

const (
	recordsTable = "records"

	// Mantém o número de parâmetros por INSERT abaixo do limite dos drivers
	recordBatchChunk = 500
)

var recordColumns = []string{"id", "category", "subcategory", "value", "recorded_at", "created_by"}

type RecordRepository interface {
	Create(ctx context.Context, record *domain.Record) (int64, error)
	CreateBatch(ctx context.Context, records []*domain.Record) error
	Update(ctx context.Context, record *domain.Record) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Record, error)
	List(ctx context.Context, filter domain.RecordFilter, page, perPage int) ([]*domain.Record, int, error)
	ListAll(ctx context.Context, filter domain.RecordFilter) ([]*domain.Record, error)
	Stats(ctx context.Context) (*domain.RecordStats, error)
	Categories(ctx context.Context) ([]string, error)
}

type recordRepository struct {
	conn *database.Connection
}

func NewRecordRepository(conn *database.Connection) RecordRepository {
	return &recordRepository{
		conn: conn,
	}
}

func (r *recordRepository) Create(ctx context.Context, record *domain.Record) (int64, error) {
	query, args, err := r.conn.Builder().
		Insert(recordsTable).
		Columns("category", "subcategory", "value", "recorded_at", "created_by").
		Values(record.Category, record.Subcategory, record.Value, record.RecordedAt.UTC(), record.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&record.ID); err != nil {
		return 0, fmt.Errorf("erro ao inserir registro: %w", err)
	}

	return record.ID, nil
}

// CreateBatch grava todos os registros em uma única transação: ou todos entram ou nenhum
func (r *recordRepository) CreateBatch(ctx context.Context, records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(records); start += recordBatchChunk {
			end := min(start+recordBatchChunk, len(records))

			if err := r.insertChunk(ctx, tx, records[start:end]); err != nil {
				return fmt.Errorf("erro ao inserir lote de registros (linhas %d-%d): %w", start, end-1, err)
			}
		}

		return nil
	})
}

func (r *recordRepository) insertChunk(ctx context.Context, q database.Queryer, records []*domain.Record) error {
	insert := r.conn.Builder().
		Insert(recordsTable).
		Columns("category", "subcategory", "value", "recorded_at", "created_by")

	for _, record := range records {
		insert = insert.Values(record.Category, record.Subcategory, record.Value, record.RecordedAt.UTC(), record.CreatedBy)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = q.ExecContext(ctx, query, args...)
	return err
}

func (r *recordRepository) Update(ctx context.Context, record *domain.Record) (bool, error) {
	query, args, err := r.conn.Builder().
		Update(recordsTable).
		Set("category", record.Category).
		Set("subcategory", record.Subcategory).
		Set("value", record.Value).
		Set("recorded_at", record.RecordedAt.UTC()).
		Where(squirrel.Eq{"id": record.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.execAffecting(ctx, query, args, "atualizar")
}

func (r *recordRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.conn.Builder().
		Delete(recordsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.execAffecting(ctx, query, args, "remover")
}

func (r *recordRepository) execAffecting(ctx context.Context, query string, args []any, action string) (bool, error) {
	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao %s registro: %w", action, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao %s registro: %w", action, err)
	}

	return affected > 0, nil
}

// GetByID retorna nil quando o registro não existe
func (r *recordRepository) GetByID(ctx context.Context, id int64) (*domain.Record, error) {
	query, args, err := r.conn.Builder().
		Select(recordColumns...).
		From(recordsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	record, err := scanRecord(r.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar registro %d: %w", id, err)
	}

	return record, nil
}

// List retorna a página pedida, mais recentes primeiro, e o total de registros do filtro
func (r *recordRepository) List(ctx context.Context, filter domain.RecordFilter, page, perPage int) ([]*domain.Record, int, error) {
	countQuery, countArgs, err := applyRecordFilter(r.conn.Builder().Select("COUNT(*)").From(recordsTable), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int
	if err := r.conn.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar registros: %w", err)
	}

	query, args, err := applyRecordFilter(r.conn.Builder().Select(recordColumns...).From(recordsTable), filter).
		OrderBy("recorded_at DESC", "id DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	records, err := r.queryRecords(ctx, r.conn, query, args)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListAll retorna todos os registros do filtro em ordem cronológica
func (r *recordRepository) ListAll(ctx context.Context, filter domain.RecordFilter) ([]*domain.Record, error) {
	query, args, err := applyRecordFilter(r.conn.Builder().Select(recordColumns...).From(recordsTable), filter).
		OrderBy("recorded_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryRecords(ctx, r.conn, query, args)
}

// Stats conta no banco e soma os valores em decimal; a soma em float do SQL pode estourar para +Inf
func (r *recordRepository) Stats(ctx context.Context) (*domain.RecordStats, error) {
	query, args, err := r.conn.Builder().
		Select("COUNT(*)", "COUNT(DISTINCT category)").
		From(recordsTable).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count, categories int
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&count, &categories); err != nil {
		return nil, fmt.Errorf("erro ao calcular estatísticas: %w", err)
	}

	stats := &domain.RecordStats{
		TotalRecords:          count,
		TotalValue:            decimal.Zero,
		AverageValue:          decimal.Zero,
		DistinctCategoryCount: categories,
	}

	if count == 0 {
		return stats, nil
	}

	total, err := r.sumValues(ctx, r.conn)
	if err != nil {
		return nil, err
	}

	stats.TotalValue = total
	stats.AverageValue = total.Div(decimal.NewFromInt(int64(count)))

	first, err := r.boundary(ctx, "recorded_at ASC")
	if err != nil {
		return nil, err
	}

	last, err := r.boundary(ctx, "recorded_at DESC")
	if err != nil {
		return nil, err
	}

	stats.DateRange = &domain.DateRange{First: first, Last: last}

	return stats, nil
}

func (r *recordRepository) sumValues(ctx context.Context, q database.Queryer) (decimal.Decimal, error) {
	query, args, err := r.conn.Builder().
		Select("value").
		From(recordsTable).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("erro ao somar valores: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var value float64
		if err := rows.Scan(&value); err != nil {
			return decimal.Zero, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		total = total.Add(decimal.NewFromFloat(value))
	}

	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("erro durante iteração: %w", err)
	}

	return total, nil
}

// boundary lê o primeiro ou o último recorded_at; evita MIN/MAX para manter o tipo da coluna no SQLite
func (r *recordRepository) boundary(ctx context.Context, order string) (time.Time, error) {
	query, args, err := r.conn.Builder().
		Select("recorded_at").
		From(recordsTable).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var recordedAt time.Time
	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&recordedAt); err != nil {
		return time.Time{}, fmt.Errorf("erro ao buscar intervalo de datas: %w", err)
	}

	return recordedAt.UTC(), nil
}

func (r *recordRepository) Categories(ctx context.Context) ([]string, error) {
	query, args, err := r.conn.Builder().
		Select("DISTINCT category").
		From(recordsTable).
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar categorias: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return categories, nil
}

func (r *recordRepository) queryRecords(ctx context.Context, q database.Queryer, query string, args []any) ([]*domain.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar registros: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var (
		record    domain.Record
		createdBy sql.NullInt64
	)

	if err := row.Scan(
		&record.ID,
		&record.Category,
		&record.Subcategory,
		&record.Value,
		&record.RecordedAt,
		&createdBy,
	); err != nil {
		return nil, err
	}

	record.RecordedAt = record.RecordedAt.UTC()
	if createdBy.Valid {
		id := int(createdBy.Int64)
		record.CreatedBy = &id
	}

	return &record, nil
}

func applyRecordFilter(builder squirrel.SelectBuilder, filter domain.RecordFilter) squirrel.SelectBuilder {
	if filter.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": filter.Category})
	}

	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"recorded_at": filter.From.UTC()})
	}

	if filter.To != nil {
		builder = builder.Where(squirrel.Lt{"recorded_at": filter.To.UTC()})
	}

	return builder
}
