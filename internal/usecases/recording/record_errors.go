package recording

import (
	"errors"
	"fmt"
	"strings"
)

// Erros base do contexto de registros, usados com errors.Is
var (
	ErrValidation        = errors.New("registro inválido")
	ErrBatchValidation   = errors.New("linha inválida no lote")
	ErrSchema            = errors.New("colunas obrigatórias ausentes")
	ErrInvalidQuery      = errors.New("consulta inválida")
	ErrRecordNotFound    = errors.New("registro não encontrado")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
	ErrGenerateID        = errors.New("erro ao gerar identificador")
)

// ValidationError indica o campo rejeitado de um registro
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// BatchValidationError aponta a primeira linha inválida de um lote (índice a partir de 0)
type BatchValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("linha %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *BatchValidationError) Unwrap() error {
	return ErrBatchValidation
}

// SchemaError lista todas as colunas obrigatórias ausentes no cabeçalho
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

type InvalidQueryError struct {
	Parameter string
	Reason    string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Parameter, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registro %d não encontrado", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// RecordError é um erro com contexto adicional para falhas de infraestrutura
type RecordError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

func (e *RecordError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func NewRecordError(err error, code string, details string) *RecordError {
	return &RecordError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
