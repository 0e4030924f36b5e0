package navigating

import (
	"errors"
	"fmt"
)

var (
	ErrNavItemNotFound   = errors.New("item de navegação não encontrado")
	ErrInvalidNavItem    = errors.New("item de navegação inválido")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// NavError é um erro com contexto adicional para o menu de navegação
type NavError struct {
	Err     error
	Code    string
	ItemID  int
	Details string
}

func (e *NavError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *NavError) Unwrap() error {
	return e.Err
}

func NewNavError(err error, code string, itemID int, details string) *NavError {
	return &NavError{
		Err:     err,
		Code:    code,
		ItemID:  itemID,
		Details: details,
	}
}
