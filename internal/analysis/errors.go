package analysis

import (
	"errors"
	"fmt"
)

var ErrInvalidParameter = errors.New("parâmetro inválido")

// InvalidParameterError indica um parâmetro de análise fora do domínio aceito
type InvalidParameterError struct {
	Parameter string
	Value     string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s=%q (%s)", ErrInvalidParameter, e.Parameter, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: %s=%q", ErrInvalidParameter, e.Parameter, e.Value)
}

func (e *InvalidParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func newInvalidParameter(parameter, value, reason string) *InvalidParameterError {
	return &InvalidParameterError{Parameter: parameter, Value: value, Reason: reason}
}
