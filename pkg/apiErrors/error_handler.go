package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro para autenticação
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrUserDisabled          = "AUTH_002" // Usuário desativado
	ErrUserNotFound          = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken          = "AUTH_006" // Token inválido
	ErrExpiredToken          = "AUTH_007" // Token expirado
	ErrInsufficientPrivilege = "AUTH_008" // Privilégios insuficientes
	ErrUserAlreadyExists     = "AUTH_009" // Usuário já existe
	ErrSelfDelete            = "AUTH_010" // Usuário tentou remover a própria conta

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrValidation          = "VAL_004" // Campo de registro inválido
	ErrBatchValidation     = "VAL_005" // Linha inválida em importação em lote
	ErrSchema              = "VAL_006" // Colunas obrigatórias ausentes no CSV
	ErrInvalidQuery        = "VAL_007" // Paginação ou intervalo de datas inválido
	ErrInvalidParameter    = "VAL_008" // Frequência, agrupamento ou janela inválidos
	ErrFileTooLarge        = "VAL_009" // Arquivo acima do limite de upload

	// Erros de recursos
	ErrRecordNotFound  = "REC_404" // Registro não encontrado
	ErrNavItemNotFound = "NAV_404" // Item de navegação não encontrado
	ErrRouteNotFound    = "RTE_404" // Rota inexistente
	ErrMethodNotAllowed = "RTE_405" // Método não aceito pela rota

	// Erros de exportação
	ErrEmptyDataset = "EXP_001" // Nenhum registro para exportar

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrUserDisabled:          http.StatusForbidden,
	ErrUserNotFound:          http.StatusNotFound,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrUserAlreadyExists:     http.StatusBadRequest,
	ErrSelfDelete:            http.StatusBadRequest,
	ErrValidation:            http.StatusBadRequest,
	ErrBatchValidation:       http.StatusBadRequest,
	ErrSchema:                http.StatusBadRequest,
	ErrInvalidQuery:          http.StatusBadRequest,
	ErrInvalidParameter:      http.StatusBadRequest,
	ErrFileTooLarge:          http.StatusRequestEntityTooLarge,
	ErrRecordNotFound:        http.StatusNotFound,
	ErrNavItemNotFound:       http.StatusNotFound,
	ErrRouteNotFound:         http.StatusNotFound,
	ErrMethodNotAllowed:      http.StatusMethodNotAllowed,
	ErrEmptyDataset:          http.StatusBadRequest,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status := StatusFor(code)

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// StatusFor retorna o status HTTP associado ao código
func StatusFor(code string) int {
	if status, exists := httpStatusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}
