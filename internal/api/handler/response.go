package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/export"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"github.com/vfg2006/records-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func init() {
	// totais e médias saem como número no JSON
	decimal.MarshalJSONWithoutQuotes = true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// writeServiceError traduz os erros tipados dos serviços para os códigos da API
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		validationErr *recording.ValidationError
		batchErr      *recording.BatchValidationError
		schemaErr     *recording.SchemaError
		queryErr      *recording.InvalidQueryError
		notFoundErr   *recording.NotFoundError
		paramErr      *analysis.InvalidParameterError
		recordErr     *recording.RecordError
		authErr       *authenticating.AuthError
		navErr        *navigating.NavError
	)

	switch {
	case errors.As(err, &validationErr):
		apiErrors.WriteError(w, apiErrors.ErrValidation, validationErr.Error(), map[string]any{
			"field":  validationErr.Field,
			"reason": validationErr.Reason,
		})
	case errors.As(err, &batchErr):
		apiErrors.WriteError(w, apiErrors.ErrBatchValidation, batchErr.Error(), map[string]any{
			"index":  batchErr.Index,
			"field":  batchErr.Field,
			"reason": batchErr.Reason,
		})
	case errors.As(err, &schemaErr):
		apiErrors.WriteError(w, apiErrors.ErrSchema, schemaErr.Error(), map[string]any{
			"missing": schemaErr.Missing,
		})
	case errors.As(err, &queryErr):
		apiErrors.WriteError(w, apiErrors.ErrInvalidQuery, queryErr.Error(), map[string]any{
			"parameter": queryErr.Parameter,
		})
	case errors.As(err, &paramErr):
		apiErrors.WriteError(w, apiErrors.ErrInvalidParameter, paramErr.Error(), map[string]any{
			"parameter": paramErr.Parameter,
			"value":     paramErr.Value,
		})
	case errors.As(err, &notFoundErr):
		apiErrors.WriteError(w, apiErrors.ErrRecordNotFound, notFoundErr.Error(), map[string]any{
			"id": notFoundErr.ID,
		})
	case errors.Is(err, export.ErrEmptyDataset):
		apiErrors.WriteError(w, apiErrors.ErrEmptyDataset, "Nenhum registro para exportar", nil)
	case errors.As(err, &authErr):
		writeCodedError(w, r, err, authErr.Code, authErr.Details)
	case errors.As(err, &navErr):
		writeCodedError(w, r, err, navErr.Code, navErr.Details)
	case errors.As(err, &recordErr):
		writeCodedError(w, r, err, recordErr.Code, recordErr.Details)
	default:
		log.ForContext(r.Context()).WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

func writeCodedError(w http.ResponseWriter, r *http.Request, err error, code, details string) {
	if apiErrors.StatusFor(code) >= http.StatusInternalServerError {
		log.ForContext(r.Context()).WithError(err).Error(details)
	}
	apiErrors.WriteError(w, code, details, nil)
}

func pathID(r *http.Request) (int64, error) {
	idStr := httprouter.ParamsFromContext(r.Context()).ByName("id")
	if idStr == "" {
		return 0, errors.New("id não fornecido")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.Errorf("id inválido: %q", idStr)
	}

	return id, nil
}

func decodeBody(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.Wrap(err, "erro ao decodificar requisição")
	}
	return nil
}
