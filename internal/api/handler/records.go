package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"github.com/vfg2006/records-api/pkg/middleware"
)

const DefaultUploadMaxBytes = 16 << 20

// RecordRequest é o corpo de criação e edição de um registro.
// RecordedAt aceita os mesmos formatos da importação CSV.
type RecordRequest struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Value       *float64 `json:"value"`
	RecordedAt  string   `json:"recorded_at"`
}

type BulkRequest struct {
	Records []RecordRequest `json:"records"`
}

func (req RecordRequest) toRecord() (*domain.Record, *recording.ValidationError) {
	if req.Value == nil {
		return nil, &recording.ValidationError{Field: "value", Reason: "obrigatório"}
	}

	recordedAt, err := recording.ParseTimestamp(req.RecordedAt)
	if err != nil {
		return nil, &recording.ValidationError{Field: "recorded_at", Reason: "data/hora inválida"}
	}

	return &domain.Record{
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Value:       *req.Value,
		RecordedAt:  recordedAt,
	}, nil
}

func actorID(r *http.Request) int {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return 0
}

// ListRecords retorna uma página de registros filtrada por categoria e período
func ListRecords(service recording.Recorder, cfg config.Records) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar registros")
			return
		}

		page, err := intParam(r, "page", 1)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar registros")
			return
		}

		perPage, err := intParam(r, "per_page", cfg.DefaultPageSize)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar registros")
			return
		}

		result, err := service.Query(r.Context(), filter, page, perPage)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar registros")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func GetRecord(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do registro inválido", nil)
			return
		}

		record, err := service.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar registro")
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

func ListCategories(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := service.Categories(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar categorias")
			return
		}

		writeJSON(w, http.StatusOK, categories)
	}
}

func CreateRecord(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		record, validationErr := req.toRecord()
		if validationErr != nil {
			writeServiceError(w, r, validationErr, "Erro ao criar registro")
			return
		}

		id, err := service.Insert(r.Context(), actorID(r), record)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar registro")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
	}
}

func UpdateRecord(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do registro inválido", nil)
			return
		}

		var req RecordRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		record, validationErr := req.toRecord()
		if validationErr != nil {
			writeServiceError(w, r, validationErr, "Erro ao atualizar registro")
			return
		}

		updated, err := service.Update(r.Context(), id, record)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar registro")
			return
		}

		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteRecord(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do registro inválido", nil)
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err, "Erro ao remover registro")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// BulkInsertRecords grava todas as linhas ou nenhuma
func BulkInsertRecords(service recording.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BulkRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		records := make([]*domain.Record, 0, len(req.Records))
		for i, row := range req.Records {
			record, validationErr := row.toRecord()
			if validationErr != nil {
				writeServiceError(w, r, &recording.BatchValidationError{
					Index:  i,
					Field:  validationErr.Field,
					Reason: validationErr.Reason,
				}, "Erro ao importar registros")
				return
			}
			records = append(records, record)
		}

		result, err := service.BulkInsert(r.Context(), actorID(r), records, recording.SourceBulk)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao importar registros")
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// UploadRecords importa o arquivo CSV enviado no campo multipart "file"
func UploadRecords(service recording.Recorder, cfg config.Records) http.HandlerFunc {
	maxBytes := cfg.UploadMaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				apiErrors.WriteError(w, apiErrors.ErrFileTooLarge, "Arquivo acima do limite permitido", map[string]any{
					"max_bytes": maxBytes,
				})
				return
			}
			logrus.WithError(err).Warn("Upload multipart inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Requisição multipart inválida", nil)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo 'file' é obrigatório", nil)
			return
		}
		defer file.Close()

		if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Apenas arquivos .csv são aceitos", nil)
			return
		}

		logrus.WithFields(logrus.Fields{
			"filename": header.Filename,
			"size":     header.Size,
		}).Info("Importando arquivo CSV")

		result, err := service.ImportCSV(r.Context(), actorID(r), file)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao importar arquivo")
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}
