package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrSchema, "colunas obrigatórias ausentes", map[string]any{"missing": []string{"value"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrSchema, body.Code)
	assert.Equal(t, map[string]any{"missing": []any{"value"}}, body.Details)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(ErrRecordNotFound))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusFor(ErrFileTooLarge))
	assert.Equal(t, http.StatusBadRequest, StatusFor(ErrEmptyDataset))
	assert.Equal(t, http.StatusInternalServerError, StatusFor("XYZ_999"))
}
