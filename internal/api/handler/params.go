package handler

import (
	"net/http"
	"strconv"

	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/pkg/utils"
)

// parseFilter lê category, start_date e end_date (inclusiva) da query string
func parseFilter(r *http.Request) (domain.RecordFilter, error) {
	query := r.URL.Query()
	filter := domain.RecordFilter{Category: query.Get("category")}

	from, err := utils.ParseDate(query.Get("start_date"))
	if err != nil {
		return filter, &recording.InvalidQueryError{Parameter: "start_date", Reason: "formato esperado YYYY-MM-DD"}
	}

	to, err := utils.ParseEndDate(query.Get("end_date"))
	if err != nil {
		return filter, &recording.InvalidQueryError{Parameter: "end_date", Reason: "formato esperado YYYY-MM-DD"}
	}

	filter.From = from
	filter.To = to
	return filter, nil
}

// intParam devolve def quando o parâmetro está ausente
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &recording.InvalidQueryError{Parameter: name, Reason: "deve ser um número inteiro"}
	}

	return value, nil
}
