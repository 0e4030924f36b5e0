package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/usecases/reporting"
)

func GetStats(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Stats(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao calcular estatísticas")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// GetAggregate agrupa por categoria (padrão) ou subcategoria
func GetAggregate(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupBy, err := analysis.ParseGroupBy(r.URL.Query().Get("group_by"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao agregar registros")
			return
		}

		filter, err := parseFilter(r)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao agregar registros")
			return
		}

		rows, err := service.Aggregate(r.Context(), groupBy, filter)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao agregar registros")
			return
		}

		writeJSON(w, http.StatusOK, rows)
	}
}

// GetTimeSeries devolve a série reamostrada; com window calcula também a média móvel
func GetTimeSeries(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseTimeSeriesQuery(r)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gerar série temporal")
			return
		}

		series, err := service.TimeSeries(r.Context(), query)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gerar série temporal")
			return
		}

		writeJSON(w, http.StatusOK, series)
	}
}

func parseTimeSeriesQuery(r *http.Request) (reporting.TimeSeriesQuery, error) {
	var query reporting.TimeSeriesQuery
	values := r.URL.Query()

	freq, err := analysis.ParseFrequency(values.Get("frequency"))
	if err != nil {
		return query, err
	}
	query.Frequency = freq

	query.Filter, err = parseFilter(r)
	if err != nil {
		return query, err
	}

	if raw := values.Get("days"); raw != "" {
		query.Days, err = strconv.Atoi(raw)
		if err != nil {
			return query, invalidNumber("days", raw)
		}
	}

	if raw := values.Get("window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil {
			return query, invalidNumber("window", raw)
		}
		query.Window = &window
	}

	return query, nil
}

func invalidNumber(parameter, value string) *analysis.InvalidParameterError {
	return &analysis.InvalidParameterError{
		Parameter: parameter,
		Value:     value,
		Reason:    fmt.Sprintf("%s deve ser um número inteiro", parameter),
	}
}
