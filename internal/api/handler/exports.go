package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/analysis"
	"github.com/vfg2006/records-api/internal/usecases/reporting"
)

// ExportWorkbook entrega a planilha com as abas Pivot e Raw
func ExportWorkbook(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		freq, err := analysis.ParseFrequency(r.URL.Query().Get("frequency"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar planilha")
			return
		}

		filter, err := parseFilter(r)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar planilha")
			return
		}

		file, err := service.ExportWorkbook(r.Context(), filter, freq)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar planilha")
			return
		}

		writeFile(w, file)
	}
}

func ExportCSV(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar CSV")
			return
		}

		file, err := service.ExportCSV(r.Context(), filter)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar CSV")
			return
		}

		writeFile(w, file)
	}
}

func writeFile(w http.ResponseWriter, file *reporting.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(file.Data); err != nil {
		logrus.WithError(err).WithField("file", file.Name).Warn("Erro ao enviar arquivo exportado")
	}
}
