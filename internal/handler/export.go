package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/globetrotter/backend/internal/domain"
	"github.com/pkordes/globetrotter/backend/internal/middleware"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "start_date", "end_date", "currency",
	"city_order", "city_name", "city_country",
	"day_number", "day_date", "feasibility",
	"activity_name", "activity_type", "activity_time", "duration_minutes", "cost", "activity_notes",
}

// ExportTrip handles GET /trips/{id}/export.
// It returns the itinerary as a flat table, one row per activity.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeValidation(w, "format must be json or csv", map[string]string{"format": "must be one of json, csv"})
		return
	}

	rows, err := s.trips.Export(r.Context(), middleware.UserID(r.Context()), tripID)
	if err != nil {
		s.handleError(w, r, err, tripErrs)
		return
	}

	if format != "csv" {
		writeJSON(w, http.StatusOK, rows)
		return
	}

	buf := buildCSV(rows)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+tripID+`.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	buf.WriteTo(w)
}

// buildCSV encodes rows as CSV. Fields a row does not reach (a city without
// days, a day without activities) are written as empty cells.
func buildCSV(rows []domain.ExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(rowToCSVRecord(r))
	}
	w.Flush()
	return &buf
}

func rowToCSVRecord(r domain.ExportRow) []string {
	rec := []string{
		r.TripID, r.TripName, r.StartDate, r.EndDate, r.Currency,
		optInt(r.CityOrder), r.CityName, r.CityCountry,
		optInt(r.DayNumber), r.DayDate, string(r.Feasibility),
		r.ActivityName, r.ActivityType, r.ActivityTime, "", "", r.ActivityNotes,
	}
	if r.ActivityName != "" {
		rec[14] = strconv.Itoa(r.DurationMinutes)
		rec[15] = strconv.FormatFloat(r.Cost, 'f', -1, 64)
	}
	return rec
}

func optInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
