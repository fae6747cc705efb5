package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hilalapp/hilal/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// parseDateQuery reads the "date" query parameter, defaulting to today when
// absent.
func parseDateQuery(r *http.Request) (model.Date, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return model.Today(), nil
	}
	return model.ParseDate(s)
}
