package handler

import (
	"net/http"

	"github.com/hilalapp/hilal/internal/prayertimes"
)

type PrayerTimesHandler struct {
	service *prayertimes.Service
}

func NewPrayerTimesHandler(service *prayertimes.Service) *PrayerTimesHandler {
	return &PrayerTimesHandler{service: service}
}

func (h *PrayerTimesHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	q := r.URL.Query()
	loc := prayertimes.Location{
		City:      q.Get("city"),
		Country:   q.Get("country"),
		Latitude:  q.Get("latitude"),
		Longitude: q.Get("longitude"),
	}

	writeJSON(w, http.StatusOK, h.service.GetTimes(date, loc))
}
