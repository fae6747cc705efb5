package prayertimes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hilalapp/hilal/internal/model"
	"github.com/hilalapp/hilal/internal/store"
)

// Location identifies where to look up prayer times. City+Country wins over
// coordinates; with neither set the lookup falls back to Mecca.
type Location struct {
	City      string
	Country   string
	Latitude  string
	Longitude string
}

// Key returns the cache key for the location.
func (l Location) Key() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + "_" + l.Country
	case l.Latitude != "" && l.Longitude != "":
		return l.Latitude + "_" + l.Longitude
	default:
		return "default_mecca_saudi_arabia"
	}
}

// Service looks up prayer times from the aladhan.com API, caching each
// (date, location) result in the database. Lookups that fail return a fixed
// fallback schedule rather than an error; the tracker itself never depends
// on these times.
type Service struct {
	client  *http.Client
	baseURL string
	cache   *store.PrayerTimesStore
	logger  *slog.Logger
}

func NewService(cache *store.PrayerTimesStore, logger *slog.Logger) *Service {
	return &Service{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "http://api.aladhan.com/v1",
		cache:   cache,
		logger:  logger,
	}
}

// GetTimes returns the prayer times for a date and location, from cache when
// possible.
func (s *Service) GetTimes(date model.Date, loc Location) store.PrayerTimes {
	key := loc.Key()

	cached, err := s.cache.Get(date, key)
	if err != nil {
		s.logger.Error("prayer times cache read", "error", err)
	}
	if cached != nil {
		return *cached
	}

	times, err := s.fetch(date, loc)
	if err != nil {
		s.logger.Warn("prayer times lookup failed, using fallback", "location", key, "error", err)
		return fallbackTimes(date)
	}

	if err := s.cache.Put(key, times); err != nil {
		s.logger.Error("prayer times cache write", "error", err)
	}
	return times
}

type apiResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings struct {
			Fajr    string `json:"Fajr"`
			Dhuhr   string `json:"Dhuhr"`
			Asr     string `json:"Asr"`
			Maghrib string `json:"Maghrib"`
			Isha    string `json:"Isha"`
		} `json:"timings"`
	} `json:"data"`
}

func (s *Service) fetch(date model.Date, loc Location) (store.PrayerTimes, error) {
	day := date.Format("02-01-2006")

	var reqURL string
	params := url.Values{}
	switch {
	case loc.City != "" && loc.Country != "":
		reqURL = s.baseURL + "/timingsByCity/" + day
		params.Set("city", loc.City)
		params.Set("country", loc.Country)
	case loc.Latitude != "" && loc.Longitude != "":
		reqURL = s.baseURL + "/timings/" + day
		params.Set("latitude", loc.Latitude)
		params.Set("longitude", loc.Longitude)
	default:
		reqURL = s.baseURL + "/timingsByCity/" + day
		params.Set("city", "Mecca")
		params.Set("country", "Saudi Arabia")
	}

	resp, err := s.client.Get(reqURL + "?" + params.Encode())
	if err != nil {
		return store.PrayerTimes{}, fmt.Errorf("prayer times request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return store.PrayerTimes{}, fmt.Errorf("prayer times API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return store.PrayerTimes{}, fmt.Errorf("decode prayer times response: %w", err)
	}
	if apiResp.Code != http.StatusOK {
		return store.PrayerTimes{}, fmt.Errorf("prayer times API code %d", apiResp.Code)
	}

	t := apiResp.Data.Timings
	return store.PrayerTimes{
		Date:    date,
		Fajr:    t.Fajr,
		Dhuhr:   t.Dhuhr,
		Asr:     t.Asr,
		Maghrib: t.Maghrib,
		Isha:    t.Isha,
	}, nil
}

func fallbackTimes(date model.Date) store.PrayerTimes {
	return store.PrayerTimes{
		Date:    date,
		Fajr:    "05:00",
		Dhuhr:   "12:30",
		Asr:     "15:45",
		Maghrib: "18:15",
		Isha:    "19:30",
	}
}
