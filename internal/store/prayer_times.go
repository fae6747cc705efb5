package store

import (
	"database/sql"
	"fmt"

	"github.com/hilalapp/hilal/internal/model"
)

// PrayerTimes is one day's prayer schedule for one location.
type PrayerTimes struct {
	Date    model.Date `json:"date"`
	Fajr    string     `json:"fajr"`
	Dhuhr   string     `json:"dhuhr"`
	Asr     string     `json:"asr"`
	Maghrib string     `json:"maghrib"`
	Isha    string     `json:"isha"`
}

// PrayerTimesStore caches looked-up prayer times keyed by (date, location).
type PrayerTimesStore struct {
	db *sql.DB
}

func NewPrayerTimesStore(db *sql.DB) *PrayerTimesStore {
	return &PrayerTimesStore{db: db}
}

func (s *PrayerTimesStore) Get(date model.Date, locationKey string) (*PrayerTimes, error) {
	var pt PrayerTimes
	var dateStr string
	err := s.db.QueryRow(
		`SELECT date, fajr, dhuhr, asr, maghrib, isha FROM prayer_times_cache WHERE date = ? AND location_key = ?`,
		date.String(), locationKey,
	).Scan(&dateStr, &pt.Fajr, &pt.Dhuhr, &pt.Asr, &pt.Maghrib, &pt.Isha)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached prayer times: %w", err)
	}
	pt.Date, err = model.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse cached date: %w", err)
	}
	return &pt, nil
}

func (s *PrayerTimesStore) Put(locationKey string, pt PrayerTimes) error {
	_, err := s.db.Exec(
		`INSERT INTO prayer_times_cache (date, location_key, fajr, dhuhr, asr, maghrib, isha)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(date, location_key) DO NOTHING`,
		pt.Date.String(), locationKey, pt.Fajr, pt.Dhuhr, pt.Asr, pt.Maghrib, pt.Isha,
	)
	if err != nil {
		return fmt.Errorf("cache prayer times: %w", err)
	}
	return nil
}
