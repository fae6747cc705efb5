package model

import "time"

type FastingStatus string

const (
	Fasting    FastingStatus = "fasting"
	NotFasting FastingStatus = "not_fasting"
	Excused    FastingStatus = "excused"
)

const (
	// TotalJuz is the number of divisions of the Qur'an.
	TotalJuz = 30
	// TotalPages is the page count of the standard mushaf.
	TotalPages = 604
)

// DailyEntry is one member's record for one calendar day. At most one entry
// exists per (member, date); absence means "not yet started" and is distinct
// from an all-zero entry.
type DailyEntry struct {
	ID            int64           `json:"id"`
	MemberID      int64           `json:"member_id"`
	Date          Date            `json:"date"`
	FastingStatus FastingStatus   `json:"fasting_status"`
	Fajr          bool            `json:"fajr"`
	Dhuhr         bool            `json:"dhuhr"`
	Asr           bool            `json:"asr"`
	Maghrib       bool            `json:"maghrib"`
	Isha          bool            `json:"isha"`
	Taraweeh      bool            `json:"taraweeh"`
	QuranJuz      int             `json:"quran_juz"`
	QuranPage     int             `json:"quran_page"`
	DailyGoal     string          `json:"daily_goal,omitempty"`
	CustomItems   map[string]bool `json:"custom_items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// PrayerFlags returns the six prayer booleans in canonical order.
func (e *DailyEntry) PrayerFlags() [6]bool {
	return [6]bool{e.Fajr, e.Dhuhr, e.Asr, e.Maghrib, e.Isha, e.Taraweeh}
}

// PrayersCompleted counts the completed prayers, 0 through 6.
func (e *DailyEntry) PrayersCompleted() int {
	n := 0
	for _, done := range e.PrayerFlags() {
		if done {
			n++
		}
	}
	return n
}

// EntryPatch is a partial update to a daily entry. Nil fields keep the
// stored value (or the default when the entry is being created).
type EntryPatch struct {
	FastingStatus *FastingStatus  `json:"fasting_status,omitempty"`
	Fajr          *bool           `json:"fajr,omitempty"`
	Dhuhr         *bool           `json:"dhuhr,omitempty"`
	Asr           *bool           `json:"asr,omitempty"`
	Maghrib       *bool           `json:"maghrib,omitempty"`
	Isha          *bool           `json:"isha,omitempty"`
	Taraweeh      *bool           `json:"taraweeh,omitempty"`
	QuranJuz      *int            `json:"quran_juz,omitempty"`
	QuranPage     *int            `json:"quran_page,omitempty"`
	DailyGoal     *string         `json:"daily_goal,omitempty"`
	CustomItems   map[string]bool `json:"custom_items,omitempty"`
}
