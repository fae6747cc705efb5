package scoring

import "github.com/hilalapp/hilal/internal/model"

// QuranBaseline is a member's Qur'an position carried in from an earlier
// entry, used when the current day has not recorded new progress yet.
type QuranBaseline struct {
	Juz  int
	Page int
}

// DailyProgress is the single-day view for one member. QuranJuz/QuranPage
// are display values and may be carry-overs; the stored record is untouched.
type DailyProgress struct {
	MemberID         int64               `json:"member_id"`
	MemberName       string              `json:"member_name"`
	PhotoPath        string              `json:"photo_path,omitempty"`
	Date             model.Date          `json:"date"`
	FastingStatus    model.FastingStatus `json:"fasting_status"`
	PrayersCompleted int                 `json:"prayers_completed"`
	QuranJuz         int                 `json:"quran_juz"`
	QuranPage        int                 `json:"quran_page"`
	QuranProgress    int                 `json:"quran_progress"`
	MaxQuranJuz      int                 `json:"max_quran_juz"`
	MaxQuranPage     int                 `json:"max_quran_page"`
	DailyGoal        string              `json:"daily_goal,omitempty"`
	CustomCompleted  int                 `json:"custom_items_completed"`
	CustomTotal      int                 `json:"custom_items_total"`
}

// Progress builds the day view for a member. entry may be nil (no record for
// the date); baseline is the most recent Qur'an position recorded strictly
// before the date, and max is the member's personal best across all history.
func Progress(member *model.Member, date model.Date, entry *model.DailyEntry, baseline, max QuranBaseline, activeItems []model.CustomItem) DailyProgress {
	p := DailyProgress{
		MemberID:      member.ID,
		MemberName:    member.Name,
		PhotoPath:     member.PhotoPath,
		Date:          date,
		FastingStatus: model.NotFasting,
		MaxQuranJuz:   max.Juz,
		MaxQuranPage:  max.Page,
		CustomTotal:   len(activeItems),
	}

	if entry == nil {
		// No record yet: show the carried-over position, not a reset to zero.
		p.QuranJuz = baseline.Juz
		p.QuranPage = baseline.Page
		p.QuranProgress = QuranPercent(baseline.Juz)
		return p
	}

	p.FastingStatus = entry.FastingStatus
	if p.FastingStatus == "" {
		p.FastingStatus = model.NotFasting
	}
	p.PrayersCompleted = entry.PrayersCompleted()
	p.DailyGoal = entry.DailyGoal
	p.CustomCompleted = CompletedItems(entry, activeItems)

	p.QuranJuz = entry.QuranJuz
	p.QuranPage = entry.QuranPage
	if entry.QuranJuz == 0 && entry.QuranPage == 0 {
		// Entry exists but reading is untouched today: display the carry-over.
		p.QuranJuz = baseline.Juz
		p.QuranPage = baseline.Page
	}
	p.QuranProgress = QuranPercent(p.QuranJuz)
	return p
}

// QuranPercent converts a juz count to a whole percentage of the 30 juz.
// Pages are not part of the percentage; juz is the canonical unit.
func QuranPercent(juz int) int {
	if juz <= 0 {
		return 0
	}
	return juz * 100 / model.TotalJuz
}

// CarryOverEntry returns the synthetic entry served when a member has no
// record for a date: all activity fields at their defaults, Qur'an counters
// at the carried-over baseline.
func CarryOverEntry(memberID int64, date model.Date, baseline QuranBaseline) *model.DailyEntry {
	return &model.DailyEntry{
		MemberID:      memberID,
		Date:          date,
		FastingStatus: model.NotFasting,
		QuranJuz:      baseline.Juz,
		QuranPage:     baseline.Page,
		CustomItems:   map[string]bool{},
	}
}
