package scoring

import (
	"testing"

	"github.com/hilalapp/hilal/internal/model"
)

func item(id int64, active bool) model.CustomItem {
	return model.CustomItem{ID: id, Title: "item", IsActive: active}
}

func TestScoreNilEntry(t *testing.T) {
	b := Score(nil, []model.CustomItem{item(1, true)})
	if b.Total != 0 {
		t.Errorf("total = %d, want 0", b.Total)
	}
	if b.Fasting || b.HasGoal || b.PrayersCompleted != 0 || b.CustomCompleted != 0 {
		t.Errorf("breakdown not zero: %+v", b)
	}
}

func TestScoreFullDay(t *testing.T) {
	e := &model.DailyEntry{
		FastingStatus: model.Fasting,
		Fajr:          true, Dhuhr: true, Asr: true, Maghrib: true, Isha: true, Taraweeh: true,
		DailyGoal:   "finish surah al-kahf",
		CustomItems: map[string]bool{"1": true, "2": true},
	}
	items := []model.CustomItem{item(1, true), item(2, true)}

	b := Score(e, items)
	// 10 fasting + 12 prayers + 4 custom + 5 goal
	if b.Total != 31 {
		t.Errorf("total = %d, want 31", b.Total)
	}
	if b.PrayersCompleted != 6 {
		t.Errorf("prayers = %d, want 6", b.PrayersCompleted)
	}
	if b.CustomCompleted != 2 {
		t.Errorf("custom = %d, want 2", b.CustomCompleted)
	}
}

func TestScoreBreakdownSumsToTotal(t *testing.T) {
	entries := []*model.DailyEntry{
		{FastingStatus: model.Fasting, Fajr: true, Dhuhr: true},
		{FastingStatus: model.Excused, DailyGoal: "dua for the family"},
		{FastingStatus: model.NotFasting, CustomItems: map[string]bool{"1": true, "3": false}},
		{FastingStatus: model.Fasting, Fajr: true, Asr: true, Isha: true, Taraweeh: true,
			DailyGoal: "read juz 5", CustomItems: map[string]bool{"1": true, "2": true}},
	}
	items := []model.CustomItem{item(1, true), item(2, true)}

	for i, e := range entries {
		b := Score(e, items)
		sum := b.FastingPoints + b.PrayerPoints + b.CustomPoints + b.GoalPoints
		if sum != b.Total {
			t.Errorf("entry %d: breakdown sum %d != total %d", i, sum, b.Total)
		}
	}
}

func TestScoreExcusedEarnsNoFastingPoints(t *testing.T) {
	e := &model.DailyEntry{FastingStatus: model.Excused}
	b := Score(e, nil)
	if b.FastingPoints != 0 || b.Fasting {
		t.Errorf("excused day scored fasting points: %+v", b)
	}
}

func TestScoreIgnoresInactiveItems(t *testing.T) {
	e := &model.DailyEntry{CustomItems: map[string]bool{"1": true, "2": true}}
	// Only item 1 is still active; item 2 was deactivated.
	b := Score(e, []model.CustomItem{item(1, true)})
	if b.CustomCompleted != 1 {
		t.Errorf("custom completed = %d, want 1", b.CustomCompleted)
	}
	if b.CustomPoints != CustomItemPoints {
		t.Errorf("custom points = %d, want %d", b.CustomPoints, CustomItemPoints)
	}
}

func TestScoreMissingMapIDIsIncomplete(t *testing.T) {
	e := &model.DailyEntry{CustomItems: map[string]bool{"1": true}}
	b := Score(e, []model.CustomItem{item(1, true), item(7, true)})
	if b.CustomCompleted != 1 {
		t.Errorf("custom completed = %d, want 1", b.CustomCompleted)
	}
}

func TestScoreEmptyGoalNoBonus(t *testing.T) {
	b := Score(&model.DailyEntry{DailyGoal: ""}, nil)
	if b.GoalPoints != 0 || b.HasGoal {
		t.Errorf("empty goal earned bonus: %+v", b)
	}
}

func TestPointsPerPage(t *testing.T) {
	if got := PointsPerPage(model.RoleAdult); got != AdultPointsPerPage {
		t.Errorf("adult = %d, want %d", got, AdultPointsPerPage)
	}
	if got := PointsPerPage(model.RoleChild); got != ChildPointsPerPage {
		t.Errorf("child = %d, want %d", got, ChildPointsPerPage)
	}
	// Unknown roles weight like adults.
	if got := PointsPerPage(model.Role("guest")); got != AdultPointsPerPage {
		t.Errorf("guest = %d, want %d", got, AdultPointsPerPage)
	}
}
