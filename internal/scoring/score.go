package scoring

import (
	"strconv"

	"github.com/hilalapp/hilal/internal/model"
)

// Point weights for a single day. Qur'an reading is scored separately: the
// monthly view rewards daily page deltas, the leaderboard rewards the
// personal-best page count. Both use the same role weighting.
const (
	FastingPoints    = 10
	PrayerPoints     = 2
	CustomItemPoints = 2
	GoalPoints       = 5

	AdultPointsPerPage = 2
	ChildPointsPerPage = 10
)

// PointsPerPage returns the Qur'an page weight for a role.
func PointsPerPage(role model.Role) int {
	if role == model.RoleChild {
		return ChildPointsPerPage
	}
	return AdultPointsPerPage
}

// Breakdown is the result of scoring one entry for one day.
type Breakdown struct {
	Fasting          bool `json:"fasting"`
	PrayersCompleted int  `json:"prayers_completed"`
	CustomCompleted  int  `json:"custom_completed"`
	HasGoal          bool `json:"has_goal"`

	FastingPoints int `json:"fasting_points"`
	PrayerPoints  int `json:"prayer_points"`
	CustomPoints  int `json:"custom_points"`
	GoalPoints    int `json:"goal_points"`
	Total         int `json:"total"`
}

// Score computes the base daily score for an entry against the member's
// active checklist items. A nil entry scores zero across the board. Item ids
// referenced in the entry map that are no longer active count as incomplete;
// an "excused" fasting status earns nothing but is not penalized.
func Score(entry *model.DailyEntry, activeItems []model.CustomItem) Breakdown {
	var b Breakdown
	if entry == nil {
		return b
	}

	if entry.FastingStatus == model.Fasting {
		b.Fasting = true
		b.FastingPoints = FastingPoints
	}

	b.PrayersCompleted = entry.PrayersCompleted()
	b.PrayerPoints = b.PrayersCompleted * PrayerPoints

	b.CustomCompleted = CompletedItems(entry, activeItems)
	b.CustomPoints = b.CustomCompleted * CustomItemPoints

	if entry.DailyGoal != "" {
		b.HasGoal = true
		b.GoalPoints = GoalPoints
	}

	b.Total = b.FastingPoints + b.PrayerPoints + b.CustomPoints + b.GoalPoints
	return b
}

// CompletedItems counts the active items whose id maps to true in the
// entry's stored completion map. Ids absent from the map are incomplete,
// not an error.
func CompletedItems(entry *model.DailyEntry, activeItems []model.CustomItem) int {
	if entry == nil || len(entry.CustomItems) == 0 {
		return 0
	}
	n := 0
	for _, item := range activeItems {
		if entry.CustomItems[strconv.FormatInt(item.ID, 10)] {
			n++
		}
	}
	return n
}

// storedCompletions counts every true value in the entry's map regardless of
// whether the item is still active. The leaderboard scores history with the
// map as recorded, so deactivating an item never erases past credit.
func storedCompletions(entry *model.DailyEntry) int {
	n := 0
	for _, done := range entry.CustomItems {
		if done {
			n++
		}
	}
	return n
}
