package scoring

import (
	"sort"

	"github.com/hilalapp/hilal/internal/model"
)

// LeaderboardEntry is one member's cumulative standing.
type LeaderboardEntry struct {
	MemberID        int64      `json:"member_id"`
	MemberName      string     `json:"member_name"`
	Role            model.Role `json:"role"`
	PhotoPath       string     `json:"photo_path,omitempty"`
	TotalScore      int        `json:"total_score"`
	FastingStreak   int        `json:"fasting_streak"`
	FastingTotal    int        `json:"fasting_total"`
	QuranStreak     int        `json:"quran_streak"`
	QuranPagesTotal int        `json:"quran_pages_total"`
}

// Leaderboard computes every member's cumulative totals and streaks over
// their full history and returns the entries sorted by total score
// descending. Ties keep member order (stable sort). histories must hold each
// member's entries in ascending date order; today anchors the Qur'an streak
// recency check.
func Leaderboard(members []model.Member, histories map[int64][]model.DailyEntry, today model.Date) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, memberStanding(member, histories[member.ID], today))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}

func memberStanding(member model.Member, history []model.DailyEntry, today model.Date) LeaderboardEntry {
	e := LeaderboardEntry{
		MemberID:   member.ID,
		MemberName: member.Name,
		Role:       member.Role,
		PhotoPath:  member.PhotoPath,
	}

	maxPage := 0
	var gainDays []model.Date

	for i := range history {
		entry := &history[i]

		switch entry.FastingStatus {
		case model.Fasting:
			e.FastingStreak++
			e.FastingTotal++
			e.TotalScore += FastingPoints
		case model.Excused:
			// Neither builds nor breaks the streak.
		default:
			e.FastingStreak = 0
		}

		e.TotalScore += entry.PrayersCompleted() * PrayerPoints
		// History is scored with the map as stored, not re-filtered against
		// the items active today.
		e.TotalScore += storedCompletions(entry) * CustomItemPoints
		if entry.DailyGoal != "" {
			e.TotalScore += GoalPoints
		}

		if entry.QuranPage > maxPage {
			maxPage = entry.QuranPage
			gainDays = append(gainDays, entry.Date)
		}
	}

	e.QuranPagesTotal = maxPage
	e.TotalScore += maxPage * PointsPerPage(member.Role)
	e.QuranStreak = QuranStreak(gainDays, today)
	return e
}

// QuranStreak counts consecutive reading days ending at the most recent gain
// day. The streak is live only when the last gain was today or yesterday;
// walking backward, a gap of exactly one calendar day extends the streak and
// any larger gap stops it. The streak measures consistency of reading days,
// not pages retained.
func QuranStreak(gainDays []model.Date, today model.Date) int {
	if len(gainDays) == 0 {
		return 0
	}

	last := gainDays[len(gainDays)-1]
	if today.DaysSince(last) > 1 {
		return 0
	}

	streak := 1
	for i := len(gainDays) - 2; i >= 0; i-- {
		if gainDays[i+1].DaysSince(gainDays[i]) != 1 {
			break
		}
		streak++
	}
	return streak
}
