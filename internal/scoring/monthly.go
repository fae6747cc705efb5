package scoring

import (
	"time"

	"github.com/hilalapp/hilal/internal/model"
)

// MemberDayScore is one member's score on one day of the monthly grid.
type MemberDayScore struct {
	MemberID      int64               `json:"member_id"`
	MemberName    string              `json:"member_name"`
	Role          model.Role          `json:"role"`
	Score         int                 `json:"score"`
	QuranPoints   int                 `json:"quran_points"`
	FastingStatus model.FastingStatus `json:"fasting_status"`
}

// DaySummary is one day of the monthly view. AverageScore is the family
// total divided by the member count, used for calendar color-coding.
type DaySummary struct {
	Date         model.Date       `json:"date"`
	AverageScore float64          `json:"total_score"`
	MemberScores []MemberDayScore `json:"members_scores"`
	FastingCount int              `json:"fasting_count"`
}

// MonthInput carries everything the monthly aggregator needs, already
// fetched: the family's members, each member's entries within the month in
// ascending date order, the Qur'an page baselines entering the month, and
// each member's active checklist items.
type MonthInput struct {
	Year        int
	Month       time.Month
	Members     []model.Member
	Entries     map[int64][]model.DailyEntry
	Baselines   map[int64]int
	ActiveItems map[int64][]model.CustomItem
}

// MonthlySummary folds over every day of the month, scoring each member's
// entry and awarding Qur'an credit for the pages read beyond the running
// baseline. The baseline only ever advances, and only on days that actually
// report a page count: a page of 0 means "not reported", not "reset".
//
// This deliberately differs from the leaderboard, which credits the
// personal-best page count once rather than summing daily deltas.
func MonthlySummary(in MonthInput) []DaySummary {
	baselines := make(map[int64]int, len(in.Members))
	for id, page := range in.Baselines {
		baselines[id] = page
	}

	byDay := make(map[int64]map[string]*model.DailyEntry, len(in.Entries))
	for memberID, entries := range in.Entries {
		m := make(map[string]*model.DailyEntry, len(entries))
		for i := range entries {
			m[entries[i].Date.String()] = &entries[i]
		}
		byDay[memberID] = m
	}

	numDays := model.DaysInMonth(in.Year, in.Month)
	summaries := make([]DaySummary, 0, numDays)

	for day := 1; day <= numDays; day++ {
		date := model.NewDate(in.Year, in.Month, day)
		summary := DaySummary{Date: date, MemberScores: []MemberDayScore{}}
		familyTotal := 0

		for _, member := range in.Members {
			entry := byDay[member.ID][date.String()]
			if entry == nil {
				continue
			}

			base := Score(entry, in.ActiveItems[member.ID])
			if base.Fasting {
				summary.FastingCount++
			}

			// A page of 0 never lowers the baseline: it means "not
			// reported", not "reset to zero".
			quranPoints := 0
			if entry.QuranPage > baselines[member.ID] {
				quranPoints = (entry.QuranPage - baselines[member.ID]) * PointsPerPage(member.Role)
				baselines[member.ID] = entry.QuranPage
			}

			score := base.Total + quranPoints
			familyTotal += score

			status := entry.FastingStatus
			if status == "" {
				status = model.NotFasting
			}
			summary.MemberScores = append(summary.MemberScores, MemberDayScore{
				MemberID:      member.ID,
				MemberName:    member.Name,
				Role:          member.Role,
				Score:         score,
				QuranPoints:   quranPoints,
				FastingStatus: status,
			})
		}

		if len(in.Members) > 0 {
			summary.AverageScore = float64(familyTotal) / float64(len(in.Members))
		}
		summaries = append(summaries, summary)
	}

	return summaries
}
