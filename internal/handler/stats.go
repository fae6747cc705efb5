package handler

import (
	"log/slog"
	"net/http"

	"github.com/hilalapp/hilal/internal/model"
	"github.com/hilalapp/hilal/internal/scoring"
	"github.com/hilalapp/hilal/internal/store"
)

// StatsHandler serves the derived views: single-day progress, the family
// snapshot, the monthly grid, and the leaderboard. All figures are computed
// on demand; nothing derived is persisted.
type StatsHandler struct {
	families *store.FamilyStore
	members  *store.MemberStore
	entries  *store.EntryStore
	items    *store.CustomItemStore
	logger   *slog.Logger
}

func NewStatsHandler(families *store.FamilyStore, members *store.MemberStore, entries *store.EntryStore, items *store.CustomItemStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{families: families, members: members, entries: entries, items: items, logger: logger}
}

type familyProgressResponse struct {
	FamilyID   int64                   `json:"family_id"`
	FamilyName string                  `json:"family_name"`
	Date       model.Date              `json:"date"`
	Members    []scoring.DailyProgress `json:"members"`
}

type monthlyStatsResponse struct {
	FamilyID int64                `json:"family_id"`
	Month    string               `json:"month"`
	Dates    []scoring.DaySummary `json:"dates"`
}

type leaderboardResponse struct {
	FamilyID int64                      `json:"family_id"`
	Entries  []scoring.LeaderboardEntry `json:"entries"`
}

// MemberProgress returns the single-day view for one member.
func (h *StatsHandler) MemberProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	progress, err := h.memberProgress(member, date)
	if err != nil {
		h.logger.Error("member progress", "member_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute progress")
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// FamilyProgress returns the per-member day views for every member of a
// family on one date.
func (h *StatsHandler) FamilyProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	family, err := h.families.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get family")
		return
	}
	if family == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	members, err := h.members.ListByFamily(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}

	resp := familyProgressResponse{
		FamilyID:   family.ID,
		FamilyName: family.Name,
		Date:       date,
		Members:    []scoring.DailyProgress{},
	}
	for i := range members {
		progress, err := h.memberProgress(&members[i], date)
		if err != nil {
			h.logger.Error("family progress", "member_id", members[i].ID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to compute progress")
			return
		}
		resp.Members = append(resp.Members, progress)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) memberProgress(member *model.Member, date model.Date) (scoring.DailyProgress, error) {
	entry, err := h.entries.Get(member.ID, date)
	if err != nil {
		return scoring.DailyProgress{}, err
	}

	var baseline scoring.QuranBaseline
	if prior, err := h.entries.LatestQuranBefore(member.ID, date); err != nil {
		return scoring.DailyProgress{}, err
	} else if prior != nil {
		baseline = scoring.QuranBaseline{Juz: prior.QuranJuz, Page: prior.QuranPage}
	}

	maxJuz, maxPage, err := h.entries.MaxQuranProgress(member.ID)
	if err != nil {
		return scoring.DailyProgress{}, err
	}

	activeItems, err := h.items.ListByMember(member.ID, true)
	if err != nil {
		return scoring.DailyProgress{}, err
	}

	return scoring.Progress(member, date, entry, baseline, scoring.QuranBaseline{Juz: maxJuz, Page: maxPage}, activeItems), nil
}

// MonthlyStats returns one summary per day of the requested month.
func (h *StatsHandler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		today := model.Today()
		monthStr = today.Format("2006-01")
	}
	year, month, err := model.ParseMonth(monthStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month format, use YYYY-MM")
		return
	}

	members, err := h.members.ListByFamily(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if len(members) == 0 {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	first := model.NewDate(year, month, 1)
	last := model.NewDate(year, month, model.DaysInMonth(year, month))

	in := scoring.MonthInput{
		Year:        year,
		Month:       month,
		Members:     members,
		Entries:     make(map[int64][]model.DailyEntry, len(members)),
		Baselines:   make(map[int64]int, len(members)),
		ActiveItems: make(map[int64][]model.CustomItem, len(members)),
	}
	for _, member := range members {
		entries, err := h.entries.ListForMemberRange(member.ID, first, last)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list entries")
			return
		}
		in.Entries[member.ID] = entries

		baseline, err := h.entries.LastPageBefore(member.ID, first)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to get reading baseline")
			return
		}
		in.Baselines[member.ID] = baseline

		items, err := h.items.ListByMember(member.ID, true)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list custom items")
			return
		}
		in.ActiveItems[member.ID] = items
	}

	writeJSON(w, http.StatusOK, monthlyStatsResponse{
		FamilyID: id,
		Month:    monthStr,
		Dates:    scoring.MonthlySummary(in),
	})
}

// Leaderboard returns cumulative standings for every family member, best
// first.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	members, err := h.members.ListByFamily(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	if len(members) == 0 {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	histories := make(map[int64][]model.DailyEntry, len(members))
	for _, member := range members {
		entries, err := h.entries.ListForMember(member.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list entries")
			return
		}
		histories[member.ID] = entries
	}

	writeJSON(w, http.StatusOK, leaderboardResponse{
		FamilyID: id,
		Entries:  scoring.Leaderboard(members, histories, model.Today()),
	})
}
