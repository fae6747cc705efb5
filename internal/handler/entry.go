package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hilalapp/hilal/internal/model"
	"github.com/hilalapp/hilal/internal/scoring"
	"github.com/hilalapp/hilal/internal/store"
)

type EntryHandler struct {
	entries *store.EntryStore
	members *store.MemberStore
	logger  *slog.Logger
}

func NewEntryHandler(entries *store.EntryStore, members *store.MemberStore, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entries: entries, members: members, logger: logger}
}

// DailyStats returns the member's entry for a date. When no entry exists the
// response is a synthetic entry whose Qur'an counters carry over the most
// recent prior position, so the caller never sees a false reset to zero.
func (h *EntryHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookupMember(w, r)
	if !ok {
		return
	}

	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	entry, err := h.entries.Get(member.ID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get entry")
		return
	}
	if entry != nil {
		writeJSON(w, http.StatusOK, entry)
		return
	}

	baseline, err := h.quranBaseline(member.ID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get entry")
		return
	}
	writeJSON(w, http.StatusOK, scoring.CarryOverEntry(member.ID, date, baseline))
}

// Upsert creates or merges a daily entry. Qur'an edits cascade forward to
// every later entry inside the store transaction.
func (h *EntryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	member, ok := h.lookupMember(w, r)
	if !ok {
		return
	}

	date, err := model.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	var patch model.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if patch.FastingStatus != nil {
		switch *patch.FastingStatus {
		case model.Fasting, model.NotFasting, model.Excused:
		default:
			writeError(w, http.StatusBadRequest, "fasting_status must be fasting, not_fasting, or excused")
			return
		}
	}

	entry, err := h.entries.Upsert(member.ID, date, patch)
	if err != nil {
		h.logger.Error("upsert entry", "member_id", member.ID, "date", date.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update entry")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) quranBaseline(memberID int64, date model.Date) (scoring.QuranBaseline, error) {
	prior, err := h.entries.LatestQuranBefore(memberID, date)
	if err != nil {
		return scoring.QuranBaseline{}, err
	}
	if prior == nil {
		return scoring.QuranBaseline{}, nil
	}
	return scoring.QuranBaseline{Juz: prior.QuranJuz, Page: prior.QuranPage}, nil
}

func (h *EntryHandler) lookupMember(w http.ResponseWriter, r *http.Request) (*model.Member, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	member, err := h.members.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get member")
		return nil, false
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return nil, false
	}
	return member, true
}
