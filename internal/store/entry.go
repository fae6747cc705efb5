package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hilalapp/hilal/internal/model"
)

// EntryStore persists daily entries. Upsert is the only writer and is
// serialized per member, because the forward cascade rewrites every later
// entry and two overlapping cascades would be last-write-wins.
type EntryStore struct {
	db *sql.DB

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db, locks: make(map[int64]*sync.Mutex)}
}

func (s *EntryStore) memberLock(memberID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[memberID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[memberID] = l
	}
	return l
}

const entryCols = `id, member_id, date, fasting_status, fajr, dhuhr, asr, maghrib, isha, taraweeh, quran_juz, quran_page, daily_goal, custom_items, created_at, updated_at`

func scanEntry(scanner interface{ Scan(...any) error }) (*model.DailyEntry, error) {
	var e model.DailyEntry
	var dateStr, itemsJSON string
	var fajr, dhuhr, asr, maghrib, isha, taraweeh int

	err := scanner.Scan(
		&e.ID, &e.MemberID, &dateStr, &e.FastingStatus,
		&fajr, &dhuhr, &asr, &maghrib, &isha, &taraweeh,
		&e.QuranJuz, &e.QuranPage, &e.DailyGoal, &itemsJSON,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Date, err = model.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("scan entry date: %w", err)
	}
	e.Fajr = fajr != 0
	e.Dhuhr = dhuhr != 0
	e.Asr = asr != 0
	e.Maghrib = maghrib != 0
	e.Isha = isha != 0
	e.Taraweeh = taraweeh != 0

	if err := json.Unmarshal([]byte(itemsJSON), &e.CustomItems); err != nil {
		return nil, fmt.Errorf("decode custom items: %w", err)
	}
	if e.CustomItems == nil {
		e.CustomItems = map[string]bool{}
	}
	return &e, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Get returns the entry for a member and date, or nil if none exists.
func (s *EntryStore) Get(memberID int64, date model.Date) (*model.DailyEntry, error) {
	row := s.db.QueryRow(
		`SELECT `+entryCols+` FROM daily_entries WHERE member_id = ? AND date = ?`,
		memberID, date.String(),
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListForMember returns a member's full history in ascending date order.
func (s *EntryStore) ListForMember(memberID int64) ([]model.DailyEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM daily_entries WHERE member_id = ? ORDER BY date ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListForMemberRange returns a member's entries with from <= date <= to,
// ascending.
func (s *EntryStore) ListForMemberRange(memberID int64, from, to model.Date) ([]model.DailyEntry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM daily_entries WHERE member_id = ? AND date >= ? AND date <= ? ORDER BY date ASC`,
		memberID, from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list entries in range: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListForFamilyOn returns every entry recorded by the family's members on
// the given date.
func (s *EntryStore) ListForFamilyOn(familyID int64, date model.Date) ([]model.DailyEntry, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.member_id, e.date, e.fasting_status, e.fajr, e.dhuhr, e.asr, e.maghrib, e.isha, e.taraweeh,
		        e.quran_juz, e.quran_page, e.daily_goal, e.custom_items, e.created_at, e.updated_at
		 FROM daily_entries e
		 JOIN family_members m ON m.id = e.member_id
		 WHERE m.family_id = ? AND e.date = ?
		 ORDER BY e.member_id ASC`,
		familyID, date.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list family entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// LatestQuranBefore returns the most recent entry strictly before date that
// recorded any Qur'an progress, or nil if none exists.
func (s *EntryStore) LatestQuranBefore(memberID int64, date model.Date) (*model.DailyEntry, error) {
	row := s.db.QueryRow(
		`SELECT `+entryCols+` FROM daily_entries
		 WHERE member_id = ? AND date < ? AND (quran_juz > 0 OR quran_page > 0)
		 ORDER BY date DESC LIMIT 1`,
		memberID, date.String(),
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest quran entry: %w", err)
	}
	return e, nil
}

// LastPageBefore returns the member's last reported page count strictly
// before date, or 0 when nothing was reported.
func (s *EntryStore) LastPageBefore(memberID int64, date model.Date) (int, error) {
	var page int
	err := s.db.QueryRow(
		`SELECT quran_page FROM daily_entries
		 WHERE member_id = ? AND date < ? AND quran_page > 0
		 ORDER BY date DESC LIMIT 1`,
		memberID, date.String(),
	).Scan(&page)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("last page before: %w", err)
	}
	return page, nil
}

// MaxQuranProgress returns the member's personal-best juz and page across
// all history, independent of date order.
func (s *EntryStore) MaxQuranProgress(memberID int64) (maxJuz, maxPage int, err error) {
	err = s.db.QueryRow(
		`SELECT COALESCE(MAX(quran_juz), 0), COALESCE(MAX(quran_page), 0) FROM daily_entries WHERE member_id = ?`,
		memberID,
	).Scan(&maxJuz, &maxPage)
	if err != nil {
		return 0, 0, fmt.Errorf("max quran progress: %w", err)
	}
	return maxJuz, maxPage, nil
}

// Upsert creates or merges the entry for (member, date) and, when the patch
// moves the Qur'an counters, cascades the deltas to every later entry of the
// member inside the same transaction. Later entries clamp juz to [0,30] and
// page to >= 0. The entry write and the cascade commit together or not at
// all.
func (s *EntryStore) Upsert(memberID int64, date model.Date, patch model.EntryPatch) (*model.DailyEntry, error) {
	lock := s.memberLock(memberID)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+entryCols+` FROM daily_entries WHERE member_id = ? AND date = ?`,
		memberID, date.String(),
	)
	existing, err := scanEntry(row)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get entry for upsert: %w", err)
	}

	oldJuz, oldPage := 0, 0
	merged := model.DailyEntry{
		MemberID:      memberID,
		Date:          date,
		FastingStatus: model.NotFasting,
		CustomItems:   map[string]bool{},
	}
	if existing != nil {
		merged = *existing
		oldJuz, oldPage = existing.QuranJuz, existing.QuranPage
	}

	applyPatch(&merged, patch)

	itemsJSON, err := json.Marshal(merged.CustomItems)
	if err != nil {
		return nil, fmt.Errorf("encode custom items: %w", err)
	}

	if existing == nil {
		_, err = tx.Exec(
			`INSERT INTO daily_entries (member_id, date, fasting_status, fajr, dhuhr, asr, maghrib, isha, taraweeh, quran_juz, quran_page, daily_goal, custom_items)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			memberID, date.String(), merged.FastingStatus,
			boolInt(merged.Fajr), boolInt(merged.Dhuhr), boolInt(merged.Asr),
			boolInt(merged.Maghrib), boolInt(merged.Isha), boolInt(merged.Taraweeh),
			merged.QuranJuz, merged.QuranPage, merged.DailyGoal, string(itemsJSON),
		)
		if err != nil {
			return nil, fmt.Errorf("insert entry: %w", err)
		}
	} else {
		_, err = tx.Exec(
			`UPDATE daily_entries
			 SET fasting_status = ?, fajr = ?, dhuhr = ?, asr = ?, maghrib = ?, isha = ?, taraweeh = ?,
			     quran_juz = ?, quran_page = ?, daily_goal = ?, custom_items = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE member_id = ? AND date = ?`,
			merged.FastingStatus,
			boolInt(merged.Fajr), boolInt(merged.Dhuhr), boolInt(merged.Asr),
			boolInt(merged.Maghrib), boolInt(merged.Isha), boolInt(merged.Taraweeh),
			merged.QuranJuz, merged.QuranPage, merged.DailyGoal, string(itemsJSON),
			memberID, date.String(),
		)
		if err != nil {
			return nil, fmt.Errorf("update entry: %w", err)
		}
	}

	pageDelta := merged.QuranPage - oldPage
	juzDelta := merged.QuranJuz - oldJuz
	if pageDelta != 0 || juzDelta != 0 {
		if err := cascade(tx, memberID, date, pageDelta, juzDelta); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry upsert: %w", err)
	}

	return s.Get(memberID, date)
}

// cascade shifts every later entry's Qur'an counters by the deltas, modeling
// the cumulative position moving for every day after the corrected one. No
// reconciliation against a later day's own recorded values is attempted.
func cascade(tx *sql.Tx, memberID int64, after model.Date, pageDelta, juzDelta int) error {
	_, err := tx.Exec(
		`UPDATE daily_entries
		 SET quran_page = MAX(quran_page + ?, 0),
		     quran_juz = MIN(MAX(quran_juz + ?, 0), ?),
		     updated_at = CURRENT_TIMESTAMP
		 WHERE member_id = ? AND date > ?`,
		pageDelta, juzDelta, model.TotalJuz, memberID, after.String(),
	)
	if err != nil {
		return fmt.Errorf("cascade quran deltas: %w", err)
	}
	return nil
}

func applyPatch(e *model.DailyEntry, p model.EntryPatch) {
	if p.FastingStatus != nil {
		e.FastingStatus = *p.FastingStatus
	}
	if p.Fajr != nil {
		e.Fajr = *p.Fajr
	}
	if p.Dhuhr != nil {
		e.Dhuhr = *p.Dhuhr
	}
	if p.Asr != nil {
		e.Asr = *p.Asr
	}
	if p.Maghrib != nil {
		e.Maghrib = *p.Maghrib
	}
	if p.Isha != nil {
		e.Isha = *p.Isha
	}
	if p.Taraweeh != nil {
		e.Taraweeh = *p.Taraweeh
	}
	if p.QuranJuz != nil {
		e.QuranJuz = clamp(*p.QuranJuz, 0, model.TotalJuz)
	}
	if p.QuranPage != nil {
		e.QuranPage = max(*p.QuranPage, 0)
	}
	if p.DailyGoal != nil {
		e.DailyGoal = *p.DailyGoal
	}
	if p.CustomItems != nil {
		e.CustomItems = p.CustomItems
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
