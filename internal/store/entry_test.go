package store

import (
	"testing"
	"time"

	"github.com/hilalapp/hilal/internal/database"
	"github.com/hilalapp/hilal/internal/model"
)

func setupTestDB(t *testing.T) (*EntryStore, *MemberStore, *FamilyStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// Ensure foreign keys are enforced (modernc/sqlite may not honor DSN param for :memory:)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEntryStore(db), NewMemberStore(db), NewFamilyStore(db)
}

func seedMember(t *testing.T, families *FamilyStore, members *MemberStore) *model.Member {
	t.Helper()
	f, err := families.Create("Rahman", "Dearborn", "US", "42.32", "-83.18")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	m, err := members.Create(f.ID, "Amina", model.RoleAdult)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func ip(v int) *int { return &v }

func bp(v bool) *bool { return &v }

func sp(v string) *string { return &v }

func fsp(v model.FastingStatus) *model.FastingStatus { return &v }

func march(day int) model.Date { return model.NewDate(2024, time.March, day) }

func TestUpsertCreatesEntry(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	e, err := entries.Upsert(m.ID, march(10), model.EntryPatch{
		FastingStatus: fsp(model.Fasting),
		Fajr:          bp(true),
		QuranJuz:      ip(3),
		QuranPage:     ip(60),
		DailyGoal:     sp("read juz 4"),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if e.ID == 0 {
		t.Error("entry has no id")
	}
	if e.FastingStatus != model.Fasting || !e.Fajr || e.QuranJuz != 3 || e.QuranPage != 60 {
		t.Errorf("entry = %+v", e)
	}
	if e.DailyGoal != "read juz 4" {
		t.Errorf("goal = %q", e.DailyGoal)
	}
	if e.CustomItems == nil {
		t.Error("custom items map is nil")
	}
}

func TestUpsertMergesPartialPatch(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{
		FastingStatus: fsp(model.Fasting),
		Fajr:          bp(true),
		QuranPage:     ip(60),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// A later patch that only flips a prayer must not disturb the rest.
	e, err := entries.Upsert(m.ID, march(10), model.EntryPatch{Dhuhr: bp(true)})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if !e.Fajr || !e.Dhuhr {
		t.Errorf("prayers = fajr %v dhuhr %v, want both", e.Fajr, e.Dhuhr)
	}
	if e.FastingStatus != model.Fasting || e.QuranPage != 60 {
		t.Errorf("merged entry lost fields: %+v", e)
	}
}

func TestUpsertDefaultsFastingStatus(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	e, err := entries.Upsert(m.ID, march(1), model.EntryPatch{Asr: bp(true)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if e.FastingStatus != model.NotFasting {
		t.Errorf("status = %q, want not_fasting", e.FastingStatus)
	}
}

func TestUpsertClampsQuranValues(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	e, err := entries.Upsert(m.ID, march(1), model.EntryPatch{QuranJuz: ip(45), QuranPage: ip(-3)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if e.QuranJuz != model.TotalJuz {
		t.Errorf("juz = %d, want %d", e.QuranJuz, model.TotalJuz)
	}
	if e.QuranPage != 0 {
		t.Errorf("page = %d, want 0", e.QuranPage)
	}
}

func TestCascadeShiftsLaterEntries(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	seed := []struct {
		day, juz, page int
	}{
		{5, 2, 40},
		{10, 3, 60},
		{15, 4, 80},
	}
	for _, s := range seed {
		if _, err := entries.Upsert(m.ID, march(s.day), model.EntryPatch{QuranJuz: ip(s.juz), QuranPage: ip(s.page)}); err != nil {
			t.Fatalf("seed day %d: %v", s.day, err)
		}
	}

	// Correct day 10 upward by 10 pages and 1 juz.
	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranJuz: ip(4), QuranPage: ip(70)}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	before, err := entries.Get(m.ID, march(5))
	if err != nil {
		t.Fatalf("get day 5: %v", err)
	}
	if before.QuranPage != 40 || before.QuranJuz != 2 {
		t.Errorf("earlier entry shifted: juz %d page %d", before.QuranJuz, before.QuranPage)
	}

	after, err := entries.Get(m.ID, march(15))
	if err != nil {
		t.Fatalf("get day 15: %v", err)
	}
	if after.QuranPage != 90 || after.QuranJuz != 5 {
		t.Errorf("later entry = juz %d page %d, want 5/90", after.QuranJuz, after.QuranPage)
	}
}

func TestCascadeIdempotentWrite(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranPage: ip(60)}); err != nil {
		t.Fatalf("seed day 10: %v", err)
	}
	if _, err := entries.Upsert(m.ID, march(15), model.EntryPatch{QuranPage: ip(80)}); err != nil {
		t.Fatalf("seed day 15: %v", err)
	}

	// Writing the same value again is a zero delta: nothing moves.
	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranPage: ip(60)}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	after, err := entries.Get(m.ID, march(15))
	if err != nil {
		t.Fatalf("get day 15: %v", err)
	}
	if after.QuranPage != 80 {
		t.Errorf("later page = %d, want 80", after.QuranPage)
	}
}

func TestCascadeInverseRoundTrip(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranPage: ip(60)}); err != nil {
		t.Fatalf("seed day 10: %v", err)
	}
	if _, err := entries.Upsert(m.ID, march(15), model.EntryPatch{QuranPage: ip(100)}); err != nil {
		t.Fatalf("seed day 15: %v", err)
	}

	// Up by 10, then back down by 10: the later day must land where it
	// started because no clamp fired in between.
	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranPage: ip(70)}); err != nil {
		t.Fatalf("edit up: %v", err)
	}
	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranPage: ip(60)}); err != nil {
		t.Fatalf("edit down: %v", err)
	}

	after, err := entries.Get(m.ID, march(15))
	if err != nil {
		t.Fatalf("get day 15: %v", err)
	}
	if after.QuranPage != 100 {
		t.Errorf("later page = %d, want 100 after round trip", after.QuranPage)
	}
}

func TestCascadeClampsLaterEntries(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranJuz: ip(5), QuranPage: ip(100)}); err != nil {
		t.Fatalf("seed day 10: %v", err)
	}
	if _, err := entries.Upsert(m.ID, march(15), model.EntryPatch{QuranJuz: ip(29), QuranPage: ip(5)}); err != nil {
		t.Fatalf("seed day 15: %v", err)
	}

	// +3 juz would push the later day past 30; -50 pages would push it
	// below zero. Both clamp.
	if _, err := entries.Upsert(m.ID, march(10), model.EntryPatch{QuranJuz: ip(8), QuranPage: ip(50)}); err != nil {
		t.Fatalf("edit: %v", err)
	}

	after, err := entries.Get(m.ID, march(15))
	if err != nil {
		t.Fatalf("get day 15: %v", err)
	}
	if after.QuranJuz != model.TotalJuz {
		t.Errorf("later juz = %d, want %d", after.QuranJuz, model.TotalJuz)
	}
	if after.QuranPage != 0 {
		t.Errorf("later page = %d, want 0", after.QuranPage)
	}
}

func TestGetMissingEntryIsNil(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	e, err := entries.Get(m.ID, march(1))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e != nil {
		t.Errorf("expected nil, got %+v", e)
	}
}

func TestLatestQuranBefore(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	// Day 5 has reading; day 8 is a prayer-only entry with no reading.
	if _, err := entries.Upsert(m.ID, march(5), model.EntryPatch{QuranJuz: ip(2), QuranPage: ip(40)}); err != nil {
		t.Fatalf("seed day 5: %v", err)
	}
	if _, err := entries.Upsert(m.ID, march(8), model.EntryPatch{Fajr: bp(true)}); err != nil {
		t.Fatalf("seed day 8: %v", err)
	}

	e, err := entries.LatestQuranBefore(m.ID, march(10))
	if err != nil {
		t.Fatalf("latest before: %v", err)
	}
	if e == nil {
		t.Fatal("expected an entry")
	}
	if !e.Date.Equal(march(5)) {
		t.Errorf("date = %s, want %s", e.Date, march(5))
	}

	none, err := entries.LatestQuranBefore(m.ID, march(5))
	if err != nil {
		t.Fatalf("latest before day 5: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil before first reading, got %+v", none)
	}
}

func TestLastPageBefore(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	if _, err := entries.Upsert(m.ID, march(5), model.EntryPatch{QuranPage: ip(40)}); err != nil {
		t.Fatalf("seed day 5: %v", err)
	}

	page, err := entries.LastPageBefore(m.ID, march(10))
	if err != nil {
		t.Fatalf("last page: %v", err)
	}
	if page != 40 {
		t.Errorf("page = %d, want 40", page)
	}

	page, err = entries.LastPageBefore(m.ID, march(5))
	if err != nil {
		t.Fatalf("last page before day 5: %v", err)
	}
	if page != 0 {
		t.Errorf("page = %d, want 0", page)
	}
}

func TestMaxQuranProgress(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	days := []struct {
		day, juz, page int
	}{
		{5, 3, 60},
		{10, 2, 45},
		{15, 4, 80},
	}
	for _, d := range days {
		if _, err := entries.Upsert(m.ID, march(d.day), model.EntryPatch{QuranJuz: ip(d.juz), QuranPage: ip(d.page)}); err != nil {
			t.Fatalf("seed day %d: %v", d.day, err)
		}
	}

	juz, page, err := entries.MaxQuranProgress(m.ID)
	if err != nil {
		t.Fatalf("max progress: %v", err)
	}
	if juz != 4 || page != 80 {
		t.Errorf("max = %d/%d, want 4/80", juz, page)
	}

	juz, page, err = entries.MaxQuranProgress(999)
	if err != nil {
		t.Fatalf("max progress empty: %v", err)
	}
	if juz != 0 || page != 0 {
		t.Errorf("empty max = %d/%d, want 0/0", juz, page)
	}
}

func TestListForFamilyOn(t *testing.T) {
	entries, members, families := setupTestDB(t)
	f, err := families.Create("Rahman", "", "", "", "")
	if err != nil {
		t.Fatalf("create family: %v", err)
	}
	m1, err := members.Create(f.ID, "Amina", model.RoleAdult)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	m2, err := members.Create(f.ID, "Yusuf", model.RoleChild)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	other, err := families.Create("Hassan", "", "", "", "")
	if err != nil {
		t.Fatalf("create other family: %v", err)
	}
	outsider, err := members.Create(other.ID, "Omar", model.RoleAdult)
	if err != nil {
		t.Fatalf("create outsider: %v", err)
	}

	for _, id := range []int64{m1.ID, m2.ID, outsider.ID} {
		if _, err := entries.Upsert(id, march(10), model.EntryPatch{Fajr: bp(true)}); err != nil {
			t.Fatalf("seed member %d: %v", id, err)
		}
	}
	if _, err := entries.Upsert(m1.ID, march(11), model.EntryPatch{Fajr: bp(true)}); err != nil {
		t.Fatalf("seed day 11: %v", err)
	}

	got, err := entries.ListForFamilyOn(f.ID, march(10))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if got[0].MemberID != m1.ID || got[1].MemberID != m2.ID {
		t.Errorf("member order = %d,%d", got[0].MemberID, got[1].MemberID)
	}
}

func TestListForMemberRange(t *testing.T) {
	entries, members, families := setupTestDB(t)
	m := seedMember(t, families, members)

	for _, day := range []int{1, 5, 15, 31} {
		if _, err := entries.Upsert(m.ID, march(day), model.EntryPatch{Fajr: bp(true)}); err != nil {
			t.Fatalf("seed day %d: %v", day, err)
		}
	}

	got, err := entries.ListForMemberRange(m.ID, march(5), march(15))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	if !got[0].Date.Equal(march(5)) || !got[1].Date.Equal(march(15)) {
		t.Errorf("dates = %s,%s", got[0].Date, got[1].Date)
	}
}
