package store

import (
	"testing"

	"github.com/hartmanbaily-coder/losttofound/internal/report"
)

func TestFinderMessageCreate(t *testing.T) {
	db := setupTestDB(t)
	us, ps, ms := NewUserStore(db), NewPetStore(db), NewFinderMessageStore(db)

	u, _ := us.Create("alice@example.com", "hunter22")
	p, _ := ps.Create(u.ID, "Biscuit", nil)

	loc := "Downtown"
	m, err := ms.Create(p.ID, report.KindSaw, "Saw near 5th & Main", &loc)
	if err != nil {
		t.Fatalf("create finder message: %v", err)
	}
	if m.ID == "" {
		t.Error("expected generated id")
	}
	if m.ReportType != report.KindSaw {
		t.Errorf("report_type = %q, want saw", m.ReportType)
	}
	if m.CreatedAt.IsZero() {
		t.Error("expected server-assigned timestamp")
	}
	if m.GeneralLocation == nil || *m.GeneralLocation != loc {
		t.Errorf("general_location = %v, want %q", m.GeneralLocation, loc)
	}
}

func TestFinderMessageOwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	us, ps, ms := NewUserStore(db), NewPetStore(db), NewFinderMessageStore(db)

	alice, _ := us.Create("alice@example.com", "hunter22")
	bob, _ := us.Create("bob@example.com", "hunter22")
	p, _ := ps.Create(alice.ID, "Biscuit", nil)

	if _, err := ms.Create(p.ID, report.KindHave, "I have this pet", nil); err != nil {
		t.Fatalf("create finder message: %v", err)
	}

	mine, err := ms.ListForOwner(alice.ID)
	if err != nil {
		t.Fatalf("list for owner: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("owner sees %d messages, want 1", len(mine))
	}

	theirs, err := ms.ListForOwner(bob.ID)
	if err != nil {
		t.Fatalf("list for non-owner: %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("non-owner sees %d messages, want 0", len(theirs))
	}

	byPet, err := ms.ListByPet(p.ID, bob.ID)
	if err != nil {
		t.Fatalf("list by pet as non-owner: %v", err)
	}
	if len(byPet) != 0 {
		t.Error("non-owner should not read messages by pet id")
	}
}

func TestFinderMessageOrderNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	us, ps, ms := NewUserStore(db), NewPetStore(db), NewFinderMessageStore(db)

	u, _ := us.Create("alice@example.com", "hunter22")
	p, _ := ps.Create(u.ID, "Biscuit", nil)

	first, _ := ms.Create(p.ID, report.KindSaw, "first", nil)
	second, _ := ms.Create(p.ID, report.KindSaw, "second", nil)

	// Same-second inserts; nudge the first row back so ordering is observable.
	if _, err := db.Exec(`UPDATE finder_messages SET created_at = datetime('now', '-1 minute') WHERE id = ?`, first.ID); err != nil {
		t.Fatalf("backdate first message: %v", err)
	}

	msgs, err := ms.ListForOwner(u.ID)
	if err != nil {
		t.Fatalf("list for owner: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].ID != second.ID {
		t.Error("expected newest message first")
	}
}
