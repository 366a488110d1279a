package triage

import (
	"testing"
	"time"
)

func TestLedgerUpsertLastWriteWins(t *testing.T) {
	l := NewLedger()
	l.now = func() time.Time { return time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC) }

	l.Upsert("0001", "Servidor 01", AssignmentMeta{Court: "3ª Vara Federal"})
	l.Upsert("0001", "Servidor 02", AssignmentMeta{})

	records := []CaseRecord{{CaseID: "0001", Owner: OwnerUnlabeled}}
	if n := l.ApplyOverrides(records); n != 1 {
		t.Fatalf("expected 1 override, got %d", n)
	}
	if records[0].Owner != "Servidor 02" {
		t.Fatalf("expected last write to win, got %q", records[0].Owner)
	}
	// Replacement is total: the first write's metadata is gone.
	entries := l.Entries()
	if len(entries) != 1 || entries[0].Meta.Court != "" {
		t.Fatalf("expected fully replaced entry, got %+v", entries)
	}
}

func TestLedgerApplyTouchesOnlyOwner(t *testing.T) {
	l := NewLedger()
	l.Upsert("0002", "Servidor 05", AssignmentMeta{Court: "outra vara", Subject: "outro assunto"})

	records := []CaseRecord{{CaseID: "0002", Owner: OwnerUnclassified, Court: "1ª Vara Federal", Subject: "Benefício"}}
	l.ApplyOverrides(records)

	if records[0].Owner != "Servidor 05" {
		t.Fatalf("owner not overridden: %q", records[0].Owner)
	}
	if records[0].Court != "1ª Vara Federal" || records[0].Subject != "Benefício" {
		t.Fatalf("metadata leaked into record: %+v", records[0])
	}
}

func TestLedgerEntriesInsertionOrder(t *testing.T) {
	l := NewLedger()
	l.Upsert("b", "Servidor 01", AssignmentMeta{})
	l.Upsert("a", "Servidor 02", AssignmentMeta{})
	l.Upsert("b", "Servidor 03", AssignmentMeta{})

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Re-upserting "b" keeps its original position.
	if entries[0].CaseID != "b" || entries[1].CaseID != "a" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Owner != "Servidor 03" {
		t.Fatalf("expected latest owner for b, got %q", entries[0].Owner)
	}
}

func TestLedgerClear(t *testing.T) {
	l := NewLedger()
	l.Upsert("0001", "Servidor 01", AssignmentMeta{})
	l.Clear()
	if l.Len() != 0 || len(l.Entries()) != 0 {
		t.Fatalf("expected empty ledger after clear")
	}

	records := []CaseRecord{{CaseID: "0001", Owner: OwnerUnlabeled}}
	if n := l.ApplyOverrides(records); n != 0 {
		t.Fatalf("expected no overrides after clear, got %d", n)
	}
}
