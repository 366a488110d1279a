package triage

import (
	"sync"
	"time"
)

// AssignmentMeta carries the descriptive fields stored alongside a manual
// assignment. They are kept for the export only and are never propagated
// back onto case records.
type AssignmentMeta struct {
	Court            string
	AdjudicatingBody string
	ActivePole       string
	PassivePole      string
	Subject          string
}

// AssignmentEntry is the latest assignment for one case.
type AssignmentEntry struct {
	CaseID     string
	Owner      string
	Meta       AssignmentMeta
	AssignedAt time.Time
}

// Ledger is the in-session store of manual owner assignments. It is owned
// by the interactive layer and passed into the core by handle; it holds no
// durable state. Upsert is last-write-wins per case id.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]AssignmentEntry
	order   []string
	now     func() time.Time
}

// NewLedger returns an empty ledger stamping assignments with the court's
// local clock.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]AssignmentEntry),
		now:     LocalNow,
	}
}

// Upsert inserts or fully replaces the assignment for caseID. A replaced
// entry keeps its original position in the export order; no history is
// retained beyond the latest value.
func (l *Ledger) Upsert(caseID string, owner string, meta AssignmentMeta) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[caseID]; !ok {
		l.order = append(l.order, caseID)
	}
	l.entries[caseID] = AssignmentEntry{
		CaseID:     caseID,
		Owner:      owner,
		Meta:       meta,
		AssignedAt: l.now(),
	}
}

// ApplyOverrides replaces the owner of every record whose case id has a
// ledger entry, and returns how many records were overridden. Only the
// owner field is touched.
func (l *Ledger) ApplyOverrides(records []CaseRecord) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	overridden := 0
	for i := range records {
		if e, ok := l.entries[records[i].CaseID]; ok {
			records[i].Owner = e.Owner
			overridden++
		}
	}
	return overridden
}

// Clear empties the ledger. Irreversible; used for session reset.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]AssignmentEntry)
	l.order = nil
}

// Len returns the number of assigned cases.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns the assignments in insertion order.
func (l *Ledger) Entries() []AssignmentEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AssignmentEntry, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id])
	}
	return out
}
