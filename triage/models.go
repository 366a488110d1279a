package triage

import "time"

// Owner and court sentinels. "unlabeled" means the record carried no tag
// string at all; "unclassified" means tags were present but none matched a
// roster entry or an owner marker. The two are distinct states and must not
// be collapsed.
const (
	OwnerUnlabeled     = "unlabeled"
	OwnerUnclassified  = "unclassified"
	CourtNotIdentified = "court not identified"

	// UnassignedBucket is the single aggregated row that replaces the
	// sentinel owners in owner distributions.
	UnassignedBucket = "unassigned"
)

// Resolution identifies which date signal produced the arrival date.
type Resolution string

const (
	ResolutionUnresolved  Resolution = "unresolved"
	ResolutionExplicit    Resolution = "explicit"
	ResolutionFromTask    Resolution = "task"
	ResolutionRetroactive Resolution = "retroactive"
	ResolutionFailed      Resolution = "failed"
)

// CaseRecord is one judicial case row after column normalization. Raw
// signal fields hold the original cell text; empty string means the source
// column was absent or the cell was blank. Derived fields are filled by
// ExtractOwner/ExtractCourt and ResolveArrival.
type CaseRecord struct {
	CaseID           string
	ActivePole       string
	PassivePole      string
	AdjudicatingBody string
	Subject          string
	Task             string
	Tags             string

	// Raw date signals, any subset may be present.
	ElapsedDaysRaw   string
	RawLastMovement  string
	RawTaskArrival   string
	FormattedArrival string

	// Derived. Owner and Court are never empty after derivation; they fall
	// back to sentinels. ArrivalDate is nil when every signal failed to
	// parse (Resolution == ResolutionFailed).
	Owner       string
	Court       string
	ArrivalDate *time.Time
	AgeDays     int
	Resolution  Resolution

	SourceFile string
}

// IngestedFile is the processing-history row for one source CSV. Written to
// the optional archive DB; the same path+sha256 pair is recorded once.
type IngestedFile struct {
	ID          uint   `gorm:"primaryKey"`
	Path        string `gorm:"uniqueIndex:uniq_path_sha;size:1024"`
	SHA256      string `gorm:"uniqueIndex:uniq_path_sha;size:64"`
	SizeBytes   int64
	RowCount    int
	CaseCount   int
	ProcessedAt time.Time `gorm:"index"`
	LastError   string    `gorm:"type:text"`
}

// AssignmentRecord archives one manual assignment as exported. Upsert keyed
// by case id, mirroring the in-memory ledger's last-write-wins rule.
type AssignmentRecord struct {
	ID               uint      `gorm:"primaryKey"`
	CaseID           string    `gorm:"uniqueIndex;size:64"`
	Owner            string    `gorm:"index;size:128"`
	Court            string    `gorm:"size:256"`
	AdjudicatingBody string    `gorm:"size:256"`
	ActivePole       string    `gorm:"size:512"`
	PassivePole      string    `gorm:"size:512"`
	Subject          string    `gorm:"size:512"`
	AssignedAt       time.Time `gorm:"index"`
}
