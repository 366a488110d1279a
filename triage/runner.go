package triage

import (
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProcessorConfig configures one batch processor. Zero values fall back to
// the built-in defaults; DB is optional and enables the history archive.
type ProcessorConfig struct {
	Aliases  AliasTable
	Roster   []string
	ErrorDir string
	Debug    bool
	// Now supplies the reference clock; defaults to the court's local
	// time. Injected in tests to pin the reference date.
	Now func() time.Time
	DB  *gorm.DB
}

// Processor runs the normalization and resolution pipeline over uploaded
// batches. Single-threaded, synchronous; one call handles one batch to
// completion.
type Processor struct {
	cfg ProcessorConfig
}

// NewProcessor fills in config defaults and returns a ready processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.Aliases == nil {
		cfg.Aliases = DefaultAliasTable()
	}
	if len(cfg.Roster) == 0 {
		cfg.Roster = DefaultRoster()
	}
	if cfg.Now == nil {
		cfg.Now = LocalNow
	}
	return &Processor{cfg: cfg}
}

func (p *Processor) debugf(format string, args ...any) {
	if p == nil || !p.cfg.Debug {
		return
	}
	log.Printf(format, args...)
}

// BatchStats summarizes one processing run.
type BatchStats struct {
	FilesRead    int
	FilesSkipped int
	RowsRead     int
	Duplicates   int
	Resolved     int
	Failed       int
	Overridden   int
}

// Batch is the result of processing one upload: the derived records in
// arrival order (most recent first, unresolved last), the per-file
// failures, and run statistics.
type Batch struct {
	Records   []CaseRecord
	Reference time.Time
	Errors    []FileError
	Stats     BatchStats
}

// Process reads the given export files, normalizes and deduplicates their
// rows, derives owner, court, arrival date and age for every case, and
// applies ledger overrides when a ledger is supplied. Unreadable files are
// reported in Batch.Errors and skipped; they fail the run only when no
// file yields records, in which case ErrEmptyBatch is returned alongside
// the batch.
func (p *Processor) Process(paths []string, ledger *Ledger) (*Batch, error) {
	reference := p.cfg.Now()
	batch := &Batch{Reference: reference}

	var all []CaseRecord
	for _, path := range paths {
		records, sum, err := ReadCaseFile(path, p.cfg.Aliases)
		if err != nil {
			p.debugf("skip file path=%q err=%v", path, err)
			batch.Errors = append(batch.Errors, FileError{Path: path, Err: err})
			batch.Stats.FilesSkipped++
			p.archiveFile(sum, err.Error(), reference)
			if strings.TrimSpace(p.cfg.ErrorDir) != "" {
				if dst, mvErr := moveFileToDir(path, p.cfg.ErrorDir); mvErr == nil {
					p.debugf("moved unreadable file to %q", dst)
				}
			}
			continue
		}
		p.debugf("read file path=%q rows=%d cases=%d", path, sum.RowCount, sum.CaseCount)
		batch.Stats.FilesRead++
		batch.Stats.RowsRead += sum.RowCount
		p.archiveFile(sum, "", reference)
		all = append(all, records...)
	}

	all, dropped := DeduplicateByCaseID(all)
	batch.Stats.Duplicates = dropped

	for i := range all {
		rec := &all[i]
		rec.Owner = ExtractOwner(rec.Tags, p.cfg.Roster)
		rec.Court = ExtractCourt(rec.Tags, rec.AdjudicatingBody)
		ResolveArrival(rec, reference)
		if rec.Resolution == ResolutionFailed {
			batch.Stats.Failed++
		} else {
			batch.Stats.Resolved++
		}
	}

	// Most recent arrival first; unresolved records sort last, keeping
	// their input order.
	sort.SliceStable(all, func(i, j int) bool {
		di, dj := all[i].ArrivalDate, all[j].ArrivalDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.After(*dj)
		}
	})

	if ledger != nil {
		batch.Stats.Overridden = ledger.ApplyOverrides(all)
	}

	batch.Records = all
	p.debugf("batch done: files=%d skipped=%d rows=%d cases=%d dup=%d resolved=%d failed=%d overridden=%d",
		batch.Stats.FilesRead, batch.Stats.FilesSkipped, batch.Stats.RowsRead, len(all),
		batch.Stats.Duplicates, batch.Stats.Resolved, batch.Stats.Failed, batch.Stats.Overridden)

	if len(all) == 0 {
		return batch, ErrEmptyBatch
	}
	return batch, nil
}

// archiveFile best-effort records a file summary in the history archive.
func (p *Processor) archiveFile(sum FileSummary, lastError string, processedAt time.Time) {
	if p.cfg.DB == nil || sum.SHA256 == "" {
		return
	}
	if err := RecordIngestedFile(p.cfg.DB, sum, lastError, processedAt); err != nil {
		p.debugf("archive file failed path=%q err=%v", sum.Path, err)
	}
}
