package triage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// OpenDB opens (and migrates) the processing-history archive. The archive
// is an audit trail; the in-memory ledger stays the source of truth for
// the running session.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&IngestedFile{}, &AssignmentRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenMonthlyDB opens the archive file for the month of now under folder,
// named <prefix><YYYYMM>.db, creating the folder as needed.
func OpenMonthlyDB(folder string, prefix string, now time.Time) (*gorm.DB, string, error) {
	if prefix == "" {
		prefix = "triage_"
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, "", err
	}
	key := fmt.Sprintf("%04d%02d", now.Year(), int(now.Month()))
	path := filepath.Join(folder, prefix+key+".db")
	db, err := OpenDB(path)
	if err != nil {
		return nil, "", err
	}
	return db, path, nil
}

// RecordIngestedFile archives one source-file summary. A path+sha256 pair
// already in the archive is left untouched, so re-processing the same
// export is idempotent.
func RecordIngestedFile(db *gorm.DB, sum FileSummary, lastError string, processedAt time.Time) error {
	var existing IngestedFile
	err := db.Where("path = ? AND sha256 = ?", sum.Path, sum.SHA256).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&IngestedFile{
		Path:        sum.Path,
		SHA256:      sum.SHA256,
		SizeBytes:   sum.SizeBytes,
		RowCount:    sum.RowCount,
		CaseCount:   sum.CaseCount,
		ProcessedAt: processedAt.UTC(),
		LastError:   lastError,
	}).Error
}

// SaveAssignments archives the current ledger entries, upserting by case
// id with the same last-write-wins rule as the ledger itself.
func SaveAssignments(db *gorm.DB, entries []AssignmentEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			row := AssignmentRecord{
				CaseID:           e.CaseID,
				Owner:            e.Owner,
				Court:            e.Meta.Court,
				AdjudicatingBody: e.Meta.AdjudicatingBody,
				ActivePole:       e.Meta.ActivePole,
				PassivePole:      e.Meta.PassivePole,
				Subject:          e.Meta.Subject,
				AssignedAt:       e.AssignedAt.UTC(),
			}
			var existing AssignmentRecord
			err := tx.Where("case_id = ?", e.CaseID).First(&existing).Error
			switch {
			case err == nil:
				row.ID = existing.ID
				if err := tx.Save(&row).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
}
