package triage

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrEmptyBatch is returned when a batch contains no usable case records
// after reading, filtering and deduplication. Downstream views must handle
// it as an ordinary empty-result condition, not a crash.
var ErrEmptyBatch = errors.New("no usable case records in batch")

// FileError reports a per-file ingest failure. The file is skipped; the
// rest of the batch continues.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// FileSummary describes one successfully read source file, for the
// processing-history archive.
type FileSummary struct {
	Path      string
	SHA256    string
	SizeBytes int64
	RowCount  int
	CaseCount int
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeCSVBytes turns raw file bytes into text. Exports arrive either
// UTF-8 or Latin-1 encoded; invalid UTF-8 is retried as Latin-1 rather
// than rejected.
func decodeCSVBytes(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	if utf8.Valid(b) {
		return string(b), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode latin-1: %w", err)
	}
	return string(decoded), nil
}

// ReadCaseFile reads one semicolon-delimited export file and returns its
// records projected onto the canonical schema. A file whose header maps no
// case-id column is rejected. Rows with a blank case id are dropped.
func ReadCaseFile(path string, aliases AliasTable) ([]CaseRecord, FileSummary, error) {
	sum := FileSummary{Path: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, sum, err
	}
	digest := sha256.Sum256(content)
	sum.SHA256 = hex.EncodeToString(digest[:])
	sum.SizeBytes = int64(len(content))

	text, err := decodeCSVBytes(content)
	if err != nil {
		return nil, sum, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, sum, fmt.Errorf("empty file")
		}
		return nil, sum, fmt.Errorf("read header: %w", err)
	}
	index := aliases.HeaderIndex(header)
	if _, ok := index[FieldCaseID]; !ok {
		return nil, sum, fmt.Errorf("no case number column in header %v", header)
	}

	base := filepath.Base(path)
	var records []CaseRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sum, fmt.Errorf("row %d: %w", sum.RowCount+2, err)
		}
		sum.RowCount++
		rec := RecordFromRow(row, index, base)
		if rec.CaseID == "" {
			continue
		}
		records = append(records, rec)
	}
	sum.CaseCount = len(records)
	return records, sum, nil
}

// DeduplicateByCaseID drops every record whose case id was already seen,
// keeping the first occurrence across the whole multi-file batch. Returns
// the kept records and the number dropped.
func DeduplicateByCaseID(records []CaseRecord) ([]CaseRecord, int) {
	seen := make(map[string]struct{}, len(records))
	out := records[:0:0]
	dropped := 0
	for _, rec := range records {
		if _, ok := seen[rec.CaseID]; ok {
			dropped++
			continue
		}
		seen[rec.CaseID] = struct{}{}
		out = append(out, rec)
	}
	return out, dropped
}

// moveFileToDir moves an unreadable source file into dstDir so it does not
// poison the next batch. Name collisions get a nanosecond suffix; a rename
// failure falls back to copy+remove for cross-device moves.
func moveFileToDir(srcPath string, dstDir string) (string, error) {
	if strings.TrimSpace(dstDir) == "" {
		return "", fmt.Errorf("dstDir is empty")
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", err
	}
	base := filepath.Base(srcPath)
	dstPath := filepath.Join(dstDir, base)
	if _, err := os.Stat(dstPath); err == nil {
		ext := filepath.Ext(base)
		name := strings.TrimSuffix(base, ext)
		dstPath = filepath.Join(dstDir, fmt.Sprintf("%s-%d%s", name, time.Now().UnixNano(), ext))
	}

	if err := os.Rename(srcPath, dstPath); err == nil {
		return dstPath, nil
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		_ = os.Remove(dstPath)
		return "", copyErr
	}
	if closeErr != nil {
		_ = os.Remove(dstPath)
		return "", closeErr
	}
	if err := os.Remove(srcPath); err != nil {
		return "", err
	}
	return dstPath, nil
}
