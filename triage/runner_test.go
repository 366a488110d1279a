package triage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2025, 10, 10, 10, 0, 0, 0, brazilZone)
}

func TestProcessorEndToEnd(t *testing.T) {
	dir := t.TempDir()

	// Task-panel export plus a management-panel export sharing one case id.
	taskCSV := writeFixture(t, dir, "tarefa.csv",
		"Número do Processo;Polo Passivo;Etiquetas;dataChegada\n"+
			"0001;INSS;Servidor 01, 3ª Vara Federal;07/10/2025, 08:00:00\n"+
			"0002;União;Urgente;05/10/2025, 09:30:00\n")
	panelCSV := writeFixture(t, dir, "painel.csv",
		"numeroProcesso;poloPassivo;tagsProcessoList;Data Último Movimento;Dias\n"+
			"0002;INSS;Servidor 02;1759881600000;10\n"+
			"0003;INSS;;1759881600000;2\n")

	p := NewProcessor(ProcessorConfig{Now: fixedNow, Debug: true})
	batch, err := p.Process([]string{taskCSV, panelCSV}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if batch.Stats.FilesRead != 2 || batch.Stats.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", batch.Stats)
	}
	if len(batch.Records) != 3 {
		t.Fatalf("expected 3 unique cases, got %d", len(batch.Records))
	}

	byID := map[string]*CaseRecord{}
	for i := range batch.Records {
		byID[batch.Records[i].CaseID] = &batch.Records[i]
	}

	// 0002 keeps the first file's row (task panel), not the panel row.
	if byID["0002"].Resolution != ResolutionFromTask {
		t.Fatalf("dedup kept wrong row: %+v", byID["0002"])
	}
	if byID["0002"].Owner != OwnerUnclassified {
		t.Fatalf("expected unclassified owner for 0002, got %q", byID["0002"].Owner)
	}

	if byID["0001"].Owner != "Servidor 01" {
		t.Fatalf("unexpected owner: %q", byID["0001"].Owner)
	}
	if byID["0001"].Court != "3ª Vara Federal" {
		t.Fatalf("unexpected court: %q", byID["0001"].Court)
	}
	if byID["0001"].AgeDays != 3 {
		t.Fatalf("expected age 3 for 0001, got %d", byID["0001"].AgeDays)
	}

	// 0003 has no tags at all and resolves retroactively:
	// 1759881600000 ms = 2025-10-08 UTC, minus 2 days.
	rec3 := byID["0003"]
	if rec3.Owner != OwnerUnlabeled {
		t.Fatalf("expected unlabeled owner, got %q", rec3.Owner)
	}
	want := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	if rec3.ArrivalDate == nil || !rec3.ArrivalDate.Equal(want) {
		t.Fatalf("expected arrival %v, got %v", want, rec3.ArrivalDate)
	}
	if rec3.AgeDays != 4 {
		t.Fatalf("expected recomputed age 4, got %d", rec3.AgeDays)
	}

	// Most recent arrival first.
	if batch.Records[0].CaseID != "0001" {
		t.Fatalf("expected 0001 first, got %q", batch.Records[0].CaseID)
	}
}

func TestProcessorLedgerOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "tarefa.csv",
		"Número do Processo;Etiquetas;dataChegada\n"+
			"0001;Servidor 01;07/10/2025\n")

	ledger := NewLedger()
	ledger.Upsert("0001", "Servidor 02", AssignmentMeta{})

	p := NewProcessor(ProcessorConfig{Now: fixedNow})
	batch, err := p.Process([]string{path}, ledger)
	if err != nil {
		t.Fatal(err)
	}
	if batch.Records[0].Owner != "Servidor 02" {
		t.Fatalf("expected ledger override, got %q", batch.Records[0].Owner)
	}
	if batch.Stats.Overridden != 1 {
		t.Fatalf("expected 1 override, got %d", batch.Stats.Overridden)
	}
}

func TestProcessorSkipsMalformedFileAndContinues(t *testing.T) {
	dir := t.TempDir()
	bad := writeFixture(t, dir, "quebrado.csv", "Polo Ativo;Etiquetas\nsem numero;x\n")
	good := writeFixture(t, dir, "ok.csv",
		"Número do Processo;dataChegada\n0001;07/10/2025\n")

	p := NewProcessor(ProcessorConfig{Now: fixedNow})
	batch, err := p.Process([]string{bad, good}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch.Errors) != 1 || batch.Errors[0].Path != bad {
		t.Fatalf("expected one file error for %q, got %+v", bad, batch.Errors)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("expected the good file processed, got %d records", len(batch.Records))
	}
}

func TestProcessorMovesUnreadableFileToErrorDir(t *testing.T) {
	dir := t.TempDir()
	errDir := filepath.Join(dir, "errors")
	bad := writeFixture(t, dir, "quebrado.csv", "")
	good := writeFixture(t, dir, "ok.csv",
		"Número do Processo;dataChegada\n0001;07/10/2025\n")

	p := NewProcessor(ProcessorConfig{Now: fixedNow, ErrorDir: errDir})
	if _, err := p.Process([]string{bad, good}, nil); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Fatalf("expected unreadable file moved away, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(errDir, "quebrado.csv")); err != nil {
		t.Fatalf("expected file in error dir: %v", err)
	}
}

func TestProcessorEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	bad := writeFixture(t, dir, "quebrado.csv", "Polo Ativo\nx\n")

	p := NewProcessor(ProcessorConfig{Now: fixedNow})
	batch, err := p.Process([]string{bad}, nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if batch == nil || len(batch.Errors) != 1 {
		t.Fatalf("expected batch with file error, got %+v", batch)
	}
}

func TestProcessorFailedRecordsKeptAndSortedLast(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "misto.csv",
		"Número do Processo;Etiquetas;dataChegada\n"+
			"0001;Servidor 01;\n"+
			"0002;Servidor 02;07/10/2025\n")

	p := NewProcessor(ProcessorConfig{Now: fixedNow})
	batch, err := p.Process([]string{path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("failed record dropped from batch: %d", len(batch.Records))
	}
	if batch.Stats.Failed != 1 || batch.Stats.Resolved != 1 {
		t.Fatalf("unexpected stats: %+v", batch.Stats)
	}
	last := batch.Records[len(batch.Records)-1]
	if last.CaseID != "0001" || last.Resolution != ResolutionFailed {
		t.Fatalf("expected failed record last, got %+v", last)
	}
	// Still visible to non-date aggregations.
	owners := OwnerDistribution(batch.Records)
	if len(owners) != 2 {
		t.Fatalf("failed record missing from owner distribution: %v", owners)
	}
}

func TestProcessorArchivesFilesOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "tarefa.csv",
		"Número do Processo;dataChegada\n0001;07/10/2025\n")

	db, err := OpenDB(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(ProcessorConfig{Now: fixedNow, DB: db})
	for i := 0; i < 2; i++ {
		if _, err := p.Process([]string{path}, nil); err != nil {
			t.Fatal(err)
		}
	}

	var count int64
	if err := db.Model(&IngestedFile{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected one archive row for same path+sha, got %d", count)
	}
}
