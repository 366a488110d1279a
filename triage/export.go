package triage

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Exports are semicolon-delimited and Latin-1 encoded for compatibility
// with the downstream spreadsheet tool. Runes outside Latin-1 are replaced
// rather than failing the export.

const (
	csvDateLayout     = "02/01/2006"
	csvDateTimeLayout = "02/01/2006 15:04:05"
)

func latin1CSVWriter(w io.Writer) *csv.Writer {
	enc := encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	cw := csv.NewWriter(enc.Writer(w))
	cw.Comma = ';'
	return cw
}

// assignmentCSVHeader matches the spreadsheet the clerks already use;
// headers are deliberately unaccented.
var assignmentCSVHeader = []string{
	"Numero do Processo",
	"Vara (Tag)",
	"Orgao Julgador (Original)",
	"Servidor Atribuido",
	"Data e Hora da Atribuicao",
	"Polo Ativo",
	"Polo Passivo",
	"Assunto Principal",
}

// WriteAssignmentsCSV writes the ledger entries as the manual-assignment
// export.
func WriteAssignmentsCSV(w io.Writer, entries []AssignmentEntry) error {
	cw := latin1CSVWriter(w)
	if err := cw.Write(assignmentCSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.CaseID,
			e.Meta.Court,
			e.Meta.AdjudicatingBody,
			e.Owner,
			e.AssignedAt.Format(csvDateTimeLayout),
			e.Meta.ActivePole,
			e.Meta.PassivePole,
			e.Meta.Subject,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRecordsCSV writes a derived batch back out with the canonical
// export headers. The "Data Chegada" column makes the file re-ingestable
// as a priority-1 (explicit arrival) input.
func WriteRecordsCSV(w io.Writer, records []CaseRecord, aliases AliasTable) error {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	header := []string{
		aliases.exportHeader(FieldCaseID),
		aliases.exportHeader(FieldActivePole),
		aliases.exportHeader(FieldPassivePole),
		aliases.exportHeader(FieldAdjudicatingBody),
		aliases.exportHeader(FieldSubject),
		aliases.exportHeader(FieldTask),
		aliases.exportHeader(FieldTags),
		"Servidor",
		"Vara",
		aliases.exportHeader(FieldFormattedArrival),
		"Dias",
	}
	cw := latin1CSVWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := range records {
		rec := &records[i]
		arrival := ""
		if rec.ArrivalDate != nil {
			arrival = rec.ArrivalDate.Format(csvDateLayout)
		}
		row := []string{
			rec.CaseID,
			rec.ActivePole,
			rec.PassivePole,
			rec.AdjudicatingBody,
			rec.Subject,
			rec.Task,
			rec.Tags,
			rec.Owner,
			rec.Court,
			arrival,
			strconv.Itoa(rec.AgeDays),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
