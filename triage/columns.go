package triage

import "strings"

// Field names the canonical schema. The set is fixed; source columns that
// map to none of them are dropped during normalization.
type Field string

const (
	FieldCaseID           Field = "case_id"
	FieldActivePole       Field = "active_pole"
	FieldPassivePole      Field = "passive_pole"
	FieldAdjudicatingBody Field = "adjudicating_body"
	FieldSubject          Field = "subject"
	FieldTask             Field = "task"
	FieldTags             Field = "tags"
	FieldElapsedDays      Field = "elapsed_days"
	FieldRawLastMovement  Field = "raw_last_movement"
	FieldRawTaskArrival   Field = "raw_task_arrival"
	FieldFormattedArrival Field = "formatted_arrival"
)

// canonicalFields lists every canonical field, in schema order.
var canonicalFields = []Field{
	FieldCaseID,
	FieldActivePole,
	FieldPassivePole,
	FieldAdjudicatingBody,
	FieldSubject,
	FieldTask,
	FieldTags,
	FieldElapsedDays,
	FieldRawLastMovement,
	FieldRawTaskArrival,
	FieldFormattedArrival,
}

// AliasTable maps each canonical field to the source column names that may
// carry it, in decreasing preference. The first alias found in a file's
// header wins; remaining aliases are ignored for that file.
type AliasTable map[Field][]string

// DefaultAliasTable covers the known export configurations of the case
// management platform: the task panel, the management panel ("Painel
// Gerencial") and re-ingested files previously exported by this tool. The
// export header of each field is itself an alias, so normalizing an
// already-normalized file is a no-op.
func DefaultAliasTable() AliasTable {
	return AliasTable{
		FieldCaseID:           {"Número do Processo", "numeroProcesso", "Nº Processo"},
		FieldActivePole:       {"Polo Ativo", "poloAtivo"},
		FieldPassivePole:      {"Polo Passivo", "poloPassivo"},
		FieldAdjudicatingBody: {"Órgão Julgador", "orgaoJulgador", "Vara"},
		FieldSubject:          {"Assunto", "assuntoPrincipal", "Assunto Principal"},
		FieldTask:             {"Tarefa", "nomeTarefa"},
		FieldTags:             {"Etiquetas", "tagsProcessoList"},
		FieldElapsedDays:      {"Dias"},
		FieldRawLastMovement:  {"Data Último Movimento"},
		FieldRawTaskArrival:   {"dataChegada"},
		FieldFormattedArrival: {"Data Chegada"},
	}
}

// exportHeader returns the column name used when writing a field back out,
// which is the field's preferred alias.
func (at AliasTable) exportHeader(f Field) string {
	if aliases := at[f]; len(aliases) > 0 {
		return aliases[0]
	}
	return string(f)
}

// HeaderIndex projects a CSV header row onto the canonical schema. For each
// canonical field the first alias present in the header is selected; fields
// with no alias present are simply absent from the result. Duplicate header
// columns keep the leftmost occurrence.
func (at AliasTable) HeaderIndex(header []string) map[Field]int {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := pos[name]; !ok {
			pos[name] = i
		}
	}

	out := make(map[Field]int)
	for _, f := range canonicalFields {
		for _, alias := range at[f] {
			if i, ok := pos[alias]; ok {
				out[f] = i
				break
			}
		}
	}
	return out
}

// RecordFromRow builds a CaseRecord from one CSV row using a header index
// previously built for the row's file. Cells out of range are treated as
// absent. The input row is not retained.
func RecordFromRow(row []string, index map[Field]int, sourceFile string) CaseRecord {
	cell := func(f Field) string {
		i, ok := index[f]
		if !ok || i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return CaseRecord{
		CaseID:           cell(FieldCaseID),
		ActivePole:       cell(FieldActivePole),
		PassivePole:      cell(FieldPassivePole),
		AdjudicatingBody: cell(FieldAdjudicatingBody),
		Subject:          cell(FieldSubject),
		Task:             cell(FieldTask),
		Tags:             cell(FieldTags),
		ElapsedDaysRaw:   cell(FieldElapsedDays),
		RawLastMovement:  cell(FieldRawLastMovement),
		RawTaskArrival:   cell(FieldRawTaskArrival),
		FormattedArrival: cell(FieldFormattedArrival),
		Resolution:       ResolutionUnresolved,
		SourceFile:       sourceFile,
	}
}
