package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pje-triage/triage"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "pje-triage",
	Short: "Triage of judicial case exports (PJe)",
	Long: `pje-triage ingests case-management CSV exports, normalizes their
heterogeneous column schemas, derives the assigned clerk, originating
court, arrival date and age of every case, and produces the aggregated
tables and CSV/PDF exports used by the triage workflow.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pje-triage v0.3.0")
	},
}

var (
	assignFlags    []string
	recordsCSV     string
	assignmentsCSV string
	overviewPDF    string
	statsPDF       string
	topN           int
	errorDir       string
	dbFolder       string
	dbPrefix       string
)

var processCmd = &cobra.Command{
	Use:   "process <files...>",
	Short: "Process one batch of CSV exports",
	Long: `Process reads one or more semicolon-delimited CSV exports (UTF-8 or
Latin-1), unifies them into a single deduplicated batch, derives the
per-case fields and prints the distribution tables.

Manual assignments are applied with --assign and exported with
--assignments-csv:

  pje-triage process painel.csv tarefa.csv \
      --assign "0001234-56.2025.4.05.8300=Servidor 02" \
      --assignments-csv atribuicoes.csv --overview-pdf visao.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logs")

	processCmd.Flags().StringArrayVar(&assignFlags, "assign", nil, "manual assignment, case-id=owner (repeatable)")
	processCmd.Flags().StringVar(&recordsCSV, "records-csv", "", "write the derived records CSV to this path")
	processCmd.Flags().StringVar(&assignmentsCSV, "assignments-csv", "", "write the assignment-ledger CSV to this path")
	processCmd.Flags().StringVar(&overviewPDF, "overview-pdf", "", "write the overview PDF report to this path")
	processCmd.Flags().StringVar(&statsPDF, "stats-pdf", "", "write the detailed-statistics PDF report to this path")
	processCmd.Flags().IntVar(&topN, "top-n", 0, "bound for the top-N tables (default 10)")
	processCmd.Flags().StringVar(&errorDir, "error-dir", "", "move unreadable source files here")
	processCmd.Flags().StringVar(&dbFolder, "db-folder", "", "processing-history archive folder (monthly rolling SQLite)")
	processCmd.Flags().StringVar(&dbPrefix, "db-prefix", "", "processing-history DB filename prefix")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*triage.FileConfig, error) {
	if cfgFile == "" {
		return &triage.FileConfig{}, nil
	}
	return triage.LoadConfig(cfgFile)
}

// parseAssignFlags turns repeated case-id=owner flags into ledger upserts.
// Later flags for the same case id replace earlier ones.
func parseAssignFlags(flags []string) (map[string]string, []string, error) {
	out := make(map[string]string, len(flags))
	var order []string
	for _, f := range flags {
		caseID, owner, ok := strings.Cut(f, "=")
		caseID = strings.TrimSpace(caseID)
		owner = strings.TrimSpace(owner)
		if !ok || caseID == "" || owner == "" {
			return nil, nil, fmt.Errorf("invalid --assign %q (want case-id=owner)", f)
		}
		if _, seen := out[caseID]; !seen {
			order = append(order, caseID)
		}
		out[caseID] = owner
	}
	return out, order, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	finalDebug := cfg.Debug || debug
	finalTopN := cfg.TopN
	if topN > 0 {
		finalTopN = topN
	}
	finalErrorDir := cfg.ErrorDir
	if errorDir != "" {
		finalErrorDir = errorDir
	}
	finalDBFolder := cfg.Database.Folder
	finalDBPrefix := cfg.Database.Prefix
	if dbFolder != "" {
		finalDBFolder = dbFolder
	}
	if dbPrefix != "" {
		finalDBPrefix = dbPrefix
	}

	zone := cfg.ReferenceZone()
	now := func() time.Time { return time.Now().In(zone) }

	var db *gorm.DB
	if strings.TrimSpace(finalDBFolder) != "" {
		var path string
		db, path, err = triage.OpenMonthlyDB(finalDBFolder, finalDBPrefix, now())
		if err != nil {
			return fmt.Errorf("open history db: %w", err)
		}
		if finalDebug {
			log.Printf("history archive: %s", path)
		}
	}

	processor := triage.NewProcessor(triage.ProcessorConfig{
		Aliases:  cfg.AliasTable(),
		Roster:   cfg.RosterOrDefault(),
		ErrorDir: finalErrorDir,
		Debug:    finalDebug,
		Now:      now,
		DB:       db,
	})

	assignments, order, err := parseAssignFlags(assignFlags)
	if err != nil {
		return err
	}

	ledger := triage.NewLedger()
	batch, err := processor.Process(args, ledger)
	for _, fe := range batch.Errors {
		fmt.Fprintf(os.Stderr, "warning: skipped %v\n", fe)
	}
	if err != nil {
		return err
	}

	// Assignments need the derived records for their metadata, so upsert
	// after the first pass and re-apply the overrides.
	if len(assignments) > 0 {
		byID := make(map[string]*triage.CaseRecord, len(batch.Records))
		for i := range batch.Records {
			byID[batch.Records[i].CaseID] = &batch.Records[i]
		}
		for _, caseID := range order {
			owner := assignments[caseID]
			meta := triage.AssignmentMeta{}
			if rec, ok := byID[caseID]; ok {
				meta = triage.AssignmentMeta{
					Court:            rec.Court,
					AdjudicatingBody: rec.AdjudicatingBody,
					ActivePole:       rec.ActivePole,
					PassivePole:      rec.PassivePole,
					Subject:          rec.Subject,
				}
			} else {
				fmt.Fprintf(os.Stderr, "warning: --assign %s: case not in batch\n", caseID)
			}
			ledger.Upsert(caseID, owner, meta)
		}
		ledger.ApplyOverrides(batch.Records)
	}

	stats := triage.BuildStats(batch.Records, finalTopN)
	printSummary(batch, stats)

	if db != nil && ledger.Len() > 0 {
		if err := triage.SaveAssignments(db, ledger.Entries()); err != nil {
			return fmt.Errorf("archive assignments: %w", err)
		}
	}
	if recordsCSV != "" {
		if err := writeFileWith(recordsCSV, func(f *os.File) error {
			return triage.WriteRecordsCSV(f, batch.Records, cfg.AliasTable())
		}); err != nil {
			return fmt.Errorf("write records csv: %w", err)
		}
	}
	if assignmentsCSV != "" {
		if err := writeFileWith(assignmentsCSV, func(f *os.File) error {
			return triage.WriteAssignmentsCSV(f, ledger.Entries())
		}); err != nil {
			return fmt.Errorf("write assignments csv: %w", err)
		}
	}
	if overviewPDF != "" {
		if err := writeFileWith(overviewPDF, func(f *os.File) error {
			return triage.WriteOverviewPDF(f, stats, now())
		}); err != nil {
			return fmt.Errorf("write overview pdf: %w", err)
		}
	}
	if statsPDF != "" {
		if err := writeFileWith(statsPDF, func(f *os.File) error {
			return triage.WriteStatisticsPDF(f, stats, now())
		}); err != nil {
			return fmt.Errorf("write statistics pdf: %w", err)
		}
	}
	return nil
}

func writeFileWith(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printSummary(batch *triage.Batch, stats triage.Stats) {
	fmt.Printf("Processos únicos: %d (arquivos lidos: %d, ignorados: %d, duplicados: %d, sem data: %d)\n\n",
		stats.Total, batch.Stats.FilesRead, batch.Stats.FilesSkipped, batch.Stats.Duplicates, batch.Stats.Failed)

	printTable("Por Polo Passivo", stats.PassivePoles)
	if len(stats.Months) > 0 {
		fmt.Println("Por Mês (Data de Chegada)")
		for _, mc := range stats.Months {
			fmt.Printf("  %s: %d\n", triage.MonthNamePT(mc.Month), mc.Count)
		}
		fmt.Println()
	}
	printTable("Por Servidor", stats.Owners)
	printTable("Por Vara", stats.Courts)
	printTable("Por Assunto", stats.Subjects)
}

func printTable(title string, table triage.FrequencyTable) {
	if len(table) == 0 {
		return
	}
	fmt.Println(title)
	for _, row := range table {
		fmt.Printf("  %s: %d\n", row.Value, row.Count)
	}
	fmt.Println()
}
