package triage

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF summary reports, rendered with the same header block and section
// layout as the spreadsheets the unit distributes.

var monthNamesPT = map[time.Month]string{
	time.January:   "Janeiro",
	time.February:  "Fevereiro",
	time.March:     "Março",
	time.April:     "Abril",
	time.May:       "Maio",
	time.June:      "Junho",
	time.July:      "Julho",
	time.August:    "Agosto",
	time.September: "Setembro",
	time.October:   "Outubro",
	time.November:  "Novembro",
	time.December:  "Dezembro",
}

// MonthNamePT returns the Portuguese name of m.
func MonthNamePT(m time.Month) string {
	return monthNamesPT[m]
}

func newReportPDF() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, tr("PODER JUDICIÁRIO"), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr("JUSTIÇA FEDERAL EM PERNAMBUCO - JUIZADOS ESPECIAIS FEDERAIS"), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, tr("PLANILHA DE CONTROLE DE PROCESSOS - PJE2X"), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.AddPage()
	return pdf, tr
}

func pdfSection(pdf *fpdf.Fpdf, tr func(string) string, title string, rows FrequencyTable) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr(title), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %d", row.Value, row.Count)), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)
}

func pdfMonthSection(pdf *fpdf.Fpdf, tr func(string) string, months []MonthCount) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("DISTRIBUIÇÃO POR MÊS (Data de Chegada)"), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, mc := range months {
		pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s: %d", monthNamesPT[mc.Month], mc.Count)), "", 1, "", false, 0, "")
	}
	pdf.Ln(5)
}

func pdfFooter(pdf *fpdf.Fpdf, tr func(string) string, generatedAt time.Time) {
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Relatório gerado em: %s", generatedAt.Format("02/01/2006 às 15:04:05"))), "", 1, "", false, 0, "")
}

// WriteOverviewPDF renders the overview report: totals plus the main
// distributions.
func WriteOverviewPDF(w io.Writer, stats Stats, generatedAt time.Time) error {
	pdf, tr := newReportPDF()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("RELATÓRIO - VISÃO GERAL"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("INFORMAÇÕES GERAIS"), "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total de Processos: %d", stats.Total)), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Data de geração: %s", generatedAt.Format("02/01/2006 15:04"))), "", 1, "", false, 0, "")
	pdf.Ln(10)

	pdfSection(pdf, tr, "DISTRIBUIÇÃO POR POLO PASSIVO (Top 10)", stats.PassivePoles)
	pdfMonthSection(pdf, tr, stats.Months)
	pdfSection(pdf, tr, "DISTRIBUIÇÃO POR SERVIDOR", stats.Owners)
	pdfSection(pdf, tr, "PRINCIPAIS ASSUNTOS (Top 10)", stats.Subjects)
	pdfFooter(pdf, tr, generatedAt)

	return pdf.Output(w)
}

// WriteStatisticsPDF renders the detailed-statistics report, which adds
// the per-court table.
func WriteStatisticsPDF(w io.Writer, stats Stats, generatedAt time.Time) error {
	pdf, tr := newReportPDF()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr("RELATÓRIO - ESTATÍSTICAS DETALHADAS"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Data de geração: %s", generatedAt.Format("02/01/2006 15:04"))), "", 1, "", false, 0, "")
	pdf.Ln(10)

	pdfSection(pdf, tr, "POR POLO PASSIVO (Top 10)", stats.PassivePoles)
	pdfMonthSection(pdf, tr, stats.Months)
	pdfSection(pdf, tr, "POR SERVIDOR", stats.Owners)
	pdfSection(pdf, tr, "POR VARA (Top 10)", stats.Courts)
	pdfSection(pdf, tr, "POR ASSUNTO (Top 10)", stats.Subjects)
	pdfFooter(pdf, tr, generatedAt)

	return pdf.Output(w)
}
