package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"

	"lifetrack/internal/models"
)

// Generator renders reports as PDF.
type Generator interface {
	DayReport(w io.Writer, r *models.DayReport) error
}

// ReportGenerator draws with a UTF-8 TTF font when FontPath points to one,
// otherwise with the built-in Helvetica.
type ReportGenerator struct {
	FontPath string
	fontName string
}

func NewReportGenerator(fontPath string) *ReportGenerator {
	return &ReportGenerator{FontPath: fontPath, fontName: "DejaVu"}
}

func (g *ReportGenerator) DayReport(w io.Writer, r *models.DayReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Day report "+r.Date.String(), true)
	pdf.SetAuthor("lifetrack", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	font, tr := g.setupFont(pdf)
	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 10, tr("Day report"), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 12)
	pdf.CellFormat(0, 7, r.Date.String(), "", 1, "C", false, 0, "")
	hr(pdf)

	sectionTitle(pdf, font, "Summary")
	kvLine(pdf, font, "Tasks", fmt.Sprintf("%d (%d done, %d pending)", len(r.Tasks), r.Completed, r.Pending))
	kvLine(pdf, font, "Completion", fmt.Sprintf("%.0f%%", r.CompletionRate*100))
	kvLine(pdf, font, "Rolled over", fmt.Sprintf("%d", r.RolledOver))
	kvLine(pdf, font, "XP earned", fmt.Sprintf("%d", r.XPEarned))
	kvLine(pdf, font, "Balance", fmt.Sprintf("%d XP", r.Balance))
	kvLine(pdf, font, "Streak", fmt.Sprintf("%d day(s)", r.Streak))
	pdf.Ln(2)
	hr(pdf)

	sectionTitle(pdf, font, "Tasks")
	if len(r.Tasks) == 0 {
		pdf.CellFormat(0, 6, "No tasks.", "", 1, "L", false, 0, "")
	}
	for _, t := range r.Tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  (%s, %s)", mark, t.Title, t.WorkType, t.Priority)
		if t.Rollovers > 0 {
			line += fmt.Sprintf("  rolled over %dx since %s", t.Rollovers, t.OriginalDate)
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return pdf.Output(w)
}

// setupFont registers the TTF font if available and returns the font family
// plus a translator for text written with it.
func (g *ReportGenerator) setupFont(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			pdf.AddUTF8Font(g.fontName, "", g.FontPath)
			pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
			return g.fontName, func(s string) string { return s }
		}
	}
	return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
}

func sectionTitle(pdf *gofpdf.Fpdf, font, s string) {
	pdf.SetFont(font, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, font, key, val string) {
	pdf.SetFont(font, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
