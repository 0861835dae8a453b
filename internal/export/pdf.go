package export

import (
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	lineHeight   = 6.0
	groupGap     = 4.0
)

// ExportPDF renders the assignment result: one page per session listing its
// groups and members, followed by a summary page with the evaluation block.
func ExportPDF(path string, report Report) error {
	if len(report.Program) == 0 {
		return fmt.Errorf("no sessions to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom)

	for si, session := range report.Program {
		pdf.AddPage()
		renderSessionPage(pdf, session, si+1)
	}

	pdf.AddPage()
	renderEvaluationPage(pdf, report.Evaluation)

	return pdf.OutputFileAndClose(path)
}

func renderSessionPage(pdf *fpdf.Fpdf, session [][]string, sessionNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	members := 0
	for _, g := range session {
		members += len(g)
	}
	title := fmt.Sprintf("Session %d: %d groups, %d participants", sessionNum, len(session), members)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 1, "L", false, 0, "")

	for gi, group := range session {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetX(marginLeft)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight,
			fmt.Sprintf("Group %d (%d members)", gi+1, len(group)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, member := range group {
			pdf.SetX(marginLeft + 5)
			pdf.CellFormat(pageWidth-marginLeft-marginRight-5, lineHeight, member, "", 1, "L", false, 0, "")
		}
		pdf.Ln(groupGap)
	}
}

func renderEvaluationPage(pdf *fpdf.Fpdf, eval Evaluation) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Evaluation", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("Average repeat per person: %.4f", eval.AvgRepeatPerPerson),
		fmt.Sprintf("Theoretical minimum: %.4f", eval.TheoreticalMinAvgRepeat),
		fmt.Sprintf("Distinct partners (mean): %.2f", eval.DistinctPartnersAvg),
		fmt.Sprintf("Distinct partners (variance): %.2f", eval.DistinctPartnersVariance),
	}
	for _, line := range lines {
		pdf.SetX(marginLeft)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(groupGap)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(marginLeft)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, lineHeight, "Partner statistics (distinct/total/duplicate)", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	names := make([]string, 0, len(eval.PartnerStatistics))
	for name := range eval.PartnerStatistics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		pdf.SetX(marginLeft + 5)
		pdf.CellFormat(pageWidth-marginLeft-marginRight-5, lineHeight,
			fmt.Sprintf("%s: %s", name, eval.PartnerStatistics[name]), "", 1, "L", false, 0, "")
	}
}
