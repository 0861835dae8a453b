package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// BadgeInfo is the data encoded into each participant badge's QR code.
type BadgeInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Labs     []string `json:"labs"`
	Groups   []int    `json:"groups"` // 1-based group number per session
}

// Label layout constants for Avery 5160-compatible sheets (3 columns,
// 10 rows per US Letter page).
const (
	labelPageWidth  = 215.9
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportBadges generates a PDF of QR-coded badges, one per participant.
// Each badge shows the name, position, and labs, plus a QR code encoding the
// participant's identity and their group number in every session.
func ExportBadges(path string, program model.Program, sol model.Solution) error {
	if len(program.Participants) == 0 {
		return fmt.Errorf("no participants to generate badges for")
	}

	groupsOf := make(map[model.ParticipantID][]int, len(program.Participants))
	for si := 0; si < len(sol); si++ {
		for gi, g := range sol[si].All() {
			for _, p := range g.Members {
				if groupsOf[p.ID] == nil {
					groupsOf[p.ID] = make([]int, len(sol))
				}
				groupsOf[p.ID][si] = gi + 1
			}
		}
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, p := range program.Participants {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		slot := i % labelsPerPage
		x := labelMarginLeft + float64(slot%labelCols)*labelWidth
		y := labelMarginTop + float64(slot/labelCols)*labelHeight

		info := BadgeInfo{
			ID:       p.ID.String(),
			Name:     p.Name,
			Position: p.Position.String(),
			Labs:     p.Labs,
			Groups:   groupsOf[p.ID],
		}
		payload, err := json.Marshal(info)
		if err != nil {
			return err
		}
		png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
		if err != nil {
			return fmt.Errorf("encoding badge QR for %s: %w", p.Name, err)
		}

		imageName := fmt.Sprintf("badge-%d", i)
		pdf.RegisterImageOptionsReader(imageName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		pdf.ImageOptions(imageName, x+labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize,
			false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		textX := x + labelPadding + qrSize + labelPadding
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(textX, y+labelPadding+2)
		pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4, p.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(textX, y+labelPadding+7)
		pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4, p.Position.String(), "", 1, "L", false, 0, "")
		pdf.SetXY(textX, y+labelPadding+12)
		pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4, strings.Join(p.Labs, ", "), "", 1, "L", false, 0, "")
	}

	return pdf.OutputFileAndClose(path)
}
