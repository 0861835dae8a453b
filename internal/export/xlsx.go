package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteCooccurrenceXLSX writes the co-occurrence matrix and the group
// listing into an Excel workbook.
func WriteCooccurrenceXLSX(path string, report Report, co Cooccurrence) error {
	f := excelize.NewFile()
	defer f.Close()

	const matrixSheet = "Co-occurrence"
	f.SetSheetName("Sheet1", matrixSheet)

	setCell := func(sheet string, col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	if err := setCell(matrixSheet, 1, 1, "participant"); err != nil {
		return err
	}
	for i, name := range co.Names {
		if err := setCell(matrixSheet, i+2, 1, name); err != nil {
			return err
		}
	}
	for r, name := range co.Names {
		if err := setCell(matrixSheet, 1, r+2, name); err != nil {
			return err
		}
		for c, other := range co.Names {
			var value any
			if name == other {
				value = "-"
			} else {
				value = co.Counts[name][other]
			}
			if err := setCell(matrixSheet, c+2, r+2, value); err != nil {
				return err
			}
		}
	}

	const groupsSheet = "Groups"
	if _, err := f.NewSheet(groupsSheet); err != nil {
		return err
	}
	row := 1
	for si, session := range report.Program {
		if err := setCell(groupsSheet, 1, row, fmt.Sprintf("Session %d", si+1)); err != nil {
			return err
		}
		row++
		for gi, group := range session {
			if err := setCell(groupsSheet, 1, row, fmt.Sprintf("Group %d", gi+1)); err != nil {
				return err
			}
			for mi, member := range group {
				if err := setCell(groupsSheet, mi+2, row, member); err != nil {
					return err
				}
			}
			row++
		}
		row++
	}

	return f.SaveAs(path)
}
