package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// RosterResult holds imported participants plus any per-row problems that
// did not abort the import.
type RosterResult struct {
	Participants []model.Participant
	Errors       []string
	Warnings     []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name     int
	Position int
	Lab      int
}

// headerAliases maps canonical column names to their accepted aliases
// (all lowercase).
var headerAliases = map[string][]string{
	"name":     {"name", "participant", "full name", "member"},
	"position": {"position", "rank", "title", "role"},
	"lab":      {"lab", "labs", "laboratory", "laboratories", "affiliation"},
}

// DetectCSVDelimiter determines the most likely CSV delimiter by trying
// comma, semicolon, tab, and pipe. The delimiter producing the most
// consistent multi-column row shape wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, rec := range records {
			if len(rec) == firstCols {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// DetectColumns inspects a row and reports whether it is a header, along
// with the detected column mapping.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Position: -1, Lab: -1}
	matched := 0
	for idx, cell := range row {
		norm := strings.ToLower(strings.TrimSpace(cell))
		for canonical, aliases := range headerAliases {
			for _, alias := range aliases {
				if norm != alias {
					continue
				}
				switch canonical {
				case "name":
					if mapping.Name < 0 {
						mapping.Name = idx
						matched++
					}
				case "position":
					if mapping.Position < 0 {
						mapping.Position = idx
						matched++
					}
				case "lab":
					if mapping.Lab < 0 {
						mapping.Lab = idx
						matched++
					}
				}
			}
		}
	}
	return mapping, matched >= 2
}

// ImportRosterCSV reads participants from a CSV file. The delimiter is
// sniffed; the first row may be a recognized header, otherwise the column
// order name, position, lab is assumed.
func ImportRosterCSV(path string) (RosterResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RosterResult{}, err
	}
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RosterResult{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, rec)
	}
	return rowsToRoster(rows)
}

// ImportRosterXLSX reads participants from the first sheet of an Excel file.
func ImportRosterXLSX(path string) (RosterResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RosterResult{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return RosterResult{}, fmt.Errorf("%w: workbook has no sheets", model.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return RosterResult{}, err
	}
	return rowsToRoster(rows)
}

func rowsToRoster(rows [][]string) (RosterResult, error) {
	var result RosterResult
	if len(rows) == 0 {
		return result, fmt.Errorf("%w: roster file is empty", model.ErrInvalidInput)
	}

	mapping := ColumnMapping{Name: 0, Position: 1, Lab: 2}
	start := 0
	if detected, isHeader := DetectColumns(rows[0]); isHeader {
		mapping = detected
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}
		name := cellAt(row, mapping.Name)
		positionStr := cellAt(row, mapping.Position)
		labStr := cellAt(row, mapping.Lab)

		position, err := model.ParsePosition(strings.TrimSpace(positionStr))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: unknown position %q", i+1, positionStr))
			continue
		}
		labs := splitLabs(labStr)
		p, err := model.NewParticipant(strings.TrimSpace(name), position, labs)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Participants = append(result.Participants, p)
	}
	if len(result.Participants) == 0 {
		return result, fmt.Errorf("%w: no valid participant rows", model.ErrInvalidInput)
	}
	return result, nil
}

// splitLabs splits a lab cell on semicolons (the list separator that
// survives CSV quoting), trimming blanks.
func splitLabs(cell string) []string {
	parts := strings.Split(cell, ";")
	labs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			labs = append(labs, trimmed)
		}
	}
	return labs
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
