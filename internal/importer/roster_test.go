package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KotaKunori/GroupAssigner/internal/model"
)

// ─── DetectCSVDelimiter ────────────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Name,Position,Lab\nTanaka,Faculty,LabA\nSuzuki,Master,LabB\n")
	assert.Equal(t, ',', DetectCSVDelimiter(data))
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Name;Position;Lab\nTanaka;Faculty;LabA\nSuzuki;Master;LabB\n")
	assert.Equal(t, ';', DetectCSVDelimiter(data))
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Name\tPosition\tLab\nTanaka\tFaculty\tLabA\n")
	assert.Equal(t, '\t', DetectCSVDelimiter(data))
}

// ─── DetectColumns ─────────────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Name", "Position", "Lab"})
	require.True(t, isHeader)
	assert.Equal(t, 0, mapping.Name)
	assert.Equal(t, 1, mapping.Position)
	assert.Equal(t, 2, mapping.Lab)
}

func TestDetectColumns_Aliases(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Laboratory", "Participant", "Rank"})
	require.True(t, isHeader)
	assert.Equal(t, 1, mapping.Name)
	assert.Equal(t, 2, mapping.Position)
	assert.Equal(t, 0, mapping.Lab)
}

func TestDetectColumns_DataRow(t *testing.T) {
	_, isHeader := DetectColumns([]string{"Tanaka", "Faculty", "LabA"})
	assert.False(t, isHeader)
}

// ─── CSV import ────────────────────────────────────────────

func TestImportRosterCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "Name,Position,Lab\n" +
		"Tanaka,Faculty,LabA\n" +
		"Suzuki,Doctoral,LabB; LabC\n" +
		"Sato,Master,LabD\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := ImportRosterCSV(path)
	require.NoError(t, err)
	require.Len(t, result.Participants, 3)
	assert.Empty(t, result.Errors)

	assert.Equal(t, "Suzuki", result.Participants[1].Name)
	assert.Equal(t, []string{"LabB", "LabC"}, result.Participants[1].Labs)
	assert.Equal(t, model.Doctoral, result.Participants[1].Position)
}

func TestImportRosterCSV_CollectsRowErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	content := "Name,Position,Lab\n" +
		"Tanaka,Faculty,LabA\n" +
		"Broken,Dean,LabB\n" +
		",Master,LabC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	result, err := ImportRosterCSV(path)
	require.NoError(t, err)
	assert.Len(t, result.Participants, 1)
	assert.Len(t, result.Errors, 2)
}

func TestImportRosterCSV_NoValidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Position,Lab\n"), 0644))

	_, err := ImportRosterCSV(path)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

// ─── XLSX import ───────────────────────────────────────────

func TestImportRosterXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Name", "Position", "Lab"},
		{"Tanaka", "Faculty", "LabA"},
		{"Suzuki", "Bachelor", "LabB;LabC"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	result, err := ImportRosterXLSX(path)
	require.NoError(t, err)
	require.Len(t, result.Participants, 2)
	assert.Equal(t, model.Bachelor, result.Participants[1].Position)
	assert.Equal(t, []string{"LabB", "LabC"}, result.Participants[1].Labs)
}
