package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SheetFixture describes one worksheet of a generated workbook.
// Title lands in row 1, Header in HeaderRow (default 2) and Rows below it.
type SheetFixture struct {
	Name      string
	Title     string
	HeaderRow int
	Header    []string
	Rows      [][]interface{}
}

// WriteWorkbook saves the sheets, in order, to a new xlsx file under
// t.TempDir() and returns its path.
func WriteWorkbook(t *testing.T, sheets ...SheetFixture) string {
	t.Helper()
	return WriteWorkbookAt(t, filepath.Join(t.TempDir(), "snapshots.xlsx"), sheets...)
}

// WriteWorkbookAt is WriteWorkbook with an explicit destination.
func WriteWorkbookAt(t *testing.T, path string, sheets ...SheetFixture) string {
	t.Helper()
	require.NotEmpty(t, sheets, "workbook needs at least one sheet")

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		fillSheet(t, f, sheet)
	}

	require.NoError(t, f.SaveAs(path))
	return path
}

func fillSheet(t *testing.T, f *excelize.File, sheet SheetFixture) {
	t.Helper()

	headerRow := sheet.HeaderRow
	if headerRow == 0 {
		headerRow = 2
	}

	if sheet.Title != "" {
		require.NoError(t, f.SetCellValue(sheet.Name, "A1", sheet.Title))
	}

	if len(sheet.Header) > 0 {
		cell, err := excelize.CoordinatesToCellName(1, headerRow)
		require.NoError(t, err)
		header := make([]interface{}, len(sheet.Header))
		for i, h := range sheet.Header {
			header[i] = h
		}
		require.NoError(t, f.SetSheetRow(sheet.Name, cell, &header))
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet.Name, cell, &values))
	}
}

// CellFill returns the first fill color of the cell's style, or "" when the
// cell has no pattern fill.
func CellFill(t *testing.T, path, sheet, cell string) string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	styleID, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	if styleID == 0 {
		return ""
	}

	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	if style.Fill.Type != "pattern" || len(style.Fill.Color) == 0 {
		return ""
	}
	return style.Fill.Color[0]
}

// FilledRows returns the 1-based rows of sheet whose column A cell carries
// a pattern fill of color.
func FilledRows(t *testing.T, path, sheet, color string) []int {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)

	var filled []int
	for r := 1; r <= len(rows); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r)
		require.NoError(t, err)
		styleID, err := f.GetCellStyle(sheet, cell)
		require.NoError(t, err)
		if styleID == 0 {
			continue
		}
		style, err := f.GetStyle(styleID)
		require.NoError(t, err)
		if style.Fill.Type == "pattern" && len(style.Fill.Color) > 0 && style.Fill.Color[0] == color {
			filled = append(filled, r)
		}
	}
	return filled
}
