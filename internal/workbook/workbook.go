package workbook

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "groobi/internal/errors"
)

// Workbook is an xlsx file opened for one processing run
type Workbook struct {
	path     string
	file     *excelize.File
	date1904 bool
	// style id -> whether its number format renders a date
	dateStyles map[int]bool
}

// Open reads the workbook at path. Missing, unreadable or non-xlsx files
// return a FILE_NOT_READABLE error.
func Open(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewFileNotReadableError(fmt.Sprintf("cannot access workbook %q", path), err).
			WithContext("file_path", path)
	}
	if info.IsDir() {
		return nil, apperrors.NewFileNotReadableError(fmt.Sprintf("%q is a directory", path), nil).
			WithContext("file_path", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewFileNotReadableError(fmt.Sprintf("cannot open workbook %q", path), err).
			WithContext("file_path", path)
	}

	wb := &Workbook{
		path:       path,
		file:       f,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// Path returns the file the workbook was opened from
func (w *Workbook) Path() string { return w.path }

// File exposes the underlying excelize file for styling
func (w *Workbook) File() *excelize.File { return w.file }

// SheetNames returns the worksheet names in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// LoadSheet reads the named sheet. headerRow is 1-based; rows above it are
// ignored and every row below it is a data row.
func (w *Workbook) LoadSheet(name string, headerRow int) (*Sheet, error) {
	if headerRow < 1 {
		return nil, fmt.Errorf("header row must be >= 1, got %d", headerRow)
	}

	raw, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewFileNotReadableError(fmt.Sprintf("cannot read sheet %q", name), err).
			WithContext("sheet", name)
	}

	sheet := &Sheet{Name: name}
	for _, r := range raw {
		if len(r) > sheet.Width {
			sheet.Width = len(r)
		}
	}

	if len(raw) < headerRow {
		sheet.setHeader(nil)
		return sheet, nil
	}
	sheet.setHeader(raw[headerRow-1])

	sheet.Rows = make([]Row, 0, len(raw)-headerRow)
	for i := headerRow; i < len(raw); i++ {
		rowNum := i + 1
		cells := make([]Value, len(raw[i]))
		for col, text := range raw[i] {
			v, err := w.cellValue(name, col+1, rowNum, text)
			if err != nil {
				return nil, apperrors.NewFileNotReadableError(fmt.Sprintf("cannot read sheet %q", name), err).
					WithContext("sheet", name)
			}
			cells[col] = v
		}
		sheet.Rows = append(sheet.Rows, Row{Number: rowNum, Cells: cells})
	}

	return sheet, nil
}

// cellValue converts the raw text of a cell into a tagged value using the
// cell's stored type and number format.
func (w *Workbook) cellValue(sheet string, col, row int, raw string) (Value, error) {
	if strings.TrimSpace(raw) == "" {
		return Empty(), nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Empty(), err
	}
	cellType, err := w.file.GetCellType(sheet, cell)
	if err != nil {
		return Empty(), err
	}

	switch cellType {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "TRUE")), nil
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return Date(t), nil
		}
		return String(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return String(raw), nil
	}

	// Numeric cells carry no type or "n"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return String(raw), nil
	}

	isDate, err := w.isDateCell(sheet, cell)
	if err != nil {
		return Empty(), err
	}
	if isDate {
		if t, err := excelize.ExcelDateToTime(f, w.date1904); err == nil {
			return Date(t), nil
		}
	}
	return Number(f), nil
}

func (w *Workbook) isDateCell(sheet, cell string) (bool, error) {
	styleID, err := w.file.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if styleID == 0 {
		return false, nil
	}
	if isDate, ok := w.dateStyles[styleID]; ok {
		return isDate, nil
	}

	style, err := w.file.GetStyle(styleID)
	if err != nil {
		return false, err
	}
	isDate := false
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	} else {
		isDate = isBuiltinDateFormat(style.NumFmt)
	}
	w.dateStyles[styleID] = isDate
	return isDate, nil
}

// Encode serializes the workbook as xlsx
func (w *Workbook) Encode(out io.Writer) error {
	return w.file.Write(out)
}

// Close releases the workbook's temporary resources
func (w *Workbook) Close() error {
	return w.file.Close()
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, dateTimeLayout, "2006-01-02T15:04:05.999999999", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
