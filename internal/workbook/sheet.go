package workbook

import "strings"

// Row is one data row of a sheet
type Row struct {
	// Number is the 1-based row number in the worksheet
	Number int
	Cells  []Value
}

// Cell returns the value at column index i, Empty when out of range
func (r Row) Cell(i int) Value {
	if i < 0 || i >= len(r.Cells) {
		return Empty()
	}
	return r.Cells[i]
}

// Blank reports whether every cell is empty
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Sheet is a worksheet read into memory: a header row followed by data rows
type Sheet struct {
	Name string
	// Header holds the trimmed header cell text by column index; blank
	// header cells are "" and do not name a column.
	Header []string
	Rows   []Row
	// Width is the widest row seen anywhere in the sheet, header included
	Width int
	// Duplicates lists header names that appeared more than once; the
	// first occurrence is the column used.
	Duplicates []string

	columns map[string]int
	order   []string
}

// NewSheet builds a sheet from a header and data rows. Data rows are
// numbered consecutively after headerRow.
func NewSheet(name string, header []string, headerRow int, data [][]Value) *Sheet {
	s := &Sheet{Name: name, Width: len(header)}
	s.setHeader(header)

	s.Rows = make([]Row, len(data))
	for i, cells := range data {
		s.Rows[i] = Row{Number: headerRow + 1 + i, Cells: cells}
		if len(cells) > s.Width {
			s.Width = len(cells)
		}
	}
	return s
}

func (s *Sheet) setHeader(header []string) {
	s.Header = make([]string, len(header))
	s.columns = make(map[string]int, len(header))
	s.order = s.order[:0]

	for i, h := range header {
		name := strings.TrimSpace(h)
		s.Header[i] = name
		if name == "" {
			continue
		}
		if _, seen := s.columns[name]; seen {
			s.Duplicates = append(s.Duplicates, name)
			continue
		}
		s.columns[name] = i
		s.order = append(s.order, name)
	}
}

// ColumnIndex returns the 0-based index of the named column
func (s *Sheet) ColumnIndex(name string) (int, bool) {
	i, ok := s.columns[name]
	return i, ok
}

// Columns returns the distinct non-blank column names in header order
func (s *Sheet) Columns() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
