package changes

import (
	"fmt"
	"strings"

	apperrors "groobi/internal/errors"
	"groobi/internal/workbook"
)

// Side picks one of the two compared sheets
type Side int

const (
	SidePrevious Side = iota
	SideCurrent
)

// Column is a comparable column and its index in each sheet
type Column struct {
	Name     string
	Previous int
	Current  int
}

// Index returns the column's position in the given sheet
func (c Column) Index(side Side) int {
	if side == SidePrevious {
		return c.Previous
	}
	return c.Current
}

// ColumnSet is the ordered list of columns used for comparison, in the
// current sheet's header order
type ColumnSet struct {
	Columns []Column
}

// Len returns the number of columns
func (cs ColumnSet) Len() int { return len(cs.Columns) }

// Names returns the column names in order
func (cs ColumnSet) Names() []string {
	names := make([]string, len(cs.Columns))
	for i, c := range cs.Columns {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether name is in the set
func (cs ColumnSet) Contains(name string) bool {
	for _, c := range cs.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// AlignColumns intersects the two headers, drops ignored names and orders
// the result by the current sheet. Ignored names match after trimming.
func AlignColumns(previous, current *workbook.Sheet, ignored []string) (ColumnSet, error) {
	skip := make(map[string]struct{}, len(ignored))
	for _, name := range ignored {
		skip[strings.TrimSpace(name)] = struct{}{}
	}

	var cs ColumnSet
	for _, name := range current.Columns() {
		if _, ok := skip[name]; ok {
			continue
		}
		prevIdx, ok := previous.ColumnIndex(name)
		if !ok {
			continue
		}
		curIdx, _ := current.ColumnIndex(name)
		cs.Columns = append(cs.Columns, Column{Name: name, Previous: prevIdx, Current: curIdx})
	}

	if cs.Len() == 0 {
		return ColumnSet{}, apperrors.NewNoComparableColumnsError(
			fmt.Sprintf("sheets %q and %q share no columns outside the ignore list", previous.Name, current.Name)).
			WithContext("previous_columns", previous.Columns()).
			WithContext("current_columns", current.Columns()).
			WithContext("ignored_columns", ignored)
	}
	return cs, nil
}
