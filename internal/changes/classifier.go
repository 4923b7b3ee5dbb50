package changes

// ChangedRow is a current-sheet row with no matching previous row
type ChangedRow struct {
	Position int
	Row      int
}

// ChangeSet is the ordered list of changed rows in the current sheet
type ChangeSet struct {
	Rows []ChangedRow
}

// Found reports whether anything changed
func (c ChangeSet) Found() bool { return len(c.Rows) > 0 }

// Len returns the number of changed rows
func (c ChangeSet) Len() int { return len(c.Rows) }

// RowNumbers returns the 1-based worksheet rows that changed
func (c ChangeSet) RowNumbers() []int {
	rows := make([]int, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = r.Row
	}
	return rows
}

// Classify marks every current row whose signature does not occur among the
// previous rows. Rows for which blank returns true are never reported; a nil
// blank reports every unmatched row.
//
// Known deviation from a plain set difference: the engine passes a blank
// test, so a current row that is empty in every cell is never flagged, even
// when no previous row is empty.
func Classify(previous, current []RowSignature, blank func(pos int) bool) ChangeSet {
	seen := make(map[Signature]struct{}, len(previous))
	for _, p := range previous {
		seen[p.Signature] = struct{}{}
	}

	var set ChangeSet
	for _, c := range current {
		if _, ok := seen[c.Signature]; ok {
			continue
		}
		if blank != nil && blank(c.Position) {
			continue
		}
		set.Rows = append(set.Rows, ChangedRow{Position: c.Position, Row: c.Row})
	}
	return set
}
