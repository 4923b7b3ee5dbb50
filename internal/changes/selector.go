package changes

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apperrors "groobi/internal/errors"
)

var snapshotName = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})(?:\.(\d{4}|\d{2}))?(?:\D|$)`)

// Snapshot is a sheet whose name encodes a date
type Snapshot struct {
	Name string
	// Index is the sheet's position in the workbook
	Index int
	Year  int
	Month int
	Day   int
	// ExplicitYear is set when the name carried the year
	ExplicitYear bool
}

func (s Snapshot) ordinal() int {
	return s.Year*10000 + s.Month*100 + s.Day
}

// Label renders the parsed date
func (s Snapshot) Label() string {
	if s.ExplicitYear {
		return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, s.Day)
	}
	return fmt.Sprintf("%02d-%02d", s.Month, s.Day)
}

// Selection holds the chosen pair and every eligible snapshot, newest first
type Selection struct {
	Current  Snapshot
	Previous Snapshot
	Eligible []Snapshot
}

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// parseSnapshotName extracts month, day and an optional year from a sheet
// name. Impossible dates are rejected.
func parseSnapshotName(name string, order DateOrder) (Snapshot, bool) {
	m := snapshotName.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return Snapshot{}, false
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	month, day := a, b
	if order == DateOrderDM {
		month, day = b, a
	}
	if month < 1 || month > 12 || day < 1 || day > daysInMonth[month] {
		return Snapshot{}, false
	}

	s := Snapshot{Name: name, Month: month, Day: day}
	if m[3] != "" {
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month == 2 && day == 29 && !isLeap(year) {
			return Snapshot{}, false
		}
		s.Year = year
		s.ExplicitYear = true
	}
	return s, true
}

// inferYears fills in years for names without one. Walking in workbook
// order, a month lower than the previous snapshot's means the year rolled
// over. Snapshots before the first explicit year are counted backwards
// from it; with no explicit year at all the first snapshot is year 0.
func inferYears(snaps []Snapshot) {
	first := -1
	for i, s := range snaps {
		if s.ExplicitYear {
			first = i
			break
		}
	}

	start := 0
	if first >= 0 {
		start = first
		for i := first - 1; i >= 0; i-- {
			snaps[i].Year = snaps[i+1].Year
			if snaps[i].Month > snaps[i+1].Month {
				snaps[i].Year--
			}
		}
	}

	for i := start + 1; i < len(snaps); i++ {
		if snaps[i].ExplicitYear {
			continue
		}
		snaps[i].Year = snaps[i-1].Year
		if snaps[i].Month < snaps[i-1].Month {
			snaps[i].Year++
		}
	}
}

// SelectSnapshots picks the newest and second-newest dated sheets from
// names, given in workbook order.
func SelectSnapshots(names []string, order DateOrder) (Selection, error) {
	var snaps []Snapshot
	for i, name := range names {
		s, ok := parseSnapshotName(name, order)
		if !ok {
			continue
		}
		s.Index = i
		snaps = append(snaps, s)
	}

	if len(snaps) < 2 {
		return Selection{}, apperrors.NewInsufficientSnapshotsError(
			fmt.Sprintf("need at least 2 date-named sheets, found %d", len(snaps))).
			WithContext("sheets", names)
	}

	inferYears(snaps)

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].ordinal() > snaps[j].ordinal()
	})

	if err := checkTie(snaps, 0); err != nil {
		return Selection{}, err
	}
	if err := checkTie(snaps, 1); err != nil {
		return Selection{}, err
	}

	return Selection{
		Current:  snaps[0],
		Previous: snaps[1],
		Eligible: snaps,
	}, nil
}

// checkTie fails when the snapshot at rank i shares its date with a neighbour
func checkTie(snaps []Snapshot, i int) error {
	var tied []string
	for _, s := range snaps {
		if s.ordinal() == snaps[i].ordinal() {
			tied = append(tied, s.Name)
		}
	}
	if len(tied) < 2 {
		return nil
	}
	return apperrors.NewAmbiguousSnapshotsError(
		fmt.Sprintf("sheets %s share the date %s", quoteAll(tied), snaps[i].Label())).
		WithContext("sheets", tied)
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = strconv.Quote(n)
	}
	return strings.Join(q, ", ")
}
