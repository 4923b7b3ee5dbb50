package changes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "groobi/internal/errors"
)

func TestSelectSnapshots(t *testing.T) {
	tests := []struct {
		name         string
		sheets       []string
		order        DateOrder
		wantCurrent  string
		wantPrevious string
	}{
		{
			name:         "two snapshots",
			sheets:       []string{"12.23", "12.24"},
			order:        DateOrderMD,
			wantCurrent:  "12.24",
			wantPrevious: "12.23",
		},
		{
			name:         "sorted by date not position",
			sheets:       []string{"12.24", "Summary", "12.20", "12.23"},
			order:        DateOrderMD,
			wantCurrent:  "12.24",
			wantPrevious: "12.23",
		},
		{
			name:         "names with suffix text",
			sheets:       []string{"12.23 morning", "12.24 update", "notes"},
			order:        DateOrderMD,
			wantCurrent:  "12.24 update",
			wantPrevious: "12.23 morning",
		},
		{
			name:         "year rollover in workbook order",
			sheets:       []string{"11.30", "12.15", "1.5"},
			order:        DateOrderMD,
			wantCurrent:  "1.5",
			wantPrevious: "12.15",
		},
		{
			name:         "explicit years",
			sheets:       []string{"1.2.2024", "12.24.2023"},
			order:        DateOrderMD,
			wantCurrent:  "1.2.2024",
			wantPrevious: "12.24.2023",
		},
		{
			name:         "two digit year",
			sheets:       []string{"12.31.23", "1.1.24"},
			order:        DateOrderMD,
			wantCurrent:  "1.1.24",
			wantPrevious: "12.31.23",
		},
		{
			name:         "undated sheets before an explicit year",
			sheets:       []string{"12.20", "1.3.2025", "12.28"},
			order:        DateOrderMD,
			wantCurrent:  "12.28",
			wantPrevious: "1.3.2025",
		},
		{
			name:         "day month order",
			sheets:       []string{"24.12", "23.12", "13.12"},
			order:        DateOrderDM,
			wantCurrent:  "24.12",
			wantPrevious: "23.12",
		},
		{
			name:         "impossible dates are ignored",
			sheets:       []string{"12.23", "13.40", "12.24", "2.30"},
			order:        DateOrderMD,
			wantCurrent:  "12.24",
			wantPrevious: "12.23",
		},
		{
			name:         "ties below the top two are allowed",
			sheets:       []string{"12.20", "12.20 copy", "12.23", "12.24"},
			order:        DateOrderMD,
			wantCurrent:  "12.24",
			wantPrevious: "12.23",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := SelectSnapshots(tt.sheets, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, sel.Current.Name)
			assert.Equal(t, tt.wantPrevious, sel.Previous.Name)
		})
	}
}

func TestSelectSnapshots_Insufficient(t *testing.T) {
	for _, sheets := range [][]string{
		nil,
		{"12.24"},
		{"12.24", "Summary", "Sheet1"},
		{"12.24", "12.245", "1224"},
	} {
		_, err := SelectSnapshots(sheets, DateOrderMD)
		require.Error(t, err, "sheets %v", sheets)
		assert.True(t, errors.Is(err, apperrors.ErrInsufficientSnapshots))
	}
}

func TestSelectSnapshots_Ambiguous(t *testing.T) {
	tests := []struct {
		name   string
		sheets []string
	}{
		{"newest shared", []string{"12.23", "12.24", "12.24 (2)"}},
		{"second newest shared", []string{"12.22", "12.22 b", "12.24"}},
		{"same date written two ways", []string{"12.24", "12.24.2024", "12.23.2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectSnapshots(tt.sheets, DateOrderMD)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrAmbiguousSnapshots))
		})
	}
}

func TestParseSnapshotName(t *testing.T) {
	tests := []struct {
		name  string
		order DateOrder
		ok    bool
		month int
		day   int
		year  int
	}{
		{"12.24", DateOrderMD, true, 12, 24, 0},
		{"1.5", DateOrderMD, true, 1, 5, 0},
		{"24.12", DateOrderDM, true, 12, 24, 0},
		{"24.12", DateOrderMD, false, 0, 0, 0},
		{"2.29", DateOrderMD, true, 2, 29, 0},
		{"2.29.2024", DateOrderMD, true, 2, 29, 2024},
		{"2.29.2023", DateOrderMD, false, 0, 0, 0},
		{"4.31", DateOrderMD, false, 0, 0, 0},
		{"0.10", DateOrderMD, false, 0, 0, 0},
		{"12.24.5 draft", DateOrderMD, true, 12, 24, 0},
		{"Dec 24", DateOrderMD, false, 0, 0, 0},
		{"123.4", DateOrderMD, false, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := parseSnapshotName(tt.name, tt.order)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.month, s.Month)
			assert.Equal(t, tt.day, s.Day)
			assert.Equal(t, tt.year, s.Year)
			assert.Equal(t, tt.year != 0, s.ExplicitYear)
		})
	}
}
