package changes

import (
	"fmt"
	"regexp"

	"groobi/internal/workbook"
)

// DateOrder says how the two numbers of a snapshot name are read
type DateOrder string

const (
	// DateOrderMD reads "12.24" as December 24
	DateOrderMD DateOrder = "MD"
	// DateOrderDM reads "24.12" as December 24
	DateOrderDM DateOrder = "DM"
)

// DefaultHighlightColor is the fill applied to changed rows
const DefaultHighlightColor = "FFFF00"

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Options is the engine configuration for one run. It is treated as
// immutable once handed to an Engine.
type Options struct {
	// IgnoredColumns never take part in comparison
	IgnoredColumns []string
	// NoiseThreshold drops columns whose positional change ratio is
	// strictly greater than it
	NoiseThreshold float64
	// HeaderRow is the 1-based row holding column names
	HeaderRow int
	DateOrder DateOrder
	// HighlightColor is an RGB hex string without '#'
	HighlightColor      string
	NumericTextAsNumber bool
}

// DefaultOptions returns the stock configuration
func DefaultOptions() Options {
	return Options{
		IgnoredColumns: []string{"LOT #"},
		NoiseThreshold: 0.5,
		HeaderRow:      2,
		DateOrder:      DateOrderMD,
		HighlightColor: DefaultHighlightColor,
	}
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.NoiseThreshold < 0 || o.NoiseThreshold > 1 {
		return fmt.Errorf("noise threshold must be within [0,1], got %v", o.NoiseThreshold)
	}
	if o.HeaderRow < 1 {
		return fmt.Errorf("header row must be >= 1, got %d", o.HeaderRow)
	}
	if o.DateOrder != DateOrderMD && o.DateOrder != DateOrderDM {
		return fmt.Errorf("date order must be %s or %s, got %q", DateOrderMD, DateOrderDM, o.DateOrder)
	}
	if !hexColor.MatchString(o.HighlightColor) {
		return fmt.Errorf("highlight color must be 6 hex digits, got %q", o.HighlightColor)
	}
	return nil
}

// Normalizer returns the value normalizer these options imply
func (o Options) Normalizer() workbook.Normalizer {
	return workbook.Normalizer{NumericTextAsNumber: o.NumericTextAsNumber}
}

func (o Options) clone() Options {
	c := o
	c.IgnoredColumns = append([]string(nil), o.IgnoredColumns...)
	return c
}
