package workbook

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Kind tags the type of a cell value
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindDate
	KindBool
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "empty"
	}
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

// Value is a normalized cell value. Two values are equal for comparison
// purposes when both their kind and canonical text match.
type Value struct {
	kind Kind
	text string
}

// Empty returns the empty value
func Empty() Value {
	return Value{}
}

// String returns a string value in NFC with surrounding whitespace trimmed.
// A blank string is Empty.
func String(s string) Value {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return Empty()
	}
	return Value{kind: KindString, text: s}
}

// Number returns a numeric value in its shortest decimal form.
// NaN is Empty.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Empty()
	}
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Date returns a date value; the time part is kept only when non-zero
func Date(t time.Time) Value {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return Value{kind: KindDate, text: t.Format(dateLayout)}
	}
	return Value{kind: KindDate, text: t.Format(dateTimeLayout)}
}

// Bool returns TRUE or FALSE
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, text: "TRUE"}
	}
	return Value{kind: KindBool, text: "FALSE"}
}

// Kind returns the value's tag
func (v Value) Kind() Kind { return v.kind }

// Text returns the canonical text
func (v Value) Text() string { return v.text }

// IsEmpty reports whether the value is Empty
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// Equal compares kind and canonical text
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.text == o.text
}

// Key returns a string that is equal for two values exactly when Equal holds
func (v Value) Key() string {
	return v.kind.String() + ":" + v.text
}

func (v Value) String() string {
	if v.kind == KindEmpty {
		return "<empty>"
	}
	return v.text
}

var numericText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Normalizer applies comparison-time coercions on top of the per-kind
// canonical forms.
type Normalizer struct {
	// NumericTextAsNumber re-tags strings that look like decimal numbers
	// as numbers, so "5" and 5 compare equal.
	NumericTextAsNumber bool
}

// Normalize returns the value used for comparison
func (n Normalizer) Normalize(v Value) Value {
	if !n.NumericTextAsNumber || v.kind != KindString {
		return v
	}
	if !numericText.MatchString(v.text) {
		return v
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil || math.IsInf(f, 0) {
		return v
	}
	return Number(f)
}
