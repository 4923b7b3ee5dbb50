package workbook

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueCanonicalForms(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		wantKind Kind
		wantText string
	}{
		{"empty", Empty(), KindEmpty, ""},
		{"trimmed string", String("  Widget \t"), KindString, "Widget"},
		{"whitespace string is empty", String("   "), KindEmpty, ""},
		{"nfc string", String("Café"), KindString, "Café"},
		{"integral float", Number(10.0), KindNumber, "10"},
		{"fraction", Number(12.34), KindNumber, "12.34"},
		{"negative zero", Number(math.Copysign(0, -1)), KindNumber, "0"},
		{"large number without exponent", Number(1e21), KindNumber, "1000000000000000000000"},
		{"nan is empty", Number(math.NaN()), KindEmpty, ""},
		{"date only", Date(time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC)), KindDate, "2024-12-23"},
		{"date time", Date(time.Date(2024, 12, 23, 8, 30, 5, 0, time.UTC)), KindDate, "2024-12-23T08:30:05"},
		{"true", Bool(true), KindBool, "TRUE"},
		{"false", Bool(false), KindBool, "FALSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, tt.value.Kind())
			assert.Equal(t, tt.wantText, tt.value.Text())
		})
	}
}

func TestValueEquality(t *testing.T) {
	assert.True(t, String("5").Equal(String(" 5 ")))
	assert.False(t, String("5").Equal(Number(5)))
	assert.NotEqual(t, String("5").Key(), Number(5).Key())
	assert.Equal(t, Number(10).Key(), Number(10.0).Key())
	assert.False(t, String("TRUE").Equal(Bool(true)))
	assert.True(t, Empty().IsEmpty())
}

func TestNormalizer(t *testing.T) {
	plain := Normalizer{}
	coerce := Normalizer{NumericTextAsNumber: true}

	assert.Equal(t, KindString, plain.Normalize(String("5")).Kind())

	tests := []struct {
		in   Value
		want Value
	}{
		{String("5"), Number(5)},
		{String("10.50"), Number(10.5)},
		{String("-3e2"), Number(-300)},
		{String(".5"), Number(0.5)},
		{String("5 units"), String("5 units")},
		{String("0x10"), String("0x10")},
		{String("Inf"), String("Inf")},
		{String("NaN"), String("NaN")},
		{Bool(true), Bool(true)},
		{Empty(), Empty()},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.True(t, tt.want.Equal(coerce.Normalize(tt.in)), "got %v", coerce.Normalize(tt.in))
		})
	}
}

func TestRowBlank(t *testing.T) {
	assert.True(t, Row{}.Blank())
	assert.True(t, Row{Cells: []Value{Empty(), String("  ")}}.Blank())
	assert.False(t, Row{Cells: []Value{Empty(), Number(0)}}.Blank())
	assert.True(t, Row{Cells: []Value{String("x")}}.Cell(5).IsEmpty())
}

func TestNewSheet(t *testing.T) {
	sheet := NewSheet("12.24", []string{" Item ", "", "Qty", "Item"}, 2, [][]Value{
		{String("A"), Empty(), Number(1)},
		{String("B"), Empty(), Number(2), Empty(), String("extra")},
	})

	assert.Equal(t, []string{"Item", "Qty"}, sheet.Columns())
	assert.Equal(t, []string{"Item"}, sheet.Duplicates)
	assert.Equal(t, 5, sheet.Width)
	assert.Equal(t, 3, sheet.Rows[0].Number)
	assert.Equal(t, 4, sheet.Rows[1].Number)

	idx, ok := sheet.ColumnIndex("Qty")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = sheet.ColumnIndex("Item")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = sheet.ColumnIndex("")
	assert.False(t, ok)
}
