package changes

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"groobi/internal/workbook"
)

// Highlight fills every cell from column A to the sheet's width on each
// changed row with a solid color. The rest of each cell's style is kept:
// the existing style is cloned with only its fill replaced, once per
// distinct style id.
func Highlight(wb *workbook.Workbook, sheet *workbook.Sheet, set ChangeSet, color string) error {
	if !set.Found() || sheet.Width == 0 {
		return nil
	}

	f := wb.File()
	filled := make(map[int]int)

	for _, changed := range set.Rows {
		for col := 1; col <= sheet.Width; col++ {
			cell, err := excelize.CoordinatesToCellName(col, changed.Row)
			if err != nil {
				return err
			}

			styleID, err := f.GetCellStyle(sheet.Name, cell)
			if err != nil {
				return fmt.Errorf("read style of %s!%s: %w", sheet.Name, cell, err)
			}

			newID, ok := filled[styleID]
			if !ok {
				newID, err = fillStyle(f, styleID, color)
				if err != nil {
					return fmt.Errorf("derive fill style from style %d: %w", styleID, err)
				}
				filled[styleID] = newID
			}

			if err := f.SetCellStyle(sheet.Name, cell, cell, newID); err != nil {
				return fmt.Errorf("style %s!%s: %w", sheet.Name, cell, err)
			}
		}
	}
	return nil
}

func fillStyle(f *excelize.File, styleID int, color string) (int, error) {
	style, err := f.GetStyle(styleID)
	if err != nil {
		return 0, err
	}
	style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	return f.NewStyle(style)
}
