package changes

import "groobi/internal/workbook"

// NoiseReport is the positional change ratio measured for one column
type NoiseReport struct {
	Column  string  `json:"column"`
	Ratio   float64 `json:"ratio"`
	Changed int     `json:"changed"`
	Aligned int     `json:"aligned"`
	Dropped bool    `json:"dropped"`
}

// FilterNoise removes columns whose values differ in more than threshold of
// the positionally aligned rows. Row i of previous is compared with row i of
// current up to the shorter sheet. With no aligned rows the ratio is 0.
func FilterNoise(cols ColumnSet, previous, current *workbook.Sheet, threshold float64, norm workbook.Normalizer) (ColumnSet, []NoiseReport) {
	aligned := len(previous.Rows)
	if len(current.Rows) < aligned {
		aligned = len(current.Rows)
	}

	kept := ColumnSet{Columns: make([]Column, 0, cols.Len())}
	reports := make([]NoiseReport, 0, cols.Len())

	for _, col := range cols.Columns {
		changed := 0
		for i := 0; i < aligned; i++ {
			pv := norm.Normalize(previous.Rows[i].Cell(col.Previous))
			cv := norm.Normalize(current.Rows[i].Cell(col.Current))
			if !pv.Equal(cv) {
				changed++
			}
		}

		report := NoiseReport{Column: col.Name, Changed: changed, Aligned: aligned}
		if aligned > 0 {
			report.Ratio = float64(changed) / float64(aligned)
		}
		report.Dropped = report.Ratio > threshold

		if !report.Dropped {
			kept.Columns = append(kept.Columns, col)
		}
		reports = append(reports, report)
	}

	return kept, reports
}
