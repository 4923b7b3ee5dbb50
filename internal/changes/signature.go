package changes

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"groobi/internal/workbook"
)

// Signature is the BLAKE2b-256 digest of a row over a ColumnSet
type Signature [blake2b.Size256]byte

func (s Signature) String() string {
	return hex.EncodeToString(s[:])
}

// RowSignature pairs a row's signature with where the row lives
type RowSignature struct {
	// Position is the index into Sheet.Rows
	Position int
	// Row is the 1-based worksheet row number
	Row       int
	Signature Signature
}

// SignRow digests the row's values at the set's columns. Each field is
// encoded as kind byte, uvarint length and canonical text, so no choice of
// cell text can make two different rows encode the same.
func SignRow(row workbook.Row, cols ColumnSet, side Side, norm workbook.Normalizer) Signature {
	h, _ := blake2b.New256(nil)

	buf := make([]byte, 0, 64)
	for _, col := range cols.Columns {
		v := norm.Normalize(row.Cell(col.Index(side)))
		buf = buf[:0]
		buf = append(buf, byte(v.Kind()))
		buf = binary.AppendUvarint(buf, uint64(len(v.Text())))
		buf = append(buf, v.Text()...)
		h.Write(buf)
	}

	var sig Signature
	h.Sum(sig[:0])
	return sig
}

// BuildSignatures signs every data row of sheet
func BuildSignatures(sheet *workbook.Sheet, cols ColumnSet, side Side, norm workbook.Normalizer) []RowSignature {
	sigs := make([]RowSignature, len(sheet.Rows))
	for i, row := range sheet.Rows {
		sigs[i] = RowSignature{
			Position:  i,
			Row:       row.Number,
			Signature: SignRow(row, cols, side, norm),
		}
	}
	return sigs
}
