// Package changes finds and highlights rows that changed between the two
// newest snapshot sheets of a workbook.
//
// A run is a fixed sequence of stateless stages:
//
//	SelectSnapshots -> AlignColumns -> FilterNoise -> BuildSignatures -> Classify -> Highlight
//
// followed by an atomic write through the Engine's Writer. Every stage
// works on the in-memory workbook; the file on disk changes only when the
// writer renames its temporary copy into place.
//
// Rows are identified by a digest of their values over the compared
// columns, so a new row and an edited row are reported the same way.
package changes
