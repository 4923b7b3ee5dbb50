// Package files provides crash-safe file replacement for processed
// workbooks.
//
// AtomicWriter encodes a file into a temporary sibling of the destination
// and renames it over the destination only after the encode, flush and
// fsync all succeeded. Until that rename the destination is untouched, and
// the temporary file is removed on every failure path.
//
// Temporary files are named with TempPrefix so leftovers from a crashed
// process can be found and removed with CleanupOrphans.
//
// Example usage:
//
//	w := files.NewAtomicWriter(logger)
//	err := w.WriteFile(ctx, "/data/inventory.xlsx", wb.Encode)
package files
