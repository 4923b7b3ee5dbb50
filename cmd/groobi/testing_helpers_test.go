package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	fcolor "github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"groobi/internal/shared/testutil"
)

// resetFlags restores the global flags and points --config at a quiet
// config file so tests do not pick up one from the working directory
func resetFlags(t *testing.T) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\n"), 0o644))

	cfgFile = cfgPath
	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	fcolor.NoColor = true
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}

// changedWorkbook writes a workbook whose newest snapshot changes row 4
// and adds row 5
func changedWorkbook(t *testing.T) string {
	t.Helper()
	return testutil.WriteWorkbook(t,
		testutil.SheetFixture{Name: "12.23", Title: "Inventory", Header: []string{"Item", "Qty"}, Rows: [][]interface{}{{"A", 1}, {"B", 2}}},
		testutil.SheetFixture{Name: "12.24", Title: "Inventory", Header: []string{"Item", "Qty"}, Rows: [][]interface{}{{"A", 1}, {"B", 5}, {"C", 3}}},
	)
}
