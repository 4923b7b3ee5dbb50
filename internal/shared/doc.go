// Package shared holds helpers used across groobi packages. Its testutil
// subpackage provides log capture and workbook fixtures for tests.
package shared
