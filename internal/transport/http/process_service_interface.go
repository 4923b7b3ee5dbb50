package http

import (
	"context"

	"groobi/internal/changes"
)

// ProcessServiceInterface defines the workbook processing operation
type ProcessServiceInterface interface {
	ProcessFile(ctx context.Context, filePath string) (*changes.Result, error)
}
