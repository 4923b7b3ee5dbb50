// Package api contains the HTTP contract of the groobi change-highlighting
// service. Version v1 is the current API.
package api

// ProcessFileRequest asks the service to highlight the rows of a workbook's
// newest snapshot sheet that changed since the previous one
type ProcessFileRequest struct {
	FilePath string `json:"file_path" validate:"required,workbookpath"`
}
