package services

import (
	"groobi/internal/changes"
	api "groobi/pkg/contracts/api/v1"
)

// NewProcessFileResponse converts an engine result into the API response.
// List fields are never nil so they encode as [] rather than null.
func NewProcessFileResponse(result *changes.Result) api.ProcessFileResponse {
	resp := api.ProcessFileResponse{
		Status:            api.StatusSuccess,
		Message:           api.MessageProcessingComplete,
		ChangesFound:      result.ChangesFound(),
		ProcessedFile:     result.ProcessedFile,
		ChangedRows:       make([]int, 0, len(result.ChangedRows)),
		CurrentSheet:      result.CurrentSheet,
		PreviousSheet:     result.PreviousSheet,
		Columns:           make([]string, 0, len(result.Columns)),
		SuppressedColumns: make([]string, 0),
	}
	resp.ChangedRows = append(resp.ChangedRows, result.ChangedRows...)
	resp.Columns = append(resp.Columns, result.Columns...)
	resp.SuppressedColumns = append(resp.SuppressedColumns, result.SuppressedColumns()...)

	for _, n := range result.Noise {
		resp.Noise = append(resp.Noise, api.NoiseSummary{
			Column:  n.Column,
			Ratio:   n.Ratio,
			Changed: n.Changed,
			Aligned: n.Aligned,
			Dropped: n.Dropped,
		})
	}
	return resp
}
