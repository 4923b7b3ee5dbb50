package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groobi/internal/changes"
	apierrors "groobi/internal/errors"
	"groobi/internal/files"
	"groobi/internal/middleware"
	"groobi/internal/services"
	"groobi/internal/shared/testutil"
)

type mockProcessService struct {
	mock.Mock
}

func (m *mockProcessService) ProcessFile(ctx context.Context, filePath string) (*changes.Result, error) {
	args := m.Called(ctx, filePath)
	if result := args.Get(0); result != nil {
		return result.(*changes.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func newProcessRouter(t *testing.T, service ProcessServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	h := NewProcessHandler(service, middleware.NewValidationMiddleware(logger, errorHandler), errorHandler, logger)

	r := chi.NewRouter()
	r.Post("/process-file", h.ProcessFile)
	return r
}

func postProcess(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process-file", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func TestProcessHandler_Success(t *testing.T) {
	service := new(mockProcessService)
	service.On("ProcessFile", mock.Anything, "/data/inventory.xlsx").Return(&changes.Result{
		ProcessedFile: "/data/inventory.xlsx",
		PreviousSheet: "12.23",
		CurrentSheet:  "12.24",
		Columns:       []string{"ID", "Status"},
		Noise: []changes.NoiseReport{
			{Column: "ID", Aligned: 4},
			{Column: "Notes", Ratio: 0.7, Changed: 7, Aligned: 10, Dropped: true},
		},
		ChangedRows: []int{5},
		Written:     true,
	}, nil)

	rec, body := postProcess(t, newProcessRouter(t, service), `{"file_path":"/data/inventory.xlsx"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Processing complete", body["message"])
	assert.Equal(t, true, body["changes_found"])
	assert.Equal(t, "/data/inventory.xlsx", body["processed_file"])
	assert.Equal(t, []interface{}{float64(5)}, body["changed_rows"])
	assert.Equal(t, "12.24", body["current_sheet"])
	assert.Equal(t, "12.23", body["previous_sheet"])
	assert.Equal(t, []interface{}{"Notes"}, body["suppressed_columns"])
	service.AssertExpectations(t)
}

func TestProcessHandler_NoChangesRendersEmptyLists(t *testing.T) {
	service := new(mockProcessService)
	service.On("ProcessFile", mock.Anything, mock.Anything).Return(&changes.Result{ProcessedFile: "/data/a.xlsx"}, nil)

	_, body := postProcess(t, newProcessRouter(t, service), `{"file_path":"/data/a.xlsx"}`)

	assert.Equal(t, false, body["changes_found"])
	assert.Equal(t, []interface{}{}, body["changed_rows"])
	assert.Equal(t, []interface{}{}, body["suppressed_columns"])
}

func TestProcessHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing file",
			body:       `{"file_path":"/data/gone.xlsx"}`,
			serviceErr: apierrors.NewFileNotReadableError("open workbook", fs.ErrNotExist),
			wantStatus: http.StatusNotFound,
			wantCode:   "FILE_NOT_READABLE",
		},
		{
			name:       "insufficient snapshots",
			body:       `{"file_path":"/data/one.xlsx"}`,
			serviceErr: apierrors.NewInsufficientSnapshotsError("need at least 2 snapshot sheets, found 1"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_SNAPSHOTS",
		},
		{
			name:       "no comparable columns",
			body:       `{"file_path":"/data/x.xlsx"}`,
			serviceErr: apierrors.NewNoComparableColumnsError("no shared columns"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "NO_COMPARABLE_COLUMNS",
		},
		{
			name:       "write failure",
			body:       `{"file_path":"/data/ro.xlsx"}`,
			serviceErr: fmt.Errorf("process: %w", apierrors.NewWriteFailureError("rename", fs.ErrPermission)),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "WRITE_FAILURE",
		},
		{
			name:       "empty file path",
			body:       `{"file_path":""}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "missing body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "not a workbook",
			body:       `{"file_path":"/data/notes.txt"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockProcessService)
			if tt.serviceErr != nil {
				service.On("ProcessFile", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			rec, body := postProcess(t, newProcessRouter(t, service), tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, body["error_code"])
			assert.Contains(t, rec.Header().Get("Content-Type"), "json")
			if tt.serviceErr == nil {
				service.AssertNotCalled(t, "ProcessFile", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProcessHandler_EndToEnd(t *testing.T) {
	header := []string{"ID", "Status", "LOT #"}
	path := testutil.WriteWorkbook(t,
		testutil.SheetFixture{Name: "12.23", Title: "Inventory", Header: header, Rows: [][]interface{}{
			{1, "Open", "L-100"},
			{2, "Open", "L-200"},
			{3, "Open", "L-300"},
		}},
		testutil.SheetFixture{Name: "12.24", Title: "Inventory", Header: header, Rows: [][]interface{}{
			{1, "Open", "L-101"},
			{2, "Shipped", "L-201"},
			{3, "Open", "L-301"},
		}},
	)

	logger, _ := testutil.NewTestLogger(t)
	engine, err := changes.NewEngine(changes.DefaultOptions(), files.NewAtomicWriter(logger), logger)
	require.NoError(t, err)
	service := services.NewProcessService(engine, nil, true, logger)

	body, err := json.Marshal(map[string]string{"file_path": path})
	require.NoError(t, err)
	rec, decoded := postProcess(t, newProcessRouter(t, service), string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decoded["changes_found"])
	assert.Equal(t, []interface{}{float64(4)}, decoded["changed_rows"])
	assert.Equal(t, []int{4}, testutil.FilledRows(t, path, "12.24", changes.DefaultHighlightColor))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), files.TempPrefix+"*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
