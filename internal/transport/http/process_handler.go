package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "groobi/internal/errors"
	"groobi/internal/middleware"
	"groobi/internal/services"
	api "groobi/pkg/contracts/api/v1"
)

// ProcessHandler handles workbook processing requests
type ProcessHandler struct {
	service      ProcessServiceInterface
	validator    *middleware.ValidationMiddleware
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(service ProcessServiceInterface, validator *middleware.ValidationMiddleware, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ProcessHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "process")),
	}
}

// ProcessFile handles POST /process-file and POST /api/process
func (h *ProcessHandler) ProcessFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ProcessFileRequest
	if err := h.validator.DecodeAndValidate(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("file.path", req.FilePath))
	h.logger.InfoContext(ctx, "process requested", slog.String("file_path", req.FilePath))

	result, err := h.service.ProcessFile(ctx, req.FilePath)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, services.NewProcessFileResponse(result))
}
