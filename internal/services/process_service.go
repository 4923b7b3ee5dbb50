package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"groobi/internal/changes"
	apperrors "groobi/internal/errors"
	"groobi/internal/files"
	"groobi/internal/infrastructure"
)

// Processor runs the change engine on one workbook
type Processor interface {
	Process(ctx context.Context, path string) (*changes.Result, error)
}

// ProcessService serializes engine runs per workbook path and records
// their outcome
type ProcessService struct {
	engine         Processor
	metrics        *infrastructure.BusinessMetrics
	cleanupOrphans bool
	logger         *slog.Logger
	tracer         trace.Tracer

	mu    sync.Mutex
	locks map[string]*pathLock
}

// pathLock is a binary semaphore shared by every request for one path.
// refs counts holders and waiters so idle entries can be dropped.
type pathLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewProcessService creates a process service. metrics may be nil.
func NewProcessService(engine Processor, metrics *infrastructure.BusinessMetrics, cleanupOrphans bool, logger *slog.Logger) *ProcessService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessService{
		engine:         engine,
		metrics:        metrics,
		cleanupOrphans: cleanupOrphans,
		logger:         logger.With(slog.String("component", "process_service")),
		tracer:         otel.Tracer("groobi/services"),
		locks:          make(map[string]*pathLock),
	}
}

// ProcessFile waits for exclusive use of filePath, then runs the engine on
// it. Giving up while waiting returns the context error; once the engine has
// started it runs to completion even if ctx is cancelled, so the file is
// never left half written. Paths are locked by their absolute form, but the
// result reports filePath as given.
func (s *ProcessService) ProcessFile(ctx context.Context, filePath string) (*changes.Result, error) {
	path, err := filepath.Abs(filePath)
	if err != nil {
		return nil, apperrors.NewFileNotReadableError("resolve workbook path", err).
			WithContext("file_path", filePath)
	}

	ctx, span := s.tracer.Start(ctx, "services.ProcessFile",
		trace.WithAttributes(attribute.String("file.path", path)))
	defer span.End()

	lock := s.acquire(path)
	defer s.release(path)

	waitStart := time.Now()
	if err := lock.sem.Acquire(ctx, 1); err != nil {
		s.logger.WarnContext(ctx, "gave up waiting for workbook",
			slog.String("file_path", path),
			slog.Duration("waited", time.Since(waitStart)))
		span.SetStatus(codes.Error, "lock wait cancelled")
		return nil, err
	}
	defer lock.sem.Release(1)

	waited := time.Since(waitStart)
	if s.metrics != nil {
		s.metrics.LockWaitDuration.Record(ctx, waited.Seconds())
		s.metrics.ActiveProcesses.Add(ctx, 1)
		defer s.metrics.ActiveProcesses.Add(ctx, -1)
	}
	span.AddEvent("workbook.locked", trace.WithAttributes(attribute.Float64("wait_seconds", waited.Seconds())))

	if s.cleanupOrphans {
		if _, err := files.CleanupOrphansFor(path, s.logger); err != nil {
			s.logger.WarnContext(ctx, "orphan cleanup failed",
				slog.String("file_path", path),
				slog.String("error", err.Error()))
		}
	}

	start := time.Now()
	result, err := s.engine.Process(context.WithoutCancel(ctx), path)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.RecordProcessMetrics(ctx, s.metrics, duration, 0, 0, errorType(err))
		return nil, err
	}

	infrastructure.RecordProcessMetrics(ctx, s.metrics, duration,
		len(result.ChangedRows), len(result.SuppressedColumns()), "")

	result.ProcessedFile = filePath
	return result, nil
}

// InFlight returns the number of paths with a running or waiting request
func (s *ProcessService) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func (s *ProcessService) acquire(path string) *pathLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = &pathLock{sem: semaphore.NewWeighted(1)}
		s.locks[path] = lock
	}
	lock.refs++
	return lock
}

func (s *ProcessService) release(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, path)
	}
}

func errorType(err error) string {
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "INTERNAL"
}
