package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"groobi/internal/changes"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	commit    string
	process   *ProcessService
	options   changes.Options
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

// NewHealthService creates a new health service. process may be nil, in
// which case readiness reports the engine as not ready.
func NewHealthService(build BuildInfo, process *ProcessService, options changes.Options, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("HealthService initialized",
		slog.String("version", build.Version),
		slog.String("build_time", build.BuildTime))

	return &HealthService{
		version:   build.Version,
		buildTime: build.BuildTime,
		commit:    build.Commit,
		process:   process,
		options:   options,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether the engine can take requests
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"engine": hs.checkEngineHealth(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "readiness check failed", slog.String("message", sh.Message))
			break
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	rt := map[string]interface{}{
		"uptime":     time.Since(hs.startTime).Seconds(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	}
	if hs.process != nil {
		rt["workbooks_in_flight"] = hs.process.InFlight()
	}

	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime:   rt,
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.commit != "" {
		result["commit"] = hs.commit
	}
	return result
}

func (hs *HealthService) checkEngineHealth() ServiceHealth {
	if hs.process == nil {
		return ServiceHealth{Status: "not_ready", Message: "process service not initialized"}
	}
	if err := hs.options.Validate(); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}
	return ServiceHealth{Status: "ready", Message: "change engine is configured"}
}
