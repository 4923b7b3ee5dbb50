// Package services implements the application layer between the HTTP
// handlers and the change engine.
//
// # Available Services
//
//	- ProcessService: runs the change engine on a workbook, one request per
//	  path at a time, and records process metrics and spans
//	- HealthService: liveness, readiness and version reporting
//
// # Concurrency
//
// ProcessService keeps a reference-counted binary semaphore per absolute
// workbook path. A request waits on it with its own context, so a caller
// that gives up stops waiting. Once acquired, the engine runs with
// context.WithoutCancel: the rewrite of a workbook is never abandoned
// halfway.
//
// # Error Handling
//
// Engine failures are returned unchanged as *errors.AppError values so the
// transport layer can map each kind to a status code. A cancelled wait
// returns the context error.
package services
