// Package http implements the HTTP handlers of the groobi service. Handlers
// only parse requests, call a service and render the result; every failure
// goes through errors.ErrorHandler so clients always get RFC 7807 problem
// documents.
//
// # Endpoints
//
//	GET  /health             liveness, {"status":"alive"}
//	POST /process-file       {"file_path": "..."} -> ProcessFileResponse
//	POST /api/process        same as /process-file
//	GET  /api/health         overall status
//	GET  /api/health/live    liveness with runtime details
//	GET  /api/health/ready   readiness, 503 when the engine is unusable
//	GET  /api/version        build information
//
// # Errors
//
// Engine failures map onto status codes by kind: a missing file is 404,
// unreadable workbooks and snapshot or column problems are 422, and a
// failed write is 500. Malformed requests are 400.
package http
