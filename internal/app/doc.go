// Package app wires configuration, logging, telemetry, the change engine and
// the HTTP layer into a runnable service.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, GROOBI_* environment)
//	2. Initialize logging and OpenTelemetry
//	3. Build the change engine with the atomic file writer
//	4. Create the process and health services
//	5. Set up middleware and routes on a chi router
//	6. Listen and serve until SIGINT or SIGTERM
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Stop drains in-flight requests within the configured shutdown timeout, so
// a workbook being rewritten finishes its atomic replace, then flushes
// telemetry.
package app
