// Package config loads the service and engine configuration.
//
// # Configuration Sources
//
// Values are resolved in order of increasing precedence:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: $GROOBI_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. Environment variables prefixed with GROOBI_
//
// # Environment Variables
//
// Nested sections map to underscored names:
//
//	GROOBI_SERVER_PORT=8000
//	GROOBI_LOGGING_LEVEL=debug
//	GROOBI_ENGINE_IGNORED_COLUMNS="LOT #,Updated By"
//	GROOBI_ENGINE_NOISE_THRESHOLD=0.5
//	GROOBI_ENGINE_HEADER_ROW=2
//	GROOBI_ENGINE_DATE_ORDER=MD
//
// # Engine Section
//
// The engine section is operator configuration, never request input. It is
// converted once into an immutable changes.Options value:
//
//	cfg, err := config.Load()
//	engine, err := changes.NewEngine(cfg.Engine.Options(), writer, logger)
//
// Every section is checked with validator struct tags before Load returns.
package config
