// Package logger provides a structured logging facility based on Zap.
//
// Probes log one entry per stage (stage, table, outcome, duration); the HTTP
// surface tags every entry with the request's ray id through WithRayID.
//
// # Configuration
//
//   - Level: debug, info, warn, error (debug switches to zap's development config)
//   - Format: console (colored, for terminals) or json
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Probe completed", zap.String("stage", "table_check"))
package logger
