// Package logger provides structured logging for collectkit using zerolog.
//
// Components such as the cache and the event bus take a *Logger at
// construction and otherwise log through the global logger, tagged with
// their component name.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("cache")
//	log.Warn("adapter call failed", logger.ErrorFields("get", err))
package logger
