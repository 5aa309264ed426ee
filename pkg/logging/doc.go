// Package logging provides structured logging configuration for the SCIM
// service.
//
// This package wraps log/slog to keep logging consistent across the
// endpoint pipelines and the resource handlers. It supports configurable
// log levels and output formats.
//
// # Usage
//
// Create a logger with desired configuration:
//
//	logger := logging.New(logging.Config{
//	    Level:  "debug",
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("endpoint registered", "path", "/Users")
//	logger.Warn("cannot resolve resource location", "resourceType", "User")
//
// # Integration
//
// Components accept a *slog.Logger in their constructor. If no logger is
// provided, use logging.Nop() for a no-op logger.
package logging
