// Package logging configures the structured loggers used by mocktools.
//
// It wraps log/slog. Library packages such as synth accept a *slog.Logger and
// default to Nop; the CLI builds the real logger from flags and the config
// file.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Debug("synthesized values", "count", 10)
//
// When a log file is configured the CLI fans records out to stderr and the
// file with NewTee.
package logging
