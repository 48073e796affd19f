package config

import (
	"fmt"
	"strconv"
)

// Environment variables that override the project file.
const (
	EnvSeed      = "MOCKTOOLS_SEED"
	EnvLength    = "MOCKTOOLS_LENGTH"
	EnvLogLevel  = "MOCKTOOLS_LOG_LEVEL"
	EnvLogFormat = "MOCKTOOLS_LOG_FORMAT"
)

func (p *Project) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return &Error{Message: fmt.Sprintf("%s: %q is not a seed", EnvSeed, v), Err: err}
		}
		p.Defaults.Seed = &seed
	}
	if v, ok := lookup(EnvLength); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Message: fmt.Sprintf("%s: %q is not a length", EnvLength, v), Err: err}
		}
		p.Defaults.Length = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		p.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		p.Log.Format = v
	}
	return nil
}
