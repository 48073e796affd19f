// Package cli provides the command-line interface for mocktools.
//
// Commands:
//   - generate: synthesize values for one schema type and encode them
//   - run: generate every target of a mocktools.yaml
//   - types: list the named types of a schema file
//   - inspect: print the shape a schema type translates to
//   - validate: check JSON data against a schema type
//   - init: create a starter mocktools.yaml (--interactive prompts for it)
//   - version: show build information
//
// Generated data goes to stdout or the --output file. Logs go to stderr,
// and to --log-file as JSON when given.
package cli
