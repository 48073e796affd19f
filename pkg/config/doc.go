// Package config loads mocktools.yaml project files.
//
// A project holds generation defaults and a list of targets. Each target
// names one schema file, or a doublestar glob of them, plus the type, length,
// output format, destination and field overrides to use:
//
//	version: "1"
//	defaults: { length: 10, seed: 42 }
//	targets:
//	  - name: users
//	    schema: schemas/user.json
//	    type: User
//	    output: out/users.json
//	    overrides: { id: "index + 1" }
//
// MOCKTOOLS_SEED, MOCKTOOLS_LENGTH, MOCKTOOLS_LOG_LEVEL and
// MOCKTOOLS_LOG_FORMAT override the file.
package config
