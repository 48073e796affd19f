package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader

	logLevel  string
	logFormat string
	logFile   string

	logger  *slog.Logger
	closers []io.Closer
}

// NewRootCmd builds the mocktools command tree writing to stdout and stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, stdin: os.Stdin, logger: logging.Nop()}

	root := &cobra.Command{
		Use:   "mocktools",
		Short: "mocktools synthesizes mock data from schemas",
		Long: `mocktools generates values that conform to a schema: JSON Schema, OpenAPI
components, protobuf messages or GraphQL types.

Values are written as JSON, NDJSON, YAML or XML. A mocktools.yaml project
file describes repeatable generation targets for 'mocktools run'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogging(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (default warn)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default text)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")

	root.AddCommand(
		newGenerateCmd(a),
		newRunCmd(a),
		newTypesCmd(a),
		newInspectCmd(a),
		newValidateCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging builds the logger from flags, falling back to the
// MOCKTOOLS_LOG_* environment.
func (a *app) setupLogging(cmd *cobra.Command) error {
	cfg := logging.DefaultConfig()
	cfg.Output = a.stderr

	level := firstNonEmpty(a.logLevel, os.Getenv("MOCKTOOLS_LOG_LEVEL"))
	if level != "" {
		l, ok := logging.LookupLevel(level)
		if !ok {
			return fmt.Errorf("unknown log level %q", level)
		}
		cfg.Level = l
	}
	format := firstNonEmpty(a.logFormat, os.Getenv("MOCKTOOLS_LOG_FORMAT"))
	if format != "" {
		f, ok := logging.LookupFormat(format)
		if !ok {
			return fmt.Errorf("unknown log format %q", format)
		}
		cfg.Format = f
	}

	handler := logging.Handler(cfg)
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		fileCfg := cfg
		fileCfg.Output = f
		fileCfg.Format = logging.FormatJSON
		handler = logging.NewTee(handler, logging.Handler(fileCfg))
	}

	a.logger = slog.New(handler).With("command", cmd.Name())
	return nil
}

// applyProjectLogging lets a project file pick the log settings the flags
// left unset.
func (a *app) applyProjectLogging(cmd *cobra.Command, level, format string) error {
	changed := false
	if a.logLevel == "" && level != "" {
		a.logLevel, changed = level, true
	}
	if a.logFormat == "" && format != "" {
		a.logFormat, changed = format, true
	}
	if !changed {
		return nil
	}
	a.close()
	return a.setupLogging(cmd)
}

func (a *app) close() {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(a.stderr, "Warning: %v\n", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
