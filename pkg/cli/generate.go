package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/frontend"
	"github.com/getmockd/mocktools/pkg/output"
	"github.com/getmockd/mocktools/pkg/override"
	"github.com/getmockd/mocktools/pkg/shape"
	"github.com/getmockd/mocktools/pkg/synth"
)

// job is one schema type to synthesize and write.
type job struct {
	Name      string
	Schema    string
	Kind      frontend.Kind
	Type      string
	Config    synth.Config
	Format    string
	Query     string
	Overrides map[string]string
	Validate  bool
	Output    string
}

type generateFlags struct {
	kind       string
	typeName   string
	length     int
	seed       uint64
	depth      int
	mapKeys    int
	maxTail    int
	absentRate float64
	format     string
	query      string
	sets       []string
	validate   bool
	output     string
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate <schema>",
		Short: "Generate mock values for a schema type",
		Long: `Generate mock values for one type of a schema file.

The schema kind is detected from the file extension (.json, .yaml, .yml,
.proto, .graphql, .graphqls, .gql) unless --kind is given. Without --type the
default type is used: the root of a JSON Schema, or the first type of the
other kinds.`,
		Example: `  # Ten users as JSON
  mocktools generate schema.json --type User

  # Reproducible YAML with sequential ids
  mocktools generate api.yaml --type Pet -n 3 --seed 42 --set 'id=index + 1' -f yaml

  # Only the email addresses
  mocktools generate schema.json --type User --query '$[*].email'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := frontend.ParseKind(f.kind)
			if err != nil {
				return err
			}
			overrides, err := override.ParseAssignments(f.sets)
			if err != nil {
				return err
			}

			cfg := synth.Config{
				Length:  f.length,
				Depth:   f.depth,
				MapKeys: f.mapKeys,
				MaxTail: f.maxTail,
			}
			if cmd.Flags().Changed("seed") {
				cfg = cfg.WithSeed(f.seed)
			}
			if cmd.Flags().Changed("absent-rate") {
				rate := f.absentRate
				cfg.AbsentRate = &rate
			}

			return a.generate(job{
				Schema:    args[0],
				Kind:      kind,
				Type:      f.typeName,
				Config:    cfg,
				Format:    f.format,
				Query:     f.query,
				Overrides: overrides,
				Validate:  f.validate,
				Output:    f.output,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.kind, "kind", "", "Schema kind: jsonschema, openapi, proto or graphql (default: from extension)")
	flags.StringVarP(&f.typeName, "type", "t", "", "Type to generate (see 'mocktools types')")
	flags.IntVarP(&f.length, "length", "n", 10, "Number of values")
	flags.Uint64Var(&f.seed, "seed", 0, "Seed for reproducible output")
	flags.IntVar(&f.depth, "depth", 0, fmt.Sprintf("Times one reference may nest on a path; 1 disables recursion (0: default %d)", synth.DefaultDepth))
	flags.IntVar(&f.mapKeys, "map-keys", 0, fmt.Sprintf("Maximum keys per map (default %d)", synth.DefaultMapKeys))
	flags.IntVar(&f.maxTail, "max-tail", 0, fmt.Sprintf("Maximum array tail length (default %d)", synth.DefaultMaxTail))
	flags.Float64Var(&f.absentRate, "absent-rate", synth.DefaultAbsentRate, "Probability that an optional field is absent")
	flags.StringVarP(&f.format, "format", "f", "", "Output format: json, ndjson, yaml or xml (default: from --output, else json)")
	flags.StringVarP(&f.query, "query", "q", "", "JSONPath applied to the generated values")
	flags.StringArrayVar(&f.sets, "set", nil, "Override a field with an expression, e.g. 'id=index + 1' (repeatable)")
	flags.BoolVar(&f.validate, "validate", false, "Re-validate every value with the schema library")
	flags.StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

// generate runs one job end to end.
func (a *app) generate(j job) error {
	rules, err := override.Compile(j.Overrides)
	if err != nil {
		return err
	}
	format, err := outputFormat(j.Format, j.Output)
	if err != nil {
		return err
	}

	src, err := loadSource(j.Schema, j.Kind, j.Type)
	if err != nil {
		return err
	}
	log := a.logger.With("schema", j.Schema, "type", src.Name())
	if j.Name != "" {
		log = log.With("target", j.Name)
	}

	s := synth.New(synth.WithLogger(log))
	values, err := s.Synthesize(shape.Infer(src.Name(), src), j.Config)
	if err != nil {
		return err
	}
	if err := rules.Apply(values); err != nil {
		return err
	}
	if j.Validate {
		for i, v := range values {
			if err := src.Validate(v); err != nil {
				return fmt.Errorf("%s value %d failed validation: %w", src.Name(), i, err)
			}
		}
		log.Debug("values validated", "count", len(values))
	}

	if j.Query != "" {
		if values, err = output.Query(values, j.Query); err != nil {
			return err
		}
	}

	if j.Output == "" {
		return output.Write(a.stdout, values, format)
	}

	var buf bytes.Buffer
	if err := output.Write(&buf, values, format); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.Output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(j.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info("wrote values", "count", len(values), "path", j.Output, "format", string(format))
	return nil
}

func outputFormat(name, path string) (output.Format, error) {
	if name == "" && path != "" {
		return output.FormatForPath(path), nil
	}
	return output.ParseFormat(name)
}

func loadSource(path string, kind frontend.Kind, typeName string) (frontend.Source, error) {
	schema, err := frontend.Load(path, kind)
	if err != nil {
		return nil, err
	}
	src, err := schema.Source(typeName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}
