package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/config"
	"github.com/getmockd/mocktools/pkg/frontend"
	"github.com/getmockd/mocktools/pkg/output"
	"github.com/getmockd/mocktools/pkg/synth"
)

const starterSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "User": {
      "type": "object",
      "required": ["id", "email", "name"],
      "properties": {
        "id": { "type": "string", "format": "uuid" },
        "email": { "type": "string", "format": "email" },
        "name": { "type": "string", "minLength": 1 },
        "age": { "type": "integer", "minimum": 18, "maximum": 99 },
        "createdAt": { "type": "string", "format": "date-time" }
      }
    }
  }
}
`

const defaultInitLength = 10

type initFlags struct {
	path        string
	schema      string
	typeName    string
	name        string
	length      int
	format      string
	output      string
	force       bool
	interactive bool
}

func newInitCmd(a *app) *cobra.Command {
	var f initFlags

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter mocktools.yaml",
		Long: `Create a mocktools.yaml with one target.

Without --schema a starter JSON Schema (schema.json) is written next to the
project file so 'mocktools run' works right away.`,
		Example: `  mocktools init
  mocktools init --schema api.yaml --type Pet --output out/pets.yaml
  mocktools init --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !f.force {
				if _, err := os.Stat(f.path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", f.path)
				}
			}
			if f.interactive {
				if err := promptInit(&f); err != nil {
					return err
				}
			}
			return a.writeProject(f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.path, "file", "c", "mocktools.yaml", "Project file to create")
	flags.StringVar(&f.schema, "schema", "", "Schema file for the first target (default: a starter schema.json)")
	flags.StringVarP(&f.typeName, "type", "t", "", "Type to generate")
	flags.StringVar(&f.name, "name", "", "Target name (default: the type or schema name)")
	flags.IntVarP(&f.length, "length", "n", defaultInitLength, "Number of values")
	flags.StringVarP(&f.format, "format", "f", "", "Output format: json, ndjson, yaml or xml")
	flags.StringVarP(&f.output, "output", "o", "", "Output file for the target (default: stdout)")
	flags.BoolVar(&f.force, "force", false, "Overwrite an existing project file")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "Prompt for the target settings")
	return cmd
}

func (a *app) writeProject(f initFlags) error {
	dir := filepath.Dir(f.path)
	if f.schema == "" {
		f.schema = "schema.json"
		if f.typeName == "" {
			f.typeName = "User"
		}
		if f.output == "" {
			f.output = "out/users.json"
		}
		starter := filepath.Join(dir, f.schema)
		if _, err := os.Stat(starter); errors.Is(err, os.ErrNotExist) {
			if err := os.WriteFile(starter, []byte(starterSchema), 0o644); err != nil {
				return fmt.Errorf("write starter schema: %w", err)
			}
			fmt.Fprintf(a.stdout, "Created %s\n", starter)
		}
	}
	if _, err := output.ParseFormat(f.format); err != nil {
		return err
	}

	length := f.length
	project := &config.Project{
		Version:  config.Version,
		Defaults: synth.Config{Length: defaultInitLength},
		Targets: []config.Target{{
			Name:   f.name,
			Schema: f.schema,
			Type:   f.typeName,
			Length: &length,
			Format: f.format,
			Output: f.output,
		}},
	}
	data, err := config.Marshal(project)
	if err != nil {
		return err
	}
	if _, err := config.Parse(data); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	fmt.Fprintf(a.stdout, "Created %s\n", f.path)
	a.logger.Info("project initialized", "path", f.path, "schema", f.schema)
	return nil
}

// promptInit fills f from a terminal form.
func promptInit(f *initFlags) error {
	lengthStr := strconv.Itoa(f.length)
	if f.format == "" {
		f.format = string(output.FormatJSON)
	}

	formatOptions := make([]huh.Option[string], 0, len(output.Formats()))
	for _, format := range output.Formats() {
		formatOptions = append(formatOptions, huh.NewOption(strings.ToUpper(string(format)), string(format)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Which schema file should values come from?").
				Description("Leave empty for a starter JSON Schema.").
				Placeholder("schemas/user.json").
				Value(&f.schema).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := frontend.Detect(s); err != nil {
						return err
					}
					if _, err := os.Stat(s); err != nil {
						return errors.New("file not found")
					}
					return nil
				}),
			huh.NewInput().
				Title("How many values per run?").
				Value(&lengthStr).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 {
						return errors.New("enter a non-negative number")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Output format").
				Options(formatOptions...).
				Value(&f.format),
			huh.NewInput().
				Title("Output file").
				Description("Leave empty to print to stdout.").
				Value(&f.output),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	f.length, _ = strconv.Atoi(lengthStr)

	if f.schema == "" {
		return nil
	}
	schema, err := frontend.Load(f.schema, "")
	if err != nil {
		return err
	}
	names := schema.Names()
	if len(names) == 0 {
		return nil
	}
	return huh.NewSelect[string]().
		Title("Which type should be generated?").
		Options(huh.NewOptions(names...)...).
		Value(&f.typeName).
		Run()
}
