package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/config"
	"github.com/getmockd/mocktools/pkg/frontend"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		configPath string
		validate   bool
	)

	cmd := &cobra.Command{
		Use:   "run [target...]",
		Short: "Generate every target of a mocktools.yaml",
		Long: `Generate the targets of a project file. Without -c the working directory
is searched for .mocktools.yaml, .mocktools.yml, mocktools.yaml or
mocktools.yml. Naming targets runs only those.

MOCKTOOLS_SEED, MOCKTOOLS_LENGTH, MOCKTOOLS_LOG_LEVEL and MOCKTOOLS_LOG_FORMAT
override the project defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				found, err := config.Find("")
				if err != nil {
					return err
				}
				path = found
			}

			project, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := a.applyProjectLogging(cmd, project.Log.Level, project.Log.Format); err != nil {
				return err
			}

			targets, err := selectTargets(project.Targets, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			for _, target := range targets {
				expanded, err := target.Expand(project.Dir)
				if err != nil {
					return err
				}
				for _, t := range expanded {
					if err := ctx.Err(); err != nil {
						return err
					}
					kind, err := frontend.ParseKind(t.Kind)
					if err != nil {
						return err
					}
					err = a.generate(job{
						Name:      t.Name,
						Schema:    t.Schema,
						Kind:      kind,
						Type:      t.Type,
						Config:    t.Synth(project.Defaults),
						Format:    t.Format,
						Query:     t.Query,
						Overrides: t.Overrides,
						Validate:  validate,
						Output:    t.Output,
					})
					if err != nil {
						return fmt.Errorf("target %s: %w", t.Name, err)
					}
				}
			}
			a.logger.Info("run complete", "config", path, "targets", len(targets))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Project file (default: search the working directory)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Re-validate every value with the schema library")
	return cmd
}

func selectTargets(all []config.Target, names []string) ([]config.Target, error) {
	if len(names) == 0 {
		return all, nil
	}
	out := make([]config.Target, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(t config.Target) bool { return t.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		out = append(out, all[i])
	}
	return out, nil
}
