package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/cli/internal/output"
	"github.com/getmockd/mocktools/pkg/frontend"
	"github.com/getmockd/mocktools/pkg/shape"
)

func newTypesCmd(a *app) *cobra.Command {
	var (
		kind       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "types <schema>",
		Short: "List the types a schema file defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := frontend.ParseKind(kind)
			if err != nil {
				return err
			}
			schema, err := frontend.Load(args[0], k)
			if err != nil {
				return err
			}
			names := schema.Names()

			if jsonOutput {
				return output.JSON(a.stdout, struct {
					Kind  frontend.Kind `json:"kind"`
					Types []string      `json:"types"`
				}{schema.Kind(), names})
			}
			if len(names) == 0 {
				fmt.Fprintf(a.stdout, "%s (%s) defines no named types\n", args[0], schema.Kind())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Schema kind (default: from extension)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	var kind, typeName string

	cmd := &cobra.Command{
		Use:   "inspect <schema>",
		Short: "Print the shape a schema type translates to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := frontend.ParseKind(kind)
			if err != nil {
				return err
			}
			src, err := loadSource(args[0], k, typeName)
			if err != nil {
				return err
			}
			d, err := src.Resolve()
			if err != nil {
				return err
			}
			if err := shape.Validate(d); err != nil {
				a.logger.Warn("shape failed validation", "type", src.Name(), "error", err)
			}

			w := output.Table(a.stdout)
			fmt.Fprintf(w, "type:\t%s\n", src.Name())
			fmt.Fprintf(w, "kind:\t%s\n", d.Kind())
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprint(a.stdout, shape.Sprint(d))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Schema kind (default: from extension)")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Type to inspect (default: the schema's default type)")
	return cmd
}
