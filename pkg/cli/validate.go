package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/mocktools/pkg/frontend"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		kind     string
		typeName string
		single   bool
	)

	cmd := &cobra.Command{
		Use:   "validate <schema> <data>",
		Short: "Validate JSON data against a schema type",
		Long: `Validate values against a schema type with the schema's own library.

The data file holds a JSON array of values (as 'mocktools generate' writes),
a single JSON value, or NDJSON when it ends in .ndjson or .jsonl. Use
--single when the type itself is an array. A data path of - reads stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := frontend.ParseKind(kind)
			if err != nil {
				return err
			}
			src, err := loadSource(args[0], k, typeName)
			if err != nil {
				return err
			}
			values, err := a.readValues(args[1], single)
			if err != nil {
				return err
			}

			failed := 0
			for i, v := range values {
				if err := src.Validate(v); err != nil {
					failed++
					fmt.Fprintf(a.stderr, "value %d: %v\n", i, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d values failed validation against %s", failed, len(values), src.Name())
			}
			fmt.Fprintf(a.stdout, "%d values valid against %s\n", len(values), src.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Schema kind (default: from extension)")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "Type to validate against (default: the schema's default type)")
	cmd.Flags().BoolVar(&single, "single", false, "Treat the whole document as one value")
	return cmd
}

func (a *app) readValues(path string, single bool) ([]any, error) {
	var r io.Reader
	if path == "-" {
		r = a.stdin
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(data)
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	if ext := strings.ToLower(filepath.Ext(path)); ext == ".ndjson" || ext == ".jsonl" {
		var values []any
		for {
			var v any
			err := dec.Decode(&v)
			if errors.Is(err, io.EOF) {
				return values, nil
			}
			if err != nil {
				return nil, fmt.Errorf("decode %s: value %d: %w", path, len(values), err)
			}
			values = append(values, v)
		}
	}

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if arr, ok := doc.([]any); ok && !single {
		return arr, nil
	}
	return []any{doc}, nil
}
