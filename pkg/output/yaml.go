package output

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mocktools/pkg/synth"
)

// writeYAML builds the node tree by hand so record field order survives.
func writeYAML(w io.Writer, values []any) error {
	root := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		n, err := yamlNode(v)
		if err != nil {
			return err
		}
		root.Content = append(root.Content, n)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return scalar("!!null", "null"), nil
	case synth.Optional:
		return yamlNode(val.Value())
	case *synth.Record:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		val.Range(func(name string, o synth.Optional) bool {
			inner, ok := o.Get()
			if !ok {
				return true
			}
			var n *yaml.Node
			if n, err = yamlNode(inner); err != nil {
				return false
			}
			m.Content = append(m.Content, scalar("!!str", name), n)
			return true
		})
		return m, err
	case map[string]any:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			n, err := yamlNode(val[k])
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, scalar("!!str", k), n)
		}
		return m, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range val {
			n, err := yamlNode(e)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case string:
		return scalar("!!str", val), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(val)), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(val, 10)), nil
	case float64:
		return scalar("!!float", strconv.FormatFloat(val, 'g', -1, 64)), nil
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return scalar("!!int", val.String()), nil
		}
		return scalar("!!float", val.String()), nil
	case time.Time:
		return scalar("!!timestamp", val.UTC().Format(time.RFC3339Nano)), nil
	}

	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return &n, nil
}
