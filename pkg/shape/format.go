package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// Sprint renders d as an indented tree, one node per line. Refs are expanded
// once; repeated visits print the ref name only.
func Sprint(d Descriptor) string {
	var b strings.Builder
	p := &printer{b: &b, refs: make(map[*Ref]bool)}
	p.node(d, 0)
	return b.String()
}

type printer struct {
	b    *strings.Builder
	refs map[*Ref]bool
}

func (p *printer) line(depth int, format string, args ...any) {
	p.b.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(p.b, format, args...)
	p.b.WriteByte('\n')
}

func (p *printer) node(d Descriptor, depth int) {
	switch s := d.(type) {
	case nil:
		p.line(depth, "<nil>")
	case *Primitive:
		p.line(depth, "%s", primitiveLabel(s))
	case *Tuple:
		p.line(depth, "tuple(%d)", len(s.Elements))
		for _, e := range s.Elements {
			p.node(e, depth+1)
		}
	case *VariadicArray:
		tail := "*"
		if s.MaxTail != nil {
			tail = strconv.Itoa(*s.MaxTail)
		}
		p.line(depth, "variadic(prefix=%d, tail=%d..%s)", len(s.Prefix), s.MinTail, tail)
		for _, e := range s.Prefix {
			p.node(e, depth+1)
		}
		p.b.WriteString(strings.Repeat("  ", depth+1))
		p.b.WriteString("...\n")
		p.node(s.Tail, depth+2)
	case *Object:
		p.line(depth, "object")
		for _, f := range s.Fields {
			marker := ""
			if f.Optional {
				marker = "?"
			}
			p.line(depth+1, "%s%s:", f.Name, marker)
			p.node(f.Shape, depth+2)
		}
	case *Mapped:
		key := "string"
		if s.KeyFormat != "" {
			key += "(" + s.KeyFormat + ")"
		}
		p.line(depth, "map[%s]", key)
		p.node(s.Value, depth+1)
	case *Inferred:
		p.line(depth, "inferred %s", s.Name)
	case *Enum:
		vals := make([]string, len(s.Values))
		for i, v := range s.Values {
			vals[i] = fmt.Sprintf("%v", v)
		}
		p.line(depth, "enum(%s)", strings.Join(vals, "|"))
	case *Union:
		p.line(depth, "union")
		for _, v := range s.Variants {
			p.node(v, depth+1)
		}
	case *Ref:
		if p.refs[s] || s.Target == nil {
			p.line(depth, "ref %s", s.Name)
			return
		}
		p.refs[s] = true
		p.line(depth, "ref %s =", s.Name)
		p.node(s.Target, depth+1)
	default:
		p.line(depth, "%s <%T>", d.Kind(), d)
	}
}

func primitiveLabel(p *Primitive) string {
	label := p.Type.String()
	var attrs []string
	if p.Format != "" {
		attrs = append(attrs, p.Format)
	}
	if p.MinLength != nil || p.MaxLength != nil {
		attrs = append(attrs, "len="+intBound(p.MinLength)+".."+intBound(p.MaxLength))
	}
	if p.Minimum != nil || p.Maximum != nil {
		attrs = append(attrs, floatBound(p.Minimum)+".."+floatBound(p.Maximum))
	}
	if len(attrs) > 0 {
		label += "(" + strings.Join(attrs, ", ") + ")"
	}
	return label
}

func intBound(v *int) string {
	if v == nil {
		return "*"
	}
	return strconv.Itoa(*v)
}

func floatBound(v *float64) string {
	if v == nil {
		return "*"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
