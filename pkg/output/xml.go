package output

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/beevik/etree"

	"github.com/getmockd/mocktools/pkg/synth"
)

// writeXML renders values as <items><item>...</item></items>. Record fields
// become child elements, array elements repeated <value> elements and map
// entries <entry key="..."> elements. Nulls carry nil="true".
func writeXML(w io.Writer, values []any) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("items")
	for _, v := range values {
		fillXML(root.CreateElement("item"), v)
	}
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return nil
}

func fillXML(el *etree.Element, v any) {
	switch val := v.(type) {
	case nil:
		el.CreateAttr("nil", "true")
	case synth.Optional:
		fillXML(el, val.Value())
	case *synth.Record:
		val.Range(func(name string, o synth.Optional) bool {
			if inner, ok := o.Get(); ok {
				fillXML(fieldElement(el, name), inner)
			}
			return true
		})
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			entry := el.CreateElement("entry")
			entry.CreateAttr("key", k)
			fillXML(entry, val[k])
		}
	case []any:
		for _, e := range val {
			fillXML(el.CreateElement("value"), e)
		}
	case string:
		el.SetText(val)
	case bool:
		el.SetText(strconv.FormatBool(val))
	case int64:
		el.SetText(strconv.FormatInt(val, 10))
	case float64:
		el.SetText(strconv.FormatFloat(val, 'g', -1, 64))
	case time.Time:
		el.SetText(val.UTC().Format(time.RFC3339Nano))
	default:
		el.SetText(fmt.Sprint(val))
	}
}

// fieldElement names the element after the field when that is a valid XML
// name and falls back to <field name="...">.
func fieldElement(parent *etree.Element, name string) *etree.Element {
	if validXMLName(name) {
		return parent.CreateElement(name)
	}
	el := parent.CreateElement("field")
	el.CreateAttr("name", name)
	return el
}

func validXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return len(name) < 3 || !strings.EqualFold(name[:3], "xml")
}
