package pbxproj

import (
	"regexp"
	"sort"
	"strings"
)

var unquotedPattern = regexp.MustCompile(`^[A-Za-z0-9_$/:.]+$`)

// Xcode writes these object kinds on a single line.
var inlineISAs = map[string]bool{
	"PBXBuildFile":     true,
	"PBXFileReference": true,
}

func needsQuote(text string) bool {
	return !unquotedPattern.MatchString(text)
}

// Bytes renders the project in Xcode's canonical layout: objects grouped
// into sections by isa, sections and ids in lexical order.
func (p *Project) Bytes() []byte {
	w := &writer{}
	w.b.WriteString(utf8Header + "\n")
	w.b.WriteString("{\n")
	for _, key := range p.Root.keys {
		v := p.Root.values[key]
		if objects, ok := v.(*Dict); ok && key == "objects" {
			w.objects(objects)
			continue
		}
		w.tabs(1)
		w.entry(p.Root, key, 1, false)
		w.b.WriteString("\n")
	}
	w.b.WriteString("}\n")
	return []byte(w.b.String())
}

type writer struct {
	b strings.Builder
}

func (w *writer) tabs(n int) {
	w.b.WriteString(strings.Repeat("\t", n))
}

func (w *writer) objects(objects *Dict) {
	sections := map[string][]string{}
	for _, id := range objects.keys {
		isa := ""
		if obj, ok := objects.values[id].(*Dict); ok {
			isa, _ = obj.Scalar("isa")
		}
		sections[isa] = append(sections[isa], id)
	}
	isas := make([]string, 0, len(sections))
	for isa := range sections {
		isas = append(isas, isa)
	}
	sort.Strings(isas)

	w.b.WriteString("\tobjects = {\n")
	for _, isa := range isas {
		ids := sections[isa]
		sort.Strings(ids)
		w.b.WriteString("\n/* Begin " + isa + " section */\n")
		for _, id := range ids {
			w.tabs(2)
			w.entry(objects, id, 2, false)
			w.b.WriteString("\n")
		}
		w.b.WriteString("/* End " + isa + " section */\n")
	}
	w.b.WriteString("\t};\n")
}

func (w *writer) entry(d *Dict, key string, indent int, inline bool) {
	w.b.WriteString(quote(key, needsQuote(key)))
	if comment := d.keyComments[key]; comment != "" {
		w.b.WriteString(" /* " + comment + " */")
	}
	w.b.WriteString(" = ")
	v := d.values[key]
	if !inline && indent == 2 && isInlineObject(v) {
		inline = true
	}
	w.value(v, indent, inline)
	w.b.WriteString(";")
}

func isInlineObject(v Value) bool {
	obj, ok := v.(*Dict)
	if !ok {
		return false
	}
	isa, _ := obj.Scalar("isa")
	return inlineISAs[isa]
}

func (w *writer) value(v Value, indent int, inline bool) {
	switch val := v.(type) {
	case String:
		w.b.WriteString(quote(val.Text, val.Quoted))
		if val.Comment != "" {
			w.b.WriteString(" /* " + val.Comment + " */")
		}
	case *Dict:
		if inline {
			w.b.WriteString("{")
			for _, key := range val.keys {
				w.entry(val, key, indent+1, true)
				w.b.WriteString(" ")
			}
			w.b.WriteString("}")
			return
		}
		w.b.WriteString("{\n")
		for _, key := range val.keys {
			w.tabs(indent + 1)
			w.entry(val, key, indent+1, false)
			w.b.WriteString("\n")
		}
		w.tabs(indent)
		w.b.WriteString("}")
	case *Array:
		if inline {
			w.b.WriteString("(")
			for _, item := range val.Items {
				w.value(item, indent+1, true)
				w.b.WriteString(", ")
			}
			w.b.WriteString(")")
			return
		}
		w.b.WriteString("(\n")
		for _, item := range val.Items {
			w.tabs(indent + 1)
			w.value(item, indent+1, false)
			w.b.WriteString(",\n")
		}
		w.tabs(indent)
		w.b.WriteString(")")
	}
}

func quote(text string, quoted bool) string {
	if !quoted {
		return text
	}
	return `"` + text + `"`
}
