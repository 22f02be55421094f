package formutil

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node kinds.
const (
	KindField = "field"
	KindGroup = "group"
	KindArray = "array"
)

// Input widgets for leaf fields.
const (
	InputText     = "text"
	InputTextarea = "textarea"
	InputNumber   = "number"
	InputCheckbox = "checkbox"
	InputSelect   = "select"
)

// Option is one choice of a select input.
type Option struct {
	Value string
	Label string
}

// Choices maps a path pattern to select options. Patterns use "*" for array
// indexes: "sections.*.type", "category", "services.*".
type Choices map[string][]Option

// Node is one element of the editor tree.
type Node struct {
	Kind     string
	Name     string // full dot path, used as the input name
	Label    string
	Value    string
	Checked  bool
	Input    string
	Options  []Option
	Children []Node

	// Arrays only: a blank element whose index segment is Token, cloned by
	// the editor script when the admin adds an item.
	Template *Node
	Token    string
}

// skipped JSON names never appear in the editor.
var skipped = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// textareaFields get a multi-line input.
var textareaFields = map[string]bool{
	"content":      true,
	"body":         true,
	"message":      true,
	"description":  true,
	"descriptions": true,
	"subtitle":     true,
	"address":      true,
}

var (
	objectIDType = reflect.TypeOf(primitive.ObjectID{})
	timeType     = reflect.TypeOf(time.Time{})
)

// Flatten returns the editor tree for doc, a struct or pointer to struct.
func Flatten(doc any, choices Choices) []Node {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
			break
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	w := walker{choices: choices}
	return w.structFields(v, "", "", 0)
}

type walker struct {
	choices Choices
}

// structFields walks the fields of v. parent is the semantic name of the
// enclosing field, inherited by the en/ar halves of a bilingual pair.
func (w walker) structFields(v reflect.Value, prefix, parent string, depth int) []Node {
	var out []Node
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, ok := jsonName(f)
		if !ok {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && name == "" {
			out = append(out, w.structFields(indirect(fv), prefix, parent, depth)...)
			continue
		}
		if name == "" {
			name = f.Name
		}
		if skipped[name] {
			continue
		}
		semantic := name
		if name == "en" || name == "ar" {
			semantic = parent
		}
		out = append(out, w.node(fv, join(prefix, name), semantic, depth))
	}
	return out
}

func (w walker) node(v reflect.Value, path, field string, depth int) Node {
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		v = indirect(v)
		t = v.Type()
	}

	switch {
	case t == objectIDType:
		oid := v.Interface().(primitive.ObjectID)
		val := ""
		if !oid.IsZero() {
			val = oid.Hex()
		}
		return w.leaf(path, field, val, InputText)
	case t == timeType:
		tm := v.Interface().(time.Time)
		val := ""
		if !tm.IsZero() {
			val = tm.UTC().Format(time.RFC3339)
		}
		return w.leaf(path, field, val, InputText)
	}

	switch t.Kind() {
	case reflect.Struct:
		return Node{Kind: KindGroup, Name: path, Label: labelFor(path), Children: w.structFields(v, path, field, depth)}
	case reflect.Slice, reflect.Array:
		token := fmt.Sprintf("__i%d__", depth)
		n := Node{Kind: KindArray, Name: path, Label: labelFor(path), Token: token}
		for i := 0; i < v.Len(); i++ {
			n.Children = append(n.Children, w.node(v.Index(i), join(path, strconv.Itoa(i)), field, depth+1))
		}
		tmpl := w.node(reflect.New(t.Elem()).Elem(), join(path, token), field, depth+1)
		n.Template = &tmpl
		return n
	case reflect.Bool:
		n := w.leaf(path, field, "true", InputCheckbox)
		n.Checked = v.Bool()
		return n
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.leaf(path, field, strconv.FormatInt(v.Int(), 10), InputNumber)
	case reflect.Float32, reflect.Float64:
		return w.leaf(path, field, strconv.FormatFloat(v.Float(), 'f', -1, 64), InputNumber)
	default:
		input := InputText
		if textareaFields[field] {
			input = InputTextarea
		}
		return w.leaf(path, field, fmt.Sprint(v.Interface()), input)
	}
}

func (w walker) leaf(path, field, value, input string) Node {
	n := Node{Kind: KindField, Name: path, Label: labelFor(path), Value: value, Input: input}
	if opts, ok := w.choices[pattern(path)]; ok {
		n.Input = InputSelect
		n.Options = opts
	}
	return n
}

func indirect(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Ptr {
		return v
	}
	if v.IsNil() {
		return reflect.New(v.Type().Elem()).Elem()
	}
	return v.Elem()
}

// jsonName returns the JSON field name; ok is false for `json:"-"`.
func jsonName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	return name, true
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// pattern replaces index segments (numbers and template tokens) with "*".
func pattern(path string) string {
	segs := strings.Split(path, ".")
	for i, s := range segs {
		if isIndex(s) || isToken(s) {
			segs[i] = "*"
		}
	}
	return strings.Join(segs, ".")
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isToken(s string) bool {
	return strings.HasPrefix(s, "__i") && strings.HasSuffix(s, "__")
}

// labelFor builds a readable label from a path: "sections.0.content.ar"
// becomes "Sections 1 › Content › AR".
func labelFor(path string) string {
	segs := strings.Split(path, ".")
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		switch {
		case isIndex(s):
			n, _ := strconv.Atoi(s)
			if len(parts) > 0 {
				parts[len(parts)-1] += " " + strconv.Itoa(n+1)
			}
		case isToken(s):
			if len(parts) > 0 {
				parts[len(parts)-1] += " (new)"
			}
		case s == "en" || s == "ar":
			parts = append(parts, strings.ToUpper(s))
		default:
			words := strings.ReplaceAll(s, "_", " ")
			parts = append(parts, strings.ToUpper(words[:1])+words[1:])
		}
	}
	return strings.Join(parts, " › ")
}
