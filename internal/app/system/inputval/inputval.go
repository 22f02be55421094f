// Package inputval validates request inputs that are not entity documents:
// the login form, API registration and token requests. Entity documents go
// through docval instead.
//
//	creds := inputval.Credentials{Email: email, Password: password}
//	if res := inputval.Validate(creds); res.HasErrors() {
//	    render(w, r, res.First())
//	}
package inputval

import (
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Credentials is an email and password pair as typed by a person.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Password string `json:"password" validate:"required,max=128" label:"Password"`
}

// Result holds validation failures in struct field order.
type Result struct {
	Errors []FieldError
}

// FieldError is one failed rule. Field is the json name when the struct
// field has one, otherwise the Go field name.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Field returns the message for one field, or "".
func (r *Result) Field(name string) string {
	for _, e := range r.Errors {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

var (
	v     *validate.Validator
	vOnce sync.Once
)

func validator() *validate.Validator {
	vOnce.Do(func() {
		v = validate.New(validate.WithStopOnFirstError())
		v.RegisterRuleFunc("locale", func(value any) bool {
			s, ok := value.(string)
			return ok && locale.IsSupported(s)
		}, "locale")
		v.RegisterRuleFunc("objectid", func(value any) bool {
			s, ok := value.(string)
			if !ok {
				return false
			}
			_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
			return err == nil
		}, "objectid")
	})
	return v
}

// Validate checks s against its `validate` tags. Messages name the field by
// its `label` tag, falling back to the Go field name.
//
// Besides the pantry/validate rules (required, email, oneof, min, max) the
// locale and objectid rules are available.
func Validate(s any) *Result {
	result := &Result{}
	err := validator().Struct(s)
	if err == nil {
		return result
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		result.Errors = append(result.Errors, FieldError{Message: "Input is invalid."})
		return result
	}

	fields := fieldInfo(s)
	for _, e := range errs {
		f, known := fields[e.Field]
		if !known {
			f = field{name: e.Field}
		}
		if f.label == "" {
			f.label = e.Field
		}
		result.Errors = append(result.Errors, FieldError{
			Field:   f.name,
			Label:   f.label,
			Message: message(f.label, e.Rule, e.Param),
		})
	}
	return result
}

type field struct {
	name  string // json name, or the Go name without one
	label string
}

// fieldInfo indexes every struct field by both its Go and json names.
func fieldInfo(s any) map[string]field {
	out := map[string]field{}
	val := reflect.Indirect(reflect.ValueOf(s))
	if val.Kind() != reflect.Struct {
		return out
	}
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		f := field{name: sf.Name, label: sf.Tag.Get("label")}
		if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" && name != "-" {
			f.name = name
		}
		out[sf.Name] = f
		out[f.name] = f
	}
	return out
}

func message(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "locale":
		return label + " must be one of: " + strings.Join(locale.Supported, ", ") + "."
	case "objectid":
		return label + " is not a valid ID."
	default:
		return label + " is invalid."
	}
}
