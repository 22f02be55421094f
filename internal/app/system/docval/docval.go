// Package docval validates entity documents before they are written.
//
// Rules live in `validate` struct tags on the models (go-playground/validator)
// plus a few registered rules:
//   - media: an http(s) URL or a site-relative path to uploaded media
//   - blog section shape: a text section needs bilingual content and no
//     image; an image section needs an image and no content
//
// Field paths in messages use JSON names, e.g. "title.ar is required".
package docval

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError describes the first rule a document broke.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError for field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	v    *validator.Validate
	once sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("media", func(fl validator.FieldLevel) bool {
			return IsMediaURL(fl.Field().String())
		})
		v.RegisterStructValidation(blogSectionShape, models.BlogSection{})
	})
	return v
}

// Validate checks doc against its struct tags and returns the first failure
// as a *ValidationError, or nil.
func Validate(doc any) error {
	err := get().Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	path := fieldPath(fe.Namespace())
	return &ValidationError{Field: path, Message: message(fe, path)}
}

// fieldPath drops the root struct name and any embedded Meta segment.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "Meta" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func message(fe validator.FieldError, path string) string {
	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "email":
		return path + " must be a valid email address"
	case "url":
		return path + " must be a valid URL"
	case "media":
		return path + " must be an image URL"
	case "oneof":
		return path + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", path, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at most %s item(s)", path, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", path, fe.Param())
	case "excluded":
		return path + " is not allowed for this section type"
	default:
		return path + " is invalid"
	}
}

// blogSectionShape enforces exactly one of the two section shapes.
func blogSectionShape(sl validator.StructLevel) {
	s := sl.Current().Interface().(models.BlogSection)
	switch s.Type {
	case models.SectionText:
		if s.Content == nil {
			sl.ReportError(s.Content, "content", "Content", "required", "")
		}
		if s.Image != "" {
			sl.ReportError(s.Image, "image", "Image", "excluded", "")
		}
	case models.SectionImage:
		if strings.TrimSpace(s.Image) == "" {
			sl.ReportError(s.Image, "image", "Image", "required", "")
		} else if !IsMediaURL(s.Image) {
			sl.ReportError(s.Image, "image", "Image", "media", "")
		}
		if s.Content != nil {
			sl.ReportError(s.Content, "content", "Content", "excluded", "")
		}
	}
}

// IsMediaURL accepts absolute http(s) URLs and site-relative paths.
func IsMediaURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
