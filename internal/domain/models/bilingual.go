// internal/domain/models/bilingual.go
package models

import "strings"

// Supported locales.
const (
	LocaleEN = "en"
	LocaleAR = "ar"
)

// Bilingual is a fixed-shape {en, ar} text pair. Both halves are required.
type Bilingual struct {
	EN string `bson:"en" json:"en" validate:"required"`
	AR string `bson:"ar" json:"ar" validate:"required"`
}

// In returns the text for locale, falling back to English.
func (b Bilingual) In(locale string) string {
	if locale == LocaleAR && b.AR != "" {
		return b.AR
	}
	return b.EN
}

// IsZero reports whether both halves are blank.
func (b Bilingual) IsZero() bool {
	return strings.TrimSpace(b.EN) == "" && strings.TrimSpace(b.AR) == ""
}

// Trim returns b with surrounding whitespace removed from both halves.
func (b Bilingual) Trim() Bilingual {
	return Bilingual{EN: strings.TrimSpace(b.EN), AR: strings.TrimSpace(b.AR)}
}

// B is shorthand for building a Bilingual literal.
func B(en, ar string) Bilingual {
	return Bilingual{EN: en, AR: ar}
}
