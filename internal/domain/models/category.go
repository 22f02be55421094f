// internal/domain/models/category.go
package models

// Category groups products. Name pairs and slug are unique.
type Category struct {
	Meta   `bson:",inline"`
	NameEN string `bson:"name_en" json:"name_en" validate:"required,max=100"`
	NameAR string `bson:"name_ar" json:"name_ar" validate:"required,max=100"`
	Slug   string `bson:"slug" json:"slug"`
}

func (c *Category) SlugSource() string { return c.NameEN }
func (c *Category) SlugRef() *string   { return &c.Slug }

// Name returns the category name for locale.
func (c Category) Name(locale string) string {
	return B(c.NameEN, c.NameAR).In(locale)
}
