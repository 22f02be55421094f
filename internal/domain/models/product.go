// internal/domain/models/product.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a portfolio item.
type Product struct {
	Meta        `bson:",inline"`
	ProjectName string             `bson:"project_name" json:"project_name" validate:"required,max=200"`
	Description Bilingual          `bson:"description" json:"description"`
	CoverImage  string             `bson:"cover_image" json:"cover_image" validate:"required,media"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty" validate:"dive,media"`
	Links       []ProductLink      `bson:"links,omitempty" json:"links,omitempty" validate:"dive"`
	Category    primitive.ObjectID `bson:"category,omitempty" json:"category"`
	Slug        string             `bson:"slug" json:"slug"`
	Featured    bool               `bson:"featured" json:"featured"`
}

// ProductLink is an external link (live site, store listing, repository).
type ProductLink struct {
	Label string `bson:"label" json:"label" validate:"required,max=80"`
	URL   string `bson:"url" json:"url" validate:"required,url"`
}

func (p *Product) SlugSource() string { return p.ProjectName }
func (p *Product) SlugRef() *string   { return &p.Slug }

// ProductWithCategory is a Product joined to its Category document.
type ProductWithCategory struct {
	Product     `bson:",inline"`
	CategoryDoc *Category `bson:"category_doc,omitempty" json:"category_doc,omitempty"`
}
