// internal/domain/models/blog.go
package models

// Blog section kinds.
const (
	SectionText  = "text"
	SectionImage = "image"
)

// Blog is an article made of ordered heterogeneous sections.
type Blog struct {
	Meta        `bson:",inline"`
	Title       Bilingual     `bson:"title" json:"title"`
	Description Bilingual     `bson:"description" json:"description"`
	CoverImage  string        `bson:"cover_image,omitempty" json:"cover_image,omitempty" validate:"omitempty,media"`
	Sections    []BlogSection `bson:"sections" json:"sections" validate:"min=1,dive"`
	Slug        string        `bson:"slug" json:"slug"`
	Published   bool          `bson:"published" json:"published"`
	Featured    bool          `bson:"featured" json:"featured"`
	Tags        []string      `bson:"tags,omitempty" json:"tags,omitempty" validate:"dive,required,max=40"`
}

// BlogSection is either a text block (bilingual content) or an image block
// (image URL). Order reflects display order and need not be contiguous.
type BlogSection struct {
	Type    string     `bson:"type" json:"type" validate:"required,oneof=text image"`
	Order   int        `bson:"order" json:"order"`
	Content *Bilingual `bson:"content,omitempty" json:"content,omitempty"`
	Image   string     `bson:"image,omitempty" json:"image,omitempty"`
	Caption string     `bson:"caption,omitempty" json:"caption,omitempty"`
}

func (b *Blog) SlugSource() string { return b.Title.EN }
func (b *Blog) SlugRef() *string   { return &b.Slug }
