// internal/domain/models/service.go
package models

// Service is an offered service.
type Service struct {
	Meta         `bson:",inline"`
	Title        Bilingual   `bson:"title" json:"title"`
	Icon         string      `bson:"icon" json:"icon" validate:"required,max=500"`
	Descriptions []Bilingual `bson:"descriptions" json:"descriptions" validate:"min=1,dive"`
	Order        int         `bson:"order" json:"order"`
	Slug         string      `bson:"slug" json:"slug"`
}

func (s *Service) SlugSource() string { return s.Title.EN }
func (s *Service) SlugRef() *string   { return &s.Slug }
