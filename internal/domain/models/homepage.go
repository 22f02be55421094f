// internal/domain/models/homepage.go
package models

// Homepage is the singleton landing-page content.
type Homepage struct {
	Meta             `bson:",inline"`
	Singleton        bool              `bson:"singleton,omitempty" json:"-"`
	Hero             HomeHero          `bson:"hero" json:"hero"`
	About            HomeAbout         `bson:"about" json:"about"`
	Services         []HomeService     `bson:"services" json:"services" validate:"dive"`
	Logos            []string          `bson:"logos,omitempty" json:"logos,omitempty" validate:"dive,media"`
	TechnologyGroups []TechnologyGroup `bson:"technology_groups,omitempty" json:"technology_groups,omitempty" validate:"dive"`
}

type HomeHero struct {
	Title    Bilingual `bson:"title" json:"title"`
	Subtitle Bilingual `bson:"subtitle" json:"subtitle"`
	CTA      Bilingual `bson:"cta" json:"cta"`
	Image    string    `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,media"`
}

type HomeAbout struct {
	Title Bilingual `bson:"title" json:"title"`
	Body  Bilingual `bson:"body" json:"body"`
	Image string    `bson:"image,omitempty" json:"image,omitempty" validate:"omitempty,media"`
}

type HomeService struct {
	Title       Bilingual `bson:"title" json:"title"`
	Description Bilingual `bson:"description" json:"description"`
	Icon        string    `bson:"icon,omitempty" json:"icon,omitempty"`
}

// TechnologyGroup is a labelled list of technologies shown on the homepage.
type TechnologyGroup struct {
	Name  Bilingual `bson:"name" json:"name"`
	Items []string  `bson:"items" json:"items" validate:"dive,required"`
}

// MarkSingleton flags the document as the singleton instance.
func (h *Homepage) MarkSingleton() { h.Singleton = true }

// DefaultHomepage returns the content written on first read.
func DefaultHomepage() Homepage {
	return Homepage{
		Hero: HomeHero{
			Title:    B("We build digital products", "نبني منتجات رقمية"),
			Subtitle: B("Design, engineering and growth under one roof.", "التصميم والهندسة والنمو تحت سقف واحد."),
			CTA:      B("Get in touch", "تواصل معنا"),
		},
		About: HomeAbout{
			Title: B("About us", "من نحن"),
			Body:  B("Tell visitors who you are. Edit this text from the dashboard.", "عرّف الزوار بشركتك. عدّل هذا النص من لوحة التحكم."),
		},
		Services: []HomeService{},
	}
}
