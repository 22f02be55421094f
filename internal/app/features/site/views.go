// internal/app/features/site/views.go
package site

import (
	"html/template"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// The projections below turn stored documents into the locale-specific,
// template-ready values each page renders. Bilingual pairs collapse to one
// string; rich text becomes sanitized HTML.

type ServiceView struct {
	Slug         string
	Title        string
	Icon         string
	Descriptions []string
}

func projectService(s models.Service, lang string) ServiceView {
	v := ServiceView{
		Slug:         s.Slug,
		Title:        s.Title.In(lang),
		Icon:         s.Icon,
		Descriptions: make([]string, 0, len(s.Descriptions)),
	}
	for _, d := range s.Descriptions {
		v.Descriptions = append(v.Descriptions, d.In(lang))
	}
	return v
}

type CategoryView struct {
	Slug string
	Name string
}

func projectCategory(c models.Category, lang string) CategoryView {
	return CategoryView{Slug: c.Slug, Name: c.Name(lang)}
}

type ProductView struct {
	Slug        string
	Name        string
	Description string
	Cover       string
	Images      []string
	Links       []models.ProductLink
	Featured    bool
	Category    *CategoryView
}

func projectProduct(p models.ProductWithCategory, lang string) ProductView {
	v := ProductView{
		Slug:        p.Slug,
		Name:        p.ProjectName,
		Description: p.Description.In(lang),
		Cover:       p.CoverImage,
		Images:      p.Images,
		Links:       p.Links,
		Featured:    p.Featured,
	}
	if p.CategoryDoc != nil {
		c := projectCategory(*p.CategoryDoc, lang)
		v.Category = &c
	}
	return v
}

type BlogCard struct {
	Slug        string
	Title       string
	Description string
	Cover       string
	Featured    bool
	Tags        []string
	Date        time.Time
}

func projectBlogCard(b models.Blog, lang string) BlogCard {
	return BlogCard{
		Slug:        b.Slug,
		Title:       b.Title.In(lang),
		Description: b.Description.In(lang),
		Cover:       b.CoverImage,
		Featured:    b.Featured,
		Tags:        b.Tags,
		Date:        b.CreatedAt,
	}
}

type SectionView struct {
	Type    string
	HTML    template.HTML
	Image   string
	Caption string
}

type BlogView struct {
	BlogCard
	Sections []SectionView
}

// projectBlog renders sections in stored order. Text content was sanitized
// on save; it is sanitized again here because it is emitted unescaped.
func projectBlog(b models.Blog, lang string) BlogView {
	v := BlogView{BlogCard: projectBlogCard(b, lang)}
	for _, s := range b.Sections {
		sv := SectionView{Type: s.Type, Image: s.Image, Caption: s.Caption}
		if s.Type == models.SectionText && s.Content != nil {
			sv.HTML = htmlsanitize.Render(s.Content.In(lang))
		}
		v.Sections = append(v.Sections, sv)
	}
	return v
}

type TeamView struct {
	Name     string
	JobTitle string
	Image    string
	Socials  models.SocialLinks
}

func projectTeam(m models.TeamMember, lang string) TeamView {
	return TeamView{
		Name:     m.Name.In(lang),
		JobTitle: m.JobTitle.In(lang),
		Image:    m.Image,
		Socials:  m.Socials,
	}
}

type HomeServiceView struct {
	Title       string
	Description string
	Icon        string
}

type TechGroupView struct {
	Name  string
	Items []string
}

type HomeView struct {
	HeroTitle    string
	HeroSubtitle string
	HeroCTA      string
	HeroImage    string
	AboutTitle   string
	AboutBody    template.HTML
	AboutImage   string
	Services     []HomeServiceView
	Logos        []string
	Technologies []TechGroupView
}

func projectHome(h models.Homepage, lang string) HomeView {
	v := HomeView{
		HeroTitle:    h.Hero.Title.In(lang),
		HeroSubtitle: h.Hero.Subtitle.In(lang),
		HeroCTA:      h.Hero.CTA.In(lang),
		HeroImage:    h.Hero.Image,
		AboutTitle:   h.About.Title.In(lang),
		AboutBody:    htmlsanitize.Render(h.About.Body.In(lang)),
		AboutImage:   h.About.Image,
		Logos:        h.Logos,
	}
	for _, s := range h.Services {
		v.Services = append(v.Services, HomeServiceView{
			Title:       s.Title.In(lang),
			Description: s.Description.In(lang),
			Icon:        s.Icon,
		})
	}
	for _, g := range h.TechnologyGroups {
		v.Technologies = append(v.Technologies, TechGroupView{Name: g.Name.In(lang), Items: g.Items})
	}
	return v
}
