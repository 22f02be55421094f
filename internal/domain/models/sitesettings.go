// internal/domain/models/sitesettings.go
package models

// SiteSettings holds site-wide contact details and branding. There is at
// most one document; it is created with defaults on first read.
type SiteSettings struct {
	Meta      `bson:",inline"`
	Singleton bool        `bson:"singleton,omitempty" json:"-"`
	SiteName  Bilingual   `bson:"site_name" json:"site_name"`
	Logo      string      `bson:"logo,omitempty" json:"logo,omitempty" validate:"omitempty,media"`
	WhatsApp  string      `bson:"whatsapp,omitempty" json:"whatsapp,omitempty" validate:"omitempty,max=40"`
	Phone     string      `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=40"`
	Email     string      `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Address   Bilingual   `bson:"address" json:"address"`
	Socials   SocialLinks `bson:"socials" json:"socials"`
}

// MarkSingleton flags the document as the singleton instance.
func (s *SiteSettings) MarkSingleton() { s.Singleton = true }

// DefaultSiteName is the site name used until an admin saves settings.
var DefaultSiteName = B("Strata", "ستراتا")

// DefaultSiteSettings returns the values written on first read.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName: DefaultSiteName,
		Email:    "hello@example.com",
		Address:  B("Riyadh, Saudi Arabia", "الرياض، المملكة العربية السعودية"),
	}
}
