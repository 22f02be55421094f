// internal/app/store/entity/kind.go
package entitystore

import "strings"

// Kind names one entity type. The set is closed; every Kind has a handle in
// the Registry.
type Kind string

const (
	KindBlog       Kind = "blog"
	KindProduct    Kind = "product"
	KindService    Kind = "service"
	KindCategory   Kind = "category"
	KindTeam       Kind = "team"
	KindContact    Kind = "contact"
	KindSubscriber Kind = "subscriber"
	KindSettings   Kind = "settings"
	KindUser       Kind = "user"
	KindHomepage   Kind = "homepage"
)

// Kinds lists every entity kind in dashboard menu order.
var Kinds = []Kind{
	KindHomepage,
	KindBlog,
	KindProduct,
	KindCategory,
	KindService,
	KindTeam,
	KindContact,
	KindSubscriber,
	KindUser,
	KindSettings,
}

// aliases accept model-style names ("ContactUs", "TeamMember") and plurals.
var aliases = map[string]Kind{
	"blogs":         KindBlog,
	"products":      KindProduct,
	"services":      KindService,
	"categories":    KindCategory,
	"teammember":    KindTeam,
	"team_member":   KindTeam,
	"contactus":     KindContact,
	"contact_us":    KindContact,
	"contacts":      KindContact,
	"subscribers":   KindSubscriber,
	"sitesettings":  KindSettings,
	"site_settings": KindSettings,
	"users":         KindUser,
}

// ParseKind resolves an entity name. Matching ignores case and surrounding
// whitespace.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	k, ok := aliases[s]
	return k, ok
}

var labels = map[Kind][2]string{
	KindBlog:       {"Blog", "Blogs"},
	KindProduct:    {"Product", "Products"},
	KindService:    {"Service", "Services"},
	KindCategory:   {"Category", "Categories"},
	KindTeam:       {"Team member", "Team"},
	KindContact:    {"Contact message", "Contact messages"},
	KindSubscriber: {"Subscriber", "Subscribers"},
	KindSettings:   {"Site settings", "Site settings"},
	KindUser:       {"User", "Users"},
	KindHomepage:   {"Homepage", "Homepage"},
}

// Label is the singular display name ("Blog").
func (k Kind) Label() string { return labels[k][0] }

// Plural is the display name used in menus and list headings.
func (k Kind) Plural() string { return labels[k][1] }

// Singleton reports whether the kind has exactly one document.
func (k Kind) Singleton() bool {
	return k == KindHomepage || k == KindSettings
}
