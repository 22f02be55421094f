// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"
	"time"

	settingsstore "github.com/dalemusser/stratasite/internal/app/store/settings"
	"github.com/dalemusser/stratasite/internal/app/system/authz"
	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ThemeCookie holds the visitor's light/dark preference.
const ThemeCookie = "theme"

// Themes lists accepted theme values. "system" follows the OS setting.
var Themes = []string{"light", "dark", "system"}

// IsTheme reports whether t is an accepted theme value.
func IsTheme(t string) bool {
	for _, v := range Themes {
		if v == t {
			return true
		}
	}
	return false
}

// BaseVM contains common fields for all view models. Embed it in page view
// models:
//
//	data := blogListVM{BaseVM: viewdata.New(r), Items: items}
type BaseVM struct {
	// Site settings (from database)
	Settings models.SiteSettings
	SiteName string

	// Locale
	Locale      string
	Dir         string
	OtherLocale string
	SwitchURL   string
	L           map[string]string

	Theme string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
	Year        int

	CSRFToken string
}

var (
	globalDB     *mongo.Database
	globalLogger = zap.NewNop()
	defaultLang  = locale.EN
)

// Init sets the database used to load site settings and the fallback locale
// for pages outside the /{lang} prefix. Call it once at startup.
func Init(db *mongo.Database, defaultLocale string, logger *zap.Logger) {
	globalDB = db
	defaultLang = locale.Normalize(defaultLocale, locale.EN)
	if logger != nil {
		globalLogger = logger
	}
}

// New creates a BaseVM for r with site settings loaded from the database.
func New(r *http.Request) BaseVM {
	lang := locale.FromRequest(r, defaultLang)
	other := locale.Other(lang)

	vm := BaseVM{
		Settings:    models.DefaultSiteSettings(),
		Locale:      lang,
		Dir:         locale.Dir(lang),
		OtherLocale: other,
		SwitchURL:   locale.SwitchPath(r.URL.Path, other),
		L:           locale.Labels(lang),
		Theme:       themeFrom(r),
		IsLoggedIn:  authz.IsLoggedIn(r),
		IsAdmin:     authz.IsAdmin(r),
		UserName:    authz.DisplayName(r),
		CurrentPath: httpnav.CurrentPath(r),
		Year:        time.Now().Year(),
		CSRFToken:   csrf.Token(r),
	}

	if globalDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if s, err := settingsstore.NewSiteSettings(globalDB).Get(ctx); err == nil {
			vm.Settings = *s
		} else {
			globalLogger.Warn("site settings unavailable; using defaults", zap.Error(err))
		}
	}
	vm.SiteName = vm.Settings.SiteName.In(lang)
	return vm
}

// NewWithTitle is New plus a page title and a back link for dashboard forms.
func NewWithTitle(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}

func themeFrom(r *http.Request) string {
	if c, err := r.Cookie(ThemeCookie); err == nil && IsTheme(c.Value) {
		return c.Value
	}
	return "system"
}
