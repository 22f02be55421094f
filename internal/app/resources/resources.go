// Package resources embeds the public and dashboard layouts along with the
// stylesheets and scripts both of them load.
package resources

import (
	"embed"
	"io/fs"
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var layoutFS embed.FS

//go:embed assets/css/*.css assets/js/*.js
var assetsFS embed.FS

// SharedSet is the set name the template engine parses first and clones
// for every page.
const SharedSet = "shared"

var registerOnce sync.Once

// LoadSharedTemplates registers layout_head, layout_foot and the dashboard
// layout. Startup calls it before the engine boots; repeat calls are no-ops.
func LoadSharedTemplates() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     SharedSet,
			FS:       layoutFS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}

// AssetsHandler serves the embedded css and js under prefix. Assets change
// only with a deploy, so responses may be cached for a day.
func AssetsHandler(prefix string) http.Handler {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic("resources: " + err.Error())
	}
	files := http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		files.ServeHTTP(w, r)
	})
}
