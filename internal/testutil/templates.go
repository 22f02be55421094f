package testutil

import (
	"sync"

	"github.com/dalemusser/stratasite/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// MustBootTemplates installs a template engine holding the shared layouts
// and every feature set registered so far. Feature packages register their
// own sets in init, so importing the package under test is enough. Only the
// first call boots; later calls report that result.
func MustBootTemplates(t interface{ Fatalf(string, ...any) }) {
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()
		eng := templates.New(false)
		if bootErr = eng.Boot(zap.NewNop()); bootErr == nil {
			templates.UseEngine(eng, zap.NewNop())
		}
	})
	if bootErr != nil {
		t.Fatalf("boot templates: %v", bootErr)
	}
}
