// internal/app/features/site/contact.go
package site

import (
	"net/http"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
)

type serviceOption struct {
	ID       string
	Title    string
	Selected bool
}

type contactVM struct {
	viewdata.BaseVM
	Services []serviceOption
	Name     string
	Email    string
	Phone    string
	Company  string
	Message  string
	Error    string
	Sent     bool
}

func (h *Handler) renderContact(w http.ResponseWriter, r *http.Request, vm contactVM, status int) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	selected := map[string]bool{}
	for _, id := range r.Form["services"] {
		selected[id] = true
	}
	svcs, err := h.reg.Services.Find(ctx, bson.M{})
	if err != nil {
		h.fail(w, r, "list services", err)
		return
	}
	for _, s := range svcs {
		id := s.ID.Hex()
		vm.Services = append(vm.Services, serviceOption{ID: id, Title: s.Title.In(lang(r)), Selected: selected[id]})
	}
	vm.Title = vm.L["nav.contact"]

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "site/contact", vm)
}

func (h *Handler) contactForm(w http.ResponseWriter, r *http.Request) {
	vm := contactVM{BaseVM: viewdata.New(r), Sent: r.URL.Query().Get("sent") == "1"}
	h.renderContact(w, r, vm, http.StatusOK)
}

// contactSubmit stores the enquiry, then notifies the site owner. A failed
// notification does not fail the submission.
func (h *Handler) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	services := []any{}
	for _, id := range r.Form["services"] {
		if id = strings.TrimSpace(id); id != "" {
			services = append(services, id)
		}
	}
	payload := map[string]any{
		"name":     r.FormValue("name"),
		"email":    r.FormValue("email"),
		"phone":    r.FormValue("phone"),
		"company":  r.FormValue("company"),
		"services": services,
		"message":  r.FormValue("message"),
	}

	ctx, cancel := h.ctx(r)
	defer cancel()
	res := h.d.Create(ctx, "contact", payload)
	if !res.Success {
		vm := contactVM{
			BaseVM:  viewdata.New(r),
			Name:    r.FormValue("name"),
			Email:   r.FormValue("email"),
			Phone:   r.FormValue("phone"),
			Company: r.FormValue("company"),
			Message: r.FormValue("message"),
			Error:   res.Message,
		}
		h.renderContact(w, r, vm, res.HTTPStatus())
		return
	}

	if id, ok := res.CreatedID(); ok {
		h.notifier.ContactReceived(ctx, id)
	}
	http.Redirect(w, r, "/"+lang(r)+"/contact?sent=1", http.StatusSeeOther)
}

type subscribedVM struct {
	viewdata.BaseVM
	OK      bool
	Message string
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.FormValue("email")

	ctx, cancel := h.ctx(r)
	defer cancel()
	res := h.d.Create(ctx, "subscriber", map[string]any{"email": email})

	vm := subscribedVM{BaseVM: viewdata.New(r), OK: res.Success, Message: res.Message}
	vm.Title = vm.L["subscribe.title"]
	if res.Success {
		vm.Message = vm.L["subscribe.done"]
		h.notifier.Subscribed(ctx, strings.TrimSpace(email), lang(r))
	} else {
		w.WriteHeader(res.HTTPStatus())
	}
	templates.Render(w, r, "site/subscribed", vm)
}
