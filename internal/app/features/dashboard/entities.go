package dashboard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/formutil"
	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// searchFields lists the fields an admin can search each listing by. The
// first entry is the default.
var searchFields = map[entitystore.Kind][]string{
	entitystore.KindBlog:       {"title.en", "title.ar", "slug"},
	entitystore.KindProduct:    {"project_name", "slug"},
	entitystore.KindService:    {"title.en", "title.ar", "slug"},
	entitystore.KindCategory:   {"name_en", "name_ar", "slug"},
	entitystore.KindTeam:       {"name.en", "name.ar"},
	entitystore.KindContact:    {"email", "name", "company"},
	entitystore.KindSubscriber: {"email"},
	entitystore.KindUser:       {"email", "name", "role"},
}

// ListVM is the view model for an entity listing.
type ListVM struct {
	dashVM
	Kind       string
	NewURL     string
	TitleHead  string
	DetailHead string
	Search     string
	Field      string
	Fields     []string
	Total      int64
	Rows       []row
	Pager      viewdata.Pager
}

// FormVM is the view model for the create/edit editor.
type FormVM struct {
	dashVM
	Kind      string
	Action    string
	IsNew     bool
	DeleteURL string
	Fields    []formutil.Node
}

func flashURL(k entitystore.Kind, msg string) string {
	return kindURL(k) + "?flash=" + url.QueryEscape(msg)
}

// list shows one page of an entity. Singletons have no listing and go
// straight to their editor.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k.Singleton() {
		h.showSingleton(w, r, k)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	q := r.URL.Query()
	fields := searchFields[k]
	field := strings.TrimSpace(q.Get("field"))
	if field == "" && len(fields) > 0 {
		field = fields[0]
	}
	vm := ListVM{
		dashVM:     h.newVM(r, k.Plural(), k),
		Kind:       string(k),
		NewURL:     kindURL(k) + "/new",
		TitleHead:  headings[string(k)][0],
		DetailHead: headings[string(k)][1],
		Search:     strings.TrimSpace(q.Get("q")),
		Field:      field,
		Fields:     fields,
	}

	res := h.d.List(ctx, string(k), entitystore.ListParams{
		Page:        viewdata.PageParam(r),
		Limit:       pageSize,
		Search:      vm.Search,
		SearchField: field,
	})
	if !res.Success {
		vm.SetError(res.Message)
		w.WriteHeader(res.HTTPStatus())
		templates.Render(w, r, "dashboard/list", vm)
		return
	}
	page := res.Data.(entitystore.Page)
	vm.Total = page.Total
	vm.Rows = rowsOf(page.Items)
	vm.Pager = viewdata.NewPager(r, page.Page, page.TotalPages, "Previous", "Next")
	templates.Render(w, r, "dashboard/list", vm)
}

// choices returns the select options for k's editor.
func (h *Handler) choices(ctx context.Context, k entitystore.Kind) (formutil.Choices, error) {
	switch k {
	case entitystore.KindBlog:
		return formutil.Choices{"sections.*.type": {
			{Value: models.SectionText, Label: "Text"},
			{Value: models.SectionImage, Label: "Image"},
		}}, nil
	case entitystore.KindProduct:
		cats, err := h.reg.Categories.Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		opts := make([]formutil.Option, 0, len(cats))
		for _, c := range cats {
			opts = append(opts, formutil.Option{Value: c.ID.Hex(), Label: c.NameEN + " / " + c.NameAR})
		}
		return formutil.Choices{"category": opts}, nil
	case entitystore.KindContact:
		svcs, err := h.reg.Services.Find(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		opts := make([]formutil.Option, 0, len(svcs))
		for _, s := range svcs {
			opts = append(opts, formutil.Option{Value: s.ID.Hex(), Label: s.Title.EN})
		}
		return formutil.Choices{"services.*": opts}, nil
	case entitystore.KindUser:
		var opts []formutil.Option
		for _, role := range models.AllRoles() {
			opts = append(opts, formutil.Option{Value: role, Label: role})
		}
		return formutil.Choices{"role": opts}, nil
	}
	return nil, nil
}

// renderForm shows the editor for doc. A non-empty errMsg is shown above the
// form and the response carries status.
func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, k entitystore.Kind, doc any, id string, errMsg string, status int) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	choices, err := h.choices(ctx, k)
	if err != nil {
		h.errLog.Log(r, "load form choices", err)
		h.pages.InternalError(w, r)
		return
	}

	var vm FormVM
	switch {
	case k.Singleton():
		vm = FormVM{dashVM: h.newVM(r, k.Label(), k), Action: kindURL(k)}
	case id == "":
		vm = FormVM{dashVM: h.newVM(r, "New "+strings.ToLower(k.Label()), k), Action: kindURL(k) + "/new", IsNew: true}
	default:
		vm = FormVM{
			dashVM:    h.newVM(r, "Edit "+strings.ToLower(k.Label()), k),
			Action:    kindURL(k) + "/" + id + "/edit",
			DeleteURL: kindURL(k) + "/" + id + "/delete",
		}
	}
	vm.Kind = string(k)
	vm.BackURL = kindURL(k)
	vm.Fields = formutil.Flatten(doc, choices)
	if errMsg != "" {
		vm.SetError(errMsg)
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "dashboard/form", vm)
}

// payload parses the posted form into a nested document.
func (h *Handler) payload(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "parse form", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, false
	}
	return formutil.Nest(r.PostForm), true
}

// redisplay re-renders a rejected submission with the failure message.
func (h *Handler) redisplay(w http.ResponseWriter, r *http.Request, k entitystore.Kind, id string, payload map[string]any, res entitystore.Result) {
	if res.HTTPStatus() == http.StatusNotFound {
		h.pages.NotFound(w, r)
		return
	}
	doc, err := h.d.Draft(string(k), payload)
	if err != nil {
		h.pages.NotFound(w, r)
		return
	}
	h.renderForm(w, r, k, doc, id, res.Message, res.HTTPStatus())
}

func (h *Handler) showNew(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k.Singleton() {
		http.Redirect(w, r, kindURL(k), http.StatusSeeOther)
		return
	}
	doc, _ := h.d.Draft(string(k), nil)
	h.renderForm(w, r, k, doc, "", "", http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	payload, ok := h.payload(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Create(ctx, string(k), payload)
	if !res.Success {
		h.redisplay(w, r, k, "", payload, res)
		return
	}
	http.Redirect(w, r, flashURL(k, res.Message), http.StatusSeeOther)
}

func (h *Handler) showEdit(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if k.Singleton() {
		http.Redirect(w, r, kindURL(k), http.StatusSeeOther)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	res := h.d.Get(ctx, string(k), id)
	if !res.Success {
		if res.HTTPStatus() >= http.StatusInternalServerError {
			h.pages.InternalError(w, r)
			return
		}
		h.pages.NotFound(w, r)
		return
	}
	h.renderForm(w, r, k, res.Data, id, "", http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	payload, ok := h.payload(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	res := h.d.Update(ctx, string(k), id, payload)
	if !res.Success {
		h.redisplay(w, r, k, id, payload, res)
		return
	}
	http.Redirect(w, r, flashURL(k, res.Message), http.StatusSeeOther)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Delete(ctx, string(k), chi.URLParam(r, "id"))
	http.Redirect(w, r, flashURL(k, res.Message), http.StatusSeeOther)
}

// deleteMany removes the rows checked in a listing.
func (h *Handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "parse form", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	ids := r.PostForm["ids"]
	if len(ids) == 0 {
		http.Redirect(w, r, flashURL(k, "Nothing selected"), http.StatusSeeOther)
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.DeleteMany(ctx, string(k), ids)
	http.Redirect(w, r, flashURL(k, res.Message), http.StatusSeeOther)
}

func (h *Handler) showSingleton(w http.ResponseWriter, r *http.Request, k entitystore.Kind) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Get(ctx, string(k), "")
	if !res.Success {
		h.errLog.Log(r, "load "+string(k), errors.New(res.Message))
		h.pages.InternalError(w, r)
		return
	}
	h.renderForm(w, r, k, res.Data, "", "", http.StatusOK)
}

// saveSingleton stores the homepage or site settings document.
func (h *Handler) saveSingleton(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	if !k.Singleton() {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	payload, ok := h.payload(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Update(ctx, string(k), "", payload)
	if !res.Success {
		h.redisplay(w, r, k, "", payload, res)
		return
	}
	http.Redirect(w, r, flashURL(k, res.Message), http.StatusSeeOther)
}
