package api

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/locale"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// contact stores a contact submission and notifies the site owner.
func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMap(w, r)
	if !ok {
		return
	}
	delete(payload, "handled")

	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Create(ctx, "contact", payload)
	if id, ok := res.CreatedID(); ok {
		h.notifier.ContactReceived(ctx, id)
	}
	writeResult(w, res)
}

// subscribe adds an email to the newsletter list.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email  string `json:"email"`
		Locale string `json:"locale"`
	}
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	res := h.d.Create(ctx, "subscriber", map[string]any{"email": in.Email})
	if res.Success {
		h.notifier.Subscribed(ctx, in.Email, locale.Normalize(in.Locale, locale.EN))
	}
	writeResult(w, res)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	items, err := h.reg.Categories.Find(ctx, bson.M{})
	if err != nil {
		h.listFailed(w, r, err)
		return
	}
	jsonutil.OK(w, items)
}

func (h *Handler) services(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	items, err := h.reg.Services.Find(ctx, bson.M{})
	if err != nil {
		h.listFailed(w, r, err)
		return
	}
	jsonutil.OK(w, items)
}

func (h *Handler) team(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	items, err := h.reg.Team.Find(ctx, bson.M{})
	if err != nil {
		h.listFailed(w, r, err)
		return
	}
	jsonutil.OK(w, items)
}

func (h *Handler) listFailed(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("api listing failed", zap.String("path", r.URL.Path), zap.Error(err))
	jsonutil.InternalError(w, "Could not load data")
}
