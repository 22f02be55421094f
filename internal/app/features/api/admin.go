package api

import (
	"net/http"
	"strconv"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
)

func entity(r *http.Request) string {
	return chi.URLParam(r, "entity")
}

func int64Param(r *http.Request, key string) int64 {
	n, err := strconv.ParseInt(query.Get(r, key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// list answers GET /admin/{entity}?page=&limit=&search=&searchField=.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.List(ctx, entity(r), entitystore.ListParams{
		Page:        int64Param(r, "page"),
		Limit:       int64Param(r, "limit"),
		Search:      query.Get(r, "search"),
		SearchField: query.Get(r, "searchField"),
	}))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.Get(ctx, entity(r), chi.URLParam(r, "id")))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMap(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.Create(ctx, entity(r), payload))
}

// update replaces a document. Singletons are addressed without an id.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeMap(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.Update(ctx, entity(r), chi.URLParam(r, "id"), payload))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.Delete(ctx, entity(r), chi.URLParam(r, "id")))
}

// deleteMany answers POST /admin/{entity}/delete with {"ids": [...]}.
func (h *Handler) deleteMany(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDs []string `json:"ids"`
	}
	if err := jsonutil.Decode(w, r, &in); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if len(in.IDs) == 0 {
		jsonutil.BadRequest(w, "ids is required")
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	writeResult(w, h.d.DeleteMany(ctx, entity(r), in.IDs))
}
