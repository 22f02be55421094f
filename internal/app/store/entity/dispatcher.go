// internal/app/store/entity/dispatcher.go
package entitystore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Result is the outcome of a dispatcher call. Failures carry a message fit
// for the admin; they are never returned as Go errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`

	status int
}

// HTTPStatus is the status code an HTTP handler should answer with.
func (r Result) HTTPStatus() int {
	if r.status != 0 {
		return r.status
	}
	if r.Success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// CreatedID returns the id a successful Create reported.
func (r Result) CreatedID() (primitive.ObjectID, bool) {
	m, isMap := r.Data.(map[string]any)
	if !r.Success || !isMap {
		return primitive.NilObjectID, false
	}
	hex, _ := m["id"].(string)
	oid, err := primitive.ObjectIDFromHex(hex)
	return oid, err == nil
}

func ok(status int, msg string, data any) Result {
	return Result{Success: true, Message: msg, Data: data, status: status}
}

// Dispatcher is the string-keyed create/read/update/delete/list surface used
// by the dashboard and the admin API.
type Dispatcher struct {
	reg *Registry
	log *zap.Logger
}

// NewDispatcher returns a Dispatcher over reg.
func NewDispatcher(reg *Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{reg: reg, log: logger}
}

// Registry returns the typed stores behind the dispatcher.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Create stores a new document from payload and returns
// {id, createdAt, updatedAt}.
func (d *Dispatcher) Create(ctx context.Context, name string, payload map[string]any) (res Result) {
	defer d.recoverPanic("create", name, &res)
	k, h, err := d.resolve(name)
	if err != nil {
		return d.fail("create", name, err)
	}
	st, err := h.create(ctx, payload)
	if err != nil {
		return d.fail("create", name, err)
	}
	return ok(http.StatusCreated, k.Label()+" created", map[string]any{
		"id":        st.ID.Hex(),
		"createdAt": st.CreatedAt,
		"updatedAt": st.UpdatedAt,
	})
}

// Update replaces the document with id and returns {id, updatedAt}.
// Singletons ignore id.
func (d *Dispatcher) Update(ctx context.Context, name, id string, payload map[string]any) (res Result) {
	defer d.recoverPanic("update", name, &res)
	k, h, err := d.resolve(name)
	if err != nil {
		return d.fail("update", name, err)
	}
	oid, err := d.targetID(k, id)
	if err != nil {
		return d.fail("update", name, err)
	}
	st, err := h.update(ctx, oid, payload)
	if err != nil {
		return d.fail("update", name, err)
	}
	return ok(http.StatusOK, k.Label()+" updated", map[string]any{
		"id":        st.ID.Hex(),
		"updatedAt": st.UpdatedAt,
	})
}

// Delete removes the document with id.
func (d *Dispatcher) Delete(ctx context.Context, name, id string) (res Result) {
	defer d.recoverPanic("delete", name, &res)
	k, h, err := d.resolve(name)
	if err != nil {
		return d.fail("delete", name, err)
	}
	oid, err := d.targetID(k, id)
	if err != nil {
		return d.fail("delete", name, err)
	}
	if err := h.remove(ctx, oid); err != nil {
		return d.fail("delete", name, err)
	}
	return ok(http.StatusOK, k.Label()+" deleted", nil)
}

// DeleteMany removes every listed document and returns {deleted: n}. An
// invalid id fails the whole call; matching nothing is a not-found failure.
func (d *Dispatcher) DeleteMany(ctx context.Context, name string, ids []string) (res Result) {
	defer d.recoverPanic("deleteMany", name, &res)
	k, h, err := d.resolve(name)
	if err != nil {
		return d.fail("deleteMany", name, err)
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := d.objectID(k, id)
		if err != nil {
			return d.fail("deleteMany", name, err)
		}
		oids = append(oids, oid)
	}
	n, err := h.removeMany(ctx, oids)
	if err != nil {
		return d.fail("deleteMany", name, err)
	}
	return ok(http.StatusOK, fmt.Sprintf("%d deleted", n), map[string]any{"deleted": n})
}

// Get returns the document with id. Singletons ignore id.
func (d *Dispatcher) Get(ctx context.Context, name, id string) (res Result) {
	defer d.recoverPanic("get", name, &res)
	k, h, err := d.resolve(name)
	if err != nil {
		return d.fail("get", name, err)
	}
	oid, err := d.targetID(k, id)
	if err != nil {
		return d.fail("get", name, err)
	}
	doc, err := h.get(ctx, oid)
	if err != nil {
		return d.fail("get", name, err)
	}
	return ok(http.StatusOK, "", doc)
}

// List returns one page as {items, page, limit, total, totalPages}.
func (d *Dispatcher) List(ctx context.Context, name string, p ListParams) (res Result) {
	defer d.recoverPanic("list", name, &res)
	_, h, err := d.resolve(name)
	if err != nil {
		return d.fail("list", name, err)
	}
	page, err := h.list(ctx, p)
	if err != nil {
		return d.fail("list", name, err)
	}
	return ok(http.StatusOK, "", page)
}

// Draft decodes payload into an unsaved document of the named kind, keeping
// whatever fields decode cleanly. Forms use it to redisplay a rejected
// submission.
func (d *Dispatcher) Draft(name string, payload map[string]any) (any, error) {
	_, h, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	return h.draft(payload), nil
}

func (d *Dispatcher) resolve(name string) (Kind, handle, error) {
	k, found := ParseKind(name)
	if !found {
		return "", nil, errors.Wrap(ErrUnknownEntity, name)
	}
	h, err := d.reg.handle(k)
	return k, h, err
}

// targetID parses id for collection kinds. Singletons have one document and
// take no id.
func (d *Dispatcher) targetID(k Kind, id string) (primitive.ObjectID, error) {
	if k.Singleton() {
		return primitive.NilObjectID, nil
	}
	return d.objectID(k, id)
}

func (d *Dispatcher) objectID(k Kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(ErrInvalidID, k.Label())
	}
	return oid, nil
}

// fail logs err and converts it into a failure Result.
func (d *Dispatcher) fail(op, name string, err error) Result {
	k, _ := ParseKind(name)
	fields := []zap.Field{zap.String("op", op), zap.String("entity", name), zap.Error(err)}

	var dup *DuplicateError
	switch {
	case errors.Is(err, ErrUnknownEntity):
		d.log.Warn("unknown entity", fields...)
		return Result{Message: "Unknown entity: " + name, status: http.StatusNotFound}
	case errors.Is(err, ErrNotFound):
		d.log.Warn("entity not found", fields...)
		return Result{Message: k.Label() + " not found", status: http.StatusNotFound}
	case errors.Is(err, ErrInvalidID):
		d.log.Warn("invalid entity id", fields...)
		return Result{Message: "Invalid " + strings.ToLower(k.Label()) + " id", status: http.StatusBadRequest}
	case errors.Is(err, ErrNotDeletable):
		return Result{Message: k.Label() + " cannot be deleted", status: http.StatusBadRequest}
	case errors.As(err, &dup):
		d.log.Warn("entity conflict", fields...)
		return Result{Message: dup.Message, status: http.StatusConflict}
	}
	if ve, isVal := docval.AsValidation(err); isVal {
		d.log.Warn("entity validation failed", fields...)
		return Result{Message: ve.Message, status: http.StatusBadRequest}
	}
	d.log.Error("entity store error", fields...)
	return Result{Message: errors.Cause(err).Error(), status: http.StatusInternalServerError}
}

func (d *Dispatcher) recoverPanic(op, name string, res *Result) {
	if rec := recover(); rec != nil {
		d.log.Error("entity dispatcher panic",
			zap.String("op", op),
			zap.String("entity", name),
			zap.Any("panic", rec),
			zap.Stack("stack"),
		)
		*res = Result{Message: "Something went wrong", status: http.StatusInternalServerError}
	}
}
