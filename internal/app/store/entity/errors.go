// internal/app/store/entity/errors.go
package entitystore

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no document matches the id.
	ErrNotFound = errors.New("entity: not found")
	// ErrUnknownEntity is returned for a name that is not a Kind.
	ErrUnknownEntity = errors.New("entity: unknown entity")
	// ErrInvalidID is returned for an id that is not a valid ObjectID.
	ErrInvalidID = errors.New("entity: invalid id")
	// ErrDuplicate matches every *DuplicateError.
	ErrDuplicate = errors.New("entity: duplicate")
	// ErrNotDeletable is returned when deleting a singleton.
	ErrNotDeletable = errors.New("entity: not deletable")
)

// DuplicateError reports a uniqueness conflict with a message fit for the
// admin ("A category with this slug already exists").
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string { return e.Message }

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

func duplicate(msg string) error { return &DuplicateError{Message: msg} }
