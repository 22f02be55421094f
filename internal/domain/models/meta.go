// internal/domain/models/meta.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta carries the server-assigned identity and timestamps shared by every
// document. It is embedded inline in each entity.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Metadata returns the embedded Meta so generic stores can stamp it.
func (m *Meta) Metadata() *Meta {
	return m
}

// Slugged is implemented by documents whose slug is derived from a name field.
type Slugged interface {
	SlugSource() string
	SlugRef() *string
}
