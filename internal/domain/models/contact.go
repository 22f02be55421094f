// internal/domain/models/contact.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ContactUs is an inbound inquiry from the public contact form.
type ContactUs struct {
	Meta     `bson:",inline"`
	Name     string               `bson:"name" json:"name" validate:"required,max=200"`
	Email    string               `bson:"email" json:"email" validate:"required,email,max=254"`
	Phone    string               `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,max=40"`
	Company  string               `bson:"company,omitempty" json:"company,omitempty" validate:"omitempty,max=200"`
	Services []primitive.ObjectID `bson:"services,omitempty" json:"services,omitempty"`
	Message  string               `bson:"message" json:"message" validate:"required,max=5000"`
	Handled  bool                 `bson:"handled" json:"handled"`
}

// Subscriber is a newsletter signup. Email is unique.
type Subscriber struct {
	Meta  `bson:",inline"`
	Email string `bson:"email" json:"email" validate:"required,email,max=254"`
}
