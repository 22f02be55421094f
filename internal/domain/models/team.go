// internal/domain/models/team.go
package models

// TeamMember is a staff profile.
type TeamMember struct {
	Meta     `bson:",inline"`
	Name     Bilingual   `bson:"name" json:"name"`
	JobTitle Bilingual   `bson:"job_title" json:"job_title"`
	Image    string      `bson:"image" json:"image" validate:"required,media"`
	Socials  SocialLinks `bson:"socials" json:"socials"`
	Order    int         `bson:"order" json:"order"`
}

// SocialLinks holds optional profile URLs.
type SocialLinks struct {
	LinkedIn  string `bson:"linkedin,omitempty" json:"linkedin,omitempty" validate:"omitempty,url"`
	X         string `bson:"x,omitempty" json:"x,omitempty" validate:"omitempty,url"`
	GitHub    string `bson:"github,omitempty" json:"github,omitempty" validate:"omitempty,url"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty" validate:"omitempty,url"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty" validate:"omitempty,url"`
}
