// internal/domain/models/user.go
package models

// User is an account. Password is accepted on write and never stored;
// PasswordHash is computed at write time and never serialized to JSON.
type User struct {
	Meta         `bson:",inline"`
	Name         string `bson:"name" json:"name" validate:"required,max=200"`
	Email        string `bson:"email" json:"email" validate:"required,email,max=254"`
	Password     string `bson:"-" json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role" validate:"required,oneof=user admin"`
	Verified     bool   `bson:"verified" json:"verified"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{RoleUser, RoleAdmin}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
