package entity

import "time"

// Roles assignable to a User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account able to sign in to the admin area.
// Password holds a bcrypt hash; plaintext is never persisted.
type User struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Sanitized returns a copy safe to serialize to clients (no hash).
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
