package entity

import "time"

// Contact is a lead captured by the public contact form. Create-only.
// Newsletter is a 0/1 flag, kept as an integer for wire compatibility.
type Contact struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Service    string    `json:"service,omitempty" bson:"service,omitempty"`
	Message    string    `json:"message" bson:"message"`
	Newsletter int       `json:"newsletter" bson:"newsletter"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
