package entity

import "time"

// Enrollment is an academy application submitted from the public site.
// Create-only.
type Enrollment struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Course     string    `json:"course" bson:"course"`
	Experience string    `json:"experience,omitempty" bson:"experience,omitempty"`
	Motivation string    `json:"motivation,omitempty" bson:"motivation,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}
