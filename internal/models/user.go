package models

import "time"

// User is the persisted owner account, keyed by the identity provider subject.
// The portfolio is single-admin: any persisted user may edit any content.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	Sub       string    `bson:"sub" json:"sub"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
