package models

import "time"

// Customer is the storefront account entity. The id is assigned by the
// store at insert time and never changes afterwards.
type Customer struct {
	ID              int       `bson:"_id,omitempty" json:"id"`
	FirstName       string    `bson:"firstName" json:"firstName"`
	LastName        string    `bson:"lastName" json:"lastName"`
	Email           string    `bson:"email" json:"email"`
	PasswordHash    string    `bson:"passwordHash" json:"-"`
	MustReset       bool      `bson:"mustReset" json:"mustReset"`
	PasswordConfirm string    `bson:"-" json:"passwordConfirm,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}
