package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session is the persisted per-client session. Data holds the key-value
// pairs scoped to one browser/client session.
type Session struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID int                `bson:"customerId" json:"customerId"`
	TokenHash  string             `bson:"tokenHash" json:"tokenHash"`
	Data       map[string]string  `bson:"data" json:"data"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	Revoked    bool               `bson:"revoked" json:"revoked"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
