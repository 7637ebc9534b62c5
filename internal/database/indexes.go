package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureCustomerIndexes creates the unique index on customers.email. This is
// the serialization point for concurrent registrations: two inserts with the
// same email cannot both succeed once it exists.
func EnsureCustomerIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("customers").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureCustomerIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureCustomerIndexes: email index error:", err)
		return err
	}
	log.Println("EnsureCustomerIndexes: email_unique index created")
	return nil
}

// EnsureSessionIndexes creates the token lookup index and the TTL index that
// expires session documents server-side.
func EnsureSessionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("sessions").Indexes()

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "tokenHash", Value: 1}},
		Options: options.Index().
			SetName("tokenHash_unique").
			SetUnique(true),
	}
	expiryIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().
			SetName("expiresAt_ttl").
			SetExpireAfterSeconds(0),
	}

	log.Println("EnsureSessionIndexes: creating session indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{tokenIndex, expiryIndex})
	if err != nil {
		log.Println("EnsureSessionIndexes: session index error:", err)
		return err
	}
	log.Println("EnsureSessionIndexes: session indexes created")
	return nil
}
