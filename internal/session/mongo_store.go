package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-backend/internal/models"
)

// ErrNoSession reports an unknown, revoked or expired session token.
var ErrNoSession = errors.New("session not found or expired")

// MongoAuthenticator stores sessions in the sessions collection and issues
// HS256 bearer tokens that reference them.
type MongoAuthenticator struct {
	DB     *mongo.Database
	Secret string
	TTL    time.Duration
}

func NewMongoAuthenticator(db *mongo.Database, secret string, ttl time.Duration) *MongoAuthenticator {
	return &MongoAuthenticator{DB: db, Secret: secret, TTL: ttl}
}

func (a *MongoAuthenticator) sessions() *mongo.Collection {
	return a.DB.Collection("sessions")
}

// SignIn issues the bearer token and persists the session document. The
// token is never handed out unless the document made it to the store.
func (a *MongoAuthenticator) SignIn(ctx context.Context, customerID int, claims Claims) (string, Session, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   customerID,
		"email": claims.Email,
		"name":  claims.FullName,
		"exp":   now.Add(a.TTL).Unix(),
	})
	signed, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", nil, err
	}

	doc := models.Session{
		CustomerID: customerID,
		TokenHash:  hashToken(signed),
		Data:       map[string]string{},
		ExpiresAt:  now.Add(a.TTL),
		Revoked:    false,
		CreatedAt:  now,
	}
	res, err := a.sessions().InsertOne(ctx, doc)
	if err != nil {
		return "", nil, err
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	log.Println("[SESSION] [INFO] session established for customer", customerID)
	return signed, &mongoSession{db: a.DB, doc: doc}, nil
}

// Resume validates the bearer token and loads its live session.
func (a *MongoAuthenticator) Resume(ctx context.Context, token string) (Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(a.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}

	var doc models.Session
	if err := a.sessions().FindOne(ctx, bson.M{
		"tokenHash": hashToken(token),
		"revoked":   false,
	}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, ErrNoSession
	}
	return &mongoSession{db: a.DB, doc: doc}, nil
}

type mongoSession struct {
	db  *mongo.Database
	doc models.Session
}

func (s *mongoSession) CustomerID() int {
	return s.doc.CustomerID
}

func (s *mongoSession) Get(key string) (string, bool) {
	value, ok := s.doc.Data[key]
	return value, ok
}

func (s *mongoSession) Set(key, value string) {
	if s.doc.Data == nil {
		s.doc.Data = map[string]string{}
	}
	s.doc.Data[key] = value
}

func (s *mongoSession) Delete(key string) {
	delete(s.doc.Data, key)
}

func (s *mongoSession) Save(ctx context.Context) error {
	_, err := s.db.Collection("sessions").UpdateByID(ctx, s.doc.ID, bson.M{
		"$set": bson.M{"data": s.doc.Data},
	})
	return err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
