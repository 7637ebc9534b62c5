package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/internal/models"
)

// ErrDuplicateEmail reports that the unique index on customers.email
// rejected an insert. Registration maps it to the duplicate-email message.
var ErrDuplicateEmail = errors.New("email already registered")

// CustomerStore defines the persistence methods used by the account service.
type CustomerStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByCredentials(ctx context.Context, email, passwordHash string) (*models.Customer, error)
	FindByID(ctx context.Context, id int) (*models.Customer, error)
	Insert(ctx context.Context, customer *models.Customer) (int, error)
	Update(ctx context.Context, customer *models.Customer) error
	ListAll(ctx context.Context) ([]models.Customer, error)
}

// MongoCustomerStore is the concrete implementation over the customers
// collection. Ids are integers drawn from the counters collection so the
// store, not the caller, assigns them.
type MongoCustomerStore struct {
	DB *mongo.Database
}

func NewMongoCustomerStore(db *mongo.Database) *MongoCustomerStore {
	return &MongoCustomerStore{DB: db}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func (s *MongoCustomerStore) customers() *mongo.Collection {
	return s.DB.Collection("customers")
}

func (s *MongoCustomerStore) findOne(ctx context.Context, filter bson.M) (*models.Customer, error) {
	var customer models.Customer
	if err := s.customers().FindOne(ctx, filter).Decode(&customer); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // not found
		}
		return nil, err
	}
	return &customer, nil
}

// FindByEmail fetches a customer by exact email.
func (s *MongoCustomerStore) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByCredentials fetches the customer whose email and password hash both
// match exactly.
func (s *MongoCustomerStore) FindByCredentials(ctx context.Context, email, passwordHash string) (*models.Customer, error) {
	return s.findOne(ctx, bson.M{"email": email, "passwordHash": passwordHash})
}

// FindByID fetches a customer by id.
func (s *MongoCustomerStore) FindByID(ctx context.Context, id int) (*models.Customer, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// nextSequence returns the next value of the named counter, creating it on
// first use.
func (s *MongoCustomerStore) nextSequence(ctx context.Context, name string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.DB.Collection("counters").FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Insert assigns the next customer id, stamps the timestamps and persists
// the document. A unique-index violation on email comes back as
// ErrDuplicateEmail.
func (s *MongoCustomerStore) Insert(ctx context.Context, customer *models.Customer) (int, error) {
	id, err := s.nextSequence(ctx, "customers")
	if err != nil {
		return 0, err
	}

	now := nowUTC()
	customer.ID = id
	customer.CreatedAt = now
	customer.UpdatedAt = now

	if _, err := s.customers().InsertOne(ctx, customer); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

// Update replaces the stored document for the customer's id.
func (s *MongoCustomerStore) Update(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = nowUTC()
	res, err := s.customers().ReplaceOne(ctx, bson.M{"_id": customer.ID}, customer)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListAll fetches every customer in id order.
func (s *MongoCustomerStore) ListAll(ctx context.Context) ([]models.Customer, error) {
	cursor, err := s.customers().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}
