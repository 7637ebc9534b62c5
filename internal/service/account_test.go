package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-backend/internal/apperrors"
	"storefront-backend/internal/models"
	"storefront-backend/internal/service"
	"storefront-backend/internal/store"
)

// fakeStore is an in-memory CustomerStore. It mimics the real store's
// unique-email constraint so the registration race path is exercisable.
type fakeStore struct {
	customers []models.Customer
	nextID    int
	inserts   int
	updates   int
	err       error
}

func newFakeStore(seed ...models.Customer) *fakeStore {
	s := &fakeStore{}
	for _, c := range seed {
		if c.ID > s.nextID {
			s.nextID = c.ID
		}
		s.customers = append(s.customers, c)
	}
	return s
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.customers {
		if s.customers[i].Email == email {
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByCredentials(_ context.Context, email, passwordHash string) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.customers {
		if s.customers[i].Email == email && s.customers[i].PasswordHash == passwordHash {
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByID(_ context.Context, id int) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.customers {
		if s.customers[i].ID == id {
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Insert(_ context.Context, customer *models.Customer) (int, error) {
	s.inserts++
	if s.err != nil {
		return 0, s.err
	}
	for i := range s.customers {
		if s.customers[i].Email == customer.Email {
			return 0, store.ErrDuplicateEmail
		}
	}
	s.nextID++
	customer.ID = s.nextID
	s.customers = append(s.customers, *customer)
	return customer.ID, nil
}

func (s *fakeStore) Update(_ context.Context, customer *models.Customer) error {
	s.updates++
	if s.err != nil {
		return s.err
	}
	for i := range s.customers {
		if s.customers[i].ID == customer.ID {
			s.customers[i] = *customer
			return nil
		}
	}
	return errors.New("update: customer not found")
}

func (s *fakeStore) ListAll(_ context.Context) ([]models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

// seedCustomers matches the fixture data the flows are specified against.
func seedCustomers() []models.Customer {
	return []models.Customer{
		{ID: 1, FirstName: "Mario", LastName: "Martinez", Email: "test1@example.com", PasswordHash: "hashedpassword1", MustReset: false},
		{ID: 2, FirstName: "Jose", LastName: "Almonte", Email: "test2@example.com", PasswordHash: "hashedpassword2", MustReset: false},
	}
}

func TestRegisterAssignsIDForNewCustomer(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	id, err := svc.Register(context.Background(), models.Customer{
		FirstName:    "Luisa",
		LastName:     "Lopez",
		Email:        "luisa@example.com",
		PasswordHash: "password123",
	})

	require.NoError(t, err)
	assert.Greater(t, id, 0)
	assert.Len(t, st.customers, 3)
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	id, err := svc.Register(context.Background(), models.Customer{
		FirstName:    "jose",
		LastName:     "Lopez",
		Email:        "test1@example.com",
		PasswordHash: "password123",
	})

	require.Error(t, err)
	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.KindConflict, de.Kind)
	assert.Equal(t, "The email 'test1@example.com' is already registered.", de.Message)
	assert.Equal(t, 0, id)
	assert.Len(t, st.customers, 2)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	st := newFakeStore()
	svc := service.NewAccountService(st)

	for _, candidate := range []models.Customer{
		{Email: "", PasswordHash: "pw"},
		{Email: "a@example.com", PasswordHash: ""},
	} {
		id, err := svc.Register(context.Background(), candidate)
		de, ok := apperrors.AsDomain(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.KindValidation, de.Kind)
		assert.Equal(t, 0, id)
	}
	assert.Equal(t, 0, st.inserts)
}

// raceStore simulates losing the check-then-insert race: the pre-check sees
// nothing, but the store's unique index rejects the insert.
type raceStore struct {
	*fakeStore
}

func (s *raceStore) FindByEmail(context.Context, string) (*models.Customer, error) {
	return nil, nil
}

func TestRegisterLostRaceMapsToDuplicateOutcome(t *testing.T) {
	st := &raceStore{fakeStore: newFakeStore(seedCustomers()...)}
	svc := service.NewAccountService(st)

	id, err := svc.Register(context.Background(), models.Customer{
		Email:        "test1@example.com",
		PasswordHash: "password123",
	})

	de, ok := apperrors.AsDomain(err)
	require.True(t, ok, "a lost race must surface as the domain outcome, not a store failure")
	assert.Equal(t, "The email 'test1@example.com' is already registered.", de.Message)
	assert.Equal(t, 0, id)
}

func TestFindByCredentials(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	found, err := svc.FindByCredentials(context.Background(), "test1@example.com", "hashedpassword1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Mario", found.FirstName)

	missing, err := svc.FindByCredentials(context.Background(), "test1@example.com", "wronghash")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, 0, st.inserts)
	assert.Equal(t, 0, st.updates)
}

func TestFindByID(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	found, err := svc.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Mario", found.FirstName)

	missing, err := svc.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChangePasswordUpdatesHashAndClearsResetFlag(t *testing.T) {
	seed := seedCustomers()
	seed[0].MustReset = true
	st := newFakeStore(seed...)
	svc := service.NewAccountService(st)

	require.NoError(t, svc.ChangePassword(context.Background(), 1, "newhash123"))

	updated, err := svc.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "newhash123", updated.PasswordHash)
	assert.False(t, updated.MustReset)

	// re-applying the same hash yields the same final state
	require.NoError(t, svc.ChangePassword(context.Background(), 1, "newhash123"))
	again, err := svc.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "newhash123", again.PasswordHash)
	assert.False(t, again.MustReset)
}

func TestChangePasswordUnknownCustomer(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	err := svc.ChangePassword(context.Background(), 99, "newhash123")

	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "Customer not found", de.Message)
	assert.Equal(t, 0, st.updates)
}

func TestCheckResetEligibility(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	require.NoError(t, svc.CheckResetEligibility(context.Background(), 1, "test1@example.com"))

	err := svc.CheckResetEligibility(context.Background(), 1, "wrong.email@example.com")
	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "No customer found with this email address.", de.Message)

	assert.Equal(t, 0, st.updates)
	assert.Equal(t, 0, st.inserts)
}

func TestListReturnsAllCustomers(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	svc := service.NewAccountService(st)

	customers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	empty, err := service.NewAccountService(newFakeStore()).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreFailurePropagatesUntranslated(t *testing.T) {
	st := newFakeStore(seedCustomers()...)
	st.err = errors.New("store unavailable")
	svc := service.NewAccountService(st)

	_, err := svc.FindByCredentials(context.Background(), "test1@example.com", "hashedpassword1")
	require.Error(t, err)
	_, isDomain := apperrors.AsDomain(err)
	assert.False(t, isDomain, "a store outage must never look like a domain outcome")
}
