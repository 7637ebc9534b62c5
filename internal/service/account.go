package service

import (
	"context"
	"errors"

	"storefront-backend/internal/apperrors"
	"storefront-backend/internal/models"
	"storefront-backend/internal/store"
)

// AccountService enforces the account invariants and is the only writer of
// customer state. Expected outcomes come back as *apperrors.DomainError;
// store failures pass through untouched.
type AccountService struct {
	Store store.CustomerStore
}

func NewAccountService(st store.CustomerStore) *AccountService {
	return &AccountService{Store: st}
}

// FindByCredentials looks up the customer whose email and password hash both
// match exactly. A mismatch is a normal outcome: (nil, nil), never an error.
func (s *AccountService) FindByCredentials(ctx context.Context, email, passwordHash string) (*models.Customer, error) {
	return s.Store.FindByCredentials(ctx, email, passwordHash)
}

// FindByID fetches a customer by id; (nil, nil) when absent.
func (s *AccountService) FindByID(ctx context.Context, id int) (*models.Customer, error) {
	return s.Store.FindByID(ctx, id)
}

// Register validates the candidate and persists it. The store assigns the
// id. The duplicate-email check runs twice: a pre-check for the cheap
// friendly path, and the store's unique index for the concurrent race, whose
// violation is mapped to the same domain outcome.
func (s *AccountService) Register(ctx context.Context, candidate models.Customer) (int, error) {
	if candidate.Email == "" || candidate.PasswordHash == "" {
		return 0, apperrors.Validation("Email and password are required.")
	}

	existing, err := s.Store.FindByEmail(ctx, candidate.Email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, apperrors.Conflict("The email '%s' is already registered.", candidate.Email)
	}

	candidate.MustReset = false
	candidate.PasswordConfirm = ""

	id, err := s.Store.Insert(ctx, &candidate)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return 0, apperrors.Conflict("The email '%s' is already registered.", candidate.Email)
		}
		return 0, err
	}
	return id, nil
}

// ChangePassword overwrites the stored hash and clears the forced-reset
// flag. Re-applying the same hash is a no-op with the same final state.
func (s *AccountService) ChangePassword(ctx context.Context, id int, newPasswordHash string) error {
	customer, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.NotFound("Customer not found")
	}

	customer.PasswordHash = newPasswordHash
	customer.MustReset = false
	return s.Store.Update(ctx, customer)
}

// CheckResetEligibility gates the password-reset flow: the given id and
// email must belong to the same customer. It never mutates anything; the
// actual write happens through ChangePassword.
func (s *AccountService) CheckResetEligibility(ctx context.Context, id int, email string) error {
	customer, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil || customer.Email != email {
		return apperrors.NotFound("No customer found with this email address.")
	}
	return nil
}

// List fetches every customer in id order.
func (s *AccountService) List(ctx context.Context) ([]models.Customer, error) {
	return s.Store.ListAll(ctx)
}
