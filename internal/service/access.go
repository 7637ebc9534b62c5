package service

import (
	"context"
	"log"

	"storefront-backend/internal/apperrors"
	"storefront-backend/internal/models"
	"storefront-backend/internal/security"
	"storefront-backend/internal/session"
)

// Destination is a named redirect target. The HTTP layer maps these to
// actual paths.
type Destination string

const (
	DestinationStorefront     Destination = "storefront"
	DestinationLogin          Destination = "login"
	DestinationChangePassword Destination = "change-password"
)

// Outcome is the user-visible result of an access flow: a redirect to a
// named destination, or a redisplay carrying one rejection. Exactly one of
// the two is set.
type Outcome struct {
	Redirect Destination
	Reject   *apperrors.DomainError
}

func (o Outcome) Rejected() bool {
	return o.Reject != nil
}

func redirect(d Destination) Outcome {
	return Outcome{Redirect: d}
}

func reject(err *apperrors.DomainError) Outcome {
	return Outcome{Reject: err}
}

// LoginResult pairs the outcome with the session side effects of a
// successful login. Token and Customer are set only on the redirect path.
type LoginResult struct {
	Outcome  Outcome
	Token    string
	Session  session.Session
	Customer *models.Customer
}

// AccessService orchestrates the login, registration and change-password
// flows: it turns AccountService results into session side effects and
// user-visible outcomes. All rejection paths are pure; collaborator
// failures are returned as ordinary errors, never as outcomes.
type AccessService struct {
	Accounts *AccountService
	Auth     session.Authenticator
	Hasher   security.PasswordHasher
}

func NewAccessService(accounts *AccountService, auth session.Authenticator, hasher security.PasswordHasher) *AccessService {
	return &AccessService{Accounts: accounts, Auth: auth, Hasher: hasher}
}

// Login checks the credentials and, on a match, establishes the
// authenticated session. A repeated identical login simply re-authenticates.
// Customers flagged for reset get the marker on their fresh session and are
// sent to the change-password entry instead of the storefront.
func (s *AccessService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	hashed := s.Hasher.Hash(password)

	customer, err := s.Accounts.FindByCredentials(ctx, email, hashed)
	if err != nil {
		return LoginResult{}, err
	}
	if customer == nil {
		log.Println("[ACCESS] [INFO] login rejected for", email)
		return LoginResult{Outcome: reject(apperrors.Credentials("Email or password is incorrect"))}, nil
	}

	token, sess, err := s.Auth.SignIn(ctx, customer.ID, session.Claims{
		Email:    customer.Email,
		FullName: customer.FirstName + " " + customer.LastName,
	})
	if err != nil {
		return LoginResult{}, err
	}

	dest := DestinationStorefront
	if customer.MustReset {
		sess.Set(session.ResetMarkerKey, "1")
		if err := sess.Save(ctx); err != nil {
			return LoginResult{}, err
		}
		dest = DestinationChangePassword
	}

	log.Println("[ACCESS] [INFO] login succeeded for customer", customer.ID)
	return LoginResult{
		Outcome:  redirect(dest),
		Token:    token,
		Session:  sess,
		Customer: customer,
	}, nil
}

// Register validates the password confirmation before delegating; on a
// mismatch the account service is never invoked. The candidate's
// PasswordHash field carries the plain password on the way in and is
// replaced with its comparable form before delegation.
func (s *AccessService) Register(ctx context.Context, candidate models.Customer) (Outcome, error) {
	if candidate.PasswordHash != candidate.PasswordConfirm {
		return reject(apperrors.Validation("Passwords do not match. Please make sure both passwords are the same.")), nil
	}

	if candidate.PasswordHash != "" {
		candidate.PasswordHash = s.Hasher.Hash(candidate.PasswordHash)
	}
	candidate.PasswordConfirm = ""

	id, err := s.Accounts.Register(ctx, candidate)
	if err != nil {
		if de, ok := apperrors.AsDomain(err); ok {
			return reject(de), nil
		}
		return Outcome{}, err
	}

	log.Println("[ACCESS] [INFO] customer registered with id", id)
	return redirect(DestinationLogin), nil
}

// ChangePassword verifies the confirmation and the current password, then
// delegates the write. On success the session's reset marker is cleared.
// Every rejection path leaves the store and the session untouched.
func (s *AccessService) ChangePassword(ctx context.Context, sess session.Session, id int, currentPassword, newPassword, newPasswordConfirm string) (Outcome, error) {
	if newPassword != newPasswordConfirm {
		return reject(apperrors.Validation("Passwords do not match. Please make sure both passwords are the same.")), nil
	}

	customer, err := s.Accounts.FindByID(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if customer == nil {
		return reject(apperrors.NotFound("Customer not found")), nil
	}
	if s.Hasher.Hash(currentPassword) != customer.PasswordHash {
		log.Println("[ACCESS] [INFO] change-password rejected for customer", id)
		return reject(apperrors.Credentials("Current password is incorrect")), nil
	}

	if err := s.Accounts.ChangePassword(ctx, id, s.Hasher.Hash(newPassword)); err != nil {
		if de, ok := apperrors.AsDomain(err); ok {
			return reject(de), nil
		}
		return Outcome{}, err
	}

	if sess != nil {
		if _, ok := sess.Get(session.ResetMarkerKey); ok {
			sess.Delete(session.ResetMarkerKey)
			if err := sess.Save(ctx); err != nil {
				return Outcome{}, err
			}
		}
	}

	log.Println("[ACCESS] [INFO] password changed for customer", id)
	return redirect(DestinationStorefront), nil
}
