package session

import "context"

// ResetMarkerKey flags a session whose customer must change their password
// before using the rest of the storefront.
const ResetMarkerKey = "passwordReset"

// Claims are the identity attributes bound to an authenticated principal.
type Claims struct {
	Email    string
	FullName string
}

// Session is the per-client key-value store. Mutations are local until Save.
type Session interface {
	CustomerID() int
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	Save(ctx context.Context) error
}

// Authenticator establishes and resumes authenticated sessions. SignIn is a
// single committed-or-not step: the token is only returned once the session
// is persisted.
type Authenticator interface {
	SignIn(ctx context.Context, customerID int, claims Claims) (token string, sess Session, err error)
	Resume(ctx context.Context, token string) (Session, error)
}
