package services

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"filesmanager/internal/apperr"
	"filesmanager/internal/models"
	"filesmanager/internal/repo"
	"filesmanager/internal/session"
)

// AccessController is the authorization gate. It resolves tokens to
// user identities and decides what a given user may see or change.
// Every failure collapses to Unauthorized or NotFound; callers never
// learn which specific check rejected them.
type AccessController struct {
	users    repo.UserStore
	sessions *session.Store
}

func NewAccessController(users repo.UserStore, sessions *session.Store) *AccessController {
	return &AccessController{users: users, sessions: sessions}
}

// Authenticate resolves a session token to a user ID. A missing,
// unknown or expired token all yield the same Unauthorized error.
func (a *AccessController) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.ErrUnauthorized
	}
	userID, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", apperr.ErrUnauthorized
	}
	return userID, nil
}

// AuthorizeCredentials checks an email/password pair against the user
// directory. Missing fields, an unknown email and a wrong password are
// indistinguishable to the caller.
func (a *AccessController) AuthorizeCredentials(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", apperr.ErrUnauthorized
	}
	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperr.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperr.ErrUnauthorized
	}
	return user.ID.Hex(), nil
}

// Login verifies credentials and issues a session token.
func (a *AccessController) Login(ctx context.Context, email, password string) (string, error) {
	userID, err := a.AuthorizeCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	return a.sessions.Issue(ctx, userID)
}

// Logout revokes a session token. Revoking a token that no longer
// exists is surfaced as Unauthorized.
func (a *AccessController) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperr.ErrUnauthorized
	}
	existed, err := a.sessions.Revoke(ctx, token)
	if err != nil {
		return err
	}
	if !existed {
		return apperr.ErrUnauthorized
	}
	return nil
}

// AuthorizeFileRead allows the owner unconditionally and non-owners
// only when the file is public. Everything else is NotFound, never
// Forbidden, so existence is not confirmed to unauthorized callers.
func (a *AccessController) AuthorizeFileRead(userID string, f *models.File) error {
	if f == nil {
		return apperr.ErrNotFound
	}
	if f.UserID == userID || f.IsPublic {
		return nil
	}
	return apperr.ErrNotFound
}

// AuthorizeFileWrite allows mutations only for the owner. Non-owners
// get NotFound regardless of the file's visibility.
func (a *AccessController) AuthorizeFileWrite(userID string, f *models.File) error {
	if f == nil || f.UserID != userID {
		return apperr.ErrNotFound
	}
	return nil
}

// CreateUser registers a new credential record. The password is stored
// only as a bcrypt hash.
func (a *AccessController) CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, apperr.ErrMissingEmail
	}
	if password == "" {
		return nil, apperr.ErrMissingPassword
	}
	existing, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := a.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser loads the record behind an authenticated user ID. A stale
// session pointing at a deleted user yields Unauthorized.
func (a *AccessController) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}
