package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gripeboard/service-api/internal/user/entity"
	userrepo "github.com/gripeboard/service-api/internal/user/repo"
	"github.com/gripeboard/service-api/pkg/utilities"
)

// SessionTTL is the fixed lifetime of a login session. The cookie max-age is
// derived from the same constant so the two can never drift apart.
const SessionTTL = 30 * 24 * time.Hour

// sessionTokenBytes of entropy per token, base64url encoded on the wire.
const sessionTokenBytes = 32

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingField reports an empty required field.
	ErrMissingField = errors.New("missing required field")
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// UserStore is the slice of user storage the auth service consumes.
type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// SessionStore is the session storage contract.
type SessionStore interface {
	// Rotate deactivates every active session owned by s.UserID and inserts
	// s, atomically. A failure leaves the previous sessions untouched.
	Rotate(ctx context.Context, s *Session) error
	// GetActiveByToken returns the active session matching token joined with
	// its owning user, or sql.ErrNoRows.
	GetActiveByToken(ctx context.Context, token string) (*Session, *entity.User, error)
	// DeactivateByToken clears the active flag for the session matching
	// token. Deactivating an unknown or already-inactive token is a no-op.
	DeactivateByToken(ctx context.Context, token string) error
}

// Service is the session authentication core: credential verification,
// session lifecycle and current-user resolution. It sits between the HTTP
// boundary (Handler) and the store.
type Service struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
}

func NewService(users UserStore, sessions SessionStore, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: bcrypt.DefaultCost}
	}
	return &Service{users: users, sessions: sessions, hasher: hasher}
}

// Register creates a new user and returns its ID. It does not create a
// session; the caller logs in separately. The plaintext password exists only
// on the stack here and is never persisted or logged.
func (s *Service) Register(ctx context.Context, email, password, name string) (string, error) {
	if email == "" || password == "" || name == "" {
		return "", fmt.Errorf("%w: email, password and name are required", ErrMissingField)
	}

	// Pre-check for a friendlier error; the unique index backstops the race
	// between two concurrent registrations and Create maps the violation to
	// the same sentinel.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", userrepo.ErrDuplicateEmail
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{
		ID:           utilities.NewUUID(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}

// Login verifies credentials and issues a fresh session. Per the
// single-active-session invariant, every prior active session for the user
// is deactivated in the same transaction that inserts the new one.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrMissingField)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same error as a wrong password; do not reveal whether the
			// account exists.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:           utilities.NewUUID(),
		UserID:       u.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(SessionTTL),
		IsActive:     true,
	}
	if err := s.sessions.Rotate(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// CurrentUser resolves the acting user from a session token. A missing,
// unknown, inactive or expired token resolves to (nil, nil); anonymous is
// not an error. Expiry is checked lazily at read time and the stale row is left
// as-is. The returned view never carries the password hash.
func (s *Service) CurrentUser(ctx context.Context, token string) (*entity.PublicUser, error) {
	if token == "" {
		return nil, nil
	}
	session, u, err := s.sessions.GetActiveByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		return nil, nil
	}
	return u.Public(), nil
}

// Logout deactivates the session matching token. A missing token is a no-op
// success, and repeating a logout converges on the same end state.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeactivateByToken(ctx, token)
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
