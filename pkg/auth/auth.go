// Package auth manages maker accounts for the HTTP API.
//
// A maker registers with a name, e-mail and password. Passwords are kept as
// bcrypt hashes only. Logging in issues an opaque bearer token that expires
// after the service's token TTL; the API requires one on every request that
// changes a saved pattern. A maker's e-mail is the owner recorded on the
// patterns they save.
//
// # Usage
//
//	svc := auth.New(auth.Options{})
//	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse")
//	tok, user, err := svc.Login(ctx, "ada@example.com", "correct horse")
//	user, err = svc.Authenticate(ctx, tok.Value)
//
// [Open] keeps the accounts in a JSON file so they survive restarts. Tokens
// always live in memory; a restart logs everyone out.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/deiva0304/BUDS-Crochet/pkg/errors"
)

const (
	// DefaultTokenTTL is how long a login stays valid.
	DefaultTokenTTL = 7 * 24 * time.Hour

	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// User is a registered maker.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token is an issued bearer token.
type Token struct {
	Value     string    `json:"token"`
	UserID    string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Options configures a Service.
type Options struct {
	// TokenTTL defaults to [DefaultTokenTTL].
	TokenTTL time.Duration
	// Cost is the bcrypt cost; values outside bcrypt's range use its default.
	Cost int
}

// Service registers makers and issues tokens. It is safe for concurrent use.
type Service struct {
	path string
	ttl  time.Duration
	cost int
	now  func() time.Time

	mu      sync.RWMutex
	users   map[string]*User // by ID
	byEmail map[string]string
	tokens  map[string]Token
}

// New creates a service that keeps accounts in memory.
func New(opts Options) *Service {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = DefaultTokenTTL
	}
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		opts.Cost = bcrypt.DefaultCost
	}
	return &Service{
		ttl:     opts.TokenTTL,
		cost:    opts.Cost,
		now:     time.Now,
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
		tokens:  make(map[string]Token),
	}
}

// Open creates a service whose accounts are saved to the JSON file at path,
// loading the accounts already there.
func Open(path string, opts Options) (*Service, error) {
	s := New(opts)
	s.path = path
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create users dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []*User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse users file %s", path)
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byEmail[normalizeEmail(u.Email)] = u.ID
	}
	return s, nil
}

// Register creates an account. It fails with ALREADY_EXISTS when the e-mail
// is taken and INVALID_INPUT when a field is unusable.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "name cannot be empty")
	}
	if err := errors.ValidateEmail(email); err != nil {
		return nil, err
	}
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"password must be %d to %d bytes long", minPasswordLength, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "an account for %s already exists", email)
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	if err := s.save(); err != nil {
		delete(s.users, u.ID)
		delete(s.byEmail, email)
		return nil, err
	}
	return u, nil
}

// Login checks the credentials and issues a token. Unknown e-mails and wrong
// passwords fail alike with UNAUTHORIZED.
func (s *Service) Login(ctx context.Context, email, password string) (Token, *User, error) {
	s.mu.RLock()
	u := s.users[s.byEmail[normalizeEmail(email)]]
	s.mu.RUnlock()

	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return Token{}, nil, errors.New(errors.ErrCodeUnauthorized, "invalid email or password")
	}

	value, err := generateToken()
	if err != nil {
		return Token{}, nil, errors.Wrap(errors.ErrCodeInternal, err, "generate token")
	}
	tok := Token{Value: value, UserID: u.ID, ExpiresAt: s.now().Add(s.ttl)}

	s.mu.Lock()
	s.tokens[value] = tok
	s.mu.Unlock()
	return tok, u, nil
}

// Authenticate returns the owner of a live token or fails with UNAUTHORIZED.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok, ok := s.tokens[token]
	if ok && s.now().After(tok.ExpiresAt) {
		delete(s.tokens, token)
		ok = false
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token")
	}
	u, ok := s.users[tok.UserID]
	if !ok {
		delete(s.tokens, token)
		return nil, errors.New(errors.ErrCodeUnauthorized, "invalid or expired token")
	}
	return u, nil
}

// Logout revokes a token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Cleanup drops expired tokens and returns how many were dropped.
func (s *Service) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for v, tok := range s.tokens {
		if now.After(tok.ExpiresAt) {
			delete(s.tokens, v)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup()
		}
	}
}

// save writes every account to the users file. Callers hold mu.
func (s *Service) save() error {
	if s.path == "" {
		return nil
	}
	users := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateToken returns 32 random bytes, URL-safe base64 encoded.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
