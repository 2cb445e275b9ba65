// Package session holds the client's authentication state: the raw token, the
// identity decoded from it, and the durable copy that survives restarts.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"library-client/library"
	"library-client/token"
)

// Authenticator is the part of the API client the session drives.
type Authenticator interface {
	RegisterUser(ctx context.Context, username, password string) (library.AuthResponse, error)
	LoginUser(ctx context.Context, username, password string) (library.AuthResponse, error)
	LoginLibrarian(ctx context.Context, username, password string) (library.AuthResponse, error)
	SetToken(token string)
	ClearToken()
}

// TokenStorage is the single durable slot holding the raw token.
type TokenStorage interface {
	LoadToken() (string, error)
	SaveToken(token string) error
	ClearToken() error
}

// State is the coarse authentication state.
type State int

const (
	StateGuest State = iota
	StateUser
	StateLibrarian
)

func (s State) String() string {
	switch s {
	case StateUser:
		return "user"
	case StateLibrarian:
		return "librarian"
	default:
		return "guest"
	}
}

// Store is the session. It is not safe for concurrent mutation; user actions
// that change it are expected to be serialized.
type Store struct {
	auth    Authenticator
	storage TokenStorage
	codec   *token.Codec
	logger  *slog.Logger

	token    string
	identity *token.Identity
}

// New returns a guest session. Call Init to restore a persisted one.
func New(auth Authenticator, storage TokenStorage, codec *token.Codec, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if codec == nil {
		codec = token.NewCodec(logger)
	}
	return &Store{auth: auth, storage: storage, codec: codec, logger: logger}
}

// Init restores the persisted token. A token that no longer decodes is
// removed from storage and the session stays guest.
func (s *Store) Init(ctx context.Context) error {
	raw, err := s.storage.LoadToken()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if raw == "" {
		return nil
	}
	id, ok := s.codec.Identity(raw)
	if !ok {
		if err := s.storage.ClearToken(); err != nil {
			s.logger.Warn("failed to clear stale session token", "error", err)
		}
		return nil
	}
	s.auth.SetToken(raw)
	s.commit(raw, id)
	s.logger.Debug("session restored", "username", id.Username, "role", id.Role)
	return nil
}

// LoginUser authenticates against the user login endpoint.
func (s *Store) LoginUser(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "login user", s.auth.LoginUser, username, password)
}

// LoginLibrarian authenticates against the librarian login endpoint.
func (s *Store) LoginLibrarian(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "login librarian", s.auth.LoginLibrarian, username, password)
}

// RegisterUser creates a user account and signs in as it.
func (s *Store) RegisterUser(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, "register user", s.auth.RegisterUser, username, password)
}

type authFunc func(ctx context.Context, username, password string) (library.AuthResponse, error)

// authenticate leaves the session untouched unless every step succeeds.
func (s *Store) authenticate(ctx context.Context, action string, call authFunc, username, password string) error {
	if err := (library.Credentials{Username: username, Password: password}).Validate(); err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	resp, err := call(ctx, username, password)
	if err != nil {
		s.logger.Warn("authentication failed", "action", action, "username", username, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
	id, err := token.Decode(resp.Token)
	if err != nil {
		s.logger.Warn("authentication returned an unusable token", "action", action, "username", username, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
	if err := s.storage.SaveToken(resp.Token); err != nil {
		s.logger.Error("failed to persist session", "action", action, "error", err)
		return fmt.Errorf("%s: %w", action, err)
	}
	s.auth.SetToken(resp.Token)
	s.commit(resp.Token, id)
	s.logger.Info("signed in", "username", id.Username, "role", id.Role)
	return nil
}

// Logout drops the session locally. It never fails; storage errors are logged.
func (s *Store) Logout() {
	s.token = ""
	s.identity = nil
	if err := s.storage.ClearToken(); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.auth.ClearToken()
}

func (s *Store) commit(raw string, id token.Identity) {
	s.token = raw
	s.identity = &id
}

// Token returns the raw token, or "" for a guest.
func (s *Store) Token() string { return s.token }

// Identity returns the decoded identity and whether one is present.
func (s *Store) Identity() (token.Identity, bool) {
	if s.identity == nil {
		return token.Identity{}, false
	}
	return *s.identity, true
}

// Role returns the current role, RoleNone for a guest.
func (s *Store) Role() token.Role {
	if s.identity == nil {
		return token.RoleNone
	}
	return s.identity.Role
}

func (s *Store) IsGuest() bool     { return s.token == "" }
func (s *Store) IsUser() bool      { return s.Role() == token.RoleUser }
func (s *Store) IsLibrarian() bool { return s.Role() == token.RoleLibrarian }

func (s *Store) State() State {
	switch s.Role() {
	case token.RoleUser:
		return StateUser
	case token.RoleLibrarian:
		return StateLibrarian
	default:
		return StateGuest
	}
}
