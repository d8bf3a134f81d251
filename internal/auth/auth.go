// Package auth implements the single-credential demo login. It issues an
// opaque token and remembers the session in memory; the data core never
// gates any operation on auth state.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/warungpos/warung-pos/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
	LoginTime string `json:"login_time"`
}

// Service checks logins against one configured credential. The password is
// hashed at construction so the plaintext is not kept around.
type Service struct {
	username string
	hash     []byte

	mu    sync.Mutex
	token string
	user  *User
}

func New(username, password string) (*Service, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &Service{username: username, hash: hash}, nil
}

// Login validates the credential pair and issues an opaque token. The error
// is deliberately generic to avoid user enumeration.
func (s *Service) Login(username, password string) (*User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}
	if username != s.username {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	token := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s:%d", username, now.UnixNano())))
	user := &User{
		ID:        domain.NewID("user"),
		Username:  username,
		Email:     username + "@warung.local",
		Role:      "cashier",
		LoginTime: now.Format(time.RFC3339),
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	return user, token, nil
}

func (s *Service) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// User returns the logged-in user, or nil.
func (s *Service) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the current session token, or "".
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}
