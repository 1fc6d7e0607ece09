package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/shopmesh/services/internal/events"
)

var ErrMissingFields = errors.New("username, email and password are required")

// Service owns the local user records. Token issuance and validation live in
// Keycloak; this service only registers, reads and verifies credentials, and
// announces registrations on auth.user.registered.
type Service struct {
	repo Repository
	pub  events.Publisher
}

func NewService(repo Repository, pub events.Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.pub.Emit(ctx, events.TopicUserRegistered, u.ID, events.UserRegistered{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return u, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes username/email/password; empty fields are left as-is.
func (s *Service) Update(ctx context.Context, id, username, email, password string) (*User, error) {
	updatePassword := false
	var hash string
	if password != "" {
		h, err := HashPassword(password)
		if err != nil {
			return nil, err
		}
		hash = h
		updatePassword = true
	}

	u := &User{ID: id, Username: username, Email: email, PasswordHash: hash}
	if err := s.repo.Update(ctx, u, updatePassword); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Authenticate verifies credentials and returns the user id. A wrong
// password and an unknown email are both reported as ok=false.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, bool, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return "", false, nil
	}
	return u.ID, true, nil
}
