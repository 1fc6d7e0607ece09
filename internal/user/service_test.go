package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/services/internal/events"
)

type memRepo struct {
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*User)}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrAlreadyExist
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *User, updatePassword bool) error {
	existing, ok := m.users[u.ID]
	if !ok {
		return nil // mirrors the SQL no-op on a missing row
	}
	if u.Username != "" {
		existing.Username = u.Username
	}
	if u.Email != "" {
		existing.Email = u.Email
	}
	if updatePassword {
		existing.PasswordHash = u.PasswordHash
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func TestRegister_EmitsEvent(t *testing.T) {
	repo := newMemRepo()
	rec := events.NewRecorder()
	svc := NewService(repo, rec)

	u, err := svc.Register(context.Background(), "jdoe", "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash, "password must be hashed")

	evts := rec.ByTopic(events.TopicUserRegistered)
	require.Len(t, evts, 1)
	payload := evts[0].Payload.(events.UserRegistered)
	assert.Equal(t, u.ID, payload.UserID)
	assert.Equal(t, "jdoe", payload.Username)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(newMemRepo(), events.NewRecorder())

	_, err := svc.Register(context.Background(), "", "jdoe@example.com", "pass")
	require.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Register(context.Background(), "jdoe", "", "pass")
	require.ErrorIs(t, err, ErrMissingFields)
	_, err = svc.Register(context.Background(), "jdoe", "jdoe@example.com", "")
	require.ErrorIs(t, err, ErrMissingFields)
}

func TestRegister_Duplicate(t *testing.T) {
	svc := NewService(newMemRepo(), events.NewRecorder())

	_, err := svc.Register(context.Background(), "jdoe", "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "jdoe", "other@example.com", "s3cret-pass")
	require.ErrorIs(t, err, ErrAlreadyExist)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newMemRepo(), events.NewRecorder())

	u, err := svc.Register(context.Background(), "jdoe", "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)

	id, ok, err := svc.Authenticate(context.Background(), "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, u.ID, id)

	_, ok, err = svc.Authenticate(context.Background(), "jdoe@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Authenticate(context.Background(), "nobody@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemRepo(), events.NewRecorder())

	u, err := svc.Register(context.Background(), "jdoe", "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), u.ID), ErrNotFound)
}

func TestUpdate_Partial(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, events.NewRecorder())

	u, err := svc.Register(context.Background(), "jdoe", "jdoe@example.com", "s3cret-pass")
	require.NoError(t, err)
	oldHash := repo.users[u.ID].PasswordHash

	got, err := svc.Update(context.Background(), u.ID, "jdoe2", "", "")
	require.NoError(t, err)
	assert.Equal(t, "jdoe2", got.Username)
	assert.Equal(t, "jdoe@example.com", got.Email, "email must be untouched")
	assert.Equal(t, oldHash, repo.users[u.ID].PasswordHash, "password must be untouched")

	_, err = svc.Update(context.Background(), u.ID, "", "", "new-s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, repo.users[u.ID].PasswordHash)
}
