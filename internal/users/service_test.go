package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/shared"
)

type mockRepository struct {
	users  map[int64]*User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(m.users), nil
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockRepository) Create(ctx context.Context, user *User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return 0, shared.ErrConflict
		}
	}
	id := m.nextID
	m.nextID++
	clone := *user
	clone.ID = id
	m.users[id] = &clone
	return id, nil
}

func (m *mockRepository) Update(ctx context.Context, user *User) error {
	if _, ok := m.users[user.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockRepository) UpdateRole(ctx context.Context, id int64, role auth.Role) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

var _ RepositoryPort = (*mockRepository)(nil)

type mockCredentials struct {
	registered map[int64]string
	removed    []int64
	failWith   error
}

func newMockCredentials() *mockCredentials {
	return &mockCredentials{registered: make(map[int64]string)}
}

func (m *mockCredentials) Register(ctx context.Context, userID int64, password string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.registered[userID] = password
	return nil
}

func (m *mockCredentials) RemoveCredential(ctx context.Context, userID int64) error {
	m.removed = append(m.removed, userID)
	return nil
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName:       "Ana",
		PaternalSurname: "Rojas",
		MaternalSurname: "Silva",
		RUT:             "12345678",
		DV:              "9",
		BirthDate:       time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		RegionID:        7,
		Address:         "Av. Siempre Viva 123",
		Email:           "ana@example.com",
		Phone:           "+56911112222",
		Password:        "Val1dPass!",
	}
}

func TestRegisterCreatesUserWithCredential(t *testing.T) {
	repo := newMockRepository()
	creds := newMockCredentials()
	svc := NewService(repo, creds, nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, user.Role)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "Val1dPass!", creds.registered[user.ID])
}

func TestRegisterRejectsWeakPasswordBeforeInsert(t *testing.T) {
	repo := newMockRepository()
	creds := newMockCredentials()
	svc := NewService(repo, creds, nil, nil)

	input := validRegisterInput()
	input.Password = "weak"
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.users)
	assert.Empty(t, creds.registered)
}

func TestRegisterRejectsMissingRequiredFields(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	input := validRegisterInput()
	input.FirstName = "  "
	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), validRegisterInput())
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestRegisterRollsBackUserOnCredentialFailure(t *testing.T) {
	repo := newMockRepository()
	creds := newMockCredentials()
	creds.failWith = errors.New("queue unavailable")
	svc := NewService(repo, creds, nil, nil)

	_, err := svc.Register(context.Background(), validRegisterInput())
	require.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestPatchUpdatesOnlyProvidedFields(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	phone := "+56933334444"
	patched, err := svc.Patch(context.Background(), user.ID, PatchInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, patched.Phone)
	assert.Equal(t, user.FirstName, patched.FirstName)
	assert.Equal(t, user.Email, patched.Email)
}

func TestPatchCannotTouchRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	// A full patch of every reachable field still leaves the role alone.
	name := "Beatriz"
	patched, err := svc.Patch(context.Background(), user.ID, PatchInput{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, patched.Role)
}

func TestPatchRejectsEmptyRequiredField(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	empty := "  "
	_, err = svc.Patch(context.Background(), user.ID, PatchInput{Email: &empty})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateReplacesProfile(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), user.ID, ProfileInput{
		FirstName:       "Beatriz",
		PaternalSurname: "Muñoz",
		MaternalSurname: "Lara",
		RUT:             "87654321",
		DV:              "0",
		BirthDate:       time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC),
		RegionID:        3,
		Address:         "Calle Nueva 456",
		Email:           "Bea@Example.com",
		Phone:           "+56955556666",
	})
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", updated.FirstName)
	assert.Equal(t, "bea@example.com", updated.Email)
	assert.Equal(t, auth.RoleUser, updated.Role)
}

func TestDeleteRemovesCredentialAndUser(t *testing.T) {
	repo := newMockRepository()
	creds := newMockCredentials()
	svc := NewService(repo, creds, nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), user.ID, 99))
	assert.Equal(t, []int64{user.ID}, creds.removed)
	assert.Empty(t, repo.users)
}

func TestDeleteUnknownUser(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	err := svc.Delete(context.Background(), 404, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPromoteAndDemote(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	promoted, err := svc.Promote(context.Background(), user.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, promoted.Role)

	// Promoting again is a no-op.
	again, err := svc.Promote(context.Background(), user.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, again.Role)

	demoted, err := svc.Demote(context.Background(), user.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, demoted.Role)
}

func TestExists(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	ok, err := svc.Exists(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPublicName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, newMockCredentials(), nil, nil)

	user, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	name, err := svc.PublicName(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", name)

	_, err = svc.PublicName(context.Background(), 404)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
