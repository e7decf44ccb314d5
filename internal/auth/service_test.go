package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/huertohogar/huertohogar/internal/shared"
)

type mockRepository struct {
	usersByEmail map[string]*UserRecord
	usersByID    map[int64]*UserRecord
	credentials  map[int64]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByEmail: make(map[string]*UserRecord),
		usersByID:    make(map[int64]*UserRecord),
		credentials:  make(map[int64]string),
	}
}

func (m *mockRepository) addUser(id int64, email string, role Role) {
	rec := &UserRecord{ID: id, Email: email, Role: role}
	m.usersByEmail[email] = rec
	m.usersByID[id] = rec
}

func (m *mockRepository) FindUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	rec, ok := m.usersByEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (m *mockRepository) FindUserByID(ctx context.Context, id int64) (*UserRecord, error) {
	rec, ok := m.usersByID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (m *mockRepository) FindCredential(ctx context.Context, userID int64) (*Credential, error) {
	hash, ok := m.credentials[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &Credential{UserID: userID, PasswordHash: hash}, nil
}

func (m *mockRepository) CredentialExists(ctx context.Context, userID int64) (bool, error) {
	_, ok := m.credentials[userID]
	return ok, nil
}

func (m *mockRepository) CreateCredential(ctx context.Context, userID int64, passwordHash string) error {
	if _, ok := m.credentials[userID]; ok {
		return shared.ErrConflict
	}
	m.credentials[userID] = passwordHash
	return nil
}

func (m *mockRepository) ReplaceCredential(ctx context.Context, userID int64, passwordHash string) error {
	if _, ok := m.credentials[userID]; !ok {
		return shared.ErrNotFound
	}
	m.credentials[userID] = passwordHash
	return nil
}

func (m *mockRepository) DeleteCredential(ctx context.Context, userID int64) error {
	if _, ok := m.credentials[userID]; !ok {
		return shared.ErrNotFound
	}
	delete(m.credentials, userID)
	return nil
}

var _ Repository = (*mockRepository)(nil)

func newTestService(repo Repository) *Service {
	hasher := NewHasher(bcrypt.MinCost)
	tokens := NewTokenService(TokenConfig{Secret: "test-secret", TTL: time.Hour})
	return NewService(repo, hasher, tokens, nil)
}

func seedUser(t *testing.T, repo *mockRepository, id int64, email, password string, role Role) {
	t.Helper()
	repo.addUser(id, email, role)
	hash, err := NewHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err)
	repo.credentials[id] = hash
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)

	identity, token, err := svc.Authenticate(context.Background(), "ana@example.com", "Val1dPass!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), identity.UserID)
	assert.Equal(t, RoleUser, identity.Role)

	verified, err := svc.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, verified.UserID)
	assert.Equal(t, identity.Role, verified.Role)
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)

	_, _, err := svc.Authenticate(context.Background(), "  Ana@Example.COM ", "Val1dPass!")
	require.NoError(t, err)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)

	_, _, unknownEmailErr := svc.Authenticate(context.Background(), "nobody@example.com", "Val1dPass!")
	_, _, wrongPasswordErr := svc.Authenticate(context.Background(), "ana@example.com", "WrongPass1!")

	assert.ErrorIs(t, unknownEmailErr, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPasswordErr, shared.ErrInvalidCredentials)
	assert.Equal(t, unknownEmailErr, wrongPasswordErr)
}

func TestAuthenticateMissingCredential(t *testing.T) {
	repo := newMockRepository()
	repo.addUser(1, "ana@example.com", RoleUser)
	svc := newTestService(repo)

	_, _, err := svc.Authenticate(context.Background(), "ana@example.com", "Val1dPass!")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRegisterEnforcesPolicy(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	err := svc.Register(context.Background(), 1, "weak")
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.credentials)

	require.NoError(t, svc.Register(context.Background(), 1, "Val1dPass!"))
	hash := repo.credentials[1]
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "Val1dPass!", hash)
}

func TestRegisterDuplicateCredential(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	require.NoError(t, svc.Register(context.Background(), 1, "Val1dPass!"))
	err := svc.Register(context.Background(), 1, "Other1Pass!")
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestChangePassword(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)
	before := repo.credentials[1]

	require.NoError(t, svc.ChangePassword(context.Background(), 1, "Val1dPass!", "N3wSecret$"))
	assert.NotEqual(t, before, repo.credentials[1])

	_, _, err := svc.Authenticate(context.Background(), "ana@example.com", "N3wSecret$")
	require.NoError(t, err)
}

func TestChangePasswordWrongOldLeavesCredentialUntouched(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)
	before := repo.credentials[1]

	err := svc.ChangePassword(context.Background(), 1, "WrongOld1!", "N3wSecret$")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
	assert.Equal(t, before, repo.credentials[1])
}

func TestChangePasswordRejectsSameAsOld(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)
	before := repo.credentials[1]

	err := svc.ChangePassword(context.Background(), 1, "Val1dPass!", "Val1dPass!")
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, before, repo.credentials[1])
}

func TestChangePasswordRejectsWeakNew(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)
	before := repo.credentials[1]

	err := svc.ChangePassword(context.Background(), 1, "Val1dPass!", "weak")
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, before, repo.credentials[1])
}

func TestResetPasswordSkipsOldVerification(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)

	require.NoError(t, svc.ResetPassword(context.Background(), 1, "N3wSecret$"))

	_, _, err := svc.Authenticate(context.Background(), "ana@example.com", "N3wSecret$")
	require.NoError(t, err)
}

func TestResetPasswordStillEnforcesPolicy(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	svc := newTestService(repo)

	err := svc.ResetPassword(context.Background(), 1, "weak")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestResetPasswordMissingCredential(t *testing.T) {
	repo := newMockRepository()
	repo.addUser(1, "ana@example.com", RoleUser)
	svc := newTestService(repo)

	err := svc.ResetPassword(context.Background(), 1, "N3wSecret$")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRemoveCredentialToleratesMissingRow(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	assert.NoError(t, svc.RemoveCredential(context.Background(), 99))
}
