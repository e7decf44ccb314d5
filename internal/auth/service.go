package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/huertohogar/huertohogar/internal/audit"
	"github.com/huertohogar/huertohogar/internal/shared"
)

// Service wraps authentication business rules: login orchestration and the
// change/reset password flows.
type Service struct {
	repo     Repository
	hasher   *Hasher
	tokens   *TokenService
	recorder *audit.Recorder
}

// NewService constructs a new Service. The recorder may be nil.
func NewService(repo Repository, hasher *Hasher, tokens *TokenService, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens, recorder: recorder}
}

// Authenticate validates email/password credentials and issues a session
// token bound to the user's current role. An unknown email, a missing
// credential and a wrong password all fail with the same
// shared.ErrInvalidCredentials so callers cannot probe for registered emails.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, shared.NormalizeEmail(email))
	if err != nil {
		return Identity{}, "", shared.ErrInvalidCredentials
	}
	cred, err := s.repo.FindCredential(ctx, user.ID)
	if err != nil {
		return Identity{}, "", shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, cred.PasswordHash) {
		return Identity{}, "", shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return Identity{}, "", err
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:  user.ID,
		Action:   audit.ActionLogin,
		Entity:   "user",
		EntityID: strconv.FormatInt(user.ID, 10),
	})
	return Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, token, nil
}

// Register creates the credential for a newly created user. The plaintext must
// satisfy the policy; a second credential for the same owner is a conflict.
func (s *Service) Register(ctx context.Context, userID int64, password string) error {
	if !ValidPassword(password) {
		return fmt.Errorf("%w: password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit and one of %s", shared.ErrValidation, specialChars)
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.repo.CreateCredential(ctx, userID, hash)
}

// ChangePassword replaces the stored credential after verifying the old
// password. The new password must satisfy the policy and differ from the
// current one. Nothing is written when any check fails.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	cred, err := s.repo.FindCredential(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, cred.PasswordHash) {
		return shared.ErrInvalidCredentials
	}
	if !ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit and one of %s", shared.ErrValidation, specialChars)
	}
	if s.hasher.Verify(newPassword, cred.PasswordHash) {
		return fmt.Errorf("%w: new password must differ from the current one", shared.ErrValidation)
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceCredential(ctx, userID, hash); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:  userID,
		Action:   audit.ActionPasswordChange,
		Entity:   "credential",
		EntityID: strconv.FormatInt(userID, 10),
	})
	return nil
}

// ResetPassword replaces the stored credential without verifying the old
// password. Reserved for the admin-only reset endpoint; the policy still
// applies.
func (s *Service) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	if !ValidPassword(newPassword) {
		return fmt.Errorf("%w: password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit and one of %s", shared.ErrValidation, specialChars)
	}
	if _, err := s.repo.FindCredential(ctx, userID); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceCredential(ctx, userID, hash); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:  userID,
		Action:   audit.ActionPasswordReset,
		Entity:   "credential",
		EntityID: strconv.FormatInt(userID, 10),
	})
	return nil
}

// RemoveCredential deletes the credential when the owning user is deleted.
// A missing row is not an error here: the user may never have registered one.
func (s *Service) RemoveCredential(ctx context.Context, userID int64) error {
	err := s.repo.DeleteCredential(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}
