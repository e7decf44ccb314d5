package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/huertohogar/huertohogar/internal/audit"
	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/shared"
)

// CredentialManager is the slice of the auth service the users module needs.
type CredentialManager interface {
	Register(ctx context.Context, userID int64, password string) error
	RemoveCredential(ctx context.Context, userID int64) error
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	creds    CredentialManager
	recorder *audit.Recorder
	logger   *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, creds CredentialManager, recorder *audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, creds: creds, recorder: recorder, logger: logger}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName       string
	MiddleName      string
	PaternalSurname string
	MaternalSurname string
	RUT             string
	DV              string
	BirthDate       time.Time
	RegionID        int64
	Address         string
	Email           string
	Phone           string
	Password        string
}

// ProfileInput carries the full-update payload. Role and password are not
// part of it.
type ProfileInput struct {
	FirstName       string
	MiddleName      string
	PaternalSurname string
	MaternalSurname string
	RUT             string
	DV              string
	BirthDate       time.Time
	RegionID        int64
	Address         string
	Email           string
	Phone           string
}

// PatchInput carries the partial-update payload; nil fields are left
// untouched. Role and credential are deliberately unreachable from here.
type PatchInput struct {
	FirstName       *string
	MiddleName      *string
	PaternalSurname *string
	MaternalSurname *string
	RUT             *string
	DV              *string
	BirthDate       *time.Time
	RegionID        *int64
	Address         *string
	Email           *string
	Phone           *string
}

// Register creates a user with role USER plus its hashed credential. The
// password policy is checked before anything is written.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validateProfile(input.FirstName, input.PaternalSurname, input.MaternalSurname, input.Email, input.Address); err != nil {
		return nil, err
	}
	if !auth.ValidPassword(input.Password) {
		return nil, fmt.Errorf("%w: password does not satisfy the policy", shared.ErrValidation)
	}
	user := &User{
		FirstName:       strings.TrimSpace(input.FirstName),
		MiddleName:      strings.TrimSpace(input.MiddleName),
		PaternalSurname: strings.TrimSpace(input.PaternalSurname),
		MaternalSurname: strings.TrimSpace(input.MaternalSurname),
		RUT:             strings.TrimSpace(input.RUT),
		DV:              strings.TrimSpace(input.DV),
		BirthDate:       input.BirthDate,
		RegionID:        input.RegionID,
		Address:         strings.TrimSpace(input.Address),
		Email:           shared.NormalizeEmail(input.Email),
		Phone:           strings.TrimSpace(input.Phone),
		Role:            auth.RoleUser,
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	if err := s.creds.Register(ctx, id, input.Password); err != nil {
		// Keep user and credential in step: roll the user row back when the
		// credential cannot be stored.
		if delErr := s.repo.Delete(ctx, id); delErr != nil && s.logger != nil {
			s.logger.Error("rollback user after credential failure",
				slog.Int64("user_id", id), slog.Any("error", delErr))
		}
		return nil, err
	}
	return user, nil
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	list, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(p.Page, p.PerPage, total), nil
}

// Get fetches one user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a user id refers to a stored user.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PublicName returns only the first name, for the public lookup endpoint.
func (s *Service) PublicName(ctx context.Context, id int64) (string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.FirstName, nil
}

// Update replaces all profile fields of an existing user.
func (s *Service) Update(ctx context.Context, id int64, input ProfileInput) (*User, error) {
	if err := validateProfile(input.FirstName, input.PaternalSurname, input.MaternalSurname, input.Email, input.Address); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(input.FirstName)
	user.MiddleName = strings.TrimSpace(input.MiddleName)
	user.PaternalSurname = strings.TrimSpace(input.PaternalSurname)
	user.MaternalSurname = strings.TrimSpace(input.MaternalSurname)
	user.RUT = strings.TrimSpace(input.RUT)
	user.DV = strings.TrimSpace(input.DV)
	user.BirthDate = input.BirthDate
	user.RegionID = input.RegionID
	user.Address = strings.TrimSpace(input.Address)
	user.Email = shared.NormalizeEmail(input.Email)
	user.Phone = strings.TrimSpace(input.Phone)
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Patch applies only the provided profile fields.
func (s *Service) Patch(ctx context.Context, id int64, input PatchInput) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, fmt.Errorf("%w: first name must not be empty", shared.ErrValidation)
		}
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.MiddleName != nil {
		user.MiddleName = strings.TrimSpace(*input.MiddleName)
	}
	if input.PaternalSurname != nil {
		if strings.TrimSpace(*input.PaternalSurname) == "" {
			return nil, fmt.Errorf("%w: paternal surname must not be empty", shared.ErrValidation)
		}
		user.PaternalSurname = strings.TrimSpace(*input.PaternalSurname)
	}
	if input.MaternalSurname != nil {
		if strings.TrimSpace(*input.MaternalSurname) == "" {
			return nil, fmt.Errorf("%w: maternal surname must not be empty", shared.ErrValidation)
		}
		user.MaternalSurname = strings.TrimSpace(*input.MaternalSurname)
	}
	if input.RUT != nil {
		user.RUT = strings.TrimSpace(*input.RUT)
	}
	if input.DV != nil {
		user.DV = strings.TrimSpace(*input.DV)
	}
	if input.BirthDate != nil {
		user.BirthDate = *input.BirthDate
	}
	if input.RegionID != nil {
		user.RegionID = *input.RegionID
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.Email != nil {
		if strings.TrimSpace(*input.Email) == "" {
			return nil, fmt.Errorf("%w: email must not be empty", shared.ErrValidation)
		}
		user.Email = shared.NormalizeEmail(*input.Email)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and its credential.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.creds.RemoveCredential(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.Event{
		ActorID:  actorID,
		Action:   audit.ActionUserDelete,
		Entity:   "user",
		EntityID: strconv.FormatInt(id, 10),
	})
	return nil
}

// Promote raises a user to ADMIN.
func (s *Service) Promote(ctx context.Context, id int64, actorID int64) (*User, error) {
	return s.setRole(ctx, id, auth.RoleAdmin, actorID, audit.ActionUserPromote)
}

// Demote lowers a user to USER.
func (s *Service) Demote(ctx context.Context, id int64, actorID int64) (*User, error) {
	return s.setRole(ctx, id, auth.RoleUser, actorID, audit.ActionUserDemote)
}

func (s *Service) setRole(ctx context.Context, id int64, role auth.Role, actorID int64, action string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Role = role
	s.recorder.Record(ctx, audit.Event{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(id, 10),
	})
	return user, nil
}

func validateProfile(firstName, paternal, maternal, email, address string) error {
	switch {
	case strings.TrimSpace(firstName) == "":
		return fmt.Errorf("%w: first name is required", shared.ErrValidation)
	case strings.TrimSpace(paternal) == "":
		return fmt.Errorf("%w: paternal surname is required", shared.ErrValidation)
	case strings.TrimSpace(maternal) == "":
		return fmt.Errorf("%w: maternal surname is required", shared.ErrValidation)
	case strings.TrimSpace(email) == "":
		return fmt.Errorf("%w: email is required", shared.ErrValidation)
	case strings.TrimSpace(address) == "":
		return fmt.Errorf("%w: address is required", shared.ErrValidation)
	}
	return nil
}
