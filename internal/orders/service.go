package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// UserChecker is the slice of the users service the orders module needs.
type UserChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Service handles order business logic.
type Service struct {
	repo  RepositoryPort
	users UserChecker
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, users UserChecker) *Service {
	return &Service{repo: repo, users: users}
}

// Input carries the mutable fields of an order.
type Input struct {
	UserID          int64
	OrderDate       time.Time
	Status          string
	Total           float64
	ShippingAddress string
}

// PatchInput carries optional field updates; nil fields are left as is.
type PatchInput struct {
	UserID          *int64
	OrderDate       *time.Time
	Status          *string
	Total           *float64
	ShippingAddress *string
}

// List returns every stored order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// ListByUser returns the orders placed by one user.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get fetches one order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new order. A zero order date defaults to today.
func (s *Service) Create(ctx context.Context, input Input) (*Order, error) {
	if input.OrderDate.IsZero() {
		input.OrderDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	order := Order{
		UserID:          input.UserID,
		OrderDate:       input.OrderDate,
		Status:          strings.TrimSpace(input.Status),
		Total:           input.Total,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
	}
	id, err := s.repo.Create(ctx, &order)
	if err != nil {
		return nil, err
	}
	order.ID = id
	return &order, nil
}

// Update replaces all mutable fields of an existing order.
func (s *Service) Update(ctx context.Context, id int64, input Input) (*Order, error) {
	if input.OrderDate.IsZero() {
		return nil, fmt.Errorf("%w: order date is required", shared.ErrValidation)
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	order := Order{
		ID:              id,
		UserID:          input.UserID,
		OrderDate:       input.OrderDate,
		Status:          strings.TrimSpace(input.Status),
		Total:           input.Total,
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
	}
	if err := s.repo.Update(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Patch applies only the provided fields to an existing order.
func (s *Service) Patch(ctx context.Context, id int64, patch PatchInput) (*Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserID != nil {
		if err := s.checkUser(ctx, *patch.UserID); err != nil {
			return nil, err
		}
		order.UserID = *patch.UserID
	}
	if patch.OrderDate != nil {
		order.OrderDate = *patch.OrderDate
	}
	if patch.Status != nil {
		status := strings.TrimSpace(*patch.Status)
		if status == "" {
			return nil, fmt.Errorf("%w: status cannot be empty", shared.ErrValidation)
		}
		order.Status = status
	}
	if patch.Total != nil {
		if *patch.Total <= 0 {
			return nil, fmt.Errorf("%w: total must be greater than 0", shared.ErrValidation)
		}
		order.Total = *patch.Total
	}
	if patch.ShippingAddress != nil {
		address := strings.TrimSpace(*patch.ShippingAddress)
		if address == "" {
			return nil, fmt.Errorf("%w: shipping address cannot be empty", shared.ErrValidation)
		}
		order.ShippingAddress = address
	}
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes an order by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(ctx context.Context, input Input) error {
	if input.UserID <= 0 {
		return fmt.Errorf("%w: user is required", shared.ErrValidation)
	}
	if err := s.checkUser(ctx, input.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(input.Status) == "" {
		return fmt.Errorf("%w: status is required", shared.ErrValidation)
	}
	if input.Total <= 0 {
		return fmt.Errorf("%w: total must be greater than 0", shared.ErrValidation)
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", shared.ErrValidation)
	}
	return nil
}

func (s *Service) checkUser(ctx context.Context, userID int64) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user %d does not exist", shared.ErrValidation, userID)
	}
	return nil
}
