package court

import (
	"context"
	"strings"
)

type UpdateRequest struct {
	Name     *string
	IsActive *bool
}

type Service interface {
	GetByID(ctx context.Context, id string) (*Court, error)
	ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]*Court, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Court, error)
	// Delete removes a court permanently. It refuses with ErrHasBookings
	// while any booking still references the court.
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Court, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByVenue(ctx context.Context, venueID string, activeOnly bool) ([]*Court, error) {
	return s.repo.ListByVenue(ctx, venueID, activeOnly)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	busy, err := s.repo.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return ErrHasBookings
	}

	return s.repo.Delete(ctx, id)
}
