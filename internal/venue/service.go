package venue

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CreateRequest carries data to create a venue. CourtQuantity individual
// courts are generated alongside it.
type CreateRequest struct {
	OwnerID       string
	Name          string
	Address       string
	District      string
	City          string
	Description   string
	CourtQuantity int
	OpeningTime   string
	ClosingTime   string
	Facilities    []string
	SlotPrices    []SlotPrice
	ContactPhone  string
	ContactEmail  string
}

// UpdateRequest carries data for partial updates. Changing CourtQuantity
// grows or shrinks the court set; shrinking only removes courts that hold
// no bookings.
type UpdateRequest struct {
	Name          *string
	Address       *string
	District      *string
	City          *string
	Description   *string
	CourtQuantity *int
	OpeningTime   *string
	ClosingTime   *string
	Facilities    []string
	SlotPrices    []SlotPrice
	ContactPhone  *string
	ContactEmail  *string
	IsActive      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Venue, error)
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context, filter Filter) ([]*Venue, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Venue, error)
	Delete(ctx context.Context, id string) error
}

// PhotoCleaner removes stored photo files once their rows are gone. The
// photo module satisfies this.
type PhotoCleaner interface {
	RemoveFiles(ctx context.Context, paths []string)
}

type service struct {
	repo    Repository
	cleaner PhotoCleaner
}

func NewService(repo Repository, cleaner PhotoCleaner) Service {
	return &service{repo: repo, cleaner: cleaner}
}

// validateHours checks the "HH:MM" operating-hours pair.
func validateHours(opening, closing string) error {
	layout := "15:04"
	t1, err1 := time.Parse(layout, opening)
	t2, err2 := time.Parse(layout, closing)
	if err1 != nil || err2 != nil {
		return ErrInvalidHours
	}
	if !t1.Before(t2) {
		return ErrInvalidHours
	}
	return nil
}

func validateSlotPrices(prices []SlotPrice) error {
	for _, p := range prices {
		if p.StartTime == "" || p.EndTime == "" || p.Price == "" {
			return ErrInvalidSlotPrice
		}
		if p.StartTime >= p.EndTime {
			return ErrInvalidSlotPrice
		}
	}
	return nil
}

// courtNames generates display names for generated courts, continuing the
// numbering from the current count.
func courtNames(from, to int) []string {
	var names []string
	for i := from + 1; i <= to; i++ {
		names = append(names, fmt.Sprintf("Court %d", i))
	}
	return names
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Venue, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}
	if strings.TrimSpace(req.ContactPhone) == "" {
		return nil, ErrPhoneRequired
	}
	if req.CourtQuantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if err := validateHours(req.OpeningTime, req.ClosingTime); err != nil {
		return nil, err
	}
	if err := validateSlotPrices(req.SlotPrices); err != nil {
		return nil, err
	}

	v := &Venue{
		OwnerID:       req.OwnerID,
		Name:          strings.TrimSpace(req.Name),
		Address:       req.Address,
		District:      req.District,
		City:          req.City,
		Description:   req.Description,
		CourtQuantity: req.CourtQuantity,
		OpeningTime:   req.OpeningTime,
		ClosingTime:   req.ClosingTime,
		Facilities:    req.Facilities,
		SlotPrices:    req.SlotPrices,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		IsActive:      true,
	}

	if err := s.repo.CreateWithCourts(ctx, v, courtNames(0, req.CourtQuantity)); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Venue, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Venue, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		v.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		v.Address = *req.Address
	}
	if req.District != nil {
		v.District = *req.District
	}
	if req.City != nil {
		v.City = *req.City
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.OpeningTime != nil {
		v.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		v.ClosingTime = *req.ClosingTime
	}
	if err := validateHours(v.OpeningTime, v.ClosingTime); err != nil {
		return nil, err
	}
	if req.Facilities != nil {
		v.Facilities = req.Facilities
	}
	if req.SlotPrices != nil {
		if err := validateSlotPrices(req.SlotPrices); err != nil {
			return nil, err
		}
		v.SlotPrices = req.SlotPrices
	}
	if req.ContactPhone != nil {
		if strings.TrimSpace(*req.ContactPhone) == "" {
			return nil, ErrPhoneRequired
		}
		v.ContactPhone = *req.ContactPhone
	}
	if req.ContactEmail != nil {
		v.ContactEmail = *req.ContactEmail
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if req.CourtQuantity != nil {
		if *req.CourtQuantity < 1 {
			return nil, ErrInvalidQuantity
		}
		quantity, err := s.adjustCourts(ctx, v.ID, *req.CourtQuantity)
		if err != nil {
			return nil, err
		}
		v.CourtQuantity = quantity
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// adjustCourts grows or shrinks the venue's court set toward want and
// returns the resulting count. Shrinking skips courts that hold bookings;
// if nothing could be removed the caller gets ErrCourtsStillBooked.
func (s *service) adjustCourts(ctx context.Context, venueID string, want int) (int, error) {
	current, err := s.repo.CountCourts(ctx, venueID)
	if err != nil {
		return 0, err
	}

	switch {
	case want > current:
		if err := s.repo.AddCourts(ctx, venueID, courtNames(current, want)); err != nil {
			return 0, err
		}
		return want, nil
	case want < current:
		removed, err := s.repo.TrimCourts(ctx, venueID, current-want)
		if err != nil {
			return 0, err
		}
		if removed == 0 {
			return 0, ErrCourtsStillBooked
		}
		return current - removed, nil
	default:
		return current, nil
	}
}

func (s *service) Delete(ctx context.Context, id string) error {
	photoPaths, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if s.cleaner != nil && len(photoPaths) > 0 {
		s.cleaner.RemoveFiles(ctx, photoPaths)
	}
	return nil
}
