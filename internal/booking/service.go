package booking

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/clock"
	"github.com/nekogravitycat/venue-booking-backend/internal/court"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// summaryWindowDays is the trailing window for owner summary statistics.
const summaryWindowDays = 30

type CreateRequest struct {
	UserID       string
	CourtID      string
	Date         time.Time
	StartTime    string
	EndTime      string
	CustomerName string
}

type UpdateRequest struct {
	Date         *time.Time
	StartTime    *string
	EndTime      *string
	Status       *string
	CustomerName *string
}

// Notifier receives booking lifecycle events. The notification module
// implements it; a nil Notifier disables delivery.
type Notifier interface {
	BookingCreated(ctx context.Context, recipientID string, b *Booking)
	BookingCancelled(ctx context.Context, recipientID string, b *Booking)
}

type Service interface {
	// Create books a court for the interval. On conflict the returned error
	// is a *ConflictError carrying free sibling courts as suggestions.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// Update applies partial changes. Date or time changes are re-validated
	// against the effective values, excluding the booking itself; status
	// changes are not re-validated.
	Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string, isSysAdmin bool) (*Booking, error)
	Delete(ctx context.Context, id string, deleterUserID string, isSysAdmin bool) error

	// HasConflict reports whether the interval overlaps an active booking on
	// the court and date, skipping excludeBookingID if non-empty.
	HasConflict(ctx context.Context, courtID string, date time.Time, start, end, excludeBookingID string) (bool, error)
	// FindAvailable lists the venue's active courts free for the interval,
	// ordered by court id ascending. An empty result means fully booked.
	FindAvailable(ctx context.Context, venueID string, date time.Time, start, end, excludeCourtID string) ([]*court.Court, error)

	ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]*Booking, error)
	OwnerSummary(ctx context.Context, ownerID string) (*Summary, error)
}

type service struct {
	repo         Repository
	courtService court.Service
	venueService venue.Service
	notifier     Notifier
	clk          clock.Clock
}

func NewService(repo Repository, courtService court.Service, venueService venue.Service, notifier Notifier, clk clock.Clock) Service {
	return &service{
		repo:         repo,
		courtService: courtService,
		venueService: venueService,
		notifier:     notifier,
		clk:          clk,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	iv, err := NewInterval(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	crt, err := s.courtService.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, court.ErrNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	if !crt.IsActive {
		return nil, ErrCourtNotFound
	}

	existing, err := s.repo.ListActiveForDate(ctx, crt.ID, iv.Date)
	if err != nil {
		return nil, err
	}
	if hasConflict(existing, iv.Start, iv.End, "") {
		return nil, s.conflict(ctx, crt, iv)
	}

	b := &Booking{
		CourtID:      crt.ID,
		UserID:       req.UserID,
		Date:         iv.Date,
		StartTime:    iv.Start,
		EndTime:      iv.End,
		Status:       StatusActive,
		CustomerName: req.CustomerName,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrTimeConflict) {
			// Lost a race after the pre-check passed; the store's exclusion
			// constraint kept the invariant.
			return nil, s.conflict(ctx, crt, iv)
		}
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, created)
	return created, nil
}

// conflict builds a ConflictError with alternatives from the same venue.
// Suggestion lookup failures are swallowed: the conflict itself is the
// answer, alternatives are best effort.
func (s *service) conflict(ctx context.Context, crt *court.Court, iv Interval) error {
	conflictErr := &ConflictError{CourtID: crt.ID, Interval: iv}

	available, err := s.FindAvailable(ctx, crt.VenueID, iv.Date, iv.Start, iv.End, crt.ID)
	if err != nil {
		return conflictErr
	}
	for _, c := range available {
		conflictErr.Suggestions = append(conflictErr.Suggestions, Alternative{
			ID:        c.ID,
			Name:      c.Name,
			VenueName: c.VenueName,
		})
	}
	return conflictErr
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) HasConflict(ctx context.Context, courtID string, date time.Time, start, end, excludeBookingID string) (bool, error) {
	startNorm, err := NormalizeClock(start)
	if err != nil {
		return false, err
	}
	endNorm, err := NormalizeClock(end)
	if err != nil {
		return false, err
	}
	if startNorm >= endNorm {
		return false, ErrInvalidTimeRange
	}

	existing, err := s.repo.ListActiveForDate(ctx, courtID, date)
	if err != nil {
		return false, err
	}
	return hasConflict(existing, startNorm, endNorm, excludeBookingID), nil
}

func (s *service) FindAvailable(ctx context.Context, venueID string, date time.Time, start, end, excludeCourtID string) ([]*court.Court, error) {
	startNorm, err := NormalizeClock(start)
	if err != nil {
		return nil, err
	}
	endNorm, err := NormalizeClock(end)
	if err != nil {
		return nil, err
	}
	if startNorm >= endNorm {
		return nil, ErrInvalidTimeRange
	}

	// Courts come back ordered by id, which keeps suggestions deterministic.
	courts, err := s.courtService.ListByVenue(ctx, venueID, true)
	if err != nil {
		return nil, err
	}

	available := make([]*court.Court, 0, len(courts))
	for _, c := range courts {
		if c.ID == excludeCourtID {
			continue
		}
		existing, err := s.repo.ListActiveForDate(ctx, c.ID, date)
		if err != nil {
			return nil, err
		}
		if !hasConflict(existing, startNorm, endNorm, "") {
			available = append(available, c)
		}
	}
	return available, nil
}

// isVenueOwner reports whether userID owns the venue.
func (s *service) isVenueOwner(ctx context.Context, venueID, userID string) (bool, error) {
	v, err := s.venueService.GetByID(ctx, venueID)
	if err != nil {
		return false, err
	}
	return v.OwnerID == userID, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, updaterUserID string, isSysAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isBookingOwner := b.UserID == updaterUserID
	isVenueOwner := false
	if !isSysAdmin && !isBookingOwner {
		isVenueOwner, err = s.isVenueOwner(ctx, b.VenueID, updaterUserID)
		if err != nil {
			return nil, err
		}
	}
	if !isSysAdmin && !isBookingOwner && !isVenueOwner {
		return nil, ErrPermissionDenied
	}

	// Effective values: unspecified fields fall back to the stored ones.
	newDate := b.Date
	newStart := b.StartTime
	newEnd := b.EndTime
	timeChanged := false

	if req.Date != nil {
		newDate = *req.Date
		timeChanged = true
	}
	if req.StartTime != nil {
		newStart = *req.StartTime
		timeChanged = true
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
		timeChanged = true
	}

	if timeChanged {
		iv, err := NewInterval(newDate, newStart, newEnd)
		if err != nil {
			return nil, err
		}

		existing, err := s.repo.ListActiveForDate(ctx, b.CourtID, iv.Date)
		if err != nil {
			return nil, err
		}
		// Exclude the booking itself so it never conflicts with its own slot.
		if hasConflict(existing, iv.Start, iv.End, b.ID) {
			return nil, &ConflictError{CourtID: b.CourtID, Interval: iv}
		}

		b.Date = iv.Date
		b.StartTime = iv.Start
		b.EndTime = iv.End
	}

	var cancelledNow bool
	if req.Status != nil {
		st := Status(*req.Status)
		if !ValidStatus(st) {
			return nil, ErrInvalidStatus
		}
		if st != b.Status {
			// completed and cancelled are terminal.
			if b.Status != StatusActive {
				return nil, ErrInvalidStatus
			}
			// A requester may cancel their own booking; marking it completed
			// is the venue owner's (or an admin's) call.
			if isBookingOwner && !isSysAdmin && st != StatusCancelled {
				ownsVenue, err := s.isVenueOwner(ctx, b.VenueID, updaterUserID)
				if err != nil {
					return nil, err
				}
				if !ownsVenue {
					return nil, ErrPermissionDenied
				}
			}
			b.Status = st
			cancelledNow = st == StatusCancelled
		}
	}

	if req.CustomerName != nil {
		b.CustomerName = *req.CustomerName
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, ErrTimeConflict) {
			return nil, &ConflictError{
				CourtID:  b.CourtID,
				Interval: Interval{Date: b.Date, Start: b.StartTime, End: b.EndTime},
			}
		}
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	if cancelledNow {
		s.notifyCancelled(ctx, updaterUserID, updated)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string, deleterUserID string, isSysAdmin bool) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	isBookingOwner := b.UserID == deleterUserID
	isVenueOwner := false
	if !isSysAdmin && !isBookingOwner {
		isVenueOwner, err = s.isVenueOwner(ctx, b.VenueID, deleterUserID)
		if err != nil {
			return err
		}
	}
	if !isSysAdmin && !isBookingOwner && !isVenueOwner {
		return ErrPermissionDenied
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]*Booking, error) {
	return s.repo.ListForOwner(ctx, ownerID, filter)
}

func (s *service) OwnerSummary(ctx context.Context, ownerID string) (*Summary, error) {
	today := DateOnly(s.clk.Now())
	start := today.AddDate(0, 0, -summaryWindowDays)

	list, err := s.repo.ListForOwner(ctx, ownerID, OwnerFilter{
		StartDate: &start,
		EndDate:   &today,
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{PeriodDays: summaryWindowDays}
	for _, b := range list {
		summary.Total++
		switch b.Status {
		case StatusActive:
			summary.Active++
		case StatusCompleted:
			summary.Completed++
		case StatusCancelled:
			summary.Cancelled++
		}
	}
	return summary, nil
}

func (s *service) notifyCreated(ctx context.Context, b *Booking) {
	if s.notifier == nil {
		return
	}
	v, err := s.venueService.GetByID(ctx, b.VenueID)
	if err != nil {
		return
	}
	s.notifier.BookingCreated(ctx, v.OwnerID, b)
}

// notifyCancelled tells the counterpart of the actor: the venue owner when
// the requester cancels, the requester when the owner cancels.
func (s *service) notifyCancelled(ctx context.Context, actorID string, b *Booking) {
	if s.notifier == nil {
		return
	}
	if actorID == b.UserID {
		v, err := s.venueService.GetByID(ctx, b.VenueID)
		if err != nil {
			return
		}
		s.notifier.BookingCancelled(ctx, v.OwnerID, b)
		return
	}
	s.notifier.BookingCancelled(ctx, b.UserID, b)
}
