package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
)

// Service manages user notifications and receives booking lifecycle events.
type Service interface {
	ListForUser(ctx context.Context, userID string, filter Filter) ([]*Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead only touches notifications owned by userID.
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error

	booking.Notifier
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForUser(ctx context.Context, userID string, filter Filter) ([]*Notification, int, error) {
	return s.repo.ListForUser(ctx, userID, filter)
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		// Do not reveal other users' notifications.
		return ErrNotFound
	}
	if n.IsRead {
		return nil
	}
	return s.repo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// BookingCreated delivers a new-booking notice. Delivery is best effort;
// failures are logged and never bubble up into the booking flow.
func (s *service) BookingCreated(ctx context.Context, recipientID string, b *booking.Booking) {
	n := &Notification{
		UserID:    recipientID,
		Type:      TypeBookingCreated,
		Title:     "New booking",
		Message:   fmt.Sprintf("%s at %s booked on %s %s-%s", b.CourtName, b.VenueName, b.Date.Format("2006-01-02"), b.StartTime, b.EndTime),
		RelatedID: &b.ID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("warning: failed to deliver booking_created notification: %v", err)
	}
}

// BookingCancelled delivers a cancellation notice, same best-effort rules.
func (s *service) BookingCancelled(ctx context.Context, recipientID string, b *booking.Booking) {
	n := &Notification{
		UserID:    recipientID,
		Type:      TypeBookingCancelled,
		Title:     "Booking cancelled",
		Message:   fmt.Sprintf("%s at %s on %s %s-%s was cancelled", b.CourtName, b.VenueName, b.Date.Format("2006-01-02"), b.StartTime, b.EndTime),
		RelatedID: &b.ID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("warning: failed to deliver booking_cancelled notification: %v", err)
	}
}
