package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
)

type fakeNotificationRepository struct {
	byID map[string]*Notification
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{byID: make(map[string]*Notification)}
}

func (r *fakeNotificationRepository) Create(_ context.Context, n *Notification) error {
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()
	stored := *n
	r.byID[n.ID] = &stored
	return nil
}

func (r *fakeNotificationRepository) GetByID(_ context.Context, id string) (*Notification, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *n
	return &copy, nil
}

func (r *fakeNotificationRepository) ListForUser(_ context.Context, userID string, filter Filter) ([]*Notification, int, error) {
	var out []*Notification
	for _, n := range r.byID {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.IsRead {
			continue
		}
		copy := *n
		out = append(out, &copy)
	}
	return out, len(out), nil
}

func (r *fakeNotificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range r.byID {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepository) MarkRead(_ context.Context, id string) error {
	n, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *fakeNotificationRepository) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range r.byID {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func sampleBooking() *booking.Booking {
	return &booking.Booking{
		ID:        uuid.NewString(),
		CourtName: "Court 1",
		VenueName: "Central Gym",
		Date:      time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:00",
	}
}

func TestBookingEvents(t *testing.T) {
	repo := newFakeNotificationRepository()
	svc := NewService(repo)
	ctx := context.Background()

	b := sampleBooking()
	svc.BookingCreated(ctx, "owner-1", b)
	svc.BookingCancelled(ctx, "user-1", b)

	created, total, err := svc.ListForUser(ctx, "owner-1", Filter{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, TypeBookingCreated, created[0].Type)
	assert.False(t, created[0].IsRead)
	require.NotNil(t, created[0].RelatedID)
	assert.Equal(t, b.ID, *created[0].RelatedID)
	assert.Contains(t, created[0].Message, "Court 1")
	assert.Contains(t, created[0].Message, "2026-05-10")

	cancelled, _, err := svc.ListForUser(ctx, "user-1", Filter{})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, TypeBookingCancelled, cancelled[0].Type)
}

func TestMarkRead(t *testing.T) {
	repo := newFakeNotificationRepository()
	svc := NewService(repo)
	ctx := context.Background()

	svc.BookingCreated(ctx, "owner-1", sampleBooking())

	list, _, err := svc.ListForUser(ctx, "owner-1", Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	// Other users must not learn the notification exists.
	err = svc.MarkRead(ctx, id, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.MarkRead(ctx, id, "owner-1"))

	count, err := svc.CountUnread(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Marking twice is a no-op.
	require.NoError(t, svc.MarkRead(ctx, id, "owner-1"))

	err = svc.MarkRead(ctx, "missing", "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepository()
	svc := NewService(repo)
	ctx := context.Background()

	svc.BookingCreated(ctx, "owner-1", sampleBooking())
	svc.BookingCreated(ctx, "owner-1", sampleBooking())
	svc.BookingCreated(ctx, "owner-2", sampleBooking())

	require.NoError(t, svc.MarkAllRead(ctx, "owner-1"))

	count, err := svc.CountUnread(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Other users' notifications are untouched.
	count, err = svc.CountUnread(ctx, "owner-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, _, err := svc.ListForUser(ctx, "owner-2", Filter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}
