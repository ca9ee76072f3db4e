package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-booking-backend/internal/clock"
	"github.com/nekogravitycat/venue-booking-backend/internal/court"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

type stubCourtService struct {
	byID  map[string]*court.Court
	order []string
}

func (s *stubCourtService) GetByID(_ context.Context, id string) (*court.Court, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, court.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (s *stubCourtService) ListByVenue(_ context.Context, venueID string, activeOnly bool) ([]*court.Court, error) {
	var out []*court.Court
	for _, id := range s.order {
		c := s.byID[id]
		if c.VenueID != venueID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

func (s *stubCourtService) Update(_ context.Context, _ string, _ court.UpdateRequest) (*court.Court, error) {
	return nil, court.ErrNotFound
}

func (s *stubCourtService) Delete(_ context.Context, _ string) error {
	return court.ErrNotFound
}

type stubVenueService struct {
	byID map[string]*venue.Venue
}

func (s *stubVenueService) Create(_ context.Context, _ venue.CreateRequest) (*venue.Venue, error) {
	return nil, errors.New("not supported")
}

func (s *stubVenueService) GetByID(_ context.Context, id string) (*venue.Venue, error) {
	v, ok := s.byID[id]
	if !ok {
		return nil, venue.ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (s *stubVenueService) List(_ context.Context, _ venue.Filter) ([]*venue.Venue, int, error) {
	return nil, 0, nil
}

func (s *stubVenueService) Update(_ context.Context, _ string, _ venue.UpdateRequest) (*venue.Venue, error) {
	return nil, venue.ErrNotFound
}

func (s *stubVenueService) Delete(_ context.Context, _ string) error {
	return venue.ErrNotFound
}

type notice struct {
	recipientID string
	bookingID   string
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   []notice
	cancelled []notice
}

func (n *recordingNotifier) BookingCreated(_ context.Context, recipientID string, b *Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, notice{recipientID: recipientID, bookingID: b.ID})
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, recipientID string, b *Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, notice{recipientID: recipientID, bookingID: b.ID})
}

type fixture struct {
	repo     MemoryRepository
	service  Service
	notifier *recordingNotifier
	clk      clock.Clock
}

const (
	ownerID     = "owner-1"
	requesterID = "user-1"
	venueID     = "venue-1"
)

var fixedNow = time.Date(2026, 5, 10, 14, 30, 0, 0, time.UTC)

// newFixture wires the service against the in-memory repository with one
// venue owned by ownerID and three courts: a and b active, c inactive.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := NewMemoryRepository()
	repo.RegisterCourt("court-a", "Court A", venueID, "Central Gym", ownerID)
	repo.RegisterCourt("court-b", "Court B", venueID, "Central Gym", ownerID)
	repo.RegisterCourt("court-c", "Court C", venueID, "Central Gym", ownerID)

	courts := &stubCourtService{
		byID: map[string]*court.Court{
			"court-a": {ID: "court-a", VenueID: venueID, VenueName: "Central Gym", Name: "Court A", IsActive: true},
			"court-b": {ID: "court-b", VenueID: venueID, VenueName: "Central Gym", Name: "Court B", IsActive: true},
			"court-c": {ID: "court-c", VenueID: venueID, VenueName: "Central Gym", Name: "Court C", IsActive: false},
		},
		order: []string{"court-a", "court-b", "court-c"},
	}
	venues := &stubVenueService{
		byID: map[string]*venue.Venue{
			venueID: {ID: venueID, OwnerID: ownerID, Name: "Central Gym", IsActive: true},
		},
	}

	notifier := &recordingNotifier{}
	clk := clock.NewFixed(fixedNow)
	return &fixture{
		repo:     repo,
		service:  NewService(repo, courts, venues, notifier, clk),
		notifier: notifier,
		clk:      clk,
	}
}

func (f *fixture) mustCreate(t *testing.T, userID, courtID, start, end string) *Booking {
	t.Helper()
	b, err := f.service.Create(context.Background(), CreateRequest{
		UserID:    userID,
		CourtID:   courtID,
		Date:      fixedNow,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return b
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestCreate(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), CreateRequest{
		UserID:    requesterID,
		CourtID:   "court-a",
		Date:      fixedNow,
		StartTime: "9:00",
		EndTime:   "10:30",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, StatusActive, b.Status)
	assert.Equal(t, "09:00", b.StartTime)
	assert.Equal(t, "10:30", b.EndTime)
	assert.Equal(t, DateOnly(fixedNow), b.Date)
	assert.Equal(t, "Court A", b.CourtName)
	assert.Equal(t, "Central Gym", b.VenueName)
	assert.Equal(t, venueID, b.VenueID)

	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, ownerID, f.notifier.created[0].recipientID)
	assert.Equal(t, b.ID, f.notifier.created[0].bookingID)
}

func TestCreateOverlapRules(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		conflict bool
	}{
		{"identical slot", "10:00", "12:00", true},
		{"nested inside", "10:30", "11:30", true},
		{"overlaps tail", "11:00", "13:00", true},
		{"overlaps head", "09:00", "10:30", true},
		{"covers fully", "09:00", "13:00", true},
		{"touches start", "09:00", "10:00", false},
		{"touches end", "12:00", "13:00", false},
		{"disjoint", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mustCreate(t, requesterID, "court-a", "10:00", "12:00")

			_, err := f.service.Create(context.Background(), CreateRequest{
				UserID:    "user-2",
				CourtID:   "court-a",
				Date:      fixedNow,
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			if tt.conflict {
				assert.ErrorIs(t, err, ErrTimeConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateConflictSuggestions(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, requesterID, "court-a", "10:00", "12:00")

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID:    "user-2",
		CourtID:   "court-a",
		Date:      fixedNow,
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.Error(t, err)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, "court-a", conflictErr.CourtID)
	assert.Equal(t, "10:00", conflictErr.Interval.Start)
	assert.Equal(t, "11:00", conflictErr.Interval.End)

	// Court B is free, court C is inactive and never offered.
	require.Len(t, conflictErr.Suggestions, 1)
	assert.Equal(t, "court-b", conflictErr.Suggestions[0].ID)
	assert.Equal(t, "Court B", conflictErr.Suggestions[0].Name)
	assert.Equal(t, "Central Gym", conflictErr.Suggestions[0].VenueName)

	// Once every active sibling is taken, suggestions run out.
	f.mustCreate(t, "user-3", "court-b", "10:00", "12:00")

	_, err = f.service.Create(context.Background(), CreateRequest{
		UserID:    "user-2",
		CourtID:   "court-a",
		Date:      fixedNow,
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.ErrorAs(t, err, &conflictErr)
	assert.Empty(t, conflictErr.Suggestions)
}

func TestCreateCourtChecks(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID:    requesterID,
		CourtID:   "missing",
		Date:      fixedNow,
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	assert.ErrorIs(t, err, ErrCourtNotFound)

	// Inactive courts are not bookable.
	_, err = f.service.Create(context.Background(), CreateRequest{
		UserID:    requesterID,
		CourtID:   "court-c",
		Date:      fixedNow,
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCreateInvalidTimes(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), CreateRequest{
		UserID:    requesterID,
		CourtID:   "court-a",
		Date:      fixedNow,
		StartTime: "10:70",
		EndTime:   "11:00",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = f.service.Create(context.Background(), CreateRequest{
		UserID:    requesterID,
		CourtID:   "court-a",
		Date:      fixedNow,
		StartTime: "11:00",
		EndTime:   "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestCreateConcurrent(t *testing.T) {
	f := newFixture(t)

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Create(context.Background(), CreateRequest{
				UserID:    requesterID,
				CourtID:   "court-a",
				Date:      fixedNow,
				StartTime: "10:00",
				EndTime:   "11:00",
			})
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrTimeConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
}

func TestUpdateReschedule(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, requesterID, "court-a", "10:00", "12:00")

	// Shifting within the booking's own slot must not conflict with itself.
	updated, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
		StartTime: strPtr("11:00"),
		EndTime:   strPtr("13:00"),
	}, requesterID, false)
	require.NoError(t, err)
	assert.Equal(t, "11:00", updated.StartTime)
	assert.Equal(t, "13:00", updated.EndTime)

	// Moving to another day frees the original slot.
	nextDay := fixedNow.AddDate(0, 0, 1)
	updated, err = f.service.Update(context.Background(), b.ID, UpdateRequest{
		Date: timePtr(nextDay),
	}, requesterID, false)
	require.NoError(t, err)
	assert.Equal(t, DateOnly(nextDay), updated.Date)

	f.mustCreate(t, "user-2", "court-a", "10:00", "12:00")

	// Moving back collides with the new occupant. Update conflicts carry no
	// suggestions.
	_, err = f.service.Update(context.Background(), b.ID, UpdateRequest{
		Date: timePtr(fixedNow),
	}, requesterID, false)
	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Empty(t, conflictErr.Suggestions)
}

func TestUpdatePermissions(t *testing.T) {
	t.Run("stranger cannot touch a booking", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		_, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCancelled)),
		}, "stranger", false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("requester may cancel their own booking", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		updated, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCancelled)),
		}, requesterID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)

		// Venue owner hears about the cancellation.
		require.Len(t, f.notifier.cancelled, 1)
		assert.Equal(t, ownerID, f.notifier.cancelled[0].recipientID)
	})

	t.Run("requester may not complete their own booking", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		_, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCompleted)),
		}, requesterID, false)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("venue owner may complete", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		updated, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCompleted)),
		}, ownerID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, updated.Status)
	})

	t.Run("owner cancelling notifies the requester", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		_, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCancelled)),
		}, ownerID, false)
		require.NoError(t, err)

		require.Len(t, f.notifier.cancelled, 1)
		assert.Equal(t, requesterID, f.notifier.cancelled[0].recipientID)
	})

	t.Run("sysadmin may complete any booking", func(t *testing.T) {
		f := newFixture(t)
		b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

		updated, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
			Status: strPtr(string(StatusCompleted)),
		}, "admin", true)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, updated.Status)
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

	_, err := f.service.Update(context.Background(), b.ID, UpdateRequest{
		Status: strPtr("postponed"),
	}, requesterID, false)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.service.Update(context.Background(), b.ID, UpdateRequest{
		Status: strPtr(string(StatusCancelled)),
	}, requesterID, false)
	require.NoError(t, err)

	// Terminal statuses stay terminal.
	_, err = f.service.Update(context.Background(), b.ID, UpdateRequest{
		Status: strPtr(string(StatusActive)),
	}, ownerID, false)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.service.Update(context.Background(), b.ID, UpdateRequest{
		Status: strPtr(string(StatusCompleted)),
	}, ownerID, false)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")

	err := f.service.Delete(context.Background(), b.ID, "stranger", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	err = f.service.Delete(context.Background(), b.ID, requesterID, false)
	require.NoError(t, err)

	_, err = f.service.GetByID(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.service.Delete(context.Background(), b.ID, requesterID, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceHasConflict(t *testing.T) {
	f := newFixture(t)
	b := f.mustCreate(t, requesterID, "court-a", "10:00", "12:00")

	got, err := f.service.HasConflict(context.Background(), "court-a", fixedNow, "11:00", "13:00", "")
	require.NoError(t, err)
	assert.True(t, got)

	// The booking itself can be excluded, e.g. when probing a reschedule.
	got, err = f.service.HasConflict(context.Background(), "court-a", fixedNow, "11:00", "13:00", b.ID)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = f.service.HasConflict(context.Background(), "court-a", fixedNow, "12:00", "13:00", "")
	require.NoError(t, err)
	assert.False(t, got)

	_, err = f.service.HasConflict(context.Background(), "court-a", fixedNow, "13:00", "12:00", "")
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestFindAvailable(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, requesterID, "court-a", "10:00", "12:00")

	courts, err := f.service.FindAvailable(context.Background(), venueID, fixedNow, "10:00", "11:00", "")
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "court-b", courts[0].ID)

	// A free interval offers every active court.
	courts, err = f.service.FindAvailable(context.Background(), venueID, fixedNow, "14:00", "15:00", "")
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, "court-a", courts[0].ID)
	assert.Equal(t, "court-b", courts[1].ID)

	courts, err = f.service.FindAvailable(context.Background(), venueID, fixedNow, "14:00", "15:00", "court-a")
	require.NoError(t, err)
	require.Len(t, courts, 1)
	assert.Equal(t, "court-b", courts[0].ID)
}

func TestOwnerSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := DateOnly(fixedNow)
	seed := func(date time.Time, start, end string, status Status) {
		t.Helper()
		require.NoError(t, f.repo.Create(ctx, &Booking{
			CourtID:   "court-a",
			UserID:    requesterID,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Status:    status,
		}))
	}

	seed(today, "10:00", "11:00", StatusActive)
	seed(today.AddDate(0, 0, -30), "10:00", "11:00", StatusCompleted) // window edge, included
	seed(today.AddDate(0, 0, -15), "10:00", "11:00", StatusCancelled)
	seed(today.AddDate(0, 0, -31), "10:00", "11:00", StatusCompleted) // too old
	seed(today.AddDate(0, 0, 1), "10:00", "11:00", StatusActive)      // future, excluded

	summary, err := f.service.OwnerSummary(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Active)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Cancelled)
	assert.Equal(t, summaryWindowDays, summary.PeriodDays)

	// A different owner sees nothing.
	summary, err = f.service.OwnerSummary(ctx, "owner-2")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
}

func TestListForOwner(t *testing.T) {
	f := newFixture(t)
	f.mustCreate(t, requesterID, "court-a", "10:00", "11:00")
	f.mustCreate(t, "user-2", "court-b", "09:00", "10:00")

	bookings, err := f.service.ListForOwner(context.Background(), ownerID, OwnerFilter{})
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	// Same date sorts by start time ascending.
	assert.Equal(t, "09:00", bookings[0].StartTime)
	assert.Equal(t, "10:00", bookings[1].StartTime)

	bookings, err = f.service.ListForOwner(context.Background(), ownerID, OwnerFilter{CourtID: "court-a"})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "court-a", bookings[0].CourtID)

	bookings, err = f.service.ListForOwner(context.Background(), "owner-2", OwnerFilter{})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
