package venue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps venues and per-venue court counts in memory. bookedCourts
// caps how many courts TrimCourts may remove, mimicking courts that still hold
// bookings.
type fakeRepository struct {
	venues       map[string]*Venue
	courtCounts  map[string]int
	bookedCourts map[string]int
	photoPaths   map[string][]string
	addedNames   []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		venues:       make(map[string]*Venue),
		courtCounts:  make(map[string]int),
		bookedCourts: make(map[string]int),
		photoPaths:   make(map[string][]string),
	}
}

func (r *fakeRepository) CreateWithCourts(_ context.Context, v *Venue, courtNames []string) error {
	v.ID = uuid.NewString()
	stored := *v
	r.venues[v.ID] = &stored
	r.courtCounts[v.ID] = len(courtNames)
	r.addedNames = append(r.addedNames, courtNames...)
	return nil
}

func (r *fakeRepository) GetByID(_ context.Context, id string) (*Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (r *fakeRepository) List(_ context.Context, _ Filter) ([]*Venue, int, error) {
	return nil, 0, nil
}

func (r *fakeRepository) Update(_ context.Context, v *Venue) error {
	if _, ok := r.venues[v.ID]; !ok {
		return ErrNotFound
	}
	stored := *v
	r.venues[v.ID] = &stored
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) ([]string, error) {
	if _, ok := r.venues[id]; !ok {
		return nil, ErrNotFound
	}
	delete(r.venues, id)
	delete(r.courtCounts, id)
	return r.photoPaths[id], nil
}

func (r *fakeRepository) AddCourts(_ context.Context, venueID string, names []string) error {
	r.courtCounts[venueID] += len(names)
	r.addedNames = append(r.addedNames, names...)
	return nil
}

func (r *fakeRepository) TrimCourts(_ context.Context, venueID string, n int) (int, error) {
	removable := r.courtCounts[venueID] - r.bookedCourts[venueID]
	if removable < 0 {
		removable = 0
	}
	if n > removable {
		n = removable
	}
	r.courtCounts[venueID] -= n
	return n, nil
}

func (r *fakeRepository) CountCourts(_ context.Context, venueID string) (int, error) {
	return r.courtCounts[venueID], nil
}

type recordingCleaner struct {
	removed [][]string
}

func (c *recordingCleaner) RemoveFiles(_ context.Context, paths []string) {
	c.removed = append(c.removed, paths)
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		OwnerID:       "owner-1",
		Name:          "Central Gym",
		Address:       "1 Main St",
		City:          "Taipei",
		District:      "Daan",
		CourtQuantity: 3,
		OpeningTime:   "08:00",
		ClosingTime:   "22:00",
		ContactPhone:  "02-1234-5678",
	}
}

func TestCreate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	v, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.True(t, v.IsActive)
	assert.Equal(t, 3, v.CourtQuantity)
	assert.Equal(t, []string{"Court 1", "Court 2", "Court 3"}, repo.addedNames)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{"blank name", func(r *CreateRequest) { r.Name = "   " }, ErrNameRequired},
		{"blank address", func(r *CreateRequest) { r.Address = "" }, ErrAddressRequired},
		{"blank phone", func(r *CreateRequest) { r.ContactPhone = "" }, ErrPhoneRequired},
		{"zero courts", func(r *CreateRequest) { r.CourtQuantity = 0 }, ErrInvalidQuantity},
		{"malformed opening time", func(r *CreateRequest) { r.OpeningTime = "8am" }, ErrInvalidHours},
		{"closing before opening", func(r *CreateRequest) { r.OpeningTime = "22:00"; r.ClosingTime = "08:00" }, ErrInvalidHours},
		{"opening equals closing", func(r *CreateRequest) { r.OpeningTime = "10:00"; r.ClosingTime = "10:00" }, ErrInvalidHours},
		{
			"slot price missing price",
			func(r *CreateRequest) {
				r.SlotPrices = []SlotPrice{{StartTime: "08:00", EndTime: "12:00"}}
			},
			ErrInvalidSlotPrice,
		},
		{
			"slot price inverted range",
			func(r *CreateRequest) {
				r.SlotPrices = []SlotPrice{{StartTime: "12:00", EndTime: "08:00", Price: "300"}}
			},
			ErrInvalidSlotPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := NewService(newFakeRepository(), nil).Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateGrowCourts(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	v, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	repo.addedNames = nil

	want := 5
	updated, err := svc.Update(context.Background(), v.ID, UpdateRequest{CourtQuantity: &want})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.CourtQuantity)
	// Numbering continues after the existing courts.
	assert.Equal(t, []string{"Court 4", "Court 5"}, repo.addedNames)
}

func TestUpdateShrinkCourts(t *testing.T) {
	t.Run("free courts are removed", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, nil)

		v, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)

		want := 1
		updated, err := svc.Update(context.Background(), v.ID, UpdateRequest{CourtQuantity: &want})
		require.NoError(t, err)
		assert.Equal(t, 1, updated.CourtQuantity)
	})

	t.Run("booked courts limit the shrink", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, nil)

		v, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		repo.bookedCourts[v.ID] = 2

		want := 1
		updated, err := svc.Update(context.Background(), v.ID, UpdateRequest{CourtQuantity: &want})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.CourtQuantity)
	})

	t.Run("nothing removable conflicts", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo, nil)

		v, err := svc.Create(context.Background(), validCreateRequest())
		require.NoError(t, err)
		repo.bookedCourts[v.ID] = 3

		want := 1
		_, err = svc.Update(context.Background(), v.ID, UpdateRequest{CourtQuantity: &want})
		assert.ErrorIs(t, err, ErrCourtsStillBooked)
	})
}

func TestUpdateValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, nil)

	v, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	blank := "  "
	_, err = svc.Update(context.Background(), v.ID, UpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrNameRequired)

	// Hours are validated against the effective pair, so moving one end past
	// the stored other end fails.
	late := "23:30"
	_, err = svc.Update(context.Background(), v.ID, UpdateRequest{OpeningTime: &late})
	assert.ErrorIs(t, err, ErrInvalidHours)

	_, err = svc.Update(context.Background(), "missing", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepository()
	cleaner := &recordingCleaner{}
	svc := NewService(repo, cleaner)

	v, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	repo.photoPaths[v.ID] = []string{"venues/ab/one.jpg", "venues/cd/two.jpg"}

	require.NoError(t, svc.Delete(context.Background(), v.ID))

	_, err = svc.GetByID(context.Background(), v.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Orphaned files go to the cleaner after the rows are gone.
	require.Len(t, cleaner.removed, 1)
	assert.Equal(t, []string{"venues/ab/one.jpg", "venues/cd/two.jpg"}, cleaner.removed[0])

	assert.ErrorIs(t, svc.Delete(context.Background(), v.ID), ErrNotFound)
}

func TestCourtNames(t *testing.T) {
	assert.Equal(t, []string{"Court 1", "Court 2"}, courtNames(0, 2))
	assert.Equal(t, []string{"Court 4", "Court 5", "Court 6"}, courtNames(3, 6))
	assert.Nil(t, courtNames(3, 3))
}
