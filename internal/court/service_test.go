package court

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourtRepository struct {
	byID   map[string]*Court
	booked map[string]bool
}

func newFakeCourtRepository() *fakeCourtRepository {
	return &fakeCourtRepository{
		byID:   make(map[string]*Court),
		booked: make(map[string]bool),
	}
}

func (r *fakeCourtRepository) GetByID(_ context.Context, id string) (*Court, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (r *fakeCourtRepository) ListByVenue(_ context.Context, venueID string, activeOnly bool) ([]*Court, error) {
	var out []*Court
	for _, c := range r.byID {
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

func (r *fakeCourtRepository) Update(_ context.Context, c *Court) error {
	if _, ok := r.byID[c.ID]; !ok {
		return ErrNotFound
	}
	stored := *c
	r.byID[c.ID] = &stored
	return nil
}

func (r *fakeCourtRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeCourtRepository) HasBookings(_ context.Context, id string) (bool, error) {
	return r.booked[id], nil
}

func seedCourt(repo *fakeCourtRepository, id string) {
	repo.byID[id] = &Court{ID: id, VenueID: "venue-1", Name: "Court 1", IsActive: true}
}

func TestUpdate(t *testing.T) {
	repo := newFakeCourtRepository()
	seedCourt(repo, "court-1")
	svc := NewService(repo)
	ctx := context.Background()

	name := "  Center Court  "
	updated, err := svc.Update(ctx, "court-1", UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Center Court", updated.Name)

	blank := "   "
	_, err = svc.Update(ctx, "court-1", UpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, ErrEmptyName)

	inactive := false
	updated, err = svc.Update(ctx, "court-1", UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.Update(ctx, "missing", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeCourtRepository()
	seedCourt(repo, "court-1")
	seedCourt(repo, "court-2")
	repo.booked["court-2"] = true
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "court-1"))
	_, err := svc.GetByID(ctx, "court-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Courts with bookings are protected.
	err = svc.Delete(ctx, "court-2")
	assert.ErrorIs(t, err, ErrHasBookings)

	err = svc.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
