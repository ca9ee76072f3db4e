package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory Repository used by unit tests and local
// experiments. It enforces the same atomicity contract as the Postgres
// implementation: the overlap re-check happens inside the write lock, so
// concurrent creates for colliding slots cannot both succeed.
type memoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Booking
	courts map[string]memoryCourt
}

type memoryCourt struct {
	venueID   string
	ownerID   string
	courtName string
	venueName string
}

// MemoryRepository extends Repository with topology seeding, which the real
// store derives from the courts and venues tables.
type MemoryRepository interface {
	Repository
	// RegisterCourt teaches the repository which venue and owner a court
	// belongs to, so owner-scoped listing and joined names work.
	RegisterCourt(courtID, courtName, venueID, venueName, ownerID string)
}

func NewMemoryRepository() MemoryRepository {
	return &memoryRepository{
		byID:   make(map[string]*Booking),
		courts: make(map[string]memoryCourt),
	}
}

func (r *memoryRepository) RegisterCourt(courtID, courtName, venueID, venueName, ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courts[courtID] = memoryCourt{
		venueID:   venueID,
		ownerID:   ownerID,
		courtName: courtName,
		venueName: venueName,
	}
}

func (r *memoryRepository) decorate(b *Booking) {
	if c, ok := r.courts[b.CourtID]; ok {
		b.CourtName = c.courtName
		b.VenueID = c.venueID
		b.VenueName = c.venueName
	}
}

func (r *memoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror of the Postgres exclusion constraint: recheck under the lock.
	if b.Status == StatusActive {
		for _, existing := range r.byID {
			if existing.CourtID != b.CourtID || existing.Status != StatusActive {
				continue
			}
			if !existing.Date.Equal(b.Date) {
				continue
			}
			if Overlaps(b.StartTime, b.EndTime, existing.StartTime, existing.EndTime) {
				return ErrTimeConflict
			}
		}
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.decorate(b)

	stored := *b
	r.byID[b.ID] = &stored
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *memoryRepository) ListActiveForDate(ctx context.Context, courtID string, date time.Time) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := DateOnly(date)
	var out []*Booking
	for _, b := range r.byID {
		if b.CourtID != courtID || b.Status != StatusActive || !b.Date.Equal(day) {
			continue
		}
		copy := *b
		out = append(out, &copy)
	}
	return out, nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Booking
	for _, b := range r.byID {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.CourtID != "" && b.CourtID != filter.CourtID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		if filter.DateFrom != nil && b.Date.Before(DateOnly(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && b.Date.After(DateOnly(*filter.DateTo)) {
			continue
		}
		copy := *b
		out = append(out, &copy)
	}

	sortByDateDescStartAsc(out)
	total := len(out)

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (r *memoryRepository) ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Booking
	for _, b := range r.byID {
		c, ok := r.courts[b.CourtID]
		if !ok || c.ownerID != ownerID {
			continue
		}
		if filter.VenueID != "" && c.venueID != filter.VenueID {
			continue
		}
		if filter.CourtID != "" && b.CourtID != filter.CourtID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		if filter.StartDate != nil && b.Date.Before(DateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && !b.Date.Before(DateOnly(*filter.EndDate).AddDate(0, 0, 1)) {
			continue
		}
		copy := *b
		out = append(out, &copy)
	}

	sortByDateDescStartAsc(out)
	return out, nil
}

func (r *memoryRepository) Update(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return ErrNotFound
	}

	if b.Status == StatusActive {
		for id, existing := range r.byID {
			if id == b.ID || existing.CourtID != b.CourtID || existing.Status != StatusActive {
				continue
			}
			if !existing.Date.Equal(b.Date) {
				continue
			}
			if Overlaps(b.StartTime, b.EndTime, existing.StartTime, existing.EndTime) {
				return ErrTimeConflict
			}
		}
	}

	b.UpdatedAt = time.Now().UTC()
	r.decorate(b)
	stored := *b
	r.byID[b.ID] = &stored
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func sortByDateDescStartAsc(bookings []*Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Date.Equal(bookings[j].Date) {
			return bookings[i].Date.After(bookings[j].Date)
		}
		return bookings[i].StartTime < bookings[j].StartTime
	})
}
