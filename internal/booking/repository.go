package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create persists a new booking. The bookings table carries an exclusion
	// constraint over (court, date, time range) for active rows, so two
	// concurrent writers for overlapping slots cannot both succeed; the
	// loser gets ErrTimeConflict.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// ListActiveForDate returns the active bookings of one court on one
	// calendar date. The conflict check is a pure reduction over this
	// snapshot.
	ListActiveForDate(ctx context.Context, courtID string, date time.Time) ([]*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// ListForOwner joins bookings through courts to venues owned by ownerID,
	// ordered by date descending then start time ascending.
	ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]*Booking, error)
	// Update rewrites the mutable fields. Like Create it surfaces
	// ErrTimeConflict when the new interval collides with the constraint.
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// isSlotExclusion reports whether err is the overlap exclusion constraint
// rejecting a write.
func isSlotExclusion(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("court_id", "user_id", "booking_date", "start_time", "end_time", "status", "customer_name").
		Values(b.CourtID, b.UserID, b.Date, b.StartTime, b.EndTime, b.Status, b.CustomerName).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if isSlotExclusion(err) {
			return ErrTimeConflict
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

const bookingJoinColumns = `
	b.id, b.court_id, c.name, b.user_id, COALESCE(u.display_name, u.email),
	v.id, v.name, b.booking_date, b.start_time, b.end_time, b.status,
	b.customer_name, b.created_at, b.updated_at
`

const bookingJoins = `
	public.bookings b
	JOIN public.courts c ON b.court_id = c.id
	JOIN public.venues v ON c.venue_id = v.id
	JOIN public.users u ON b.user_id = u.id
`

func scanBookingRow(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.CourtID, &b.CourtName, &b.UserID, &b.UserName,
		&b.VenueID, &b.VenueName, &b.Date, &b.StartTime, &b.EndTime, &b.Status,
		&b.CustomerName, &b.CreatedAt, &b.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE b.id = $1`, bookingJoinColumns, bookingJoins)

	b, err := scanBookingRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ListActiveForDate(ctx context.Context, courtID string, date time.Time) ([]*Booking, error) {
	const query = `
		SELECT id, court_id, user_id, booking_date, start_time, end_time, status, customer_name, created_at, updated_at
		FROM public.bookings
		WHERE court_id = $1 AND booking_date = $2 AND status = 'active'
	`
	rows, err := r.pool.Query(ctx, query, courtID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("list active bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CourtID, &b.UserID, &b.Date, &b.StartTime, &b.EndTime,
			&b.Status, &b.CustomerName, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingJoinColumns + ", count(*) OVER() as total_count").
		From("public.bookings b").
		Join("public.courts c ON b.court_id = c.id").
		Join("public.venues v ON c.venue_id = v.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.CourtID != "" {
		query = query.Where(squirrel.Eq{"b.court_id": filter.CourtID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.booking_date": DateOnly(*filter.DateFrom)})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.booking_date": DateOnly(*filter.DateTo)})
	}

	query = query.OrderBy("b.booking_date DESC", "b.start_time ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		b, err := scanBookingRow(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingJoinColumns).
		From("public.bookings b").
		Join("public.courts c ON b.court_id = c.id").
		Join("public.venues v ON c.venue_id = v.id").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"v.owner_id": ownerID})

	if filter.StartDate != nil {
		query = query.Where(squirrel.GtOrEq{"b.booking_date": DateOnly(*filter.StartDate)})
	}
	if filter.EndDate != nil {
		// Inclusive end-of-day bound.
		query = query.Where(squirrel.Lt{"b.booking_date": DateOnly(*filter.EndDate).AddDate(0, 0, 1)})
	}
	if filter.VenueID != "" {
		query = query.Where(squirrel.Eq{"v.id": filter.VenueID})
	}
	if filter.CourtID != "" {
		query = query.Where(squirrel.Eq{"b.court_id": filter.CourtID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	query = query.OrderBy("b.booking_date DESC", "b.start_time ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build owner bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list owner bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("booking_date", b.Date).
		Set("start_time", b.StartTime).
		Set("end_time", b.EndTime).
		Set("status", b.Status).
		Set("customer_name", b.CustomerName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isSlotExclusion(err) {
			return ErrTimeConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.bookings WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
