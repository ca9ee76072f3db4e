package venue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateWithCourts inserts the venue and its generated courts in one
	// transaction, so a venue never exists without its sub-resources.
	CreateWithCourts(ctx context.Context, v *Venue, courtNames []string) error
	GetByID(ctx context.Context, id string) (*Venue, error)
	List(ctx context.Context, filter Filter) ([]*Venue, int, error)
	Update(ctx context.Context, v *Venue) error
	// Delete removes the venue and everything beneath it, children first:
	// bookings, photo rows, courts, then the venue itself, in one
	// transaction. It returns the storage paths of deleted photos so the
	// caller can clean up files.
	Delete(ctx context.Context, id string) ([]string, error)
	AddCourts(ctx context.Context, venueID string, names []string) error
	// TrimCourts deletes up to n of the newest courts that hold no bookings
	// and returns how many were actually removed.
	TrimCourts(ctx context.Context, venueID string, n int) (int, error)
	CountCourts(ctx context.Context, venueID string) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const venueColumns = `
	v.id, v.owner_id, v.name, v.address, v.district, v.city, v.description,
	v.court_quantity, v.opening_time, v.closing_time, v.facilities,
	v.slot_prices, v.contact_phone, v.contact_email, v.is_active,
	v.created_at, v.updated_at
`

func scanVenue(row pgx.Row) (*Venue, error) {
	var v Venue
	var facilities, slotPrices []byte
	if err := row.Scan(
		&v.ID, &v.OwnerID, &v.Name, &v.Address, &v.District, &v.City, &v.Description,
		&v.CourtQuantity, &v.OpeningTime, &v.ClosingTime, &facilities,
		&slotPrices, &v.ContactPhone, &v.ContactEmail, &v.IsActive,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(facilities) > 0 {
		if err := json.Unmarshal(facilities, &v.Facilities); err != nil {
			return nil, fmt.Errorf("unmarshal facilities failed: %w", err)
		}
	}
	if len(slotPrices) > 0 {
		if err := json.Unmarshal(slotPrices, &v.SlotPrices); err != nil {
			return nil, fmt.Errorf("unmarshal slot prices failed: %w", err)
		}
	}
	return &v, nil
}

func marshalJSONField(v any) ([]byte, error) {
	if v == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

func (r *pgxRepository) CreateWithCourts(ctx context.Context, v *Venue, courtNames []string) error {
	facilities, err := marshalJSONField(v.Facilities)
	if err != nil {
		return fmt.Errorf("marshal facilities failed: %w", err)
	}
	slotPrices, err := marshalJSONField(v.SlotPrices)
	if err != nil {
		return fmt.Errorf("marshal slot prices failed: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create venue tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertVenue = `
		INSERT INTO public.venues (
			owner_id, name, address, district, city, description,
			court_quantity, opening_time, closing_time, facilities,
			slot_prices, contact_phone, contact_email, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(ctx, insertVenue,
		v.OwnerID, v.Name, v.Address, v.District, v.City, v.Description,
		v.CourtQuantity, v.OpeningTime, v.ClosingTime, facilities,
		slotPrices, v.ContactPhone, v.ContactEmail, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return fmt.Errorf("create venue failed: %w", err)
	}

	for _, name := range courtNames {
		if _, err := tx.Exec(ctx,
			`INSERT INTO public.courts (venue_id, name) VALUES ($1, $2)`,
			v.ID, name,
		); err != nil {
			return fmt.Errorf("create court %q failed: %w", name, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.venues v WHERE v.id = $1`, venueColumns)

	v, err := scanVenue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get venue failed: %w", err)
	}
	return v, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Venue, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(venueColumns + ", count(*) OVER() as total_count").
		From("public.venues v")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"v.owner_id": filter.OwnerID})
	}
	if filter.City != "" {
		query = query.Where(squirrel.Eq{"v.city": filter.City})
	}
	if filter.District != "" {
		query = query.Where(squirrel.Eq{"v.district": filter.District})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"v.name": "%" + filter.Keyword + "%"},
			squirrel.ILike{"v.address": "%" + filter.Keyword + "%"},
		})
	}

	query = query.OrderBy("v.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list venues query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues failed: %w", err)
	}
	defer rows.Close()

	var venues []*Venue
	var total int

	for rows.Next() {
		var v Venue
		var facilities, slotPrices []byte
		if err := rows.Scan(
			&v.ID, &v.OwnerID, &v.Name, &v.Address, &v.District, &v.City, &v.Description,
			&v.CourtQuantity, &v.OpeningTime, &v.ClosingTime, &facilities,
			&slotPrices, &v.ContactPhone, &v.ContactEmail, &v.IsActive,
			&v.CreatedAt, &v.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan venue failed: %w", err)
		}
		if len(facilities) > 0 {
			if err := json.Unmarshal(facilities, &v.Facilities); err != nil {
				return nil, 0, fmt.Errorf("unmarshal facilities failed: %w", err)
			}
		}
		if len(slotPrices) > 0 {
			if err := json.Unmarshal(slotPrices, &v.SlotPrices); err != nil {
				return nil, 0, fmt.Errorf("unmarshal slot prices failed: %w", err)
			}
		}
		venues = append(venues, &v)
	}

	return venues, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, v *Venue) error {
	facilities, err := marshalJSONField(v.Facilities)
	if err != nil {
		return fmt.Errorf("marshal facilities failed: %w", err)
	}
	slotPrices, err := marshalJSONField(v.SlotPrices)
	if err != nil {
		return fmt.Errorf("marshal slot prices failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.venues").
		Set("name", v.Name).
		Set("address", v.Address).
		Set("district", v.District).
		Set("city", v.City).
		Set("description", v.Description).
		Set("court_quantity", v.CourtQuantity).
		Set("opening_time", v.OpeningTime).
		Set("closing_time", v.ClosingTime).
		Set("facilities", facilities).
		Set("slot_prices", slotPrices).
		Set("contact_phone", v.ContactPhone).
		Set("contact_email", v.ContactEmail).
		Set("is_active", v.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": v.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update venue query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update venue failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete venue tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Collect photo file paths before the rows go away.
	rows, err := tx.Query(ctx,
		`SELECT storage_path, thumbnail_path FROM public.venue_photos WHERE venue_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list venue photos failed: %w", err)
	}
	var paths []string
	for rows.Next() {
		var storagePath string
		var thumbPath *string
		if err := rows.Scan(&storagePath, &thumbPath); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan venue photo failed: %w", err)
		}
		paths = append(paths, storagePath)
		if thumbPath != nil {
			paths = append(paths, *thumbPath)
		}
	}
	rows.Close()

	// Children before parents, so no orphaned rows can survive a partial
	// failure: bookings -> photos -> courts -> venue.
	steps := []string{
		`DELETE FROM public.bookings WHERE court_id IN (SELECT id FROM public.courts WHERE venue_id = $1)`,
		`DELETE FROM public.venue_photos WHERE venue_id = $1`,
		`DELETE FROM public.courts WHERE venue_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step, id); err != nil {
			return nil, fmt.Errorf("cascade delete venue failed: %w", err)
		}
	}

	ct, err := tx.Exec(ctx, `DELETE FROM public.venues WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete venue failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete venue tx failed: %w", err)
	}
	return paths, nil
}

func (r *pgxRepository) AddCourts(ctx context.Context, venueID string, names []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin add courts tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, name := range names {
		if _, err := tx.Exec(ctx,
			`INSERT INTO public.courts (venue_id, name) VALUES ($1, $2)`,
			venueID, name,
		); err != nil {
			return fmt.Errorf("add court %q failed: %w", name, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) TrimCourts(ctx context.Context, venueID string, n int) (int, error) {
	const query = `
		DELETE FROM public.courts c
		WHERE c.id IN (
			SELECT id FROM public.courts
			WHERE venue_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
		AND NOT EXISTS (SELECT 1 FROM public.bookings b WHERE b.court_id = c.id)
	`
	ct, err := r.pool.Exec(ctx, query, venueID, n)
	if err != nil {
		return 0, fmt.Errorf("trim courts failed: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

func (r *pgxRepository) CountCourts(ctx context.Context, venueID string) (int, error) {
	const query = `SELECT count(*) FROM public.courts WHERE venue_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, venueID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count courts failed: %w", err)
	}
	return count, nil
}
