package triprepo

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	postgres "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tripColumns = `id, owner_id, name, destination, description, start_date, end_date, latitude, longitude, created_at, updated_at`

// Dated trips first, then by creation, then by id.
const tripOrder = `ORDER BY start_date ASC NULLS LAST, created_at ASC, id ASC`

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return errors.Wrap(err, "invalid trip id")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (`+tripColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		id,
		int64(t.OwnerID),
		t.Name,
		t.Destination,
		t.Description,
		datePtr(t.StartDate),
		datePtr(t.EndDate),
		t.Latitude,
		t.Longitude,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return errors.Wrap(err, "insert trip")
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, t domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(t.ID))
	if err != nil {
		return triprepo.ErrNotFound
	}
	// Owner and creation time are immutable.
	tag, err := r.pool.Exec(ctx, `
		UPDATE trips
		SET name = $2,
		    destination = $3,
		    description = $4,
		    start_date = $5,
		    end_date = $6,
		    latitude = $7,
		    longitude = $8,
		    updated_at = $9
		WHERE id = $1
	`,
		id,
		t.Name,
		t.Destination,
		t.Description,
		datePtr(t.StartDate),
		datePtr(t.EndDate),
		t.Latitude,
		t.Longitude,
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return errors.Wrap(err, "update trip")
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, tripID domain.TripID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(tripID))
	if err != nil {
		return triprepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete trip")
	}
	if tag.RowsAffected() == 0 {
		return triprepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, tripID domain.TripID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(tripID))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)
	t, err := scanTrip(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, errors.Wrap(err, "get trip")
	}
	return t, nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+tripColumns+` FROM trips WHERE owner_id = $1 `+tripOrder, int64(owner))
	if err != nil {
		return nil, errors.Wrap(err, "list trips by owner")
	}
	return collectTrips(rows)
}

func (r *Repo) ListByIDs(ctx context.Context, ids []domain.TripID) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	uuids := make([]string, 0, len(ids))
	for _, id := range ids {
		// Ids that are not UUIDs cannot exist here.
		if u, err := uuid.Parse(string(id)); err == nil {
			uuids = append(uuids, u.String())
		}
	}
	if len(uuids) == 0 {
		return []domain.Trip{}, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ANY($1::uuid[]) `+tripOrder, uuids)
	if err != nil {
		return nil, errors.Wrap(err, "list trips by ids")
	}
	return collectTrips(rows)
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	defer rows.Close()
	out := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan trip")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate trips")
	}
	return out, nil
}

func scanTrip(row pgx.Row) (domain.Trip, error) {
	var (
		t          domain.Trip
		id         uuid.UUID
		owner      int64
		start, end pgtype.Date
	)
	if err := row.Scan(
		&id,
		&owner,
		&t.Name,
		&t.Destination,
		&t.Description,
		&start,
		&end,
		&t.Latitude,
		&t.Longitude,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return domain.Trip{}, err
	}
	t.ID = domain.TripID(id.String())
	t.OwnerID = domain.UserID(owner)
	t.StartDate = dateToTimePtr(start)
	t.EndDate = dateToTimePtr(end)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

func datePtr(t *time.Time) pgtype.Date {
	var d pgtype.Date
	if t == nil {
		return d
	}
	tt := t.UTC()
	d.Time = time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
	d.Valid = true
	return d
}

func dateToTimePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}
