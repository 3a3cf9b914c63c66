package itemrepo

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	postgres "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres"
	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
)

// Repo is a Postgres implementation of itemrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const itemColumns = `id, trip_id, type, name, address, start_at, end_at, latitude, longitude, position, created_at, updated_at`

func parseIDs(tripID domain.TripID, id domain.ItemID) (uuid.UUID, uuid.UUID, bool) {
	t, err := uuid.Parse(string(tripID))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	i, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil, uuid.Nil, false
	}
	return t, i, true
}

func (r *Repo) Create(ctx context.Context, it domain.ItineraryItem) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripID, id, ok := parseIDs(it.TripID, it.ID)
	if !ok {
		return errors.Errorf("invalid item id %q or trip id %q", it.ID, it.TripID)
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO itinerary_items (`+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		id,
		tripID,
		string(it.Type),
		it.Name,
		it.Address,
		it.StartDate,
		it.EndDate,
		it.Latitude,
		it.Longitude,
		it.Position,
		it.CreatedAt.UTC(),
		it.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return itemrepo.ErrAlreadyExists
		}
		return errors.Wrap(err, "insert itinerary item")
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, it domain.ItineraryItem) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripID, id, ok := parseIDs(it.TripID, it.ID)
	if !ok {
		return itemrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE itinerary_items
		SET type = $3,
		    name = $4,
		    address = $5,
		    start_at = $6,
		    end_at = $7,
		    latitude = $8,
		    longitude = $9,
		    position = $10,
		    updated_at = $11
		WHERE id = $1 AND trip_id = $2
	`,
		id,
		tripID,
		string(it.Type),
		it.Name,
		it.Address,
		it.StartDate,
		it.EndDate,
		it.Latitude,
		it.Longitude,
		it.Position,
		it.UpdatedAt.UTC(),
	)
	if err != nil {
		return errors.Wrap(err, "update itinerary item")
	}
	if tag.RowsAffected() == 0 {
		return itemrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, trip domain.TripID, item domain.ItemID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripID, id, ok := parseIDs(trip, item)
	if !ok {
		return itemrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM itinerary_items WHERE id = $1 AND trip_id = $2`, id, tripID)
	if err != nil {
		return errors.Wrap(err, "delete itinerary item")
	}
	if tag.RowsAffected() == 0 {
		return itemrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, trip domain.TripID, item domain.ItemID) (domain.ItineraryItem, error) {
	if r.pool == nil {
		return domain.ItineraryItem{}, errors.New("nil postgres pool")
	}
	tripID, id, ok := parseIDs(trip, item)
	if !ok {
		return domain.ItineraryItem{}, itemrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM itinerary_items WHERE id = $1 AND trip_id = $2`, id, tripID)
	it, err := scanItem(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryItem{}, itemrepo.ErrNotFound
		}
		return domain.ItineraryItem{}, errors.Wrap(err, "get itinerary item")
	}
	return it, nil
}

func (r *Repo) ListByTrip(ctx context.Context, trip domain.TripID) ([]domain.ItineraryItem, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	tripID, err := uuid.Parse(string(trip))
	if err != nil {
		return []domain.ItineraryItem{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM itinerary_items
		WHERE trip_id = $1
		ORDER BY position ASC, created_at ASC, id ASC
	`, tripID)
	if err != nil {
		return nil, errors.Wrap(err, "list itinerary items")
	}
	defer rows.Close()

	out := []domain.ItineraryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan itinerary item")
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate itinerary items")
	}
	return out, nil
}

func scanItem(row pgx.Row) (domain.ItineraryItem, error) {
	var (
		it       domain.ItineraryItem
		id, trip uuid.UUID
		typ      string
	)
	if err := row.Scan(
		&id,
		&trip,
		&typ,
		&it.Name,
		&it.Address,
		&it.StartDate,
		&it.EndDate,
		&it.Latitude,
		&it.Longitude,
		&it.Position,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return domain.ItineraryItem{}, err
	}
	it.ID = domain.ItemID(id.String())
	it.TripID = domain.TripID(trip.String())
	it.Type = domain.ItemType(typ)
	it.StartDate = utc(it.StartDate)
	it.EndDate = utc(it.EndDate)
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return it, nil
}
