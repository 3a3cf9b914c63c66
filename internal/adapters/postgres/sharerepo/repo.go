package sharerepo

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/Overland-East-Bay/trip-journal/internal/domain"
	"github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
)

// Repo is a Postgres implementation of sharerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Get(ctx context.Context, trip domain.TripID, user domain.UserID) (domain.Share, error) {
	if r.pool == nil {
		return domain.Share{}, errors.New("nil postgres pool")
	}
	tripID, err := uuid.Parse(string(trip))
	if err != nil {
		return domain.Share{}, sharerepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		SELECT trip_id, user_id, permission, created_at
		FROM trip_shares
		WHERE trip_id = $1 AND user_id = $2
	`, tripID, int64(user))
	sh, err := scanShare(row)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return domain.Share{}, sharerepo.ErrNotFound
		}
		return domain.Share{}, errors.Wrap(err, "get share")
	}
	return sh, nil
}

func (r *Repo) Upsert(ctx context.Context, sh domain.Share) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripID, err := uuid.Parse(string(sh.TripID))
	if err != nil {
		return errors.Wrap(err, "invalid trip id")
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO trip_shares (trip_id, user_id, permission, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET
			permission = EXCLUDED.permission,
			created_at = EXCLUDED.created_at
	`, tripID, int64(sh.UserID), string(sh.Permission), sh.CreatedAt.UTC())
	if err != nil {
		return errors.Wrap(err, "upsert share")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, trip domain.TripID, user domain.UserID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripID, err := uuid.Parse(string(trip))
	if err != nil {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM trip_shares WHERE trip_id = $1 AND user_id = $2`, tripID, int64(user)); err != nil {
		return errors.Wrap(err, "delete share")
	}
	return nil
}

func (r *Repo) ListByTrip(ctx context.Context, trip domain.TripID) ([]domain.Share, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	tripID, err := uuid.Parse(string(trip))
	if err != nil {
		return []domain.Share{}, nil
	}
	return r.list(ctx, `
		SELECT trip_id, user_id, permission, created_at
		FROM trip_shares
		WHERE trip_id = $1
		ORDER BY user_id ASC
	`, tripID)
}

func (r *Repo) ListByUser(ctx context.Context, user domain.UserID) ([]domain.Share, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	return r.list(ctx, `
		SELECT trip_id, user_id, permission, created_at
		FROM trip_shares
		WHERE user_id = $1
		ORDER BY trip_id ASC
	`, int64(user))
}

func (r *Repo) list(ctx context.Context, sql string, arg any) ([]domain.Share, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, errors.Wrap(err, "list shares")
	}
	defer rows.Close()

	out := []domain.Share{}
	for rows.Next() {
		sh, err := scanShare(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan share")
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate shares")
	}
	return out, nil
}

func scanShare(row pgx.Row) (domain.Share, error) {
	var (
		sh   domain.Share
		trip uuid.UUID
		user int64
		perm string
	)
	if err := row.Scan(&trip, &user, &perm, &sh.CreatedAt); err != nil {
		return domain.Share{}, err
	}
	sh.TripID = domain.TripID(trip.String())
	sh.UserID = domain.UserID(user)
	sh.Permission = domain.Permission(perm)
	sh.CreatedAt = sh.CreatedAt.UTC()
	return sh, nil
}
