package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

func TestAsPgError(t *testing.T) {
	t.Parallel()

	pe := &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "trips_pkey"}
	got, ok := AsPgError(errors.Wrap(fmt.Errorf("insert: %w", pe), "create trip"))
	if !ok || got.Code != UniqueViolationCode {
		t.Fatalf("AsPgError()=%v,%v", got, ok)
	}
	if _, ok := AsPgError(errors.New("plain")); ok {
		t.Fatalf("plain error matched")
	}
}

func TestNewPool_RejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(context.Background(), "", PoolOptions{}); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
	_, err := NewPool(context.Background(), "postgres://%zz", PoolOptions{})
	if err == nil || !strings.Contains(err.Error(), "parse postgres dsn") {
		t.Fatalf("err=%v", err)
	}
}

func TestSchema_DeclaresEveryTable(t *testing.T) {
	t.Parallel()

	for _, table := range []string{"trips", "itinerary_items", "trip_shares", "idempotency_keys"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Fatalf("schema missing table %s", table)
		}
	}
}
