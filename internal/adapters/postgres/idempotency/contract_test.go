package idempotency

import (
	"testing"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/testutil"
	idempotencyport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
)

func TestContract_PostgresIdempotencyStore(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(pool), nil
	})
}
