package triprepo

import (
	"testing"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/itemrepo"
	"github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/sharerepo"
	"github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/testutil"
	itemrepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
	sharerepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
	triprepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

func TestContract_PostgresTripItemAndShareRepos(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunTripItemAndShareRepos(
		t,
		func(t *testing.T) (triprepoport.Repository, func()) {
			t.Helper()
			return NewRepo(pool), nil
		},
		func(t *testing.T) (itemrepoport.Repository, func()) {
			t.Helper()
			return itemrepo.NewRepo(pool), nil
		},
		func(t *testing.T) (sharerepoport.Repository, func()) {
			t.Helper()
			return sharerepo.NewRepo(pool), nil
		},
	)
}
