package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/idempotency"
	memitemrepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/itemrepo"
	memsharerepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/sharerepo"
	memtriprepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/memory/triprepo"
	pgidempotency "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/idempotency"
	pgitemrepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/itemrepo"
	pgsharerepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/sharerepo"
	postgres_testutil "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/testutil"
	pgtriprepo "github.com/Overland-East-Bay/trip-journal/internal/adapters/postgres/triprepo"
	"github.com/Overland-East-Bay/trip-journal/internal/app/maps"
	"github.com/Overland-East-Bay/trip-journal/internal/app/trips"
	idempotencyport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/idempotency"
	itemrepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/itemrepo"
	sharerepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/sharerepo"
	triprepoport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/triprepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		tripRepo  triprepoport.Repository
		itemRepo  itemrepoport.Repository
		shareRepo sharerepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		tripRepo = pgtriprepo.NewRepo(pool)
		itemRepo = pgitemrepo.NewRepo(pool)
		shareRepo = pgsharerepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		tripRepo = memtriprepo.NewRepo()
		itemRepo = memitemrepo.NewRepo()
		shareRepo = memsharerepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	tripSvc := trips.NewService(tripRepo, itemRepo, shareRepo, clk)
	mapSvc := maps.NewService(tripSvc, itemRepo, time.Minute)
	api := httpapi.NewServer(tripSvc, mapSvc, idemStore, clk)

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// A zero default user means requests MUST provide X-Debug-User-Id, allowing
	// auth-failure coverage.
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{AuthMiddleware: httpapi.NewDevAuthMiddleware(0)})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, user int64, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if user != 0 {
		req.Header.Set(httpapi.DebugUserIDHeader, strconv.FormatInt(user, 10))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
