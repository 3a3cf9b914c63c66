package tokenstorage

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-journal/internal/adapters/contracttest"
	tokenstorageport "github.com/Overland-East-Bay/trip-journal/internal/ports/out/tokenstorage"
)

func TestContract_RedisTokenStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := NewClient(addr, "", 0)
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	contracttest.RunTokenStorage(t, func(t *testing.T) (tokenstorageport.Storage, func()) {
		t.Helper()
		return NewStorage(client, "test:"+uuid.NewString()+":"), func() { _ = client.Close() }
	})
}
