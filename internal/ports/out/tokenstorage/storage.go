package tokenstorage

import "context"

// Storage is a string key/value slot store used to persist the session token
// on the client (the equivalent of a browser's local storage).
//
// Writes are full-value overwrites; there is no read-modify-write.
type Storage interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
