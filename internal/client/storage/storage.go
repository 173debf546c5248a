package storage

import "context"

// Keys used by the session layer.
const (
	KeyAccessToken = "access_token"
	KeyUserData    = "user_data"
)

// Store is a durable string key/value store.
//
// Get reports ok=false for a missing key; that is not an error.
// Remove of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Transactional is implemented by stores that can apply several writes
// atomically. fn receives a Store bound to the transaction.
type Transactional interface {
	Update(ctx context.Context, fn func(tx Store) error) error
}

// Atomically runs fn in a transaction when s supports it and directly
// against s otherwise.
func Atomically(ctx context.Context, s Store, fn func(tx Store) error) error {
	if t, ok := s.(Transactional); ok {
		return t.Update(ctx, fn)
	}
	return fn(s)
}
