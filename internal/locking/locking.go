package locking

import "context"

// Locker provides mutual exclusion per key. Lock returns an unlock func that
// must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}
