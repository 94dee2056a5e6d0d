// internal/service/order/domain/port/locker.go
package port

import "context"

// Locker provides a cluster-wide mutual exclusion for background jobs.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context) (unlock func() error, err error)
}
