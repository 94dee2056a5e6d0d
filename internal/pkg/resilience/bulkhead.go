package resilience

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

// Bulkhead bounds the number of in-flight calls to one downstream.
// Calls beyond the limit fail fast instead of queueing.
type Bulkhead struct {
	name     string
	sem      *semaphore.Weighted
	onReject func(name string)
}

func NewBulkhead(name string, maxConcurrent int64) *Bulkhead {
	return &Bulkhead{name: name, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Acquire takes a permit. The returned func gives it back.
func (b *Bulkhead) Acquire() (func(), error) {
	if !b.sem.TryAcquire(1) {
		if b.onReject != nil {
			b.onReject(b.name)
		}
		return nil, errors.WithStack(ErrOverloaded)
	}
	return func() { b.sem.Release(1) }, nil
}
