// internal/pkg/resilience/policy.go
package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy composes bulkhead, circuit breaker, timeout and retry around a single
// downstream call. A Policy is shared by every call to the same downstream
// operation and is safe for concurrent use.
type Policy struct {
	name     string
	cfg      Config
	bulkhead *Bulkhead
	breaker  *CircuitBreaker

	isFailure   func(error) bool
	isRetryable func(error) bool
	sleep       func(ctx context.Context, d time.Duration) error
}

type Option func(*Policy)

// WithFailurePredicate decides which errors count against the breaker.
func WithFailurePredicate(fn func(error) bool) Option {
	return func(p *Policy) { p.isFailure = fn }
}

// WithRetryPredicate decides which errors are worth another attempt.
func WithRetryPredicate(fn func(error) bool) Option {
	return func(p *Policy) { p.isRetryable = fn }
}

// WithStateChangeHook is called on every breaker transition.
func WithStateChangeHook(fn func(name string, from, to State)) Option {
	return func(p *Policy) { p.breaker.onStateChange = fn }
}

// WithRejectHook is called whenever the bulkhead rejects a call.
func WithRejectHook(fn func(name string)) Option {
	return func(p *Policy) { p.bulkhead.onReject = fn }
}

func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Policy) { p.sleep = fn }
}

func NewPolicy(name string, cfg Config, opts ...Option) *Policy {
	cfg = cfg.withDefaults()
	p := &Policy{
		name:        name,
		cfg:         cfg,
		bulkhead:    NewBulkhead(name, cfg.MaxConcurrentCalls),
		breaker:     NewCircuitBreaker(name, cfg.CircuitBreaker),
		isFailure:   DefaultIsFailure,
		isRetryable: DefaultIsRetryable,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Policy) Name() string { return p.name }

func (p *Policy) Breaker() *CircuitBreaker { return p.breaker }

// Execute runs call under p. Business errors (not found, insufficient stock...)
// are returned untouched and never trigger the fallback. Any other failure,
// including rejection by the bulkhead or the breaker, is handed to fallback
// when one is given, otherwise it is returned classified as an apperr kind.
func Execute[T any](ctx context.Context, p *Policy, call func(ctx context.Context) (T, error), fallback func(ctx context.Context, err error) (T, error)) (T, error) {
	res, err := run(ctx, p, call)
	if err == nil || !p.isFailure(err) {
		return res, err
	}
	err = classify(p.name, err)
	if fallback != nil {
		return fallback(ctx, err)
	}
	var zero T
	return zero, err
}

func run[T any](ctx context.Context, p *Policy, call func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	release, err := p.bulkhead.Acquire()
	if err != nil {
		return zero, err
	}
	defer release()

	done, err := p.breaker.Allow()
	if err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	res, err := retry(ctx, p, call)
	done(p.isFailure(err))
	return res, err
}

func retry[T any](ctx context.Context, p *Policy, call func(ctx context.Context) (T, error)) (T, error) {
	schedule := newBackOff(p.cfg.Retry)
	for {
		res, err := attemptOnce(ctx, p, call)
		if err == nil || !p.isRetryable(err) {
			return res, err
		}
		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			return res, err
		}
		if serr := p.sleep(ctx, wait); serr != nil {
			return res, err
		}
	}
}

func attemptOnce[T any](ctx context.Context, p *Policy, call func(ctx context.Context) (T, error)) (T, error) {
	if p.cfg.Retry.AttemptTimeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Retry.AttemptTimeout)
	defer cancel()
	return call(ctx)
}

// newBackOff yields MaxAttempts-1 waits growing by Multiplier up to MaxBackoff,
// without jitter. The policy timeout bounds the total.
func newBackOff(cfg RetryConfig) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialBackoff
	exp.MaxInterval = cfg.MaxBackoff
	exp.Multiplier = cfg.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	b := backoff.WithMaxRetries(exp, uint64(cfg.MaxAttempts-1))
	b.Reset()
	return b
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
