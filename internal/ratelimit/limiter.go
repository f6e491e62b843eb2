// Package ratelimit tracks per-client submission counts in two rolling
// windows backed by an external counter store. The limiter fails open:
// availability of the contact channel is prioritized over strict abuse
// prevention, so an unreachable store or an unresolvable client IP never
// blocks a request.
package ratelimit

import (
	"context"
	"time"

	"vantix_site_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour

	minuteKeyPrefix = "contact:rl:minute:"
	hourKeyPrefix   = "contact:rl:hour:"
)

// Decision is the outcome of a limit check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Limiter enforces the per-minute and per-hour submission ceilings.
// A nil Limiter allows everything; the composition root leaves it nil
// when no counter store is configured.
type Limiter struct {
	store       CounterStore
	minuteLimit int
	hourLimit   int
	log         *logger.Logger
}

// New creates a Limiter over the given counter store.
func New(store CounterStore, minuteLimit, hourLimit int, log *logger.Logger) *Limiter {
	return &Limiter{
		store:       store,
		minuteLimit: minuteLimit,
		hourLimit:   hourLimit,
		log:         log,
	}
}

// Check reads both window counters and decides allow/deny. It never mutates
// the counters. The two reads have no ordering dependency and are issued
// concurrently. Any store failure allows the request.
func (l *Limiter) Check(ctx context.Context, clientIP string) Decision {
	if l == nil || clientIP == "" {
		return Decision{Allowed: true}
	}

	var minuteCount, hourCount int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := l.store.Get(gctx, minuteKeyPrefix+clientIP)
		minuteCount = n
		return err
	})
	g.Go(func() error {
		n, err := l.store.Get(gctx, hourKeyPrefix+clientIP)
		hourCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		l.log.StoreError("check", err)
		return Decision{Allowed: true}
	}

	if minuteCount >= int64(l.minuteLimit) {
		return Decision{Allowed: false, Reason: "too many requests, please wait a minute before trying again"}
	}
	if hourCount >= int64(l.hourLimit) {
		return Decision{Allowed: false, Reason: "hourly submission limit reached, please try again later"}
	}
	return Decision{Allowed: true}
}

// Record increments both window counters, each written back with its own TTL.
// It is called only after a confirmed-successful dispatch, never on read.
// Failures are logged and swallowed.
//
// The increment is read-then-write, not atomic: concurrent submissions from
// one IP can both observe the same pre-increment value and under-count. That
// admits slightly more than the ceiling rather than over-blocking, which is
// the accepted trade-off for this fail-open limiter.
func (l *Limiter) Record(ctx context.Context, clientIP string) {
	if l == nil || clientIP == "" {
		return
	}

	l.bump(ctx, minuteKeyPrefix+clientIP, minuteWindow)
	l.bump(ctx, hourKeyPrefix+clientIP, hourWindow)
}

func (l *Limiter) bump(ctx context.Context, key string, ttl time.Duration) {
	count, err := l.store.Get(ctx, key)
	if err != nil {
		l.log.StoreError("record.get", err)
		return
	}
	if err := l.store.Put(ctx, key, count+1, ttl); err != nil {
		l.log.StoreError("record.put", err)
	}
}
