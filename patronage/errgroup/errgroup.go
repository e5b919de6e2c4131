package errgroup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	libLog "github.com/commonshare/lib-patronage/patronage/log"
)

// ErrPanicRecovered is returned when a goroutine in the group panics.
var ErrPanicRecovered = errors.New("errgroup: panic recovered")

// Group manages a set of goroutines that share a cancellation context.
// The first error returned by any goroutine cancels the group's context
// and is returned by Wait. Subsequent errors are discarded.
//
// The ledger engine uses a Group for per-member balance folds: the folds
// are independent, so a failure in one member's replay must not corrupt
// another's, only stop the batch.
type Group struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
	sem     chan struct{}
	logger  libLog.Logger
}

// WithContext returns a new Group and a derived context. The derived context
// is canceled when the first goroutine returns a non-nil error or when Wait
// returns, whichever occurs first.
func WithContext(ctx context.Context) (*Group, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &Group{ctx: ctx, cancel: cancel}, ctx
}

// SetLimit caps the number of concurrently running goroutines. Must be
// called before the first Go.
func (grp *Group) SetLimit(n int) {
	if n <= 0 {
		grp.sem = nil
		return
	}

	grp.sem = make(chan struct{}, n)
}

// SetLogger sets an optional logger for panic recovery observability.
func (grp *Group) SetLogger(logger libLog.Logger) {
	if grp == nil {
		return
	}

	grp.logger = logger
}

func (grp *Group) effectiveCtx() context.Context {
	if grp.ctx != nil {
		return grp.ctx
	}

	return context.Background()
}

// Go starts a new goroutine in the Group. The first non-nil error returned
// by a goroutine is recorded and triggers cancellation of the group context.
// Panics are recovered and surfaced as ErrPanicRecovered.
func (grp *Group) Go(fn func() error) {
	if grp.sem != nil {
		grp.sem <- struct{}{}
	}

	grp.wg.Add(1)

	go func() {
		defer grp.wg.Done()
		defer func() {
			if grp.sem != nil {
				<-grp.sem
			}

			if recovered := recover(); recovered != nil {
				if grp.logger != nil {
					grp.logger.Log(grp.effectiveCtx(), libLog.LevelError,
						"panic recovered in errgroup goroutine",
						libLog.Any("panic", recovered))
				}

				grp.record(fmt.Errorf("%w: %v", ErrPanicRecovered, recovered))
			}
		}()

		if err := fn(); err != nil {
			grp.record(err)
		}
	}()
}

// Wait blocks until all goroutines in the Group have completed. It cancels
// the group context after all goroutines finish and returns the first
// non-nil error recorded by Go.
func (grp *Group) Wait() error {
	grp.wg.Wait()

	if grp.cancel != nil {
		grp.cancel()
	}

	return grp.err
}

func (grp *Group) record(err error) {
	grp.errOnce.Do(func() {
		grp.err = err
		if grp.cancel != nil {
			grp.cancel()
		}
	})
}
