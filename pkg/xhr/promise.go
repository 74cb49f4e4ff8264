package xhr

import (
	"context"
	"sync"
)

// ResolveFunc settles a Promise with a value.
type ResolveFunc func(value any)

// RejectFunc settles a Promise with an error.
type RejectFunc func(err error)

// Promise is the deferred result of one transfer. It settles exactly once;
// every resolve or reject after the first is ignored.
type Promise struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

func (p *Promise) resolve(value any) {
	p.once.Do(func() {
		p.value = value
		close(p.done)
	})
}

func (p *Promise) reject(err error) {
	if err == nil {
		err = errRejectedWithoutReason
	}
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// settleFrom settles p with the outcome of src, if src has settled.
func (p *Promise) settleFrom(src *Promise) {
	if !src.Settled() {
		return
	}
	if src.err != nil {
		p.reject(src.err)
		return
	}
	p.resolve(src.value)
}

// Done is closed once the promise has settled.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Settled reports whether the promise has been resolved or rejected.
func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Await blocks until the promise settles or ctx is done. A promise whose
// handlers never settle it only returns through ctx.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
