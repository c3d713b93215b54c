package jspy

import (
	"context"
	"sync"
)

// Future is a value whose result is produced asynchronously by the host.
// The interpreter awaits a Future as soon as one is produced, so script code
// only ever observes the settled result. The zero value is an unsettled
// future.
type Future struct {
	init   sync.Once
	done   chan struct{}
	once   sync.Once
	result Value
	err    error
}

// NewFuture returns an unsettled future for the host to Resolve or Reject.
func NewFuture() *Future {
	return &Future{}
}

func (f *Future) ch() chan struct{} {
	f.init.Do(func() { f.done = make(chan struct{}) })
	return f.done
}

// Go runs fn on its own goroutine and returns a future for its result.
func Go(ctx context.Context, fn func(ctx context.Context) (Value, error)) *Future {
	f := NewFuture()
	go func() {
		val, err := fn(ctx)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(val)
	}()
	return f
}

// Resolved returns a future that is already settled with val.
func Resolved(val Value) *Future {
	f := NewFuture()
	f.Resolve(val)
	return f
}

// Resolve settles the future with val. Only the first settlement counts.
func (f *Future) Resolve(val Value) {
	f.once.Do(func() {
		f.result = val
		close(f.ch())
	})
}

// Reject settles the future with err. Only the first settlement counts.
func (f *Future) Reject(err error) {
	f.once.Do(func() {
		f.result = NewNull()
		f.err = err
		close(f.ch())
	})
}

func (f *Future) Done() <-chan struct{} { return f.ch() }

// Await blocks until the future settles or ctx is done.
func (f *Future) Await(ctx context.Context) (Value, error) {
	select {
	case <-f.ch():
		return f.result, f.err
	case <-ctx.Done():
		return NewNull(), ctx.Err()
	}
}
