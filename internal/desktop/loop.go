package desktop

import (
	"context"
	"sync"
)

// Loop runs submitted work on a single goroutine, so every operation on the
// desktop is atomic with respect to every other one.
type Loop struct {
	ops       chan func()
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a loop with the given submission buffer.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		ops:     make(chan func(), buffer),
		stopped: make(chan struct{}),
	}
}

// Run executes submitted work until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	defer l.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stopped:
			return
		case op := <-l.ops:
			op()
		}
	}
}

// Stop ends Run. Pending submissions fail with ErrLoopClosed.
func (l *Loop) Stop() {
	l.closeOnce.Do(func() { close(l.stopped) })
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	op := func() {
		defer close(done)
		fn()
	}
	select {
	case l.ops <- op:
	case <-l.stopped:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		// The op may have been accepted but never run.
		select {
		case <-done:
			return nil
		default:
			return ErrLoopClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn without waiting for it to run. It reports false when the
// loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.ops <- fn:
		return true
	case <-l.stopped:
		return false
	}
}
