package desktop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoopSerializesWork(t *testing.T) {
	loop := NewLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := loop.Do(ctx, func() { counter++ }); err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	var got int
	if err := loop.Do(ctx, func() { got = counter }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
}

func TestLoopPostRunsAsynchronously(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	ran := make(chan struct{})
	if !loop.Post(func() { close(ran) }) {
		t.Fatal("expected Post to succeed on a running loop")
	}
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("posted work never ran")
	}
}

func TestLoopStopped(t *testing.T) {
	loop := NewLoop(1)
	loop.Stop()

	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed, got %v", err)
	}
	if loop.Post(func() {}) {
		t.Fatal("expected Post to fail on a stopped loop")
	}
}

func TestLoopDoHonoursContext(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing runs the loop, so only the context can end the wait.
	if err := loop.Do(ctx, func() {}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunExitsOnContextCancel(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrLoopClosed) {
		t.Fatalf("expected ErrLoopClosed after Run returned, got %v", err)
	}
}
