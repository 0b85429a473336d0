package screens

import (
	"context"
	"sync"
)

// Scope ties background work to a screen's lifetime. Close cancels running
// tasks and waits for them.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Go runs fn in the background. It returns false once the scope is closed.
func (s *Scope) Go(fn func(ctx context.Context)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
	return true
}

func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// launch emits loading, then the result of fn, then closes the channel. On a
// closed scope only loading is delivered.
func launch[T any](s *Scope, loading T, fn func(ctx context.Context) T) <-chan T {
	ch := make(chan T, 2)
	ch <- loading
	started := s.Go(func(ctx context.Context) {
		defer close(ch)
		ch <- fn(ctx)
	})
	if !started {
		close(ch)
	}
	return ch
}

// Last drains ch and returns the final value, usually the terminal state.
func Last[T any](ch <-chan T) T {
	var last T
	for v := range ch {
		last = v
	}
	return last
}
