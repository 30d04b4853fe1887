// Package viewmodel holds the list and edit view-models that sit between the
// repository and a presentation layer.
package viewmodel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
)

// scope runs a view-model's asynchronous work and cancels it on teardown.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	g      errgroup.Group // commands
	bg     sync.WaitGroup // long-lived subscriptions
}

func newScope(parent context.Context) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel}
}

// launch runs fn in its own goroutine. The returned channel yields fn's
// result once; it yields apperr.ErrClosed when the scope is already closed.
func (s *scope) launch(fn func(ctx context.Context) error) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.ctx.Err() != nil {
		done <- apperr.ErrClosed
		return done
	}
	s.g.Go(func() error {
		err := fn(s.ctx)
		done <- err
		return err
	})
	return done
}

// spawn runs a long-lived task, such as a live query subscription, that
// ends only when the scope is cancelled. wait does not block on it.
func (s *scope) spawn(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}

// wait blocks until every launched command has returned. It reports the
// first command error seen over the scope's lifetime.
func (s *scope) wait() error {
	return s.g.Wait()
}

// close cancels in-flight tasks and waits for them to return.
func (s *scope) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	_ = s.wait()
	s.bg.Wait()
}

// finished returns a channel that already holds err.
func finished(err error) <-chan error {
	done := make(chan error, 1)
	done <- err
	return done
}
