package store

import (
	"context"
	"slices"
	"sync/atomic"

	"github.com/Princelohia9910/NotesApp/internal/apperr"
	"github.com/Princelohia9910/NotesApp/internal/models"
)

// hub fans the latest all-notes snapshot out to live query subscribers.
//
// A single goroutine owns the subscriber set and the current snapshot;
// public methods talk to it over channels. Subscriber channels hold one
// element and are conflated: a slow reader skips intermediate snapshots but
// always ends up with the newest one.
type hub struct {
	subscribeCh   chan chan []models.Note
	unsubscribeCh chan chan []models.Note
	publishCh     chan []models.Note
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

func newHub() *hub {
	h := &hub{
		subscribeCh:   make(chan chan []models.Note),
		unsubscribeCh: make(chan chan []models.Note),
		publishCh:     make(chan []models.Note),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *hub) run() {
	defer close(h.stopped)

	subs := make(map[chan []models.Note]struct{})
	var (
		current []models.Note
		primed  bool
	)

	deliver := func(ch chan []models.Note, notes []models.Note) {
		snapshot := slices.Clone(notes)
		select {
		case ch <- snapshot:
			return
		default:
		}
		// Drop the stale snapshot the reader has not consumed yet.
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}

	for {
		select {
		case <-h.stopCh:
			for ch := range subs {
				close(ch)
			}
			return

		case ch := <-h.subscribeCh:
			subs[ch] = struct{}{}
			if primed {
				deliver(ch, current)
			}

		case ch := <-h.unsubscribeCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case notes := <-h.publishCh:
			current, primed = notes, true
			for ch := range subs {
				deliver(ch, current)
			}

		case resp := <-h.countReqCh:
			resp <- len(subs)
		}
	}
}

func (h *hub) subscribe(ctx context.Context) (<-chan []models.Note, error) {
	if h.closed.Load() {
		return nil, apperr.ErrClosed
	}
	ch := make(chan []models.Note, 1)
	select {
	case h.subscribeCh <- ch:
	case <-h.stopped:
		return nil, apperr.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	go func() {
		select {
		case <-ctx.Done():
			h.unsubscribe(ch)
		case <-h.stopped:
		}
	}()
	return ch, nil
}

func (h *hub) unsubscribe(ch chan []models.Note) {
	select {
	case h.unsubscribeCh <- ch:
	case <-h.stopped:
	}
}

func (h *hub) publish(notes []models.Note) {
	select {
	case h.publishCh <- notes:
	case <-h.stopped:
	}
}

func (h *hub) count() int {
	resp := make(chan int, 1)
	select {
	case h.countReqCh <- resp:
	case <-h.stopped:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-h.stopped:
		return 0
	}
}

func (h *hub) close() {
	if h.closed.CompareAndSwap(false, true) {
		close(h.stopCh)
	}
	<-h.stopped
}

// ObserveAll returns a live query over every note, newest modification first.
// The channel first yields the current snapshot, then a full snapshot after
// every committed change. It is closed when ctx is done or the store closes.
func (db *DB) ObserveAll(ctx context.Context) (<-chan []models.Note, error) {
	return db.hub.subscribe(ctx)
}

// Observers returns the number of live query subscribers.
func (db *DB) Observers() int {
	return db.hub.count()
}
