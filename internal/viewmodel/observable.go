package viewmodel

import "sync"

// observable holds a state value and pushes every change to subscribers.
// Subscriber channels hold one value and are conflated, so a slow reader
// only ever misses intermediate states.
type observable[S any] struct {
	mu     sync.Mutex
	state  S
	subs   map[chan S]struct{}
	closed bool
}

func newObservable[S any](initial S) *observable[S] {
	return &observable[S]{state: initial, subs: make(map[chan S]struct{})}
}

func (o *observable[S]) get() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// update applies fn to the state and notifies subscribers.
func (o *observable[S]) update(fn func(s *S)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	fn(&o.state)
	for ch := range o.subs {
		offer(ch, o.state)
	}
}

func (o *observable[S]) subscribe() (<-chan S, func()) {
	ch := make(chan S, 1)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	o.subs[ch] = struct{}{}
	ch <- o.state

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if _, ok := o.subs[ch]; ok {
				delete(o.subs, ch)
				close(ch)
			}
		})
	}
}

func (o *observable[S]) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for ch := range o.subs {
		delete(o.subs, ch)
		close(ch)
	}
}

// offer replaces whatever ch holds with v. The caller must be the only sender.
func offer[S any](ch chan S, v S) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
