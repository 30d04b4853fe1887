package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Princelohia9910/NotesApp/internal/repository"
	"github.com/Princelohia9910/NotesApp/internal/testutil"
	"github.com/Princelohia9910/NotesApp/internal/viewmodel"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(8)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(8)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: EventNotesState, Data: map[string]any{"is_loading": false}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: notes.state") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"is_loading":false`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestLateSubscriberGetsLastEvent(t *testing.T) {
	b := NewBroker(8)
	defer b.Close()

	b.Publish(Event{Type: EventNotesState, Data: map[string]int{"n": 1}})
	b.Publish(Event{Type: EventNotesState, Data: map[string]int{"n": 2}})

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Depending on loop scheduling the client sees the replayed last event
	// or the live publish; either way it must end on the newest one.
	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), `"n":2`) {
				return
			}
		case <-timeout:
			t.Fatal("late subscriber never saw the latest event")
		}
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(4)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Overfill the buffer; publishing must not block.
	for i := 0; i < 10; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(8)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: EventNotesState, Data: map[string]any{"notes": []any{}}})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: notes.state") {
		t.Errorf("handler output missing event: %q", body)
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPumpForwardsListStates(t *testing.T) {
	db := testutil.TestDB(t)
	list := viewmodel.NewList(context.Background(), repository.New(db), viewmodel.WithLogger(testutil.Logger()))
	defer list.Close()

	b := NewBroker(16)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Pump(ctx, list)

	testutil.Seed(t, db, "Pumped", "body", time.Now())

	testutil.Eventually(t, 2*time.Second, 10*time.Millisecond, func() bool {
		select {
		case msg := <-ch:
			return strings.Contains(string(msg), `"title":"Pumped"`)
		default:
			return false
		}
	}, "list state with the new note was not streamed")
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(8)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: EventNotesState, Data: map[string]string{}})
}
