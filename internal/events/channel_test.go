package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/neilotoole/slogt"

	"soulfix/internal/models"
)

var errConnClosed = errors.New("use of closed connection")

// fakeConn scripts the socket: reads pop from a queue, writes are recorded.
type fakeConn struct {
	reads chan models.ServerEvent

	mu      sync.Mutex
	written []models.ClientEvent

	closeOnce sync.Once
	closed    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		reads:  make(chan models.ServerEvent, 16),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadJSON(v interface{}) error {
	select {
	case ev := <-f.reads:
		*(v.(*models.ServerEvent)) = ev
		return nil
	case <-f.closed:
		return errConnClosed
	}
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	select {
	case <-f.closed:
		return errConnClosed
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, v.(models.ClientEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) writtenEvents() []models.ClientEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ClientEvent(nil), f.written...)
}

func TestInboundDelivery(t *testing.T) {
	conn := newFakeConn()
	channel := NewChannel(conn, slogt.New(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- channel.Run(ctx) }()

	conn.reads <- models.ServerEvent{Type: models.ServerEventTyping, Room: "r1", UserID: "u2"}
	conn.reads <- models.ServerEvent{Type: models.ServerEventStopTyping, Room: "r1"}

	first := <-channel.Events()
	if first.Type != models.ServerEventTyping || first.Room != "r1" {
		t.Errorf("unexpected first event: %+v", first)
	}
	second := <-channel.Events()
	if second.Type != models.ServerEventStopTyping {
		t.Errorf("unexpected second event: %+v", second)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run should swallow cancellation, got %v", err)
	}

	// Events closes once Run returns.
	if _, open := <-channel.Events(); open {
		t.Error("Events not closed after Run returned")
	}
}

func TestOutboundWrites(t *testing.T) {
	conn := newFakeConn()
	channel := NewChannel(conn, slogt.New(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- channel.Run(ctx) }()

	sentAt := time.Unix(1700000000, 0)
	channel.Join("r1")
	channel.SendMessage("r1", "hello", "u1", sentAt)
	channel.MessageRead("r1", "m9")
	channel.Leave("r1")

	deadline := time.After(time.Second)
	for len(conn.writtenEvents()) < 4 {
		select {
		case <-deadline:
			t.Fatalf("writes never flushed: %+v", conn.writtenEvents())
		case <-time.After(2 * time.Millisecond):
		}
	}
	cancel()
	<-done

	written := conn.writtenEvents()
	if written[0].Type != models.ClientEventJoin || written[0].Room != "r1" {
		t.Errorf("unexpected first write: %+v", written[0])
	}
	if written[1].Type != models.ClientEventSendMessage || written[1].Text != "hello" ||
		written[1].SenderID != "u1" || written[1].Timestamp != sentAt.Unix() {
		t.Errorf("unexpected send write: %+v", written[1])
	}
	if written[2].MessageID != "m9" {
		t.Errorf("unexpected read receipt: %+v", written[2])
	}
	if written[3].Type != models.ClientEventLeave {
		t.Errorf("unexpected last write: %+v", written[3])
	}
}

func TestSocketFailureStopsRun(t *testing.T) {
	conn := newFakeConn()
	channel := NewChannel(conn, slogt.New(t))

	done := make(chan error, 1)
	go func() { done <- channel.Run(context.Background()) }()

	// Kill the socket out from under the pump.
	conn.Close()

	select {
	case err := <-done:
		if !errors.Is(err, errConnClosed) {
			t.Errorf("expected the socket error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after the socket failed")
	}
}
