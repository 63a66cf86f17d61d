package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"soulfix/internal/models"

	"github.com/gorilla/websocket"
)

// wsConn is the subset of *websocket.Conn the channel uses, so tests can
// substitute a fake socket.
type wsConn interface {
	Close() error
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
}

// Channel is the live event stream for chat: one websocket connection,
// joined to one room per open conversation. Inbound server events are
// delivered on Events; outbound events are queued and written by Run.
type Channel struct {
	ws  wsConn
	log *slog.Logger

	outbound chan models.ClientEvent
	inbound  chan models.ServerEvent
	errorCh  chan error
}

// Dial connects to the event endpoint.
func Dial(ctx context.Context, socketURL string, log *slog.Logger) (*Channel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return nil, err
	}
	return NewChannel(conn, log), nil
}

func NewChannel(ws wsConn, log *slog.Logger) *Channel {
	if log == nil {
		log = slog.Default()
	}
	return &Channel{
		ws:       ws,
		log:      log,
		outbound: make(chan models.ClientEvent, 16),
		inbound:  make(chan models.ServerEvent, 16),
		errorCh:  make(chan error, 2),
	}
}

// Events delivers inbound server events. Closed when Run returns.
func (c *Channel) Events() <-chan models.ServerEvent {
	return c.inbound
}

// Run pumps the connection until the context is canceled or the socket
// fails, then closes the socket and the inbound channel.
func (c *Channel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.errorCh <- c.pumpEvents(ctx)
		cancel()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.errorCh <- c.writeLoop(ctx)
		cancel()
	}()

	var err error
	select {
	case err = <-c.errorCh:
	case <-ctx.Done():
	}
	c.ws.Close()
	wg.Wait()
	close(c.inbound)

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (c *Channel) pumpEvents(ctx context.Context) error {
	for {
		var ev models.ServerEvent
		if err := c.ws.ReadJSON(&ev); err != nil {
			return err
		}
		select {
		case c.inbound <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Channel) writeLoop(ctx context.Context) error {
	for {
		select {
		case ev := <-c.outbound:
			if err := c.ws.WriteJSON(ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Channel) emit(ev models.ClientEvent) {
	select {
	case c.outbound <- ev:
	default:
		c.log.Warn("outbound event queue full, dropping", "type", ev.Type, "room", ev.Room)
	}
}

func (c *Channel) Join(room string) {
	c.emit(models.ClientEvent{Type: models.ClientEventJoin, Room: room})
}

func (c *Channel) Leave(room string) {
	c.emit(models.ClientEvent{Type: models.ClientEventLeave, Room: room})
}

func (c *Channel) SendMessage(room, text, senderID string, timestamp time.Time) {
	c.emit(models.ClientEvent{
		Type:      models.ClientEventSendMessage,
		Room:      room,
		Text:      text,
		SenderID:  senderID,
		Timestamp: timestamp.Unix(),
	})
}

func (c *Channel) Typing(room, userID string) {
	c.emit(models.ClientEvent{Type: models.ClientEventTyping, Room: room, UserID: userID})
}

func (c *Channel) StopTyping(room string) {
	c.emit(models.ClientEvent{Type: models.ClientEventStopTyping, Room: room})
}

func (c *Channel) MessageRead(room, messageID string) {
	c.emit(models.ClientEvent{Type: models.ClientEventMessageRead, Room: room, MessageID: messageID})
}
