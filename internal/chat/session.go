package chat

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"soulfix/internal/content"
	"soulfix/internal/models"

	"github.com/google/uuid"
)

const (
	defaultSentDelay      = 500 * time.Millisecond
	defaultDeliveredDelay = 1000 * time.Millisecond
	defaultTypingIdle     = 3 * time.Second
)

// Emitter is the slice of the event channel the session emits on.
type Emitter interface {
	SendMessage(room, text, senderID string, timestamp time.Time)
	Typing(room, userID string)
	StopTyping(room string)
	MessageRead(room, messageID string)
	Leave(room string)
}

// MatchList is the slice of the matcher the session needs for last-message
// bookkeeping and unmatching.
type MatchList interface {
	UpdateLastMessage(matchID, text string)
	Unmatch(ctx context.Context, matchID string) error
}

type Config struct {
	MatchID string
	SelfID  string
	Emitter Emitter
	Matches MatchList
	Logger  *slog.Logger

	// Status timing overrides, for tests. Zero values take the defaults.
	SentDelay      time.Duration
	DeliveredDelay time.Duration
	TypingIdle     time.Duration
}

// Session holds the ordered message log for one open conversation, merging
// history replay, live events, and optimistic local sends. The log is
// discarded when the session closes; the next open replays history. Status
// timers fire on their own goroutines, hence the mutex.
type Session struct {
	matchID string
	selfID  string
	emitter Emitter
	matches MatchList
	log     *slog.Logger

	sentDelay      time.Duration
	deliveredDelay time.Duration
	typingIdle     time.Duration

	newID func() string

	mu          sync.Mutex
	closed      bool
	messages    []models.Message
	timers      map[string][]*time.Timer
	peerTyping  bool
	typingTimer *time.Timer
}

func NewSession(cfg Config) *Session {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SentDelay == 0 {
		cfg.SentDelay = defaultSentDelay
	}
	if cfg.DeliveredDelay == 0 {
		cfg.DeliveredDelay = defaultDeliveredDelay
	}
	if cfg.TypingIdle == 0 {
		cfg.TypingIdle = defaultTypingIdle
	}
	return &Session{
		matchID:        cfg.MatchID,
		selfID:         cfg.SelfID,
		emitter:        cfg.Emitter,
		matches:        cfg.Matches,
		log:            cfg.Logger,
		sentDelay:      cfg.SentDelay,
		deliveredDelay: cfg.DeliveredDelay,
		typingIdle:     cfg.TypingIdle,
		newID:          uuid.NewString,
		timers:         make(map[string][]*time.Timer),
	}
}

// HandleEvent applies one inbound server event to the log. Unknown message
// ids and duplicate events are no-ops, never errors: interleaved callbacks
// may arrive in any order.
func (s *Session) HandleEvent(ev models.ServerEvent) {
	if ev.Room != "" && ev.Room != s.matchID {
		return
	}

	switch ev.Type {
	case models.ServerEventChatHistory:
		s.replaceHistory(ev.History)
	case models.ServerEventReceiveMessage:
		s.receive(ev)
	case models.ServerEventTyping:
		if ev.UserID != s.selfID {
			s.setPeerTyping()
		}
	case models.ServerEventStopTyping:
		s.clearPeerTyping()
	case models.ServerEventMessageRead:
		s.markRead(ev.MessageID)
	}
}

// replaceHistory swaps the whole log for the server-provided ordered list.
// Pending status timers reference messages that no longer exist, so they are
// all dropped.
func (s *Session) replaceHistory(history []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.cancelMessageTimers()
	s.messages = make([]models.Message, len(history))
	for i, msg := range history {
		msg.Text = content.Sanitize(msg.Text)
		s.messages[i] = msg
	}
}

func (s *Session) receive(ev models.ServerEvent) {
	if ev.Message == nil {
		return
	}
	msg := *ev.Message
	if msg.SenderID == s.selfID {
		// Echo of our own optimistic send.
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.findLocked(msg.ID) != -1 {
		s.mu.Unlock()
		return
	}
	msg.Text = content.Sanitize(msg.Text)
	msg.Status = models.StatusRead
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	// The conversation is on screen, so acknowledge immediately.
	s.emitter.MessageRead(s.matchID, msg.ID)
}

// Send appends an optimistic message in sending state, emits it upstream,
// and schedules the local sent/delivered status timers. The timers are
// approximations of server acknowledgment and are canceled if the message
// is deleted or the session closes.
func (s *Session) Send(text string) models.Message {
	msg := models.Message{
		ID:        s.newID(),
		Text:      text,
		SenderID:  s.selfID,
		Timestamp: time.Now(),
		Status:    models.StatusSending,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return msg
	}
	s.messages = append(s.messages, msg)
	s.timers[msg.ID] = []*time.Timer{
		time.AfterFunc(s.sentDelay, func() { s.advanceStatus(msg.ID, models.StatusSent) }),
		time.AfterFunc(s.deliveredDelay, func() { s.advanceStatus(msg.ID, models.StatusDelivered) }),
	}
	s.mu.Unlock()

	s.emitter.SendMessage(s.matchID, msg.Text, s.selfID, msg.Timestamp)
	s.emitter.StopTyping(s.matchID)
	s.matches.UpdateLastMessage(s.matchID, msg.Text)
	return msg
}

// InputChanged signals the peer that we are typing.
func (s *Session) InputChanged() {
	s.emitter.Typing(s.matchID, s.selfID)
}

// Delete removes a message locally and cancels its pending status timers so
// a stale status can never resurrect it. The peer and server are not
// notified.
func (s *Session) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findLocked(id)
	if idx == -1 {
		return
	}
	s.messages = append(s.messages[:idx], s.messages[idx+1:]...)
	for _, t := range s.timers[id] {
		t.Stop()
	}
	delete(s.timers, id)
}

// Messages returns a copy of the current ordered log.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// LastInbound returns the most recent message from the peer, if any.
func (s *Session) LastInbound() (models.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].SenderID != s.selfID {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// PeerTyping reports the transient typing flag.
func (s *Session) PeerTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerTyping
}

// Unmatch removes the match and, on success, tears the session down. On
// failure the session stays usable.
func (s *Session) Unmatch(ctx context.Context) error {
	if err := s.matches.Unmatch(ctx, s.matchID); err != nil {
		return err
	}
	s.Close()
	return nil
}

// Close leaves the room and cancels every pending timer so no callback
// mutates state for a conversation no longer open. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancelMessageTimers()
	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}
	s.peerTyping = false
	s.mu.Unlock()

	s.emitter.Leave(s.matchID)
}

func (s *Session) setPeerTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.peerTyping = true
	// Debounce: each typing event restarts the idle window.
	if s.typingTimer != nil {
		s.typingTimer.Stop()
	}
	s.typingTimer = time.AfterFunc(s.typingIdle, s.clearPeerTyping)
}

func (s *Session) clearPeerTyping() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.peerTyping = false
	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}
}

func (s *Session) markRead(id string) {
	s.advanceStatus(id, models.StatusRead)
}

var statusRank = map[models.MessageStatus]int{
	models.StatusSending:   0,
	models.StatusSent:      1,
	models.StatusDelivered: 2,
	models.StatusRead:      3,
}

// advanceStatus moves a message's status forward, never backward: a read
// receipt can land before the delivered timer fires. Unknown ids are a
// no-op.
func (s *Session) advanceStatus(id string, status models.MessageStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	idx := s.findLocked(id)
	if idx == -1 {
		return
	}
	if statusRank[status] > statusRank[s.messages[idx].Status] {
		s.messages[idx].Status = status
	}
}

// findLocked returns the index of the message with the given id, or -1.
// Callers must hold s.mu.
func (s *Session) findLocked(id string) int {
	for i, m := range s.messages {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// cancelMessageTimers stops all pending status timers. Callers must hold
// s.mu.
func (s *Session) cancelMessageTimers() {
	for id, ts := range s.timers {
		for _, t := range ts {
			t.Stop()
		}
		delete(s.timers, id)
	}
}
