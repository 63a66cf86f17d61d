package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

// Display sentinels used by the mock backend. The real backend sends proper
// values; the mock keeps the app's original labels.
const (
	GreetingSentinel = "Say hi!"
	TimestampNew     = "New"
	TimestampJustNow = "Just now"
)

type Prompt struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Profile is a potential match candidate. Immutable once fetched; the swipe
// flow consumes it read-only.
type Profile struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Gender     string   `json:"gender"`
	Age        int      `json:"age"`
	Bio        string   `json:"bio"`
	Photos     []string `json:"photos"`
	Occupation string   `json:"occupation,omitempty"`
	Education  string   `json:"education,omitempty"`
	Height     string   `json:"height,omitempty"`
	Location   string   `json:"location,omitempty"`
	Prompts    []Prompt `json:"prompts,omitempty"`
}

// FirstPhoto returns the profile's display photo.
func (p Profile) FirstPhoto() string {
	if len(p.Photos) == 0 {
		return ""
	}
	return p.Photos[0]
}

// MatchRecord is an established mutual connection. ID equals the originating
// profile id. Display fields are denormalized copies of the profile.
type MatchRecord struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender,omitempty"`
	Photo       string   `json:"photo"`
	Age         int      `json:"age,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Occupation  string   `json:"occupation,omitempty"`
	Education   string   `json:"education,omitempty"`
	Location    string   `json:"location,omitempty"`
	Prompts     []Prompt `json:"prompts,omitempty"`
	LastMessage string   `json:"lastMessage"`
	Timestamp   string   `json:"timestamp"`
	Unread      bool     `json:"unread"`
}

type MessageStatus string

const (
	StatusSending   MessageStatus = "sending"
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// ImageTag prefixes message text that carries an uploaded image reference
// instead of plain text.
const ImageTag = "[IMAGE]:"

// Message is a single chat utterance. IDs are client-generated for local
// sends and server-assigned for received messages.
type Message struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	SenderID  string        `json:"senderId"`
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status"`
}

func (m Message) IsImage() bool {
	return strings.HasPrefix(m.Text, ImageTag)
}

// ImageFile returns the uploaded filename for image messages, or "".
func (m Message) ImageFile() string {
	if !m.IsImage() {
		return ""
	}
	return strings.TrimPrefix(m.Text, ImageTag)
}

// GenderAll disables the gender filter.
const GenderAll = "all"

// Filters narrow the candidate pool. Zero values mean "no constraint".
type Filters struct {
	MinAge int    `json:"minAge,omitempty"`
	MaxAge int    `json:"maxAge,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// Allows reports whether the profile passes the filters. Age bounds are
// inclusive; gender is an exact match unless unset or GenderAll.
func (f Filters) Allows(p Profile) bool {
	if f.MinAge > 0 && p.Age < f.MinAge {
		return false
	}
	if f.MaxAge > 0 && p.Age > f.MaxAge {
		return false
	}
	if f.Gender != "" && f.Gender != GenderAll && p.Gender != f.Gender {
		return false
	}
	return true
}

// SwipeState is the per-device daily swipe bookkeeping.
type SwipeState struct {
	SwipedCount   int      `json:"swipedCount"`
	LastResetTime int64    `json:"lastResetTime"` // Unix seconds, 0 = never reset
	BatchIDs      []string `json:"batchIds"`
}

type ClientEventType string

const (
	ClientEventJoin        ClientEventType = "join"
	ClientEventLeave       ClientEventType = "leave"
	ClientEventSendMessage ClientEventType = "send_message"
	ClientEventTyping      ClientEventType = "typing"
	ClientEventStopTyping  ClientEventType = "stop_typing"
	ClientEventMessageRead ClientEventType = "message_read"
)

// ClientEvent is an outbound event-channel frame.
type ClientEvent struct {
	Type      ClientEventType `json:"type"`
	Room      string          `json:"room"`
	Text      string          `json:"text,omitempty"`
	SenderID  string          `json:"senderId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type ServerEventType string

const (
	ServerEventChatHistory    ServerEventType = "chat_history"
	ServerEventReceiveMessage ServerEventType = "receive_message"
	ServerEventTyping         ServerEventType = "typing"
	ServerEventStopTyping     ServerEventType = "stop_typing"
	ServerEventMessageRead    ServerEventType = "message_read"
)

// ServerEvent is an inbound event-channel frame.
type ServerEvent struct {
	Type      ServerEventType `json:"type"`
	Room      string          `json:"room,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	MessageID string          `json:"messageId,omitempty"`
	Message   *Message        `json:"message,omitempty"`
	History   []Message       `json:"history,omitempty"`
}
