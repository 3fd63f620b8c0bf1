// Package event defines the inbound platform events the runtime dispatches.
package event

import (
	"time"

	"github.com/google/uuid"

	"coffeetalk/domain"
)

type Kind string

const (
	KindMessage   Kind = "message"
	KindMember    Kind = "member"
	KindCommand   Kind = "command"
	KindTelemetry Kind = "telemetry"
)

// Envelope wraps one inbound event for the worker pipeline.
type Envelope struct {
	ID         uuid.UUID
	Kind       Kind
	ReceivedAt time.Time
	Payload    any
}

func NewEnvelope(kind Kind, payload any) Envelope {
	return Envelope{
		ID:         uuid.New(),
		Kind:       kind,
		ReceivedAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// MessagePosted is a message event as delivered by the platform.
// ThreadParent is nil for top-level posts and set for thread replies.
type MessagePosted struct {
	ChannelID    string
	ChannelType  string // "channel", "group", "im"
	UserID       string
	Text         string
	Timestamp    string // platform message id within its channel
	ThreadParent *string
	Subtype      string // non-empty for joins, edits, bot housekeeping
}

// TopLevel reports whether the message starts a new conversation.
func (m MessagePosted) TopLevel() bool {
	return m.ThreadParent == nil || *m.ThreadParent == "" || *m.ThreadParent == m.Timestamp
}

// MemberJoined signals a new workspace member.
type MemberJoined struct {
	User domain.User
}

// CommandInvoked is a slash-command invocation.
type CommandInvoked struct {
	Command     string // without the leading slash
	UserID      string
	ChannelID   string
	ChannelName string
	Text        string // raw argument text
}
