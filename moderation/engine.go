// Package moderation classifies inbound messages against the single-writer
// policy. The engine is pure: it looks only at the values it is handed and
// never calls the directory, so decisions are testable as pattern matching.
package moderation

import (
	"coffeetalk/domain"
	"coffeetalk/domain/event"
	"coffeetalk/ownership"
)

type Engine struct {
	prefix   string
	severity domain.Severity
	botID    string
}

func NewEngine(prefix string, severity domain.Severity, botID string) Engine {
	return Engine{prefix: prefix, severity: severity, botID: botID}
}

func (e Engine) Prefix() string { return e.prefix }

// Eligible is the pre-directory filter: only plain top-level messages posted
// by humans in standard channels are worth a lookup. Everything rejected
// here costs zero directory calls.
func (e Engine) Eligible(msg event.MessagePosted) bool {
	if msg.Subtype != "" {
		return false
	}
	if !msg.TopLevel() {
		return false
	}
	if msg.ChannelType != "" && msg.ChannelType != "channel" {
		return false
	}
	if msg.UserID == "" || msg.UserID == e.botID {
		return false
	}
	return true
}

// Decide maps the channel and the resolved ownership relation to a decision.
// Out-of-scope channels and Unknown relations always allow; only a resolved
// non-owner draws the configured corrective action.
func (e Engine) Decide(channel domain.Channel, relation ownership.Relation) domain.Decision {
	if !channel.InScope(e.prefix) {
		return domain.Allow
	}
	switch relation {
	case ownership.Owner, ownership.Unknown:
		return domain.Allow
	case ownership.NotOwner:
		return e.severity.Corrective()
	default:
		return domain.Allow
	}
}
