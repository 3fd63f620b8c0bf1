package workers

import (
	"context"
	"log/slog"

	"coffeetalk/contract"
	"coffeetalk/domain/event"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout routes inbound platform envelopes to the worker that handles
// their payload type, and mirrors everything onto the telemetry channel on a
// best-effort basis. It is the only consumer of the transport's output, so
// per-channel arrival order is preserved downstream.
type EventFanout struct {
	log       *slog.Logger
	inbound   chan event.Envelope
	messages  chan event.MessagePosted
	commands  chan event.CommandInvoked
	members   chan event.MemberJoined
	telemetry chan event.Envelope
}

func NewEventFanout(log *slog.Logger,
	inbound chan event.Envelope,
	messages chan event.MessagePosted,
	commands chan event.CommandInvoked,
	members chan event.MemberJoined,
	telemetry chan event.Envelope) *EventFanout {
	return &EventFanout{
		log:       log,
		inbound:   inbound,
		messages:  messages,
		commands:  commands,
		members:   members,
		telemetry: telemetry,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case envelope, ok := <-w.inbound:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.route(ctx, envelope)
		}
	}
}

func (w *EventFanout) route(ctx context.Context, envelope event.Envelope) {
	switch payload := envelope.Payload.(type) {
	case event.MessagePosted:
		select {
		case <-ctx.Done():
		case w.messages <- payload:
		}
	case event.CommandInvoked:
		select {
		case <-ctx.Done():
		case w.commands <- payload:
		}
	case event.MemberJoined:
		select {
		case <-ctx.Done():
		case w.members <- payload:
		}
	default:
		w.log.Debug("Unhandled envelope payload", "kind", envelope.Kind)
	}

	select {
	case w.telemetry <- envelope:
	default:
		w.log.Debug("Telemetry event lost")
	}
}
