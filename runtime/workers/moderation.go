package workers

import (
	"context"
	"log/slog"
	"time"

	"coffeetalk/contract"
	"coffeetalk/domain"
	"coffeetalk/domain/event"
	"coffeetalk/moderation"
	"coffeetalk/ownership"
)

var _ contract.Worker = (*ModerationWorker)(nil)

// ModerationWorker applies the single-writer policy to every message event.
// Ownership is re-derived from the directory on each message; nothing is
// cached, so there is no state to go stale between events.
type ModerationWorker struct {
	engine    moderation.Engine
	resolver  *ownership.Resolver
	directory contract.Directory
	notifier  contract.Notifier
	messages  chan event.MessagePosted
	telemetry chan event.Envelope
	callBound time.Duration
	log       *slog.Logger
}

func NewModerationWorker(engine moderation.Engine, resolver *ownership.Resolver,
	directory contract.Directory, notifier contract.Notifier,
	messages chan event.MessagePosted, telemetry chan event.Envelope,
	callBound time.Duration, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{
		engine:    engine,
		resolver:  resolver,
		directory: directory,
		notifier:  notifier,
		messages:  messages,
		telemetry: telemetry,
		callBound: callBound,
		log:       log,
	}
}

func (w *ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case msg, ok := <-w.messages:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

// handle runs the filter, scope, ownership and decision stages for one
// message, then executes the corrective action. Every directory call is
// bounded; a timeout resolves to Unknown and therefore to no action.
func (w *ModerationWorker) handle(ctx context.Context, msg event.MessagePosted) {
	if !w.engine.Eligible(msg) {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, w.callBound)
	defer cancel()

	channel, err := w.directory.GetChannel(callCtx, msg.ChannelID)
	if err != nil {
		w.log.Warn("Channel lookup failed, skipping message",
			"operation", "GetChannel", "channel_id", msg.ChannelID, "error", err)
		return
	}

	// Cheapest rejection after the name is known.
	decision := domain.Allow
	if channel.InScope(w.engine.Prefix()) {
		relation := w.resolver.Relation(callCtx, channel, msg.UserID)
		decision = w.engine.Decide(channel, relation)
	}

	w.apply(callCtx, decision, msg, channel)

	select {
	case w.telemetry <- event.NewEnvelope(event.KindTelemetry, event.DecisionTaken{
		Decision:  decision,
		ChannelID: channel.ID,
		UserID:    msg.UserID,
	}):
	default:
	}
}

func (w *ModerationWorker) apply(ctx context.Context, decision domain.Decision,
	msg event.MessagePosted, channel domain.Channel) {
	switch decision {
	case domain.Allow:
		return
	case domain.Retract:
		if err := w.directory.DeleteMessage(ctx, channel.ID, msg.Timestamp); err != nil {
			w.log.Error("Message retraction failed",
				"operation", "DeleteMessage", "channel", channel.Name,
				"timestamp", msg.Timestamp, "error", err)
		}
		fallthrough
	case domain.Warn:
		if err := w.notifier.WarnNonOwner(ctx, msg.UserID, channel); err != nil {
			w.log.Warn("Warning notice failed", "user_id", msg.UserID, "error", err)
		}
		w.log.Info("Corrective action taken",
			"decision", decision.String(), "channel", channel.Name, "user_id", msg.UserID)
	}
}
