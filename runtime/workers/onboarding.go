package workers

import (
	"context"
	"log/slog"
	"time"

	"coffeetalk/contract"
	"coffeetalk/domain/event"
)

var _ contract.Worker = (*OnboardingWorker)(nil)

// OnboardingWorker greets new members once. Fire and forget: a failed DM is
// logged and not retried, but the member stays unrecorded so the next join
// signal gets another chance.
type OnboardingWorker struct {
	notifier  contract.Notifier
	seen      contract.OnboardingLog
	members   chan event.MemberJoined
	telemetry chan event.Envelope
	callBound time.Duration
	log       *slog.Logger
}

func NewOnboardingWorker(notifier contract.Notifier, seen contract.OnboardingLog,
	members chan event.MemberJoined, telemetry chan event.Envelope,
	callBound time.Duration, log *slog.Logger) *OnboardingWorker {
	return &OnboardingWorker{
		notifier:  notifier,
		seen:      seen,
		members:   members,
		telemetry: telemetry,
		callBound: callBound,
		log:       log,
	}
}

func (w *OnboardingWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case joined, ok := <-w.members:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, joined)
		}
	}
}

func (w *OnboardingWorker) handle(ctx context.Context, joined event.MemberJoined) {
	user := joined.User
	if !user.Provisionable() {
		return
	}

	seen, err := w.seen.Seen(user.ID)
	if err != nil {
		w.log.Warn("Onboarding log unavailable, skipping notice",
			"user_id", user.ID, "error", err)
		return
	}
	if seen {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, w.callBound)
	defer cancel()

	if err := w.notifier.Onboard(callCtx, user); err != nil {
		w.log.Warn("Onboarding notice failed", "user_id", user.ID, "error", err)
		return
	}
	if err := w.seen.Record(user.ID); err != nil {
		w.log.Warn("Onboarding record failed", "user_id", user.ID, "error", err)
	}

	select {
	case w.telemetry <- event.NewEnvelope(event.KindTelemetry, event.OnboardingSent{UserID: user.ID}):
	default:
	}
}
