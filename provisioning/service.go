// Package provisioning creates and adopts owner channels. Creation is
// idempotent by construction: channel names are globally unique in the
// directory and the slug function is deterministic, so a second request for
// the same identity observes a name conflict instead of a duplicate.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"coffeetalk/contract"
	"coffeetalk/domain"
	"coffeetalk/domain/event"
	cerrors "coffeetalk/errors"
	"coffeetalk/slug"
)

type Service struct {
	directory contract.Directory
	notifier  contract.Notifier
	prefix    string
	log       *slog.Logger
	validate  *validator.Validate
	telemetry func(event.Envelope)
}

func NewService(directory contract.Directory, notifier contract.Notifier,
	prefix string, log *slog.Logger) *Service {
	return &Service{
		directory: directory,
		notifier:  notifier,
		prefix:    prefix,
		log:       log,
		validate:  validator.New(),
	}
}

// SetTelemetry installs a best-effort sink for provisioning outcomes. May
// stay nil; the report CLI runs without one.
func (s *Service) SetTelemetry(sink func(event.Envelope)) {
	s.telemetry = sink
}

func (s *Service) emit(ownerSlug string, conflict, failed bool) {
	if s.telemetry == nil {
		return
	}
	s.telemetry(event.NewEnvelope(event.KindTelemetry, event.ChannelProvisioned{
		Slug:     ownerSlug,
		Conflict: conflict,
		Failed:   failed,
	}))
}

type request struct {
	TargetID   string `validate:"required"`
	TargetName string `validate:"required"`
}

// Provisioned reports how far the best-effort sequence got. Channel.ID is
// set as soon as creation succeeded; the per-step flags let callers report a
// partial outcome (created but not invited) instead of a flat success or
// failure.
type Provisioned struct {
	Channel  domain.Channel
	Invited  bool
	Joined   bool
	Welcomed bool
}

// Provision creates the owner channel for target, invites them, joins the
// bot and posts the welcome. There is no retry and no adoption of an
// existing channel here: a name conflict is surfaced as ErrNameTaken
// wrapped with the candidate name, everything else as the underlying cause.
func (s *Service) Provision(ctx context.Context, target domain.User) (Provisioned, error) {
	if err := s.validate.Struct(request{TargetID: target.ID, TargetName: target.Name}); err != nil {
		return Provisioned{}, fmt.Errorf("invalid provisioning target: %w", err)
	}

	ownerSlug := slug.Normalize(target.Name)
	if ownerSlug == "" {
		return Provisioned{}, fmt.Errorf("user %s (%q): %w", target.ID, target.Name, cerrors.ErrEmptySlug)
	}
	name := domain.ChannelName(s.prefix, ownerSlug)

	channel, err := s.directory.CreateChannel(ctx, name, false)
	if err != nil {
		if errors.Is(err, cerrors.ErrNameTaken) {
			s.emit(ownerSlug, true, false)
			return Provisioned{}, fmt.Errorf("%q: %w", name, cerrors.ErrNameTaken)
		}
		s.emit(ownerSlug, false, true)
		return Provisioned{}, fmt.Errorf("create %q: %w", name, err)
	}
	out := Provisioned{Channel: channel}

	if err := s.directory.InviteUser(ctx, channel.ID, target.ID); err != nil &&
		!errors.Is(err, cerrors.ErrAlreadyInChannel) {
		s.log.Error("Channel created but invitation failed",
			"operation", "InviteUser", "channel", name, "user_id", target.ID, "error", err)
		s.emit(ownerSlug, false, true)
		return out, fmt.Errorf("invite %s to %q: %w", target.ID, name, err)
	}
	out.Invited = true

	// Enforcement needs the bot inside the channel to see its messages.
	if err := s.directory.JoinChannel(ctx, channel.ID); err != nil &&
		!errors.Is(err, cerrors.ErrAlreadyInChannel) {
		s.log.Error("Channel created but bot join failed",
			"operation", "JoinChannel", "channel", name, "error", err)
		s.emit(ownerSlug, false, true)
		return out, fmt.Errorf("join %q: %w", name, err)
	}
	out.Joined = true

	if err := s.notifier.Welcome(ctx, channel, target); err != nil {
		s.log.Warn("Welcome message failed", "channel", name, "error", err)
		s.emit(ownerSlug, false, true)
		return out, fmt.Errorf("welcome in %q: %w", name, err)
	}
	out.Welcomed = true

	s.emit(ownerSlug, false, false)
	s.log.Info("Owner channel provisioned", "channel", name, "owner", target.ID)
	return out, nil
}
