// Package notify sends the human-facing side effects: warnings, welcomes and
// onboarding notices. Everything here is fire and forget; the caller logs a
// returned error and moves on, nothing is retried.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"coffeetalk/contract"
	"coffeetalk/domain"
)

var _ contract.Notifier = (*Dispatcher)(nil)

type Dispatcher struct {
	directory contract.Directory
	log       *slog.Logger
}

func NewDispatcher(directory contract.Directory, log *slog.Logger) *Dispatcher {
	return &Dispatcher{directory: directory, log: log}
}

// WarnNonOwner explains the thread-only rule to a poster in private.
func (d *Dispatcher) WarnNonOwner(ctx context.Context, userID string, channel domain.Channel) error {
	dm, err := d.directory.OpenDirectMessage(ctx, userID)
	if err != nil {
		return fmt.Errorf("open dm for %s: %w", userID, err)
	}
	text := fmt.Sprintf(
		"☕ Heads up! #%s is a personal channel: only its owner starts new conversations there. "+
			"Feel free to reply in a thread instead.", channel.Name)
	if err := d.directory.PostMessage(ctx, dm, text); err != nil {
		return fmt.Errorf("post warning to %s: %w", userID, err)
	}
	return nil
}

// Welcome posts the opening message into a freshly provisioned or adopted
// channel.
func (d *Dispatcher) Welcome(ctx context.Context, channel domain.Channel, owner domain.User) error {
	text := fmt.Sprintf(
		"☕ Welcome to Coffee Talk! This is <@%s>'s channel. "+
			"Only they start new conversations here, everyone else replies in threads.", owner.ID)
	if err := d.directory.PostMessage(ctx, channel.ID, text); err != nil {
		return fmt.Errorf("post welcome to %s: %w", channel.Name, err)
	}
	return nil
}

// Onboard tells a new member how to get their own channel.
func (d *Dispatcher) Onboard(ctx context.Context, user domain.User) error {
	dm, err := d.directory.OpenDirectMessage(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("open dm for %s: %w", user.ID, err)
	}
	text := "☕ Welcome! You can get a personal Coffee Talk channel where only you start " +
		"conversations. Run `/coffeetalk-create` to set one up, or ask an administrator."
	if err := d.directory.PostMessage(ctx, dm, text); err != nil {
		return fmt.Errorf("post onboarding to %s: %w", user.ID, err)
	}
	return nil
}
