package provisioning

import (
	"context"
	"errors"
	"fmt"

	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
	"coffeetalk/slug"
)

// Adopt joins the bot to a channel that already exists, typically one an
// administrator created by hand. Two checks gate the join: the channel name
// must be the one the requester's normalized identity implies, and the
// command must have been invoked from inside that very channel. Without
// both, a user could have the bot claim somebody else's channel. No
// directory mutation happens before both checks pass.
func (s *Service) Adopt(ctx context.Context, requester domain.User, invokedChannelID string) (domain.Channel, error) {
	ownerSlug := slug.Normalize(requester.Name)
	if ownerSlug == "" {
		return domain.Channel{}, fmt.Errorf("user %s (%q): %w", requester.ID, requester.Name, cerrors.ErrEmptySlug)
	}
	name := domain.ChannelName(s.prefix, ownerSlug)

	channel, err := s.directory.LookupChannelByName(ctx, name)
	if err != nil {
		if errors.Is(err, cerrors.ErrChannelNotFound) {
			return domain.Channel{}, fmt.Errorf("%q: %w", name, cerrors.ErrChannelNotFound)
		}
		return domain.Channel{}, fmt.Errorf("lookup %q: %w", name, err)
	}

	if channel.ID != invokedChannelID {
		return domain.Channel{}, fmt.Errorf("%q was invoked from elsewhere: %w", name, cerrors.ErrNotChannelOwner)
	}

	if err := s.directory.JoinChannel(ctx, channel.ID); err != nil &&
		!errors.Is(err, cerrors.ErrAlreadyInChannel) {
		return domain.Channel{}, fmt.Errorf("join %q: %w", name, err)
	}

	if err := s.notifier.Welcome(ctx, channel, requester); err != nil {
		s.log.Warn("Welcome message failed after adoption", "channel", name, "error", err)
	}

	s.log.Info("Adopted existing owner channel", "channel", name, "owner", requester.ID)
	return channel, nil
}
