// Package ownership resolves who may start conversations in a channel.
package ownership

import (
	"context"
	"errors"
	"log/slog"

	"coffeetalk/contract"
	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
	"coffeetalk/slug"
)

// Relation is the outcome of resolving a user against a channel's owner.
type Relation int

const (
	// Unknown means no resolution path produced an answer. Callers must
	// treat it as "do not act": ambiguity never justifies touching content.
	Unknown Relation = iota
	Owner
	NotOwner
)

func (r Relation) String() string {
	switch r {
	case Owner:
		return "OWNER"
	case NotOwner:
		return "NOT_OWNER"
	default:
		return "UNKNOWN"
	}
}

// Resolver applies one fixed policy: the platform-recorded creator wins when
// it names a real (non-bot) account, otherwise the channel name suffix is
// matched against the user's normalized identity. Channels the bot created
// itself record the bot as creator, which is why the bot falls through to
// the name rule instead of owning every channel it provisioned.
type Resolver struct {
	directory contract.Directory
	prefix    string
	log       *slog.Logger
}

func NewResolver(directory contract.Directory, prefix string, log *slog.Logger) *Resolver {
	return &Resolver{directory: directory, prefix: prefix, log: log}
}

// Relation resolves whether userID owns the channel. The channel is assumed
// in scope; out-of-scope names yield Unknown.
func (r *Resolver) Relation(ctx context.Context, channel domain.Channel, userID string) Relation {
	suffix, inScope := channel.OwnerSlug(r.prefix)
	if !inScope {
		return Unknown
	}

	if channel.Creator != "" && channel.Creator != r.directory.BotUserID() {
		creator, err := r.directory.GetUser(ctx, channel.Creator)
		switch {
		case err == nil && !creator.Deleted:
			if channel.Creator == userID {
				return Owner
			}
			return NotOwner
		case err != nil && !errors.Is(err, cerrors.ErrUserNotFound):
			// Directory failure, not an absent account. Do not guess.
			r.log.Warn("Owner resolution failed, failing open",
				"operation", "GetUser", "user_id", channel.Creator, "error", err)
			return Unknown
		}
		// Creator account is gone, fall back to the naming convention.
	}

	if suffix == "" {
		r.log.Warn("Channel has an empty owner slug, skipping enforcement",
			"channel", channel.Name)
		return Unknown
	}

	user, err := r.directory.GetUser(ctx, userID)
	if err != nil {
		r.log.Warn("Owner resolution failed, failing open",
			"operation", "GetUser", "user_id", userID, "error", err)
		return Unknown
	}
	if slug.Normalize(user.Name) == suffix || slug.Normalize(user.DisplayName) == suffix {
		return Owner
	}
	return NotOwner
}
