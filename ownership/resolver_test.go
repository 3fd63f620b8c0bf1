package ownership

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
	"coffeetalk/mocks"
)

const botID = "B0TUSER"

func newResolver(t *testing.T) (*Resolver, *mocks.MockDirectory) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockDirectory(ctrl)
	directory.EXPECT().BotUserID().Return(botID).AnyTimes()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewResolver(directory, domain.DefaultPrefix, log), directory
}

func TestResolver_CreatorPolicyWins(t *testing.T) {
	req := require.New(t)
	resolver, directory := newResolver(t)
	ctx := context.Background()

	// A channel created by hand: the recorded creator is a real human.
	channel := domain.Channel{ID: "C1", Name: "coffeetalk_ada", Creator: "U_ADA"}
	directory.EXPECT().GetUser(ctx, "U_ADA").
		Return(domain.User{ID: "U_ADA", Name: "someone.renamed"}, nil).Times(2)

	req.Equal(Owner, resolver.Relation(ctx, channel, "U_ADA"))
	req.Equal(NotOwner, resolver.Relation(ctx, channel, "U_EVE"))
}

func TestResolver_BotCreatorFallsBackToName(t *testing.T) {
	req := require.New(t)
	resolver, directory := newResolver(t)
	ctx := context.Background()

	// The bot provisioned this channel itself, so the creator record points
	// at the bot and the naming convention decides.
	channel := domain.Channel{ID: "C1", Name: "coffeetalk_adalovelace", Creator: botID}

	directory.EXPECT().GetUser(ctx, "U_ADA").
		Return(domain.User{ID: "U_ADA", Name: "ada.lovelace", DisplayName: "Ada Lovelace"}, nil)
	req.Equal(Owner, resolver.Relation(ctx, channel, "U_ADA"))

	directory.EXPECT().GetUser(ctx, "U_EVE").
		Return(domain.User{ID: "U_EVE", Name: "eve"}, nil)
	req.Equal(NotOwner, resolver.Relation(ctx, channel, "U_EVE"))
}

func TestResolver_DeletedCreatorFallsBackToName(t *testing.T) {
	req := require.New(t)
	resolver, directory := newResolver(t)
	ctx := context.Background()

	channel := domain.Channel{ID: "C1", Name: "coffeetalk_ada", Creator: "U_GONE"}

	directory.EXPECT().GetUser(ctx, "U_GONE").
		Return(domain.User{}, cerrors.ErrUserNotFound)
	directory.EXPECT().GetUser(ctx, "U_ADA").
		Return(domain.User{ID: "U_ADA", Name: "Ada"}, nil)

	req.Equal(Owner, resolver.Relation(ctx, channel, "U_ADA"))
}

func TestResolver_DirectoryFailureIsUnknown(t *testing.T) {
	req := require.New(t)
	resolver, directory := newResolver(t)
	ctx := context.Background()

	channel := domain.Channel{ID: "C1", Name: "coffeetalk_ada", Creator: "U_ADA"}
	directory.EXPECT().GetUser(ctx, "U_ADA").
		Return(domain.User{}, fmt.Errorf("directory timed out"))

	// A failed lookup must never be read as "not the owner".
	req.Equal(Unknown, resolver.Relation(ctx, channel, "U_EVE"))
}

func TestResolver_EdgeCases(t *testing.T) {
	req := require.New(t)
	resolver, directory := newResolver(t)
	ctx := context.Background()

	// Out of the reserved namespace entirely.
	req.Equal(Unknown, resolver.Relation(ctx, domain.Channel{Name: "general"}, "U_ADA"))

	// Degenerate empty slug, nothing to match a name against.
	req.Equal(Unknown, resolver.Relation(ctx, domain.Channel{Name: "coffeetalk_"}, "U_ADA"))

	// Name policy with an unreachable author record.
	directory.EXPECT().GetUser(ctx, "U_ADA").
		Return(domain.User{}, fmt.Errorf("directory timed out"))
	req.Equal(Unknown, resolver.Relation(ctx, domain.Channel{Name: "coffeetalk_ada"}, "U_ADA"))
}
