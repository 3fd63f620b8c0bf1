package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
)

func TestService_ProvisionAll(t *testing.T) {
	req := require.New(t)
	svc, directory, notifier := newService(t)
	ctx := context.Background()

	members := []domain.User{
		{ID: "U_ALICE", Name: "alice"},
		{ID: "U_BOB", Name: "bob"},
		// Duplicate slug: "Alice" and "alice" collapse to the same channel.
		{ID: "U_ALICE2", Name: "Alice"},
		{ID: "B0T", Name: "coffeetalk", IsBot: true},
		{ID: "U_GUEST", Name: "guest", IsRestricted: true},
	}

	directory.EXPECT().ListMembers(ctx).Return(members, nil)
	directory.EXPECT().BotUserID().Return("B0T").AnyTimes()

	aliceChannel := domain.Channel{ID: "C_A", Name: "coffeetalk_alice"}
	bobChannel := domain.Channel{ID: "C_B", Name: "coffeetalk_bob"}

	gomock.InOrder(
		directory.EXPECT().CreateChannel(ctx, "coffeetalk_alice", false).Return(aliceChannel, nil),
		directory.EXPECT().CreateChannel(ctx, "coffeetalk_bob", false).Return(bobChannel, nil),
		directory.EXPECT().CreateChannel(ctx, "coffeetalk_alice", false).
			Return(domain.Channel{}, cerrors.ErrNameTaken),
	)
	directory.EXPECT().InviteUser(ctx, "C_A", "U_ALICE").Return(nil)
	directory.EXPECT().InviteUser(ctx, "C_B", "U_BOB").Return(nil)
	directory.EXPECT().JoinChannel(ctx, "C_A").Return(nil)
	directory.EXPECT().JoinChannel(ctx, "C_B").Return(nil)
	notifier.EXPECT().Welcome(ctx, aliceChannel, members[0]).Return(nil)
	notifier.EXPECT().Welcome(ctx, bobChannel, members[1]).Return(nil)

	report, err := svc.ProvisionAll(ctx)
	req.NoError(err)
	req.Len(report.Outcomes, 5)

	// Exactly one channel each for alice and bob, the duplicate surfaces
	// as a conflict and the loop never stops.
	req.Equal(2, report.Count(StatusCreated))
	req.Equal(1, report.Count(StatusConflict))
	req.Equal(2, report.Count(StatusSkipped))
	req.Equal(0, report.Count(StatusFailed))

	req.Equal(StatusConflict, report.Outcomes[2].Status)
	req.ErrorIs(report.Outcomes[2].Err, cerrors.ErrNameTaken)
}

func TestService_ProvisionAll_ContinuesPastFailures(t *testing.T) {
	req := require.New(t)
	svc, directory, notifier := newService(t)
	ctx := context.Background()

	members := []domain.User{
		{ID: "U_ALICE", Name: "alice"},
		{ID: "U_BOB", Name: "bob"},
	}

	directory.EXPECT().ListMembers(ctx).Return(members, nil)
	directory.EXPECT().BotUserID().Return("B0T").AnyTimes()

	bobChannel := domain.Channel{ID: "C_B", Name: "coffeetalk_bob"}

	directory.EXPECT().CreateChannel(ctx, "coffeetalk_alice", false).
		Return(domain.Channel{}, context.DeadlineExceeded)
	directory.EXPECT().CreateChannel(ctx, "coffeetalk_bob", false).Return(bobChannel, nil)
	directory.EXPECT().InviteUser(ctx, "C_B", "U_BOB").Return(nil)
	directory.EXPECT().JoinChannel(ctx, "C_B").Return(nil)
	notifier.EXPECT().Welcome(ctx, bobChannel, members[1]).Return(nil)

	report, err := svc.ProvisionAll(ctx)
	req.NoError(err)
	req.Equal(1, report.Count(StatusFailed))
	req.Equal(1, report.Count(StatusCreated))
}
