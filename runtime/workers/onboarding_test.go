package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coffeetalk/domain"
	"coffeetalk/domain/event"
	"coffeetalk/mocks"
)

func newOnboardingWorker(t *testing.T) (
	*OnboardingWorker, *mocks.MockNotifier, *mocks.MockOnboardingLog, chan event.MemberJoined) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	seen := mocks.NewMockOnboardingLog(ctrl)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	members := make(chan event.MemberJoined, 8)
	telemetry := make(chan event.Envelope, 8)
	worker := NewOnboardingWorker(notifier, seen, members, telemetry, time.Second, log)
	return worker, notifier, seen, members
}

func TestOnboardingWorker_BotsAndRestrictedAreSkipped(t *testing.T) {
	worker, _, _, _ := newOnboardingWorker(t)

	// Neither the log nor the notifier is consulted: the mock controller
	// enforces zero calls.
	for _, user := range []domain.User{
		{ID: "U_BOT", Name: "helperbot", IsBot: true},
		{ID: "U_GUEST", Name: "guest", IsRestricted: true},
		{ID: "U_GONE", Name: "ghost", Deleted: true},
	} {
		worker.handle(context.Background(), event.MemberJoined{User: user})
	}
}

func TestOnboardingWorker_SeenMemberIsNotGreetedTwice(t *testing.T) {
	worker, _, seen, _ := newOnboardingWorker(t)

	seen.EXPECT().Seen("U_ADA").Return(true, nil)
	// No Onboard, no Record.

	worker.handle(context.Background(), event.MemberJoined{
		User: domain.User{ID: "U_ADA", Name: "ada"},
	})
}

func TestOnboardingWorker_RecordsOnlyAfterSuccessfulNotice(t *testing.T) {
	worker, notifier, seen, _ := newOnboardingWorker(t)

	ada := domain.User{ID: "U_ADA", Name: "ada"}
	gomock.InOrder(
		seen.EXPECT().Seen("U_ADA").Return(false, nil),
		notifier.EXPECT().Onboard(gomock.Any(), ada).Return(nil),
		seen.EXPECT().Record("U_ADA").Return(nil),
	)

	worker.handle(context.Background(), event.MemberJoined{User: ada})
}

func TestOnboardingWorker_FailedNoticeLeavesMemberUnrecorded(t *testing.T) {
	worker, notifier, seen, _ := newOnboardingWorker(t)

	ada := domain.User{ID: "U_ADA", Name: "ada"}
	seen.EXPECT().Seen("U_ADA").Return(false, nil)
	notifier.EXPECT().Onboard(gomock.Any(), ada).Return(fmt.Errorf("dm delivery failed"))
	// Record is never called, so the next join signal gets another chance.

	worker.handle(context.Background(), event.MemberJoined{User: ada})
}

func TestOnboardingWorker_UnavailableLogSkipsTheNotice(t *testing.T) {
	worker, _, seen, _ := newOnboardingWorker(t)

	seen.EXPECT().Seen("U_ADA").Return(false, fmt.Errorf("database closed"))
	// Without the dedup guarantee no DM goes out.

	worker.handle(context.Background(), event.MemberJoined{
		User: domain.User{ID: "U_ADA", Name: "ada"},
	})
}

func TestOnboardingWorker_RunStopsOnContext(t *testing.T) {
	req := require.New(t)
	worker, _, _, _ := newOnboardingWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		req.Fail("Worker did not stop in time")
	}
}
