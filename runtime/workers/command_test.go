package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coffeetalk/commands"
	"coffeetalk/domain"
	"coffeetalk/domain/event"
	"coffeetalk/mocks"
)

func newCommandWorker(t *testing.T) (
	*CommandWorker, *mocks.MockDirectory, chan event.CommandInvoked) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockDirectory(ctrl)

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	router := commands.NewRouter(log)
	router.Register(commands.NewHelpCommand(router))

	invocations := make(chan event.CommandInvoked, 8)
	worker := NewCommandWorker(router, directory, invocations, time.Second, log)
	return worker, directory, invocations
}

func helpInvocation() event.CommandInvoked {
	return event.CommandInvoked{
		Command:   "coffeetalk-help",
		UserID:    "U_ADA",
		ChannelID: "C1",
	}
}

func TestCommandWorker_RepliesToInvokerInPrivate(t *testing.T) {
	req := require.New(t)
	worker, directory, _ := newCommandWorker(t)

	directory.EXPECT().GetUser(gomock.Any(), "U_ADA").
		Return(domain.User{ID: "U_ADA", Name: "ada"}, nil)

	var delivered string
	gomock.InOrder(
		directory.EXPECT().OpenDirectMessage(gomock.Any(), "U_ADA").Return("D1", nil),
		directory.EXPECT().PostMessage(gomock.Any(), "D1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, text string) error {
				delivered = text
				return nil
			}),
	)

	worker.handle(context.Background(), helpInvocation())
	req.True(strings.Contains(delivered, "/coffeetalk-help"))
}

func TestCommandWorker_InvokerLookupFailureDropsCommand(t *testing.T) {
	worker, directory, _ := newCommandWorker(t)

	directory.EXPECT().GetUser(gomock.Any(), "U_ADA").
		Return(domain.User{}, fmt.Errorf("directory unavailable"))
	// Without the invoker there is no admin gate and no reply target, so
	// nothing else may be called. The mock controller enforces it.

	worker.handle(context.Background(), helpInvocation())
}

func TestCommandWorker_ReplyDeliveryFailureIsNotFatal(t *testing.T) {
	worker, directory, _ := newCommandWorker(t)

	directory.EXPECT().GetUser(gomock.Any(), "U_ADA").
		Return(domain.User{ID: "U_ADA", Name: "ada"}, nil)
	directory.EXPECT().OpenDirectMessage(gomock.Any(), "U_ADA").
		Return("", fmt.Errorf("dm refused"))
	// No PostMessage attempt and no panic; the failure is only logged.

	worker.handle(context.Background(), helpInvocation())
}

func TestCommandWorker_RunStopsOnContext(t *testing.T) {
	req := require.New(t)
	worker, _, _ := newCommandWorker(t)

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
