package commands

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"coffeetalk/domain"
	"coffeetalk/domain/event"
	cerrors "coffeetalk/errors"
	"coffeetalk/mocks"
	"coffeetalk/notify"
	"coffeetalk/provisioning"
)

func newRouter(t *testing.T) (*Router, *mocks.MockDirectory) {
	ctrl := gomock.NewController(t)
	directory := mocks.NewMockDirectory(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	dispatcher := notify.NewDispatcher(directory, log)
	service := provisioning.NewService(directory, dispatcher, domain.DefaultPrefix, log)

	router := NewRouter(log,
		NewPingCommand(time.Now(), nil),
		NewCreateCommand(service),
		NewAdoptCommand(service),
		NewSetupCommand(service),
		NewAddMemberCommand(service, directory),
	)
	router.Register(NewHelpCommand(router))
	return router, directory
}

func TestRouter_AdminGate(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(t)
	ctx := context.Background()

	invocation := event.CommandInvoked{Command: "/setup-coffeetalk", UserID: "U_EVE"}

	// A non-administrator is refused before any directory side effect.
	reply, err := router.Dispatch(ctx, invocation, domain.User{ID: "U_EVE"})
	req.ErrorIs(err, cerrors.ErrNotAdministrator)
	req.Contains(reply, "administrators")
}

func TestRouter_UnknownCommand(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(t)

	reply, err := router.Dispatch(context.Background(),
		event.CommandInvoked{Command: "/coffeetalk-dance"}, domain.User{ID: "U1"})
	req.NoError(err)
	req.Contains(reply, "Unknown command")
	req.Contains(reply, "coffeetalk-help")
}

func TestRouter_HelpListsCatalog(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(t)

	reply, err := router.Dispatch(context.Background(),
		event.CommandInvoked{Command: "/coffeetalk-help"}, domain.User{ID: "U1"})
	req.NoError(err)
	req.Contains(reply, "/coffeetalk-create")
	req.Contains(reply, "/setup-coffeetalk")
	req.Contains(reply, "(admin)")
}

func TestRouter_CreateFlow(t *testing.T) {
	req := require.New(t)
	router, directory := newRouter(t)
	ctx := context.Background()

	ada := domain.User{ID: "U_ADA", Name: "Ada Lovelace"}
	created := domain.Channel{ID: "C1", Name: "coffeetalk_adalovelace"}

	directory.EXPECT().CreateChannel(ctx, "coffeetalk_adalovelace", false).Return(created, nil)
	directory.EXPECT().InviteUser(ctx, "C1", "U_ADA").Return(nil)
	directory.EXPECT().JoinChannel(ctx, "C1").Return(nil)
	directory.EXPECT().PostMessage(ctx, "C1", gomock.Any()).Return(nil)

	reply, err := router.Dispatch(ctx,
		event.CommandInvoked{Command: "/coffeetalk-create", UserID: "U_ADA"}, ada)
	req.NoError(err)
	req.Contains(reply, "#coffeetalk_adalovelace")
}

func TestRouter_CreateConflictIsFriendly(t *testing.T) {
	req := require.New(t)
	router, directory := newRouter(t)
	ctx := context.Background()

	ada := domain.User{ID: "U_ADA", Name: "Ada Lovelace"}
	directory.EXPECT().CreateChannel(ctx, "coffeetalk_adalovelace", false).
		Return(domain.Channel{}, cerrors.ErrNameTaken)

	reply, err := router.Dispatch(ctx,
		event.CommandInvoked{Command: "/coffeetalk-create", UserID: "U_ADA"}, ada)
	req.NoError(err)
	req.Contains(reply, "already exists")
	req.Contains(reply, "/coffeetalk-join")
}

func TestRouter_Ping(t *testing.T) {
	req := require.New(t)
	router, _ := newRouter(t)

	reply, err := router.Dispatch(context.Background(),
		event.CommandInvoked{Command: "/coffeetalk-ping"}, domain.User{ID: "U1"})
	req.NoError(err)
	req.Contains(reply, "Pong")
}
