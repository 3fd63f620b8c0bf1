package workers

import (
	"context"
	"log/slog"
	"time"

	"coffeetalk/commands"
	"coffeetalk/contract"
	"coffeetalk/domain/event"
)

var _ contract.Worker = (*CommandWorker)(nil)

// CommandWorker resolves the invoking user, dispatches through the router
// and delivers the reply to the invoker in private.
type CommandWorker struct {
	router      *commands.Router
	directory   contract.Directory
	invocations chan event.CommandInvoked
	callBound   time.Duration
	log         *slog.Logger
}

func NewCommandWorker(router *commands.Router, directory contract.Directory,
	invocations chan event.CommandInvoked, callBound time.Duration,
	log *slog.Logger) *CommandWorker {
	return &CommandWorker{
		router:      router,
		directory:   directory,
		invocations: invocations,
		callBound:   callBound,
		log:         log,
	}
}

func (w *CommandWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case invocation, ok := <-w.invocations:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.handle(ctx, invocation)
		}
	}
}

func (w *CommandWorker) handle(ctx context.Context, invocation event.CommandInvoked) {
	callCtx, cancel := context.WithTimeout(ctx, w.callBound)
	defer cancel()

	user, err := w.directory.GetUser(callCtx, invocation.UserID)
	if err != nil {
		w.log.Error("Invoker lookup failed, dropping command",
			"operation", "GetUser", "user_id", invocation.UserID,
			"command", invocation.Command, "error", err)
		return
	}

	// Dispatch already logged any handler error; the reply still goes out.
	reply, _ := w.router.Dispatch(callCtx, invocation, user)

	if reply == "" {
		return
	}
	dm, err := w.directory.OpenDirectMessage(callCtx, user.ID)
	if err != nil {
		w.log.Warn("Reply delivery failed", "user_id", user.ID, "error", err)
		return
	}
	if err := w.directory.PostMessage(callCtx, dm, reply); err != nil {
		w.log.Warn("Reply delivery failed", "user_id", user.ID, "error", err)
	}
}
