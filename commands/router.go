package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"coffeetalk/domain"
	"coffeetalk/domain/event"
	cerrors "coffeetalk/errors"
)

type Router struct {
	log      *slog.Logger
	commands map[string]Command
}

func NewRouter(log *slog.Logger, commands ...Command) *Router {
	byName := make(map[string]Command, len(commands))
	for _, cmd := range commands {
		byName[cmd.Name()] = cmd
	}
	return &Router{log: log, commands: byName}
}

// Register adds a command after construction. Needed for the help command,
// which lists the router's own catalog.
func (r *Router) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Dispatch resolves the command, applies the administrator gate before any
// handler runs, and returns the reply text for the invoking user.
func (r *Router) Dispatch(ctx context.Context, invocation event.CommandInvoked, user domain.User) (string, error) {
	name := strings.TrimPrefix(invocation.Command, "/")
	cmd, ok := r.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command %q. %s", name, r.Usage()), nil
	}

	if cmd.AdminOnly() && !user.IsAdmin {
		r.log.Warn("Command refused, invoker is not an administrator",
			"command", name, "user_id", user.ID)
		return "Sorry, this command is reserved for workspace administrators.",
			cerrors.ErrNotAdministrator
	}

	reply, err := cmd.Handle(ctx, &Context{Invocation: invocation, User: user})
	if err != nil {
		r.log.Error("Command failed", "command", name, "user_id", user.ID, "error", err)
	}
	return reply, err
}

// Usage lists the registered commands, admin ones flagged.
func (r *Router) Usage() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Available commands:")
	for _, name := range names {
		cmd := r.commands[name]
		b.WriteString(fmt.Sprintf("\n• `/%s`: %s", name, cmd.Description()))
		if cmd.AdminOnly() {
			b.WriteString(" (admin)")
		}
	}
	return b.String()
}
