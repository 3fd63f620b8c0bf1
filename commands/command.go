// Package commands is the thin dispatch layer for slash-command
// invocations. Handlers validate, gate on the administrator capability,
// call the core services and return the user-facing reply text; every reply
// goes back to the invoker in private.
package commands

import (
	"context"

	"coffeetalk/domain"
	"coffeetalk/domain/event"
)

type Context struct {
	Invocation event.CommandInvoked
	User       domain.User
}

type Command interface {
	Name() string
	Description() string
	AdminOnly() bool
	// Handle returns the reply for the invoker. A non-nil error is logged
	// by the router; the reply must still be something a human can read.
	Handle(ctx context.Context, c *Context) (string, error)
}
