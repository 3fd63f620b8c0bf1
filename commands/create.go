package commands

import (
	"context"
	"errors"
	"fmt"

	cerrors "coffeetalk/errors"
	"coffeetalk/provisioning"
)

type CreateCommand struct {
	service *provisioning.Service
}

func NewCreateCommand(service *provisioning.Service) *CreateCommand {
	return &CreateCommand{service: service}
}

func (c *CreateCommand) Name() string        { return "coffeetalk-create" }
func (c *CreateCommand) Description() string { return "Create your personal Coffee Talk channel" }
func (c *CreateCommand) AdminOnly() bool     { return false }

func (c *CreateCommand) Handle(ctx context.Context, cmd *Context) (string, error) {
	out, err := c.service.Provision(ctx, cmd.User)
	switch {
	case err == nil:
		return fmt.Sprintf("☕ Your channel #%s is ready!", out.Channel.Name), nil
	case errors.Is(err, cerrors.ErrNameTaken):
		return fmt.Sprintf("A channel named like yours already exists. "+
			"If it is really yours, run `/%s` from inside it.", adoptCommandName), nil
	case errors.Is(err, cerrors.ErrEmptySlug):
		return "Your username contains no characters usable in a channel name, " +
			"so no channel can be derived from it. Ask an administrator for help.", nil
	case out.Channel.ID != "":
		// Partial: the channel exists, a later step failed. Say which.
		return fmt.Sprintf("Channel #%s was created but setup did not finish (%v). "+
			"An administrator may need to invite you.", out.Channel.Name, err), err
	default:
		return "Something went wrong talking to the workspace, please try again later.", err
	}
}
