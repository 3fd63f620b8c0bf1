package commands

import (
	"context"
	"errors"
	"fmt"

	cerrors "coffeetalk/errors"
	"coffeetalk/provisioning"
)

const adoptCommandName = "coffeetalk-join"

type AdoptCommand struct {
	service *provisioning.Service
}

func NewAdoptCommand(service *provisioning.Service) *AdoptCommand {
	return &AdoptCommand{service: service}
}

func (c *AdoptCommand) Name() string { return adoptCommandName }
func (c *AdoptCommand) Description() string {
	return "Run inside your pre-existing channel to let the bot join and watch it"
}
func (c *AdoptCommand) AdminOnly() bool { return false }

func (c *AdoptCommand) Handle(ctx context.Context, cmd *Context) (string, error) {
	channel, err := c.service.Adopt(ctx, cmd.User, cmd.Invocation.ChannelID)
	switch {
	case err == nil:
		return fmt.Sprintf("☕ I'm watching #%s now.", channel.Name), nil
	case errors.Is(err, cerrors.ErrChannelNotFound):
		return fmt.Sprintf("No channel matches your identity. Use `/%s` to create one.",
			(&CreateCommand{}).Name()), nil
	case errors.Is(err, cerrors.ErrNotChannelOwner):
		return "That channel does not match your identity. " +
			"Run this command from inside your own channel.", nil
	case errors.Is(err, cerrors.ErrEmptySlug):
		return "Your username contains no characters usable in a channel name. " +
			"Ask an administrator for help.", nil
	default:
		return "Something went wrong talking to the workspace, please try again later.", err
	}
}
