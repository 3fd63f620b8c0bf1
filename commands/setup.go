package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"coffeetalk/contract"
	"coffeetalk/domain"
	cerrors "coffeetalk/errors"
	"coffeetalk/provisioning"
	"coffeetalk/slug"
)

// SetupCommand provisions a channel for every workspace member. Best effort
// by design: it reports the split, it does not roll back.
type SetupCommand struct {
	service *provisioning.Service
}

func NewSetupCommand(service *provisioning.Service) *SetupCommand {
	return &SetupCommand{service: service}
}

func (c *SetupCommand) Name() string        { return "setup-coffeetalk" }
func (c *SetupCommand) Description() string { return "Provision a channel for every member" }
func (c *SetupCommand) AdminOnly() bool     { return true }

func (c *SetupCommand) Handle(ctx context.Context, _ *Context) (string, error) {
	report, err := c.service.ProvisionAll(ctx)
	if err != nil {
		return "Bulk setup could not start, the member list was unavailable.", err
	}
	return fmt.Sprintf("☕ Bulk setup done: %s.", report.Summary()), nil
}

// AddMemberCommand provisions a channel for one named member.
type AddMemberCommand struct {
	service   *provisioning.Service
	directory contract.Directory
	validate  *validator.Validate
}

func NewAddMemberCommand(service *provisioning.Service, directory contract.Directory) *AddMemberCommand {
	return &AddMemberCommand{service: service, directory: directory, validate: validator.New()}
}

func (c *AddMemberCommand) Name() string        { return "coffeetalk-add" }
func (c *AddMemberCommand) Description() string { return "Provision a channel for one member" }
func (c *AddMemberCommand) AdminOnly() bool     { return true }

type addMemberArgs struct {
	Target string `validate:"required"`
}

func (c *AddMemberCommand) Handle(ctx context.Context, cmd *Context) (string, error) {
	args := addMemberArgs{Target: strings.TrimSpace(cmd.Invocation.Text)}
	if err := c.validate.Struct(args); err != nil {
		return "Usage: `/coffeetalk-add <username>`.", cerrors.ErrMissingArgument
	}

	members, err := c.directory.ListMembers(ctx)
	if err != nil {
		return "The member list was unavailable, please try again later.", err
	}

	wanted := slug.Normalize(args.Target)
	target, found := lo.Find(members, func(member domain.User) bool {
		return slug.Normalize(member.Name) == wanted || slug.Normalize(member.DisplayName) == wanted
	})
	if !found {
		return fmt.Sprintf("No member matches %q.", args.Target), nil
	}

	out, err := c.service.Provision(ctx, target)
	switch {
	case err == nil:
		return fmt.Sprintf("☕ Created #%s for <@%s>.", out.Channel.Name, target.ID), nil
	case errors.Is(err, cerrors.ErrNameTaken):
		return fmt.Sprintf("<@%s> already has their channel.", target.ID), nil
	default:
		return fmt.Sprintf("Provisioning for <@%s> failed.", target.ID), err
	}
}
