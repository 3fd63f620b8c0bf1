// Command report runs the bulk channel setup against a workspace and prints
// a per-member table of the outcome. Meant for administrators rolling the bot
// out on an existing workspace.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"coffeetalk/domain"
	"coffeetalk/notify"
	"coffeetalk/platform"
	"coffeetalk/provisioning"
	"coffeetalk/slug"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	config, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	var clientOpts []platform.ClientOption
	if config.APIBaseURL != "" {
		clientOpts = append(clientOpts, platform.WithBaseURL(config.APIBaseURL))
	}
	directory := platform.NewClient(config.BotToken, config.AppToken, config.APITimeout, log, clientOpts...)

	ctx := context.Background()
	if err := directory.Authenticate(ctx); err != nil {
		return err
	}

	if config.DryRun {
		return dryRun(ctx, directory, config)
	}

	notifier := notify.NewDispatcher(directory, log)
	service := provisioning.NewService(directory, notifier, config.Prefix, log)

	report, err := service.ProvisionAll(ctx)
	if err != nil {
		return err
	}

	render(report, config.Colours)
	fmt.Println("\n" + report.Summary())
	return nil
}

// dryRun lists what a real run would do without touching the workspace.
func dryRun(ctx context.Context, directory *platform.Client, config Config) error {
	members, err := directory.ListMembers(ctx)
	if err != nil {
		return err
	}

	report := provisioning.Report{}
	for _, member := range members {
		outcome := provisioning.MemberOutcome{User: member, Status: provisioning.StatusSkipped}
		if member.Provisionable() && member.ID != directory.BotUserID() {
			outcome.Status = provisioning.StatusCreated
			outcome.Channel = domain.ChannelName(config.Prefix, slug.Normalize(member.Name))
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	fmt.Println("DRY RUN: no channel will be created")
	render(report, config.Colours)
	return nil
}

func render(report provisioning.Report, colours bool) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Member", "User ID", "Channel", "Status", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, outcome := range report.Outcomes {
		detail := ""
		if outcome.Err != nil {
			detail = outcome.Err.Error()
		}
		table.Append([]string{
			outcome.User.Name,
			outcome.User.ID,
			outcome.Channel,
			renderStatus(outcome.Status, colours),
			detail,
		})
	}
	table.Render()
}

func renderStatus(status provisioning.Status, colours bool) string {
	if !colours {
		return string(status)
	}
	switch status {
	case provisioning.StatusCreated:
		return color.New(color.FgGreen).Render(string(status))
	case provisioning.StatusConflict:
		return color.New(color.FgYellow).Render(string(status))
	case provisioning.StatusFailed:
		return color.New(color.FgRed).Render(string(status))
	default:
		return color.New(color.FgGray).Render(string(status))
	}
}
