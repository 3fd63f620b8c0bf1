package commands

import "context"

type HelpCommand struct {
	router *Router
}

func NewHelpCommand(router *Router) *HelpCommand {
	return &HelpCommand{router: router}
}

func (c *HelpCommand) Name() string        { return "coffeetalk-help" }
func (c *HelpCommand) Description() string { return "Explain Coffee Talk and list commands" }
func (c *HelpCommand) AdminOnly() bool     { return false }

func (c *HelpCommand) Handle(_ context.Context, _ *Context) (string, error) {
	return "☕ Welcome to Coffee Talk! Personal channels where only the owner starts " +
		"conversations; everyone else replies in threads.\n" + c.router.Usage(), nil
}
