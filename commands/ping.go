package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// StatsProvider exposes runtime counters to the liveness reply.
type StatsProvider func() map[string]any

type PingCommand struct {
	startedAt time.Time
	stats     StatsProvider
}

func NewPingCommand(startedAt time.Time, stats StatsProvider) *PingCommand {
	return &PingCommand{startedAt: startedAt, stats: stats}
}

func (c *PingCommand) Name() string        { return "coffeetalk-ping" }
func (c *PingCommand) Description() string { return "Check that the bot is alive" }
func (c *PingCommand) AdminOnly() bool     { return false }

func (c *PingCommand) Handle(_ context.Context, _ *Context) (string, error) {
	reply := fmt.Sprintf("🏓 Pong! Up for %s.", time.Since(c.startedAt).Round(time.Second))

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			reply += fmt.Sprintf(" RSS %d MiB.", mem.RSS/(1024*1024))
		}
	}

	if c.stats != nil {
		for key, value := range c.stats() {
			reply += fmt.Sprintf(" %s=%v", key, value)
		}
	}
	return reply, nil
}
