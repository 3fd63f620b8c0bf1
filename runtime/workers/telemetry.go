package workers

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/process"

	"coffeetalk/contract"
	"coffeetalk/domain"
	"coffeetalk/domain/event"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker keeps in-process counters over the event stream and logs
// periodic self stats (RSS, CPU) for operator visibility. Counters reset
// with the process; nothing here is durable.
type TelemetryWorker struct {
	mu        sync.Mutex
	counters  map[string]uint64
	telemetry chan event.Envelope
	interval  time.Duration
	log       *slog.Logger
}

func NewTelemetryWorker(telemetry chan event.Envelope, interval time.Duration,
	log *slog.Logger) *TelemetryWorker {
	return &TelemetryWorker{
		counters:  make(map[string]uint64),
		telemetry: telemetry,
		interval:  interval,
		log:       log,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case envelope, ok := <-w.telemetry:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.count(envelope)
		case <-ticker.C:
			w.report(p)
		}
	}
}

func (w *TelemetryWorker) count(envelope event.Envelope) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch payload := envelope.Payload.(type) {
	case event.DecisionTaken:
		w.counters["decisions"]++
		if payload.Decision != domain.Allow {
			w.counters["corrections"]++
		}
	case event.ChannelProvisioned:
		switch {
		case payload.Conflict:
			w.counters["conflicts"]++
		case payload.Failed:
			w.counters["failures"]++
		default:
			w.counters["provisioned"]++
		}
	case event.OnboardingSent:
		w.counters["onboarded"]++
	case event.MessagePosted:
		w.counters["messages"]++
	case event.CommandInvoked:
		w.counters["invocations"]++
	}
}

// Snapshot returns a copy of the counters for the ping command and the
// debug page.
func (w *TelemetryWorker) Snapshot() map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]any, len(w.counters))
	for key, value := range w.counters {
		out[key] = value
	}
	return out
}

func (w *TelemetryWorker) report(p *process.Process) {
	rss := uint64(0)
	cpu := float64(0)
	if mem, err := p.MemoryInfo(); err == nil {
		rss = mem.RSS
	}
	if percent, err := p.CPUPercent(); err == nil {
		cpu = percent
	}

	w.mu.Lock()
	messages := w.counters["messages"]
	corrections := w.counters["corrections"]
	w.mu.Unlock()

	w.log.Info("Self stats",
		"rss_bytes", rss,
		"cpu_percent", cpu,
		"messages", messages,
		"corrections", corrections)
}
