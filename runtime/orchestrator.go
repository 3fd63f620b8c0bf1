// Package runtime wires the worker pipeline: one buffered channel per event
// family, independent workers per concern, all under one supervisor. It
// orchestrates the system without containing policy or provisioning rules.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"coffeetalk/commands"
	"coffeetalk/contract"
	"coffeetalk/domain/event"
	"coffeetalk/moderation"
	"coffeetalk/ownership"
	"coffeetalk/runtime/workers"
)

type Orchestrator struct {
	log        *slog.Logger
	supervisor contract.ISupervisor

	inbound     chan event.Envelope
	messages    chan event.MessagePosted
	invocations chan event.CommandInvoked
	members     chan event.MemberJoined
	telemetry   chan event.Envelope

	telemetryWorker *workers.TelemetryWorker
	extra           []contract.Worker
}

type Deps struct {
	Engine    moderation.Engine
	Resolver  *ownership.Resolver
	Directory contract.Directory
	Notifier  contract.Notifier
	Router    *commands.Router
	Onboarded contract.OnboardingLog
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	deps Deps, bufferSize int, callBound, telemetryInterval time.Duration) *Orchestrator {
	o := &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		inbound:     make(chan event.Envelope, bufferSize),
		messages:    make(chan event.MessagePosted, bufferSize),
		invocations: make(chan event.CommandInvoked, bufferSize),
		members:     make(chan event.MemberJoined, bufferSize),
		telemetry:   make(chan event.Envelope, bufferSize),
	}

	o.telemetryWorker = workers.NewTelemetryWorker(o.telemetry, telemetryInterval, log)

	supervisor.Add(
		workers.NewEventFanout(log, o.inbound, o.messages, o.invocations, o.members, o.telemetry),
		workers.NewModerationWorker(deps.Engine, deps.Resolver, deps.Directory, deps.Notifier,
			o.messages, o.telemetry, callBound, log),
		workers.NewCommandWorker(deps.Router, deps.Directory, o.invocations, callBound, log),
		workers.NewOnboardingWorker(deps.Notifier, deps.Onboarded, o.members, o.telemetry, callBound, log),
		o.telemetryWorker,
	)
	return o
}

// AddWorker registers an extra worker (the platform transport) to run under
// the same supervision.
func (o *Orchestrator) AddWorker(worker contract.Worker) {
	o.extra = append(o.extra, worker)
}

// Publish hands one inbound envelope to the pipeline. Drops with a warning
// when the buffer is full: the platform redelivers on missing acks, and
// blocking the transport read loop would be worse.
func (o *Orchestrator) Publish(envelope event.Envelope) {
	select {
	case o.inbound <- envelope:
	default:
		o.log.Warn("Inbound buffer full, dropping event", "kind", envelope.Kind)
	}
}

// Telemetry offers an envelope to the counters without blocking. Used by
// services that report outcomes (provisioning) rather than consume events.
func (o *Orchestrator) Telemetry(envelope event.Envelope) {
	select {
	case o.telemetry <- envelope:
	default:
	}
}

// Stats exposes the telemetry counters.
func (o *Orchestrator) Stats() map[string]any {
	return o.telemetryWorker.Snapshot()
}

// Start launches the supervisor with every registered worker. Blocks until
// ctx is canceled or Stop is called, then waits for worker teardown.
func (o *Orchestrator) Start(ctx context.Context) {
	o.supervisor.Add(o.extra...)
	o.supervisor.Run(ctx)
}

func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}
