package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"coffeetalk/commands"
	"coffeetalk/internal"
	"coffeetalk/moderation"
	"coffeetalk/notify"
	"coffeetalk/ownership"
	"coffeetalk/platform"
	"coffeetalk/provisioning"
	"coffeetalk/repositories"
	"coffeetalk/runtime"
	"coffeetalk/runtime/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the bot lifecycle, and centralizes
// error reporting so every defer (database close included) fires before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	prefix, err := config.Prefix()
	if err != nil {
		return err
	}
	severity, err := config.Severity()
	if err != nil {
		return err
	}

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Platform client
	var clientOpts []platform.ClientOption
	if config.APIBaseURL != "" {
		clientOpts = append(clientOpts, platform.WithBaseURL(config.APIBaseURL))
	}
	directory := platform.NewClient(config.BotToken, config.AppToken, config.APITimeout, log, clientOpts...)
	if err := directory.Authenticate(ctx); err != nil {
		return err
	}

	// 5. Domain services
	notifier := notify.NewDispatcher(directory, log)
	resolver := ownership.NewResolver(directory, prefix, log)
	engine := moderation.NewEngine(prefix, severity, directory.BotUserID())
	provisioner := provisioning.NewService(directory, notifier, prefix, log)
	onboarded := repositories.NewOnboardingRepository(db, log)

	// 6. Commands
	router := commands.NewRouter(log)
	router.Register(commands.NewCreateCommand(provisioner))
	router.Register(commands.NewAdoptCommand(provisioner))
	router.Register(commands.NewSetupCommand(provisioner))
	router.Register(commands.NewAddMemberCommand(provisioner, directory))
	router.Register(commands.NewHelpCommand(router))

	// 7. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, sup, runtime.Deps{
		Engine:    engine,
		Resolver:  resolver,
		Directory: directory,
		Notifier:  notifier,
		Router:    router,
		Onboarded: onboarded,
	}, config.BufferSize, config.APITimeout, config.TelemetryInterval)

	provisioner.SetTelemetry(orchestrator.Telemetry)
	router.Register(commands.NewPingCommand(time.Now().UTC(), orchestrator.Stats))
	orchestrator.AddWorker(platform.NewSocketTransport(directory, orchestrator, log))

	// 8. Debug inspector
	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, orchestrator.Stats, log)
	}

	// 9. Run until signal
	log.Info("Coffee Talk bot starting", "prefix", prefix, "severity", severity)
	orchestrator.Start(ctx)
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
