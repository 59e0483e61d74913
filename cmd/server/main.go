package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"chimchat/ai"
	"chimchat/contract"
	"chimchat/internal"
	"chimchat/moderation"
	"chimchat/repositories"
	"chimchat/runtime"
	"chimchat/runtime/workers"
	"chimchat/sensor"
	"chimchat/server"
	"chimchat/services"
)

// Exit codes to provide meaningful status to the operating system or
// service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chimchat terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern keeps 'defer' statements
// (like database cleanup) running before the program exits and keeps
// the initialization logic testable outside of main.
func run() (int, error) {
	// 1. Configuration & Logger. The .env file is optional and never
	// overrides the real environment.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config validation: %w", err)
	}

	logger := internal.LoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Release the lock and flush buffers before the process exits.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Gateways. Sensor store and moderation are optional features.
	completer := ai.NewCompletion(config.OpenAIKey, config.OpenAIBaseURL,
		config.OpenAIModel, config.CompletionTimeout)

	var sensorStore contract.ISensor
	if config.SensorBaseURL != "" {
		sensorStore = sensor.NewStore(config.SensorBaseURL, config.SensorTimeout)
	} else {
		logger.Info("No sensor store configured, /environment will answer with a hint")
	}

	censor, err := buildCensor(config, logger)
	if err != nil {
		return exitConfig, err
	}

	// 4. Core wiring
	registry := runtime.NewRegistry(logger)
	messageRepository := repositories.NewMessageRepository(db, logger)
	orchestrator := runtime.NewOrchestrator(logger, messageRepository,
		completer, sensorStore, censor, registry, config.SensorPath,
		runtime.Limits{
			HistoryReplay:   config.HistoryReplay,
			SummaryContext:  config.SummaryContext,
			QuestionContext: config.QuestionContext,
		})
	chatService := services.NewChatService(orchestrator, registry)
	ws := server.NewServer(logger, chatService, config.ConnectionBufferSize)

	// 5. Context & Signals. NotifyContext cancels on SIGINT/SIGTERM,
	// which drains the supervised workers below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervision. Run blocks until shutdown completes.
	sup := workers.NewSupervisor(logger)
	sup.Add(server.NewWorker(logger, config.ListenAddr, ws.Handler(config.StaticDir)))
	sup.Add(workers.NewHealthWorker(logger, config.HealthInterval))

	logger.Info("Starting supervisor and all workers", "address", config.ListenAddr)
	sup.Run(ctx)

	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

// buildCensor loads the optional censored word lists. Moderation stays
// disabled (nil) when no directory is configured.
func buildCensor(config internal.Config, logger *slog.Logger) (contract.ICensor, error) {
	if config.CensoredDir == "" {
		return nil, nil
	}
	charReplacement, err := internal.CharacterRune(config.CensoredReplacement)
	if err != nil {
		return nil, err
	}
	data, err := moderation.NewLoader(os.DirFS(config.CensoredDir)).LoadAll(".")
	if err != nil {
		return nil, fmt.Errorf("censored words: %w", err)
	}
	logger.Info(fmt.Sprintf("%d censored files loaded [%s]",
		len(data.Languages), strings.Join(data.Languages, ",")))
	logger.Info(fmt.Sprintf("%d unique censored words loaded", len(data.Words)))

	moderator, err := moderation.NewModerator(data.Words, charReplacement)
	if err != nil {
		return nil, err
	}
	return &moderator, nil
}
