package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collab-lab/graph"
	"collab-lab/internal"
	"collab-lab/moderation"
	"collab-lab/observability"
	"collab-lab/repositories"
	"collab-lab/runtime"
	"collab-lab/seed"
	"collab-lab/services"
	"collab-lab/store"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
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
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so every defer executes before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	// A local .env is a developer convenience, real environment variables win.
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := config.CharacterRune()
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Storage engines, the message log and its search index both in memory
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation pipeline from the embedded dictionaries
	censored, err := runtime.NewCensoredLoader(censoredFS).LoadAll("censored")
	if err != nil {
		return exitRuntime, fmt.Errorf("loading censored words: %w", err)
	}
	logger.Info("Censored dictionaries loaded",
		"languages", censored.Languages, "words", len(censored.Words))

	moderator, err := moderation.NewModerator(censored.Words, charReplacement, logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("building moderator: %w", err)
	}

	// 4. Store, services and the GraphQL contract
	messageRepository := repositories.NewMessageRepository(db, blugeWriter, logger, config.LimitMessages, config.SearchLimit)
	st := store.New(messageRepository, 0)
	queryService := services.NewQueryService(st, logger)
	mutationService := services.NewMutationService(st, queryService, &moderator, config.MaxContentLength, logger)

	schema, err := graph.NewSchema(queryService, mutationService)
	if err != nil {
		return exitRuntime, fmt.Errorf("building schema: %w", err)
	}

	if config.SeedFilepath != "" {
		fixtures, err := seed.Load(config.SeedFilepath)
		if err != nil {
			return exitRuntime, err
		}
		if err := seed.Apply(ctx, fixtures, st, mutationService, logger); err != nil {
			return exitRuntime, err
		}
	}

	// 5. Debug inspector over the raw message log
	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint)
		logger.Info("Debug message log inspector available", "url", url)
		internal.StartDebugServer(db, config.DebugPort, endpoint, messageMapper, func() map[string]any {
			users, channels, messages := st.Counts()
			return map[string]any{
				"Users":    users,
				"Channels": channels,
				"Messages": messages,
			}
		})
	}

	// 6. Context & Signals, then background workers under supervision
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := runtime.NewSupervisor(logger)
	sup.Add(observability.NewMonitor(logger, st, config.MetricInterval))
	go sup.Run(ctx)

	// 7. HTTP server exposing the GraphQL endpoint
	mux := http.NewServeMux()
	mux.Handle("/graphql", graph.NewHandler(&schema, config.GraphiQL))

	server := &http.Server{
		Addr:    config.Addr(),
		Handler: mux,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting GraphQL server",
			"address", config.Addr(), "graphiql", config.GraphiQL, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	// The execution blocks here until either a signal is received or the server crashes.
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 9. Final Cleanup (Graceful Shutdown)
	// In-flight requests get ShutdownTimeout to complete before the listener dies.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Forcing server close", "error", err)
		_ = server.Close()
	}
	sup.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

// messageMapper renders a stored message for the inspector, falling back to
// the raw key columns when the value does not decode.
func messageMapper(key string, val []byte) internal.InspectRow {
	row := internal.DefaultMapper(key, val)
	message, err := repositories.DecodeRecord(val)
	if err != nil {
		row.Detail = "Error: decode failed"
		return row
	}
	row.Sender = message.Sender
	row.Detail = message.Contents
	if message.Lang != "" {
		row.Detail = fmt.Sprintf("[%s] %s", message.Lang, message.Contents)
	}
	return row
}
