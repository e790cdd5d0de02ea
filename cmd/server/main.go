package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chat-api/api"
	"chat-api/auth"
	"chat-api/internal"
	"chat-api/moderation"
	"chat-api/observability"
	"chat-api/repositories"
	"chat-api/services"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

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

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern ensures all 'defer' statements (like database cleanup) execute before the
// program exits, and keeps the initialization logic testable outside the entry point.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB)
	options := buildBadgerOpts(config, logger, ctx)

	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		// Defer ensures the database lock is released and buffers are flushed.
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeCfg := bluge.DefaultConfig(config.BlugeFilepath)
	blugeWriter, err := bluge.OpenWriter(blugeCfg)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Moderation
	var moderator *moderation.Moderator
	if words := splitWords(config.CensoredWords); len(words) > 0 {
		moderator, err = moderation.NewModerator(words, charReplacement)
		if err != nil {
			return exitConfig, fmt.Errorf("moderation setup failed: %w", err)
		}
	}

	// 4. Repositories & Services
	userRepository := repositories.NewUserRepository(db)
	roomRepository := repositories.NewRoomRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	messageIndex := repositories.NewMessageIndex(blugeWriter, logger)

	issuer := auth.NewTokenIssuer([]byte(config.Secret), config.AuthTokenDuration)

	authService := services.NewAuthService(userRepository, issuer, logger)
	roomService := services.NewRoomService(roomRepository, userRepository, logger)
	userService := services.NewUserService(userRepository, logger)
	messageService := services.NewMessageService(
		messageRepository, roomRepository, userRepository, messageIndex,
		moderator, config.MaxContentLength, logger,
	)

	router := api.NewRouter(api.ServerDeps{
		Auth:          authService,
		Rooms:         roomService,
		Users:         userService,
		Messages:      messageService,
		RoomRepo:      roomRepository,
		Issuer:        issuer,
		Health:        observability.NewHealthMonitor(logger),
		LimitMessages: config.LimitMessages,
		Log:           logger,
	})

	// 5. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. HTTP Server
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return exitRuntime, fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
