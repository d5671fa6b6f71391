package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ppe-inspector/config"
	"ppe-inspector/internal/api/rest"
	"ppe-inspector/internal/api/telegram"
	"ppe-inspector/internal/container"
)

func setupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// botRunner цикл обработки обновлений бота.
type botRunner interface {
	Run(ctx context.Context) error
}

var newBot = func(cfg *config.Config, c *container.Container) (botRunner, error) {
	return telegram.NewBot(cfg.TelegramToken, c.UserService, c.InspectionService, c.Decoder)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		setupLogger("info")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.LogLevel)

	// Собираем сервисы приложения
	appContainer, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	runErr := run(ctx, cfg, appContainer)
	cancel()

	if err := appContainer.Close(); err != nil {
		log.Error().Err(err).Msg("failed to release resources")
	}
	if runErr != nil {
		log.Fatal().Err(runErr).Msg("shutdown with error")
	}
	log.Info().Msg("shutdown complete")
}

// run держит HTTP-сервер и бота до отмены ctx или первой ошибки.
func run(ctx context.Context, cfg *config.Config, appContainer *container.Container) error {
	g, ctx := errgroup.WithContext(ctx)

	handler := rest.NewHandler(appContainer.InspectionService, appContainer.EmployeeService, appContainer.CameraService, appContainer.Decoder)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           rest.NewRouter(handler, cfg.LogLevel == "debug"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.TelegramToken != "" {
		g.Go(func() error {
			bot, err := newBot(cfg, appContainer)
			if err != nil {
				return fmt.Errorf("create bot: %w", err)
			}
			return bot.Run(ctx)
		})
	} else {
		log.Info().Msg("TELEGRAM_TOKEN is not set, telegram bot disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
