package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/config"
	httpapi "github.com/kote12ab-cloud/minjust-searh-base/internal/http"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/observability"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/repo"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/services"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/sysutil"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

// errNothingToServe is returned when both transports are disabled.
var errNothingToServe = errors.New("nothing to serve: TELEGRAM_ENABLED and HTTP_ENABLED are both off")

func newServeCmd(g *globalFlags, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the export and run the Telegram bot and/or HTTP API",
		Long: `serve loads the export, stores an ingestion report and then runs the
enabled transports until SIGINT or SIGTERM. A missing export, or Telegram
enabled without a real BOT_TOKEN, stops the command before anything is
served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, version)
		},
	}
}

// serve runs until ctx is cancelled or a transport fails.
func serve(ctx context.Context, cfg config.Config, version string) error {
	if !cfg.TelegramEnabled && !cfg.HTTPEnabled {
		return errNothingToServe
	}
	if err := cfg.ValidateTelegram(); err != nil {
		log.Error().Err(err).Msg("telegram is enabled without a usable token")
		return err
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, st, fails, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("cannot load the export; nothing will be served")
		return err
	}

	reportDB, err := repo.OpenSQLite(cfg.ReportDBPath)
	if err != nil {
		return fmt.Errorf("open report store: %w", err)
	}
	if err := repo.AutoMigrate(reportDB); err != nil {
		return fmt.Errorf("migrate report store: %w", err)
	}
	reports := &services.IngestService{DB: reportDB, KeepRuns: cfg.KeepRuns}
	if run, err := reports.Record(ctx, cfg.Source.Path, cfg.Source.Encoding, st, fails); err != nil {
		log.Warn().Err(err).Msg("ingestion report not stored")
	} else {
		log.Info().Str("run_id", run.ID).Msg("ingestion report stored")
	}

	renderer := present.Renderer{PageSize: cfg.Bot.PageSize, PreviewRunes: cfg.Bot.PreviewRunes}
	bot := services.NewBotService(db, cfg.Bot.NavDebounce, cfg.Bot.SessionTTL)
	bot.Renderer = renderer
	catalog := &services.CatalogService{DB: db, Renderer: renderer, MaxPageSize: cfg.MaxPageSize}

	var api *tgbotapi.BotAPI
	if cfg.TelegramEnabled {
		if api, err = newTelegramAPI(cfg); err != nil {
			return err
		}
	}

	var transports []func(context.Context) error
	if cfg.HTTPEnabled {
		transports = append(transports, func(ctx context.Context) error {
			return serveHTTP(ctx, cfg, httpapi.Services{Bot: bot, Catalog: catalog, Ingest: reports})
		})
	}
	if api != nil {
		transports = append(transports, func(ctx context.Context) error {
			return telegram.New(api, bot, telegram.Options{
				PollTimeout:    cfg.Bot.PollTimeout,
				MaxConcurrency: cfg.Bot.MaxConcurrency,
				DropPending:    !sysutil.IsTruthy(os.Getenv("TELEGRAM_KEEP_PENDING")),
			}).Run(ctx)
		})
	}
	return runTransports(ctx, bot, cfg.Bot.SweepInterval, transports...)
}

// runTransports runs every transport and the idle-state sweep. It returns
// once all transports have returned, stopping the sweep first.
func runTransports(ctx context.Context, s sweeper, every time.Duration, transports ...func(context.Context) error) error {
	eg, ectx := errgroup.WithContext(ctx)
	for _, run := range transports {
		eg.Go(func() error { return run(ectx) })
	}

	sctx, stopSweep := context.WithCancel(ctx)
	swept := make(chan struct{})
	go func() {
		defer close(swept)
		sweep(sctx, s, every)
	}()

	err := eg.Wait()
	stopSweep()
	<-swept
	if err == nil && ctx.Err() == nil {
		log.Warn().Msg("all transports stopped before shutdown was requested")
	}
	return err
}

func newTelegramAPI(cfg config.Config) (*tgbotapi.BotAPI, error) {
	if err := tgbotapi.SetLogger(telegram.Logger{L: log.Logger}); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	api.Debug = cfg.Bot.TelegramDebug
	log.Info().Str("bot", api.Self.UserName).Msg("telegram authorized")
	return api, nil
}

// serveHTTP runs the API server until ctx is cancelled, then shuts it down
// gracefully.
func serveHTTP(ctx context.Context, cfg config.Config, svc httpapi.Services) error {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("http stopped")
	return nil
}

// sweeper is the part of BotService the periodic cleanup needs.
type sweeper interface {
	Sweep(now time.Time) (sessions, pressers int)
}

// sweep evicts idle sessions and debounce entries every interval until
// ctx is cancelled.
func sweep(ctx context.Context, s sweeper, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			sessions, pressers := s.Sweep(now)
			if sessions > 0 || pressers > 0 {
				log.Debug().Int("sessions", sessions).Int("pressers", pressers).Msg("idle state evicted")
			}
		}
	}
}
