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
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"leadchat-backend/internal/completion"
	"leadchat-backend/internal/config"
	"leadchat-backend/internal/db"
	"leadchat-backend/internal/events"
	"leadchat-backend/internal/leads"
	"leadchat-backend/internal/logging"
	"leadchat-backend/internal/server"
	"leadchat-backend/internal/store"
)

func newServeCmd() *cobra.Command {
	var (
		port string
		demo bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat and lead relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			if demo {
				cfg.Demo = true
			}
			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	cmd.Flags().BoolVar(&demo, "demo", false, "answer from the demo playlist and keep leads in LEAD_FILE")
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	provider, err := completion.New(cfg)
	if err != nil {
		return fmt.Errorf("create completion provider: %w", err)
	}

	rows, notifier, err := leadSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	opts := []leads.Option{leads.WithLogger(logger.With().Str("component", "leads").Logger())}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.ArchiveDSN != "" {
		bus, err := startArchive(ctx, g, cfg, logger)
		if err != nil {
			return err
		}
		defer bus.Close()
		opts = append(opts, leads.WithPublisher(bus))
	}

	sessions := store.NewMemoryStore(cfg.SessionMaxMessages)
	srv := server.NewServer(cfg, server.Deps{
		Provider: provider,
		Leads:    leads.NewService(rows, notifier, opts...),
		Sessions: sessions,
		Logger:   logger.With().Str("component", "http").Logger(),
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info().Str("addr", httpServer.Addr).Str("provider", provider.Name()).Bool("demo", cfg.Demo).Msg("relay listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info().Msg("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return sessions.RunJanitor(ctx, cfg.SessionIdleTTL, time.Minute, func(n int) {
			logger.Debug().Int("sessions", n).Msg("evicted idle sessions")
		})
	})
	return g.Wait()
}

func leadSinks(ctx context.Context, cfg config.Config, logger zerolog.Logger) (leads.RowAppender, leads.Notifier, error) {
	if cfg.Demo {
		return store.NewFileLeadStore(cfg.LeadFile), leads.LogNotifier{Logger: logger}, nil
	}
	mailer, err := leads.NewMailer(leads.MailerConfig{
		Service:  cfg.EmailService,
		Host:     cfg.EmailSMTPHost,
		Port:     cfg.EmailSMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		To:       cfg.EmailTo,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configure mailer: %w", err)
	}
	sheets := leads.NewSheetsClient(ctx, cfg.GoogleClientMail, cfg.GooglePrivateKey, cfg.SheetID, cfg.SheetRange)
	return sheets, mailer, nil
}

// startArchive opens the archive database and starts consuming lead events.
func startArchive(ctx context.Context, g *errgroup.Group, cfg config.Config, logger zerolog.Logger) (*events.Bus, error) {
	database, err := db.New(cfg.ArchiveDSN)
	if err != nil {
		return nil, fmt.Errorf("open lead archive: %w", err)
	}
	if err := database.RunMigrations(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate lead archive: %w", err)
	}
	logger.Info().Str("driver", database.Driver).Msg("lead archive ready")

	bus, err := events.NewBus(ctx, events.Settings{
		RedisAddr: cfg.RedisAddr,
		Group:     cfg.RedisGroup,
		Consumer:  cfg.RedisConsumer,
	}, logger)
	if err != nil {
		database.Close()
		return nil, err
	}
	msgs, err := bus.SubscribeLeads(ctx)
	if err != nil {
		bus.Close()
		database.Close()
		return nil, fmt.Errorf("subscribe lead events: %w", err)
	}
	archive := store.NewLeadArchive(database)
	g.Go(func() error {
		defer database.Close()
		return events.RunArchiver(ctx, msgs, archive, logger.With().Str("component", "archiver").Logger())
	})
	return bus, nil
}
