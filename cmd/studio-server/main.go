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

	"github.com/dfryer1193/studio/blog/application"
	"github.com/dfryer1193/studio/blog/domain"
	"github.com/dfryer1193/studio/blog/persistence"
	"github.com/dfryer1193/studio/internal/config"
	"github.com/dfryer1193/studio/internal/logging"
	"github.com/dfryer1193/studio/internal/rest"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port     int
		siteURL  string
		seedFile string
		logLevel string
		dev      bool
		empty    bool
	)

	cmd := &cobra.Command{
		Use:          "studio-server",
		Short:        "Serve the in-memory post studio over HTTP",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("site-url") {
				cfg.SiteURL = siteURL
			}
			if flags.Changed("seed-file") {
				cfg.SeedFile = seedFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("dev") {
				cfg.Dev = dev
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logging.Setup(cfg.LogLevel, cfg.Dev); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, empty)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&port, "port", 8080, "port to listen on")
	flags.StringVar(&siteURL, "site-url", "", "base URL used to rewrite relative links in previews")
	flags.StringVar(&seedFile, "seed-file", "", "YAML file with the posts to start from")
	flags.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&dev, "dev", false, "human-readable logs")
	flags.BoolVar(&empty, "empty", false, "start with no posts instead of the sample posts")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, empty bool) error {
	seed, err := loadSeed(cfg.SeedFile, empty)
	if err != nil {
		return err
	}

	repo := persistence.NewPostRepository(persistence.WithPosts(seed...))
	studio := application.NewStudio(repo, application.NewMarkdownRenderer(cfg.SiteURL))
	studio.Subscribe(func(evt application.Event) {
		log.Info().Str("event", string(evt.Kind)).Str("postID", evt.PostID).Msg("Studio changed")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           rest.NewRouter(studio),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Int("posts", len(seed)).Msg("Starting studio server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}

// loadSeed picks the initial posts: the seed file when one is configured,
// nothing when empty is set, the sample posts otherwise.
func loadSeed(seedFile string, empty bool) ([]domain.Post, error) {
	switch {
	case seedFile != "":
		return persistence.LoadSeedFile(seedFile)
	case empty:
		return nil, nil
	default:
		return persistence.DefaultSeedPosts(), nil
	}
}
