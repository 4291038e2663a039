package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/m4r13y/hawkins-ig-sub001/config"
	"github.com/m4r13y/hawkins-ig-sub001/internal/agencybloc"
	"github.com/m4r13y/hawkins-ig-sub001/internal/api"
	"github.com/m4r13y/hawkins-ig-sub001/internal/crmsync"
	"github.com/m4r13y/hawkins-ig-sub001/internal/security"
	"github.com/m4r13y/hawkins-ig-sub001/internal/store"
)

// serveCmd is the cobra command that starts the lead intake API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the lead intake api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", "./config/.config.yaml", "config file location")
}

// serve initializes dependencies and starts the lead intake API server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	st, err := setupStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setting up store: %w", err)
	}

	defer func() {
		if closeErr := st.Close(context.Background()); closeErr != nil {
			log.Warn().Err(closeErr).Msg("closing mongo connection")
		}
	}()

	crmClient := setupAgencyBloc(cfg)
	syncer := crmsync.New(st, crmClientOrNil(crmClient))

	worker := crmsync.NewWorker(syncer,
		crmsync.WithInterval(cfg.Sync.SweepInterval),
		crmsync.WithStaleClaimAge(cfg.Sync.StaleClaimAge),
	)
	go worker.Run(ctx)

	handler := api.NewRouter(api.RouterConfig{
		Leads:         st,
		Subscriptions: st,
		Syncer:        syncer,
		Limiter:       setupRateLimiter(cfg),
		AdminToken:    cfg.Admin.Token,
		MaxBodySize:   cfg.Server.MaxBodySize,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Msg("starting lead intake service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// setupStore connects to MongoDB
func setupStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	st, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}

	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo store connected")

	return st, nil
}

// setupAgencyBloc initializes the CRM client from config, returning nil when unconfigured
func setupAgencyBloc(cfg *config.Config) *agencybloc.Client {
	if !cfg.CRMConfigured() {
		log.Info().Msg("agencybloc sync not configured, leads will accumulate for later sync")
		return nil
	}

	opts := []agencybloc.Option{
		agencybloc.WithHTTPClient(&http.Client{Timeout: cfg.AgencyBloc.RequestTimeout}),
	}

	if cfg.AgencyBloc.BaseURL != "" {
		opts = append(opts, agencybloc.WithBaseURL(cfg.AgencyBloc.BaseURL))
	}

	client, err := agencybloc.New(cfg.AgencyBloc.SID, cfg.AgencyBloc.Key, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize agencybloc client")
		return nil
	}

	log.Info().Msg("agencybloc sync configured")

	return client
}

// crmClientOrNil avoids handing the syncer a typed nil interface.
func crmClientOrNil(c *agencybloc.Client) crmsync.CRMClient {
	if c == nil {
		return nil
	}

	return c
}

// setupRateLimiter initializes the per-IP limiter, returning nil when disabled
func setupRateLimiter(cfg *config.Config) *security.RateLimiter {
	if cfg.RateLimit.MaxRequests <= 0 {
		log.Info().Msg("rate limiting disabled")
		return nil
	}

	return security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
}
