package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ansi-niger/decree-portal/internal/api"
	"github.com/ansi-niger/decree-portal/internal/api/handler"
	"github.com/ansi-niger/decree-portal/internal/core/service"
	"github.com/ansi-niger/decree-portal/internal/infrastructure/db/redis"
	"github.com/ansi-niger/decree-portal/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connects to MongoDB and Redis, prepares the upload directory and serves the
API until interrupted. Queued activity entries are stored before exit.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repos, mongoClient, closeMongo, err := openRepositories(ctx)
	if err != nil {
		return err
	}
	defer closeMongo()

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	store := newStore()
	if err := store.EnsureFolders(); err != nil {
		return fmt.Errorf("prepare uploads: %w", err)
	}

	parser, err := newRosterParser(cfg.Roster.AliasesFile)
	if err != nil {
		return err
	}

	trustedProxies, err := cfg.TrustedNetworks()
	if err != nil {
		return err
	}

	activitySvc := service.NewActivityService(repos.Activity, log)
	authSvc := service.NewAuthService(repos.Users, cfg.JWTSecret, cfg.JWTTTL, cfg.Auth.EmailDomain)
	decreeSvc := service.NewDecreeService(repos.Decrees, repos.Assignments, store,
		redis.NewImportLock(redisClient), parser, cfg.Uploads.MaxBytes(), log)
	assignmentSvc := service.NewAssignmentService(repos.Assignments, log)
	statisticsSvc := service.NewStatisticsService(repos.Decrees, repos.Assignments, repos.Activity,
		redis.NewStatsCache(redisClient, cfg.Redis.StatsCacheTTL), log)

	// Workers outlive the request context so that queued entries are stored
	// after the server has stopped accepting requests.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, activitySvc, log)
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		Log:            log,
		JWTSecret:      cfg.JWTSecret,
		Auth:           authSvc,
		Decrees:        decreeSvc,
		Assignments:    assignmentSvc,
		Activity:       activitySvc,
		Recorder:       dispatcher,
		Statistics:     statisticsSvc,
		Files:          store,
		UploadsDir:     cfg.Uploads.Dir,
		UploadsBaseURL: cfg.Uploads.BaseURL,
		MaxUploadBytes: cfg.Uploads.MaxBytes(),
		LoginRate:      cfg.Auth.LoginRate,
		LoginBurst:     cfg.Auth.LoginBurst,
		TrustedProxies: trustedProxies,
		HealthChecks: map[string]handler.DependencyCheck{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			"uploads": func(context.Context) error {
				return errors.Join(store.Check()...)
			},
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})

	err = g.Wait()
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return err
}
