package main

import (
	"context"
	"fmt"
	"time"

	drivermongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/ansi-niger/decree-portal/internal/core/roster"
	"github.com/ansi-niger/decree-portal/internal/infrastructure/db/mongo"
	"github.com/ansi-niger/decree-portal/internal/infrastructure/storage"
)

const disconnectTimeout = 5 * time.Second

// openRepositories connects to MongoDB and makes sure the indexes exist. The
// returned func disconnects the client.
func openRepositories(ctx context.Context) (*mongo.Repositories, *drivermongo.Client, func(), error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		dctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}

	repos := mongo.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return repos, client, closeFn, nil
}

func newStore() *storage.LocalStore {
	return storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
}

// newRosterParser extends the built-in header spellings with the optional
// aliases file.
func newRosterParser(aliasesFile string) (*roster.Parser, error) {
	var extra roster.Aliases
	if aliasesFile != "" {
		a, err := roster.LoadAliases(aliasesFile)
		if err != nil {
			return nil, err
		}
		extra = a
		log.Info().Str("file", aliasesFile).Int("fields", len(a)).Msg("roster aliases loaded")
	}
	return roster.NewParser(roster.NewMatcher(extra)), nil
}
