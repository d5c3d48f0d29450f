package main

import (
	"context"
	"errors"
	"fmt"

	"vkscan/pkg/auth"
	"vkscan/pkg/config"
	"vkscan/pkg/logger"
	"vkscan/pkg/ratelimit"
	"vkscan/pkg/scraper"
	"vkscan/pkg/storage"
	"vkscan/pkg/vk"
)

// openStore opens the configured database, applying migrations when
// auto_migrate is set
func openStore(ctx context.Context, cfg *config.Config) (*storage.DB, *storage.Store, error) {
	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return db, storage.NewStore(db), nil
}

// newClient builds the rate-limited VK client. The access token comes from
// the configuration or, when unset, from the credential store.
func newClient(cfg *config.Config) (*vk.Client, error) {
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	client := vk.NewClient(cfg.VK, limiter, logger.GetLogger())

	if cfg.VK.AccessToken == "" {
		token, err := storedToken()
		if err != nil {
			return nil, err
		}
		client.SetAccessToken(token)
	}
	return client, nil
}

func storedToken() (string, error) {
	manager, err := auth.NewManager()
	if err != nil {
		return "", fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	token, err := manager.Token(accountName)
	if errors.Is(err, auth.ErrCredentialsNotFound) {
		if accountName != "" {
			return "", fmt.Errorf("account %q not found, see 'vkscan auth list'", accountName)
		}
		return "", errors.New("no VK access token: set VKSCAN_ACCESS_TOKEN, pass --access-token or run 'vkscan auth login'")
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// newResolver wires the API listing with the page scrape fallback
func newResolver(client *vk.Client) *scraper.Resolver {
	return scraper.NewResolver(client, vk.NewPageScraper(client), logger.GetLogger())
}
