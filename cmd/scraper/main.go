package main

import (
	"os"
	"time"

	"listings-feed-store/config"
	"listings-feed-store/normalize"
	"listings-feed-store/scraper/flexmls"
	"listings-feed-store/storage"
	"listings-feed-store/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	tables, err := normalize.LoadTables()
	if err != nil {
		logger.Error("Failed to load lookup tables: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Listings Feed Store — MLS scraper ===")
	logger.Info("Config — interval: %dh | concurrency: %d | rate: %dms | remote: %s/%s",
		cfg.IntervalHours, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.GitHubRepo, cfg.GitHubCSVPath)

	if cfg.GitHubToken == "" || cfg.GitHubRepo == "" {
		logger.Error("GITHUB_TOKEN and GITHUB_REPO must be set for remote sync")
		os.Exit(1)
	}

	sync := storage.NewGitHubSync(cfg.GitHubToken, cfg.GitHubRepo, cfg.GitHubBranch, tables, logger)
	interval := time.Duration(cfg.IntervalHours) * time.Hour

	for run := 1; ; run++ {
		logger.Info("--- Scrape run #%d ---", run)
		runOnce(cfg, tables, sync, logger)

		logger.Info("Next run at %s", time.Now().Add(interval).Format("2006-01-02 15:04:05"))
		time.Sleep(interval)
	}
}

func runOnce(cfg *config.Config, tables *normalize.Tables, sync *storage.GitHubSync, logger *utils.Logger) {
	mlsScraper := flexmls.New(cfg, logger)
	listings, err := mlsScraper.Scrape()
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		return
	}
	if len(listings) == 0 {
		logger.Warn("No listings extracted this run")
		return
	}

	synced, err := sync.SyncCSV(cfg.GitHubCSVPath, listings)
	if err != nil {
		logger.Error("Remote sync failed: %v", err)
	} else {
		logger.Info("Run complete: %d scraped, %d new synced", len(listings), synced)
	}

	if !cfg.PostgresEnabled {
		return
	}
	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		logger.Error("Postgres mirror unavailable: %v", err)
		return
	}
	defer store.Close()

	if err := store.Write(listings); err != nil {
		logger.Error("Postgres mirror write failed: %v", err)
	} else {
		logger.Info("Mirrored %d listings to PostgreSQL", len(listings))
	}
}
