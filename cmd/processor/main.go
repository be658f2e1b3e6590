package main

import (
	"os"
	"path/filepath"

	"listings-feed-store/config"
	"listings-feed-store/normalize"
	"listings-feed-store/services"
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

	logger.Info("=== Listings Feed Store — data processor ===")

	ingestor := services.NewIngestor(tables, logger)
	loader := services.NewLookupLoader(tables, logger)
	enricher := services.NewEnricher(tables, logger)
	builder := services.NewReportBuilder(tables, logger)

	vendorAddresses, err := loader.VendorAddresses(cfg.VendorCSV)
	if err != nil {
		logger.Error("Failed to load vendor orders: %v", err)
		os.Exit(1)
	}
	logger.Info("Vendor order addresses: %d", len(vendorAddresses))

	photographers, err := loader.PreferredPhotographers(cfg.PhotogCSV)
	if err != nil {
		logger.Error("Failed to load preferred photographers: %v", err)
		os.Exit(1)
	}
	logger.Info("Preferred photographer mappings: %d", len(photographers))

	var marketRows []services.MarketRows
	for _, market := range cfg.Markets {
		logger.Info("[%s] Reading %s", market.Name, market.CSVPath)

		rows, err := ingestor.ReadFile(market.CSVPath)
		if err != nil {
			logger.Error("[%s] Ingest failed: %v", market.Name, err)
			os.Exit(1)
		}
		logger.Info("[%s] Loaded %d rows", market.Name, len(rows))

		rows = ingestor.Dedupe(rows)
		logger.Info("[%s] After deduplication: %d unique MLS numbers", market.Name, len(rows))

		enricher.Enrich(rows, vendorAddresses, photographers)

		writeReport := func(name string, doc any) {
			path := filepath.Join(market.OutputDir, name)
			if err := storage.WriteJSON(path, doc); err != nil {
				logger.Error("[%s] Failed to write %s: %v", market.Name, name, err)
				return
			}
			logger.Info("[%s] Wrote %s", market.Name, path)
		}

		verified := builder.BuildVerifiedAgents(rows, market.Name)
		writeReport("verified_agents.json", verified)

		loyalty := builder.BuildCustomerLoyalty(rows, market.Name)
		writeReport("customer_loyalty.json", loyalty)

		photogs := builder.BuildPhotographers(rows, market.Name)
		writeReport("photographers.json", photogs)

		logger.Info("[%s] %d agents, %d using LP, overall LP rate %.1f%%",
			market.Name, verified.TotalAgents,
			loyalty.Summary.AgentsUsingLP, loyalty.Summary.OverallLPPercentage)

		marketRows = append(marketRows, services.MarketRows{Name: market.Name, Rows: rows})
	}

	summary := builder.BuildSummary(marketRows)
	summaryPath := filepath.Join(cfg.OutputDir, "listings_summary.json")
	if err := storage.WriteJSON(summaryPath, summary); err != nil {
		logger.Error("Failed to write %s: %v", summaryPath, err)
	} else {
		logger.Info("Wrote %s (%d listings combined)", summaryPath, summary.Combined.Total)
	}

	logger.Info("Processing complete")
}
