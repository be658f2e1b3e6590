package main

import (
	"os"

	"listings-feed-store/config"
	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/services"
	"listings-feed-store/storage"
	"listings-feed-store/utils"
)

// One-time bulk import: combines legacy spreadsheet exports (current +
// archive per market) into the canonical market CSVs under the data
// directory.
func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	tables, err := normalize.LoadTables()
	if err != nil {
		logger.Error("Failed to load lookup tables: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Listings Feed Store — legacy export importer ===")

	ingestor := services.NewIngestor(tables, logger)
	total := 0

	for _, market := range cfg.Markets {
		sources := cfg.ImportSources[market.Name]
		if len(sources) == 0 {
			logger.Warn("[%s] No import sources configured — skipping", market.Name)
			continue
		}

		var combined []*models.Listing
		for _, src := range sources {
			rows, err := ingestor.ReadFile(src)
			if err != nil {
				logger.Error("[%s] Failed to read %s: %v", market.Name, src, err)
				os.Exit(1)
			}
			logger.Info("[%s] Loaded %d rows from %s", market.Name, len(rows), src)
			combined = append(combined, rows...)
		}

		deduped := ingestor.Dedupe(combined)
		logger.Info("[%s] Combined %d rows, %d unique MLS numbers", market.Name, len(combined), len(deduped))

		writer, err := storage.NewCSVWriter(market.CSVPath)
		if err != nil {
			logger.Error("[%s] Failed to create %s: %v", market.Name, market.CSVPath, err)
			os.Exit(1)
		}
		if err := writer.Write(deduped); err != nil {
			logger.Error("[%s] Failed to write %s: %v", market.Name, market.CSVPath, err)
			_ = writer.Close()
			os.Exit(1)
		}
		if err := writer.Close(); err != nil {
			logger.Error("[%s] Failed to close %s: %v", market.Name, market.CSVPath, err)
			os.Exit(1)
		}

		logger.Info("[%s] Wrote %s", market.Name, market.CSVPath)
		total += len(deduped)
	}

	logger.Info("Import complete: %d unique listings across %d markets", total, len(cfg.Markets))
}
