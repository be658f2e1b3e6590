package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

// Ingestor reads market CSV exports into canonical listing records.
type Ingestor struct {
	tables *normalize.Tables
	logger *utils.Logger
}

// NewIngestor creates an Ingestor bound to the given lookup tables.
func NewIngestor(tables *normalize.Tables, logger *utils.Logger) *Ingestor {
	return &Ingestor{tables: tables, logger: logger}
}

// ReadFile reads one CSV file into canonical records, preserving file order.
// A missing file is not an error: it logs a warning and yields zero records.
// Rows without an identifier are dropped.
func (in *Ingestor) ReadFile(path string) ([]*models.Listing, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			in.logger.Warn("[ingest] %s not found — treating as empty", path)
			return nil, nil
		}
		return nil, fmt.Errorf("ingest: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("ingest: read header of %q: %w", path, err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = in.tables.Header(h)
	}

	var rows []*models.Listing
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows are per-row conditions, not pipeline failures.
			in.logger.Warn("[ingest] %s: skipping malformed row: %v", path, err)
			continue
		}

		listing := &models.Listing{}
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			listing.SetField(columns[i], normalize.Value(cell))
		}

		listing.MLSNumber = normalize.MLS(listing.MLSNumber)
		if listing.MLSNumber == "" {
			continue
		}
		if listing.AgentEmail != "" {
			listing.AgentEmail = normalize.Email(listing.AgentEmail)
		}

		rows = append(rows, listing)
	}

	return rows, nil
}

// Dedupe collapses records sharing an MLS number down to one. The winner is
// the record with the lexicographically greater timestamp string; ties keep
// the record already held. Output preserves first-seen identifier order.
//
// This is a string compare, not a parsed-datetime compare: it is only correct
// while every source stamps timestamps in the same sortable layout
// ("2006-01-02 15:04:05"). Divergent layouts across merged sources would
// silently break the most-recent-wins guarantee.
func (in *Ingestor) Dedupe(rows []*models.Listing) []*models.Listing {
	index := make(map[string]int, len(rows))
	kept := make([]*models.Listing, 0, len(rows))

	for _, row := range rows {
		if row.MLSNumber == "" {
			continue
		}
		at, seen := index[row.MLSNumber]
		if !seen {
			index[row.MLSNumber] = len(kept)
			kept = append(kept, row)
			continue
		}
		if row.Timestamp > kept[at].Timestamp {
			kept[at] = row
		}
	}

	return kept
}
