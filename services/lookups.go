package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

// LookupLoader reads the auxiliary reference files: the set of addresses
// ListerPros has shot, and the agent-email → preferred-photographer mapping.
// Both files are optional; absence degrades to an empty lookup.
type LookupLoader struct {
	tables *normalize.Tables
	logger *utils.Logger
}

// NewLookupLoader creates a LookupLoader bound to the given lookup tables.
func NewLookupLoader(tables *normalize.Tables, logger *utils.Logger) *LookupLoader {
	return &LookupLoader{tables: tables, logger: logger}
}

// vendorAddressColumns are the accepted header spellings for the address
// column of the vendor-order file, checked in order.
var vendorAddressColumns = []string{"formatted address", "formatted_address", "address"}

// VendorAddresses loads the normalized-address set of known vendor orders.
func (ll *LookupLoader) VendorAddresses(path string) (map[string]struct{}, error) {
	addresses := make(map[string]struct{})

	header, rows, err := ll.readAll(path)
	if err != nil || header == nil {
		return addresses, err
	}

	addressIdx := -1
	for _, want := range vendorAddressColumns {
		for i, h := range header {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				addressIdx = i
				break
			}
		}
		if addressIdx >= 0 {
			break
		}
	}
	if addressIdx < 0 {
		ll.logger.Warn("[lookups] no address column found in %s", path)
		return addresses, nil
	}

	for _, row := range rows {
		if addressIdx >= len(row) {
			continue
		}
		if normalized := ll.tables.Address(row[addressIdx]); normalized != "" {
			addresses[normalized] = struct{}{}
		}
	}

	return addresses, nil
}

// PreferredPhotographers loads the agent-email → photographer-name mapping.
func (ll *LookupLoader) PreferredPhotographers(path string) (map[string]string, error) {
	mapping := make(map[string]string)

	header, rows, err := ll.readAll(path)
	if err != nil || header == nil {
		return mapping, err
	}

	emailIdx, photogIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "agent email", "agent_email":
			if emailIdx < 0 {
				emailIdx = i
			}
		case "preferred photographer", "preferred_photographer":
			if photogIdx < 0 {
				photogIdx = i
			}
		}
	}
	if emailIdx < 0 || photogIdx < 0 {
		ll.logger.Warn("[lookups] missing required columns in %s", path)
		return mapping, nil
	}

	for _, row := range rows {
		if emailIdx >= len(row) || photogIdx >= len(row) {
			continue
		}
		email := normalize.Email(row[emailIdx])
		photographer := strings.TrimSpace(row[photogIdx])
		if email != "" && photographer != "" {
			mapping[email] = photographer
		}
	}

	return mapping, nil
}

// readAll reads a whole CSV file, returning a nil header when the file is
// missing or empty.
func (ll *LookupLoader) readAll(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			ll.logger.Info("[lookups] %s not found — using empty lookup", path)
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("lookups: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("lookups: read header of %q: %w", path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ll.logger.Warn("[lookups] %s: skipping malformed row: %v", path, err)
			continue
		}
		rows = append(rows, record)
	}

	return header, rows, nil
}
