package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"listings-feed-store/models"
)

// PostgresStore mirrors canonical listings into PostgreSQL. Inserts merge on
// mls_number, so re-running a scrape or import only adds listings that are
// not already present.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                      SERIAL PRIMARY KEY,
			mls_number              VARCHAR(32) UNIQUE NOT NULL,
			ts                      TEXT        NOT NULL DEFAULT '',
			price                   TEXT        NOT NULL DEFAULT '',
			listing_address         TEXT        NOT NULL DEFAULT '',
			status                  TEXT        NOT NULL DEFAULT '',
			agent_name              TEXT        NOT NULL DEFAULT '',
			agent_email             TEXT        NOT NULL DEFAULT '',
			agent_phone             TEXT        NOT NULL DEFAULT '',
			office_name             TEXT        NOT NULL DEFAULT '',
			formatted_address       TEXT        NOT NULL DEFAULT '',
			image_filename          TEXT        NOT NULL DEFAULT '',
			exif_artist             TEXT        NOT NULL DEFAULT '',
			exif_make               TEXT        NOT NULL DEFAULT '',
			exif_model              TEXT        NOT NULL DEFAULT '',
			scraped_image_filename  TEXT        NOT NULL DEFAULT '',
			lp_flag                 TEXT        NOT NULL DEFAULT '',
			preferred_photographer  TEXT        NOT NULL DEFAULT '',
			created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_agent_email ON listings(agent_email);
		CREATE INDEX IF NOT EXISTS idx_listings_status      ON listings(status);
		CREATE INDEX IF NOT EXISTS idx_listings_lp_flag     ON listings(lp_flag);
	`)
	return err
}

// Write batch-inserts listings, skipping MLS numbers that already exist.
func (ps *PostgresStore) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := ps.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(batch []*models.Listing) error {
	const cols = 17
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for c := 0; c < cols; c++ {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.MLSNumber, l.Timestamp, l.Price, l.ListingAddress, l.Status,
			l.AgentName, l.AgentEmail, l.AgentPhone, l.OfficeName,
			l.FormattedAddress, l.ImageFilename, l.ExifArtist, l.ExifMake,
			l.ExifModel, l.ScrapedImageFilename, l.VendorFlag.String(),
			l.PreferredPhotographer)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (
			mls_number, ts, price, listing_address, status,
			agent_name, agent_email, agent_phone, office_name,
			formatted_address, image_filename, exif_artist, exif_make,
			exif_model, scraped_image_filename, lp_flag, preferred_photographer
		)
		VALUES %s
		ON CONFLICT (mls_number) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(query, valueArgs...)
	return err
}

// CountByMLS returns how many of the given MLS numbers already exist.
func (ps *PostgresStore) CountByMLS(mlsNumbers []string) (int, error) {
	if len(mlsNumbers) == 0 {
		return 0, nil
	}
	var count int
	err := ps.db.QueryRow(
		`SELECT COUNT(*) FROM listings WHERE mls_number = ANY($1)`,
		"{"+strings.Join(mlsNumbers, ",")+"}",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("postgres: count by mls: %w", err)
	}
	return count, nil
}

// FetchAll retrieves every stored listing, oldest first.
func (ps *PostgresStore) FetchAll() ([]*models.Listing, error) {
	rows, err := ps.db.Query(`
		SELECT mls_number, ts, price, listing_address, status,
		       agent_name, agent_email, agent_phone, office_name,
		       formatted_address, image_filename, exif_artist, exif_make,
		       exif_model, scraped_image_filename, lp_flag, preferred_photographer
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var flag string
		if err := rows.Scan(
			&l.MLSNumber, &l.Timestamp, &l.Price, &l.ListingAddress, &l.Status,
			&l.AgentName, &l.AgentEmail, &l.AgentPhone, &l.OfficeName,
			&l.FormattedAddress, &l.ImageFilename, &l.ExifArtist, &l.ExifMake,
			&l.ExifModel, &l.ScrapedImageFilename, &flag, &l.PreferredPhotographer,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.VendorFlag = models.ParseVendorFlag(flag)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Close releases the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
