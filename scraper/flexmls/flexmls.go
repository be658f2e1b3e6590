// Package flexmls extracts active listings from a FlexMLS saved search by
// driving a headless browser through the portal's print preview, which
// renders the full result grid as a single page.
package flexmls

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"listings-feed-store/config"
	"listings-feed-store/models"
	"listings-feed-store/utils"
)

// Scraper orchestrates the FlexMLS extraction process.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	seen   *utils.StringSet
	retry  *utils.RetryConfig
}

// New creates a ready-to-use FlexMLS Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seen:   utils.NewStringSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// gridRow is the raw shape extracted from one print-preview grid row.
type gridRow struct {
	MLS        string `json:"mls"`
	Price      string `json:"price"`
	Address    string `json:"address"`
	CSZ        string `json:"csz"`
	Status     string `json:"status"`
	AgentText  string `json:"agentText"`
	OfficeText string `json:"officeText"`
	ImageURL   string `json:"imageUrl"`
}

// Scrape logs in, opens the saved search's print preview, and returns the
// extracted listings as canonical records.
func (s *Scraper) Scrape() ([]*models.Listing, error) {
	if s.cfg.MLSSearchURL == "" {
		return nil, fmt.Errorf("flexmls: MLS_SEARCH_URL is not configured")
	}

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[flexmls] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, 10*time.Minute)
	defer cancelTimeout()

	if err := s.login(ctx); err != nil {
		return nil, err
	}

	rows, err := s.extractGrid(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("[flexmls] Extracted %d grid rows", len(rows))

	listings := s.buildListings(rows)
	s.enrichImages(listings, rows)

	s.logger.Info("[flexmls] Scrape complete — %d listings", len(listings))
	return listings, nil
}

func (s *Scraper) login(ctx context.Context) error {
	s.logger.Info("[flexmls] Logging in at %s", s.cfg.MLSLoginURL)

	return s.retry.Do("login", func() error {
		err := chromedp.Run(ctx,
			chromedp.Navigate(s.cfg.MLSLoginURL),
			chromedp.Sleep(3*time.Second),
			chromedp.SendKeys(`input[type="text"]`, s.cfg.MLSUsername, chromedp.ByQuery),
			chromedp.SendKeys(`input[type="password"]`, s.cfg.MLSPassword, chromedp.ByQuery),
			chromedp.Click(`button[type="submit"], input[type="submit"]`, chromedp.ByQuery),
			chromedp.Sleep(5*time.Second),
		)
		if err != nil {
			return fmt.Errorf("flexmls login: %w", err)
		}
		return nil
	})
}

// extractGrid opens the saved search, triggers the print preview in the same
// tab, waits for it to settle, and pulls the listing grid apart.
func (s *Scraper) extractGrid(ctx context.Context) ([]gridRow, error) {
	var rows []gridRow

	err := s.retry.Do("extract-grid", func() error {
		settle := time.Duration(s.cfg.PreviewSettleMs) * time.Millisecond

		err := chromedp.Run(ctx,
			chromedp.Navigate(s.cfg.MLSSearchURL),
			chromedp.Sleep(5*time.Second),

			// Click "Print", then "Preview". Force the preview to open in
			// this tab so the grid stays reachable from this context.
			chromedp.Evaluate(clickByTextJS("print"), nil),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(clickByTextJS("preview"), nil),
			chromedp.Sleep(settle),

			chromedp.Evaluate(extractGridJS, &rows),
		)
		if err != nil {
			return fmt.Errorf("flexmls grid extract: %w", err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("flexmls grid extract: no rows found")
		}
		return nil
	})

	return rows, err
}

// buildListings converts raw grid rows into canonical records, dropping rows
// without an MLS number and deduplicating within the run.
func (s *Scraper) buildListings(rows []gridRow) []*models.Listing {
	now := time.Now().Format("2006-01-02 15:04:05")
	listings := make([]*models.Listing, 0, len(rows))

	for _, row := range rows {
		if row.MLS == "" {
			continue
		}
		if !s.seen.Add(row.MLS) {
			s.logger.Debug("[flexmls] Skipping duplicate MLS: %s", row.MLS)
			continue
		}

		address := strings.TrimSpace(row.Address)
		if csz := strings.TrimSpace(row.CSZ); csz != "" {
			address += ", " + csz
		}

		agent := parseContact(row.AgentText)
		office := parseContact(row.OfficeText)

		listings = append(listings, &models.Listing{
			Timestamp:        now,
			MLSNumber:        row.MLS,
			Price:            strings.TrimSpace(row.Price),
			ListingAddress:   address,
			Status:           strings.TrimSpace(row.Status),
			AgentName:        agent.Name,
			AgentFirstName:   firstName(agent.Name),
			AgentPhone:       agent.Phone,
			AgentEmail:       agent.Email,
			AgentWebsite:     agent.Website,
			OfficeName:       office.Name,
			OfficePhone:      office.Phone,
			OfficeEmail:      office.Email,
			OfficeWebsite:    office.Website,
			FormattedAddress: formatAddress(address),
		})
	}

	return listings
}

// enrichImages downloads each listing's grid photo and fills in the EXIF
// columns. Downloads run through the rate-limited worker pool; a failed
// download leaves the EXIF columns blank.
func (s *Scraper) enrichImages(listings []*models.Listing, rows []gridRow) {
	imageByMLS := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.ImageURL != "" && !strings.Contains(strings.ToLower(row.ImageURL), "nophoto") {
			imageByMLS[row.MLS] = row.ImageURL
		}
	}

	var mu sync.Mutex
	for _, listing := range listings {
		l := listing
		imageURL, ok := imageByMLS[l.MLSNumber]
		if !ok {
			continue
		}

		s.pool.Submit(func() {
			data, err := fetchImage(imageURL)
			if err != nil {
				s.logger.Warn("[flexmls] Image fetch failed for %s: %v", l.MLSNumber, err)
				return
			}
			meta := extractMetadata(data)

			mu.Lock()
			defer mu.Unlock()
			l.ImageFilename = imageFilename(imageURL)
			l.ExifArtist = meta.Artist
			l.ExifCopyright = meta.Copyright
			l.ExifMake = meta.Make
			l.ExifModel = meta.Model
			l.ExifLensModel = meta.LensModel
			l.ExifBodySerialNumber = meta.BodySerialNumber
			l.ExifDateTimeDigitized = meta.DateTimeDigitized
		})
	}
	s.pool.Wait()
}

func imageFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}

// clickByTextJS builds a script that clicks the first button or link whose
// text matches the given word, stripping any target attribute first.
func clickByTextJS(word string) string {
	return `
		(function() {
			var rx = new RegExp('^\\s*` + word + `(\\s+listings)?\\s*$', 'i');
			var els = document.querySelectorAll('button, a, input[type="button"], input[type="submit"]');
			for (var i = 0; i < els.length; i++) {
				var text = els[i].innerText || els[i].value || '';
				if (rx.test(text)) {
					els[i].removeAttribute('target');
					els[i].click();
					return true;
				}
			}
			return false;
		})()
	`
}

// extractGridJS pulls each row of the print-preview listing grid into a
// plain object. Cell positions follow the portal's fixed grid layout: photo
// in cell 1, listing details in cell 2, agent in cell 3, office in cell 8.
const extractGridJS = `
	(function() {
		var results = [];
		var rows = document.querySelectorAll('#resizable tbody tr');
		for (var i = 0; i < rows.length; i++) {
			var cells = rows[i].querySelectorAll('td.gridtd');
			if (cells.length < 5) continue;

			var main = cells[2];
			if (!main) continue;

			var mls = '';
			var mlsSpan = main.querySelector('span[style*="white-space: nowrap"]');
			if (mlsSpan) {
				var m = mlsSpan.textContent.match(/(\d{7,})/);
				if (m) mls = m[1];
			}
			if (!mls) continue;

			var pick = function(sel) {
				var el = main.querySelector(sel);
				return el ? el.innerText.trim() : '';
			};

			var imageUrl = '';
			var img = cells[1] ? cells[1].querySelector('img[src]') : null;
			if (img && img.src) imageUrl = img.src;

			results.push({
				mls:        mls,
				price:      pick('[ls="price"]'),
				address:    pick('[ls="address"]'),
				csz:        pick('[ls="csz"]'),
				status:     pick('.status_A, .status_P, .status_S, .status_C'),
				agentText:  cells.length > 3 ? cells[3].innerText : '',
				officeText: cells.length > 8 ? cells[8].innerText : '',
				imageUrl:   imageUrl
			});
		}
		return results;
	})()
`

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
