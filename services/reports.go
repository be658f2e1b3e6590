package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"listings-feed-store/models"
	"listings-feed-store/normalize"
	"listings-feed-store/utils"
)

const (
	minActivityListings = 3
	loyalThreshold      = 75.0
	occasionalThreshold = 25.0

	recentListingsCap  = 10
	listingDetailCap   = 20
	topLoyalCap        = 50
	opportunityCap     = 50
	opportunityMinimum = 5

	cameraTableCap       = 50
	photographerTableCap = 100
)

// ReportBuilder folds an enriched, deduplicated record set into the three
// per-market report documents plus the combined summary.
type ReportBuilder struct {
	tables   *normalize.Tables
	enricher *Enricher
	logger   *utils.Logger
}

// NewReportBuilder creates a ReportBuilder bound to the given lookup tables.
func NewReportBuilder(tables *normalize.Tables, logger *utils.Logger) *ReportBuilder {
	return &ReportBuilder{
		tables:   tables,
		enricher: NewEnricher(tables, logger),
		logger:   logger,
	}
}

func updatedNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parsePrice extracts a numeric value from a free-text currency string.
// Unparseable prices contribute zero to volume.
func parsePrice(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "$", ""), ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// appendDistinct adds v to list if it is non-empty and not already present,
// preserving first-seen order so the primary value is the first observed.
func appendDistinct(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func firstOr(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

type verifiedAccumulator struct {
	email    string
	names    []string
	phones   []string
	offices  []string
	total    int
	volume   float64
	lp       int
	listings []models.ListingSummary
}

// BuildVerifiedAgents groups records by agent email into the verified-agent
// roster, sorted by total listing count descending.
func (rb *ReportBuilder) BuildVerifiedAgents(rows []*models.Listing, market string) *models.VerifiedAgentsDoc {
	byEmail := make(map[string]*verifiedAccumulator)
	var order []string

	for _, row := range rows {
		email := row.AgentEmail
		if email == "" || !strings.Contains(email, "@") {
			continue
		}

		agent, ok := byEmail[email]
		if !ok {
			agent = &verifiedAccumulator{email: email}
			byEmail[email] = agent
			order = append(order, email)
		}

		agent.names = appendDistinct(agent.names, row.AgentName)
		agent.phones = appendDistinct(agent.phones, row.AgentPhone)
		agent.offices = appendDistinct(agent.offices, row.OfficeName)
		agent.total++
		agent.volume += parsePrice(row.Price)

		camera := row.Camera()
		serviced := rb.enricher.VendorServiced(row)
		if serviced {
			agent.lp++
		}

		if row.ListingAddress != "" {
			if camera == "" {
				camera = "-"
			}
			agent.listings = append(agent.listings, models.ListingSummary{
				MLS:     row.MLSNumber,
				Address: row.ListingAddress,
				Status:  row.Status,
				Price:   row.Price,
				LP:      serviced,
				Camera:  camera,
			})
		}
	}

	agents := make([]models.VerifiedAgent, 0, len(order))
	for _, email := range order {
		a := byEmail[email]

		sort.SliceStable(a.listings, func(i, j int) bool {
			return a.listings[i].MLS > a.listings[j].MLS
		})
		recent := a.listings
		if len(recent) > recentListingsCap {
			recent = recent[:recentListingsCap]
		}

		agents = append(agents, models.VerifiedAgent{
			Email:          a.email,
			Name:           firstOr(a.names),
			AllNames:       a.names,
			Phone:          firstOr(a.phones),
			Office:         firstOr(a.offices),
			TotalListings:  a.total,
			ListingVolume:  a.volume,
			LPListings:     a.lp,
			RecentListings: recent,
		})
	}

	sort.SliceStable(agents, func(i, j int) bool {
		return agents[i].TotalListings > agents[j].TotalListings
	})

	return &models.VerifiedAgentsDoc{
		Market:      market,
		Agents:      agents,
		TotalAgents: len(agents),
		Updated:     updatedNow(),
	}
}

type loyaltyAccumulator struct {
	agent  models.LoyaltyAgent
	detail []models.ListingSummary
}

func setFirst(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}

// BuildCustomerLoyalty groups records by agent email and computes per-agent
// ListerPros usage, loyalty percentage, and tier classification. Vendor
// counts here are gated on camera validity; records whose address or
// filename matched but whose camera belongs to another shooter count as
// non-vendor.
func (rb *ReportBuilder) BuildCustomerLoyalty(rows []*models.Listing, market string) *models.CustomerLoyaltyDoc {
	byEmail := make(map[string]*loyaltyAccumulator)
	var order []string
	cameraFiltered := 0

	for _, row := range rows {
		email := row.AgentEmail
		if email == "" || !strings.Contains(email, "@") {
			continue
		}

		acc, ok := byEmail[email]
		if !ok {
			acc = &loyaltyAccumulator{agent: models.LoyaltyAgent{Email: email}}
			byEmail[email] = acc
			order = append(order, email)
		}

		setFirst(&acc.agent.Name, row.AgentName)
		setFirst(&acc.agent.Phone, row.AgentPhone)
		setFirst(&acc.agent.Office, row.OfficeName)
		setFirst(&acc.agent.PreferredPhotographer, row.PreferredPhotographer)

		acc.agent.TotalListings++
		acc.agent.ListingVolume += parsePrice(row.Price)

		camera := row.Camera()
		serviced := rb.enricher.VendorServiced(row)
		if row.VendorFlag.IsSet() && !serviced {
			cameraFiltered++
		}

		if serviced {
			acc.agent.LPListings++
		} else {
			acc.agent.NonLPListings++
		}

		if len(acc.detail) < listingDetailCap {
			status := "Other"
			if serviced {
				status = "LP Order"
			}
			photographer := row.ExifArtist
			if photographer == "" {
				photographer = row.PreferredPhotographer
			}
			if camera == "" {
				camera = "-"
			}
			acc.detail = append(acc.detail, models.ListingSummary{
				MLS:          row.MLSNumber,
				Address:      row.ListingAddress,
				LP:           serviced,
				Status:       status,
				Photographer: photographer,
				Camera:       camera,
			})
		}
	}

	if cameraFiltered > 0 {
		rb.logger.Info("[loyalty] camera gate filtered %d flagged listings (wrong camera)", cameraFiltered)
	}

	roster := make([]models.LoyaltyAgent, 0, len(order))
	for _, email := range order {
		acc := byEmail[email]
		if acc.agent.TotalListings > 0 {
			acc.agent.LPPercentage = round1(float64(acc.agent.LPListings) / float64(acc.agent.TotalListings) * 100)
		}
		recent := acc.detail
		if len(recent) > recentListingsCap {
			recent = recent[:recentListingsCap]
		}
		acc.agent.RecentListings = recent
		roster = append(roster, acc.agent)
	}

	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].TotalListings > roster[j].TotalListings
	})

	summary := models.LoyaltySummary{TotalAgents: len(roster)}
	var tiers models.LoyaltyTiers
	var loyal, never []models.LoyaltyAgent

	for _, a := range roster {
		summary.TotalListings += a.TotalListings
		summary.TotalLPListings += a.LPListings
		if a.LPListings > 0 {
			summary.AgentsUsingLP++
		}

		if a.TotalListings < minActivityListings {
			continue
		}
		switch {
		case a.LPListings == 0:
			tiers.NeverUsed++
			never = append(never, a)
		case a.LPPercentage >= loyalThreshold:
			tiers.Loyal75Plus++
			loyal = append(loyal, a)
		case a.LPPercentage >= occasionalThreshold:
			tiers.Occasional25To75++
		default:
			tiers.RareUnder25++
		}
	}

	if summary.TotalListings > 0 {
		summary.OverallLPPercentage = round1(float64(summary.TotalLPListings) / float64(summary.TotalListings) * 100)
	}

	var opportunity []models.LoyaltyAgent
	for _, a := range never {
		if a.TotalListings >= opportunityMinimum {
			opportunity = append(opportunity, a)
		}
	}

	if len(loyal) > topLoyalCap {
		loyal = loyal[:topLoyalCap]
	}
	if len(opportunity) > opportunityCap {
		opportunity = opportunity[:opportunityCap]
	}

	return &models.CustomerLoyaltyDoc{
		Market:            market,
		Summary:           summary,
		LoyaltyTiers:      tiers,
		TopLoyalAgents:    loyal,
		OpportunityAgents: opportunity,
		AllAgents:         roster,
		Updated:           updatedNow(),
	}
}

// BuildPhotographers computes camera, attribution-tag, and preferred-
// photographer frequency tables from the EXIF columns.
func (rb *ReportBuilder) BuildPhotographers(rows []*models.Listing, market string) *models.PhotographersDoc {
	cameras := make(map[string]int)
	photographers := make(map[string]int)
	preferred := make(map[string]int)

	for _, row := range rows {
		make_ := strings.TrimSpace(row.ExifMake)
		model := strings.TrimSpace(row.ExifModel)
		switch {
		case make_ != "" && model != "":
			cameras[make_+" "+model]++
		case make_ != "":
			cameras[make_]++
		}

		if artist := strings.TrimSpace(row.ExifArtist); artist != "" {
			photographers[artist]++
		}
		if p := strings.TrimSpace(row.PreferredPhotographer); p != "" {
			preferred[p]++
		}
	}

	return &models.PhotographersDoc{
		Market:                 market,
		Cameras:                topN(cameras, cameraTableCap),
		Photographers:          topN(photographers, photographerTableCap),
		PreferredPhotographers: preferred,
		Updated:                updatedNow(),
	}
}

// topN keeps the n highest-count entries of a frequency table. Ties break on
// key so truncation is deterministic.
func topN(freq map[string]int, n int) map[string]int {
	if len(freq) <= n {
		return freq
	}

	type entry struct {
		key   string
		count int
	}
	entries := make([]entry, 0, len(freq))
	for k, v := range freq {
		entries = append(entries, entry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	out := make(map[string]int, n)
	for _, e := range entries[:n] {
		out[e.key] = e.count
	}
	return out
}

// MarketRows pairs a market name with its enriched record set for the
// combined summary.
type MarketRows struct {
	Name string
	Rows []*models.Listing
}

// BuildSummary reports per-market and combined totals. The lp_matched counts
// here intentionally use the raw attribution flag without the camera gate;
// the summary tracks the looser signal while loyalty tracks the strict one.
func (rb *ReportBuilder) BuildSummary(markets []MarketRows) *models.SummaryDoc {
	doc := &models.SummaryDoc{
		Markets: make(map[string]models.MarketTotals, len(markets)),
		Updated: updatedNow(),
		Note:    "Market-specific data in the per-market output folders",
	}

	for _, m := range markets {
		totals := models.MarketTotals{
			Total:    len(m.Rows),
			ByStatus: make(map[string]int),
		}
		for _, row := range m.Rows {
			status := row.Status
			if status == "" {
				status = "Unknown"
			}
			totals.ByStatus[status]++
			if row.VendorFlag.IsSet() {
				totals.LPMatched++
			}
		}
		doc.Markets[m.Name] = totals
		doc.Combined.Total += totals.Total
		doc.Combined.LPMatched += totals.LPMatched
	}

	return doc
}
