package models

// ListingSummary is the compact per-listing entry embedded in agent reports.
type ListingSummary struct {
	MLS          string `json:"mls"`
	Address      string `json:"address"`
	Status       string `json:"status,omitempty"`
	Price        string `json:"price,omitempty"`
	LP           bool   `json:"lp"`
	Photographer string `json:"photographer,omitempty"`
	Camera       string `json:"camera"`
}

// VerifiedAgent is one row of the verified-agents roster.
type VerifiedAgent struct {
	Email          string           `json:"email"`
	Name           string           `json:"name"`
	AllNames       []string         `json:"all_names"`
	Phone          string           `json:"phone"`
	Office         string           `json:"office"`
	TotalListings  int              `json:"total_listings"`
	ListingVolume  float64          `json:"listing_volume"`
	LPListings     int              `json:"lp_listings"`
	RecentListings []ListingSummary `json:"recent_listings"`
}

// VerifiedAgentsDoc is the verified_agents.json document for one market.
type VerifiedAgentsDoc struct {
	Market      string          `json:"market"`
	Agents      []VerifiedAgent `json:"agents"`
	TotalAgents int             `json:"total_agents"`
	Updated     string          `json:"updated"`
}

// LoyaltyAgent is one row of the customer-loyalty roster.
type LoyaltyAgent struct {
	Email                 string           `json:"email"`
	Name                  string           `json:"name"`
	Phone                 string           `json:"phone"`
	Office                string           `json:"office"`
	TotalListings         int              `json:"total_listings"`
	ListingVolume         float64          `json:"listing_volume"`
	LPListings            int              `json:"lp_listings"`
	NonLPListings         int              `json:"non_lp_listings"`
	LPPercentage          float64          `json:"lp_percentage"`
	PreferredPhotographer string           `json:"preferred_photographer"`
	RecentListings        []ListingSummary `json:"recent_listings"`
}

// LoyaltySummary holds the market-wide loyalty totals.
type LoyaltySummary struct {
	TotalAgents         int     `json:"total_agents"`
	AgentsUsingLP       int     `json:"agents_using_lp"`
	TotalLPListings     int     `json:"total_lp_listings"`
	TotalListings       int     `json:"total_listings"`
	OverallLPPercentage float64 `json:"overall_lp_percentage"`
}

// LoyaltyTiers counts agents per loyalty bucket. Only agents meeting the
// minimum activity threshold are classified.
type LoyaltyTiers struct {
	Loyal75Plus      int `json:"loyal_75_plus"`
	Occasional25To75 int `json:"occasional_25_to_75"`
	RareUnder25      int `json:"rare_under_25"`
	NeverUsed        int `json:"never_used"`
}

// CustomerLoyaltyDoc is the customer_loyalty.json document for one market.
type CustomerLoyaltyDoc struct {
	Market            string         `json:"market"`
	Summary           LoyaltySummary `json:"summary"`
	LoyaltyTiers      LoyaltyTiers   `json:"loyalty_tiers"`
	TopLoyalAgents    []LoyaltyAgent `json:"top_loyal_agents"`
	OpportunityAgents []LoyaltyAgent `json:"opportunity_agents"`
	AllAgents         []LoyaltyAgent `json:"all_agents"`
	Updated           string         `json:"updated"`
}

// PhotographersDoc is the photographers.json document for one market.
type PhotographersDoc struct {
	Market                 string         `json:"market"`
	Cameras                map[string]int `json:"cameras"`
	Photographers          map[string]int `json:"photographers"`
	PreferredPhotographers map[string]int `json:"preferred_photographers"`
	Updated                string         `json:"updated"`
}

// MarketTotals is the per-market block of the combined summary. LPMatched
// counts the raw attribution flag only; the camera-validity gate does not
// apply here.
type MarketTotals struct {
	Total     int            `json:"total"`
	ByStatus  map[string]int `json:"by_status"`
	LPMatched int            `json:"lp_matched"`
}

// CombinedTotals is the cross-market block of the combined summary.
type CombinedTotals struct {
	Total     int `json:"total"`
	LPMatched int `json:"lp_matched"`
}

// SummaryDoc is the listings_summary.json document covering all markets.
type SummaryDoc struct {
	Markets  map[string]MarketTotals `json:"markets"`
	Combined CombinedTotals          `json:"combined"`
	Updated  string                  `json:"updated"`
	Note     string                  `json:"note"`
}
