package domain

// GlobalStats are the headline counters of the statistics dashboard.
type GlobalStats struct {
	TotalAssignments   int64 `json:"total_assignments"`
	TotalDecrees       int64 `json:"total_decrees"`
	PublishedDecrees   int64 `json:"published_decrees"`
	Institutions       int64 `json:"institutions"`
	BirthPlaces        int64 `json:"birth_places"`
	Diplomas           int64 `json:"diplomas"`
	TotalSearches      int64 `json:"total_searches"`
	TotalConsultations int64 `json:"total_consultations"`
}

// GroupCount is the number of published assignments sharing one value.
type GroupCount struct {
	Name       string `json:"name"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage,omitempty"`
}

// DayCount is the number of searches recorded on one day.
type DayCount struct {
	Day      string `json:"day"`
	Searches int64  `json:"searches"`
}

// IPCount is the number of searches issued from one client address.
type IPCount struct {
	IPAddress string `json:"ip_address"`
	Searches  int64  `json:"searches"`
}

// TermCount is how often a search term was used.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// StatisticsOverview is the full payload of the statistics dashboard.
type StatisticsOverview struct {
	Global         GlobalStats  `json:"global"`
	ByInstitution  []GroupCount `json:"by_institution"`
	ByDiploma      []GroupCount `json:"by_diploma"`
	ByBirthPlace   []GroupCount `json:"by_birth_place"`
	SearchesPerDay []DayCount   `json:"searches_per_day"`
	SearchesByIP   []IPCount    `json:"searches_by_ip"`
	TopSearchTerms []TermCount  `json:"top_search_terms"`
	// Daily holds the per-day activity counters over the same window as
	// SearchesPerDay.
	Daily []DailyStatistic `json:"daily"`
}
