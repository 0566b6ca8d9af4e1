package domain

// ContributionDay is one calendar day of activity.
type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// ContributionStats is the derived summary for one subject.
type ContributionStats struct {
	TotalContributions int               `json:"totalContributions"`
	ReportedTotal      int               `json:"reportedTotal"`
	CurrentStreak      int               `json:"currentStreak"`
	LongestStreak      int               `json:"longestStreak"`
	Series             []ContributionDay `json:"contributionData"`
}

// StatsCacheEntry is the persisted form of a computed summary.
// Timestamp is in epoch milliseconds.
type StatsCacheEntry struct {
	Timestamp      int64             `json:"timestamp"`
	Data           ContributionStats `json:"data"`
	CachedUsername string            `json:"cachedUsername"`
}
