package domain

import "time"

// HistoryKey is the storage key of the search history list.
const HistoryKey = "search-history"

// MaxHistoryEntries bounds the history list.
const MaxHistoryEntries = 10

// SearchHistoryEntry is one committed search.
type SearchHistoryEntry struct {
	ID          string         `json:"id"`
	Query       string         `json:"query"`
	Filters     FilterCriteria `json:"filters"`
	ResultCount int            `json:"result_count"`
	Timestamp   time.Time      `json:"timestamp"`
}
