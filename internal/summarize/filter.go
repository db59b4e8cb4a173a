// Package summarize filters the reconciled transaction set and aggregates it
// into the three summary views.
package summarize

import (
	"sort"
	"strings"
	"time"

	"golang-ledger-summary-service/internal/models"
)

// Filter restricts transactions by calendar-date range and by raw operation
// status. Each criterion is a no-op when unset; criteria compose with AND.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Statuses  []string
}

// Apply returns the transactions passing every set criterion.
func (f *Filter) Apply(transactions []models.Transaction) []models.Transaction {
	statusSet := make(map[string]struct{}, len(f.Statuses))
	for _, s := range f.Statuses {
		statusSet[normalizeStatus(s)] = struct{}{}
	}

	// The date range only applies when both bounds are present; a single
	// bound is a no-op.
	var start, end time.Time
	rangeSet := f.StartDate != nil && f.EndDate != nil
	if rangeSet {
		start = models.TruncateToDay(*f.StartDate)
		end = models.TruncateToDay(*f.EndDate)
	}

	filtered := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if rangeSet && (tx.Date.Before(start) || tx.Date.After(end)) {
			continue
		}
		if len(statusSet) > 0 {
			if _, ok := statusSet[normalizeStatus(tx.OperationStatus)]; !ok {
				continue
			}
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FilterOptions lists the distinct dates and operation statuses present in
// the full unfiltered dataset, for populating the request controls.
type FilterOptions struct {
	Dates    []string `json:"dates"`
	Statuses []string `json:"statuses"`
}

// CollectFilterOptions builds the option lists from the complete reconciled
// set, never from a filtered subset.
func CollectFilterOptions(transactions []models.Transaction) FilterOptions {
	dateSet := make(map[string]struct{})
	statusSet := make(map[string]struct{})
	for _, tx := range transactions {
		dateSet[tx.Date.Format("2006-01-02")] = struct{}{}
		if tx.OperationStatus != "" {
			statusSet[tx.OperationStatus] = struct{}{}
		}
	}

	options := FilterOptions{
		Dates:    make([]string, 0, len(dateSet)),
		Statuses: make([]string, 0, len(statusSet)),
	}
	for d := range dateSet {
		options.Dates = append(options.Dates, d)
	}
	for s := range statusSet {
		options.Statuses = append(options.Statuses, s)
	}
	sort.Strings(options.Dates)
	sort.Strings(options.Statuses)
	return options
}
