// Package reconcile joins the ledger export against the reference sheet and
// derives the homologated status for every row.
package reconcile

import (
	"golang-ledger-summary-service/internal/models"
	"golang-ledger-summary-service/pkg/logger"
)

// Stats describes what happened during a reconciliation pass.
type Stats struct {
	TotalEntries        int `json:"total_entries"`
	MatchedOrders       int `json:"matched_orders"`
	UnmatchedOrders     int `json:"unmatched_orders"`
	PlaceholderAccounts int `json:"placeholder_accounts"`
	ConflictingOrders   int `json:"conflicting_orders"`
}

// Reconciler joins ledger entries with reference records.
type Reconciler struct {
	log logger.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{
		log: logger.GetGlobalLogger().WithComponent("reconciler"),
	}
}

// Reconcile performs a left outer join of entries against records on the
// order id. Every ledger entry produces exactly one transaction: entries
// without a reference record, and entries whose reference account is a
// non-numeric placeholder, get account number 0. When the reference sheet
// carries conflicting accounts for the same order, the first occurrence wins
// and the conflict is logged.
func (r *Reconciler) Reconcile(entries []models.LedgerEntry, records []models.ReferenceRecord) ([]models.Transaction, Stats) {
	index, conflicts := buildIndex(records, r.log)

	stats := Stats{
		TotalEntries:      len(entries),
		ConflictingOrders: conflicts,
	}

	transactions := make([]models.Transaction, 0, len(entries))
	for _, entry := range entries {
		tx := models.Transaction{
			Date:            entry.Date,
			OperationStatus: entry.OperationStatus,
			CustomerEmail:   entry.CustomerEmail,
			OrderID:         entry.OrderID,
			CardLast4:       entry.CardLast4,
			Amount:          entry.Amount,
			Homologated:     models.Homologate(entry.OperationStatus),
		}

		if field, matched := index[entry.OrderID]; matched {
			stats.MatchedOrders++
			account, numeric := models.ParseAccountNumber(field)
			if !numeric {
				stats.PlaceholderAccounts++
			}
			tx.AccountNumber = account
		} else {
			stats.UnmatchedOrders++
		}

		transactions = append(transactions, tx)
	}

	r.log.WithFields(logger.Fields{
		"total":        stats.TotalEntries,
		"matched":      stats.MatchedOrders,
		"unmatched":    stats.UnmatchedOrders,
		"placeholders": stats.PlaceholderAccounts,
		"conflicts":    stats.ConflictingOrders,
	}).Info("reconciliation completed")

	return transactions, stats
}

// buildIndex maps order id to the account field, keeping the first occurrence
// when a later record disagrees.
func buildIndex(records []models.ReferenceRecord, log logger.Logger) (map[string]string, int) {
	index := make(map[string]string, len(records))
	conflicts := 0
	for _, record := range records {
		existing, seen := index[record.OrderID]
		if !seen {
			index[record.OrderID] = record.AccountField
			continue
		}
		if existing != record.AccountField {
			conflicts++
			log.WithFields(logger.Fields{
				"order_id": record.OrderID,
				"kept":     existing,
				"ignored":  record.AccountField,
			}).Warn("conflicting reference account for order, keeping first occurrence")
		}
	}
	return index, conflicts
}
