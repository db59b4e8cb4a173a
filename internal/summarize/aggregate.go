package summarize

import (
	"fmt"
	"sort"

	"golang-ledger-summary-service/internal/models"
	"golang-ledger-summary-service/pkg/errors"

	"github.com/shopspring/decimal"
)

// SortBy selects the optional metric ordering of a summary view.
type SortBy string

const (
	SortNone              SortBy = "none"
	SortApprovedCountDesc SortBy = "approved_count_desc"
	SortRejectedCountDesc SortBy = "rejected_count_desc"
)

// ParseSortBy validates a raw sort selector.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(s) {
	case "", SortNone:
		return SortNone, nil
	case SortApprovedCountDesc:
		return SortApprovedCountDesc, nil
	case SortRejectedCountDesc:
		return SortRejectedCountDesc, nil
	default:
		return SortNone, errors.New(errors.CategoryData, errors.CodeInvalidValue,
			fmt.Sprintf("unknown sort selector %q", s)).
			WithSuggestion("use one of none, approved_count_desc, rejected_count_desc")
	}
}

// Metrics holds the pivoted counts and sums for one grouping key. Approved
// and Rejected are the pivot columns; totals are their exact decimal sum.
// Review rows never enter the pivot, they are surfaced through pipeline stats.
type Metrics struct {
	ApprovedCount int             `json:"approved_count"`
	ApprovedSum   decimal.Decimal `json:"approved_sum"`
	RejectedCount int             `json:"rejected_count"`
	RejectedSum   decimal.Decimal `json:"rejected_sum"`
	TotalCount    int             `json:"total_count"`
	TotalSum      decimal.Decimal `json:"total_sum"`
}

func newMetrics() Metrics {
	return Metrics{
		ApprovedSum: decimal.Zero,
		RejectedSum: decimal.Zero,
		TotalSum:    decimal.Zero,
	}
}

func (m *Metrics) add(tx models.Transaction) {
	switch tx.Homologated {
	case models.StatusApproved:
		m.ApprovedCount++
		m.ApprovedSum = m.ApprovedSum.Add(tx.Amount)
	case models.StatusRejected:
		m.RejectedCount++
		m.RejectedSum = m.RejectedSum.Add(tx.Amount)
	default:
		return
	}
	m.TotalCount++
	m.TotalSum = m.TotalSum.Add(tx.Amount)
}

func (m *Metrics) accumulate(other Metrics) {
	m.ApprovedCount += other.ApprovedCount
	m.ApprovedSum = m.ApprovedSum.Add(other.ApprovedSum)
	m.RejectedCount += other.RejectedCount
	m.RejectedSum = m.RejectedSum.Add(other.RejectedSum)
	m.TotalCount += other.TotalCount
	m.TotalSum = m.TotalSum.Add(other.TotalSum)
}

// DetailRow is one transaction nested under a summary row for drill-down.
type DetailRow struct {
	Date          string          `json:"date"`
	OrderID       string          `json:"order_id"`
	AccountNumber int64           `json:"account_number"`
	CardLast4     string          `json:"card_last4"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

func detailRow(tx models.Transaction) DetailRow {
	return DetailRow{
		Date:          tx.Date.Format("2006-01-02"),
		OrderID:       tx.OrderID,
		AccountNumber: tx.AccountNumber,
		CardLast4:     tx.CardLast4,
		Amount:        tx.Amount,
		Status:        tx.Homologated.String(),
	}
}

// EmailRow is one group of the by-email view.
type EmailRow struct {
	Email string `json:"email"`
	Metrics
	Details []DetailRow `json:"details"`
}

// EmailSummary is the by-email view with its totals row.
type EmailSummary struct {
	Rows   []EmailRow `json:"rows"`
	Totals Metrics    `json:"totals"`
}

// SummarizeByEmail groups transactions by customer email, pivoting the
// homologated status into count and sum columns. Default order is ascending
// by email; a metric sort is applied on top with a stable sort so ties keep
// the email order.
func SummarizeByEmail(transactions []models.Transaction, sortBy SortBy) *EmailSummary {
	groups := make(map[string]*EmailRow)
	order := make([]string, 0)
	for _, tx := range transactions {
		row, ok := groups[tx.CustomerEmail]
		if !ok {
			row = &EmailRow{Email: tx.CustomerEmail, Metrics: newMetrics()}
			groups[tx.CustomerEmail] = row
			order = append(order, tx.CustomerEmail)
		}
		row.add(tx)
		// Review rows stay out of the pivot metrics but are still listed in
		// the drill-down.
		row.Details = append(row.Details, detailRow(tx))
	}

	sort.Strings(order)
	summary := &EmailSummary{Rows: make([]EmailRow, 0, len(order)), Totals: newMetrics()}
	for _, email := range order {
		row := groups[email]
		if row.TotalCount == 0 {
			continue
		}
		summary.Totals.accumulate(row.Metrics)
		summary.Rows = append(summary.Rows, *row)
	}

	applySort(summary.Rows, sortBy, func(r *EmailRow) *Metrics { return &r.Metrics })
	return summary
}

// AccountRow is one group of the by-account view. Emails carries the distinct
// customer emails seen under the account, for drill-down.
type AccountRow struct {
	AccountNumber int64 `json:"account_number"`
	Metrics
	Emails []string `json:"emails"`
}

// AccountSummary is the by-account view with its totals row.
type AccountSummary struct {
	Rows   []AccountRow `json:"rows"`
	Totals Metrics      `json:"totals"`
}

// SummarizeByAccount groups transactions by account number. Account 0 is a
// regular bucket holding unresolved accounts.
func SummarizeByAccount(transactions []models.Transaction, sortBy SortBy) *AccountSummary {
	type accountGroup struct {
		row    *AccountRow
		emails map[string]struct{}
	}
	groups := make(map[int64]*accountGroup)
	order := make([]int64, 0)
	for _, tx := range transactions {
		group, ok := groups[tx.AccountNumber]
		if !ok {
			group = &accountGroup{
				row:    &AccountRow{AccountNumber: tx.AccountNumber, Metrics: newMetrics()},
				emails: make(map[string]struct{}),
			}
			groups[tx.AccountNumber] = group
			order = append(order, tx.AccountNumber)
		}
		group.row.add(tx)
		group.emails[tx.CustomerEmail] = struct{}{}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	summary := &AccountSummary{Rows: make([]AccountRow, 0, len(order)), Totals: newMetrics()}
	for _, account := range order {
		group := groups[account]
		if group.row.TotalCount == 0 {
			continue
		}
		group.row.Emails = sortedKeys(group.emails)
		summary.Totals.accumulate(group.row.Metrics)
		summary.Rows = append(summary.Rows, *group.row)
	}

	applySort(summary.Rows, sortBy, func(r *AccountRow) *Metrics { return &r.Metrics })
	return summary
}

// DistinctEmailRow counts distinct customer emails per account and status.
type DistinctEmailRow struct {
	AccountNumber  int64    `json:"account_number"`
	ApprovedEmails int      `json:"approved_emails"`
	RejectedEmails int      `json:"rejected_emails"`
	TotalEmails    int      `json:"total_emails"`
	Emails         []string `json:"emails"`
}

// DistinctEmailSummary is the distinct-email view with its totals row.
type DistinctEmailSummary struct {
	Rows   []DistinctEmailRow `json:"rows"`
	Totals DistinctEmailRow   `json:"totals"`
}

// SummarizeDistinctEmails counts, per account number, the distinct customer
// emails under each homologated status. Set cardinality, not a row count: the
// same email transacting twice counts once.
func SummarizeDistinctEmails(transactions []models.Transaction, sortBy SortBy) *DistinctEmailSummary {
	type emailSets struct {
		approved map[string]struct{}
		rejected map[string]struct{}
	}
	groups := make(map[int64]*emailSets)
	order := make([]int64, 0)
	for _, tx := range transactions {
		if tx.Homologated == models.StatusReview {
			continue
		}
		sets, ok := groups[tx.AccountNumber]
		if !ok {
			sets = &emailSets{
				approved: make(map[string]struct{}),
				rejected: make(map[string]struct{}),
			}
			groups[tx.AccountNumber] = sets
			order = append(order, tx.AccountNumber)
		}
		if tx.Homologated == models.StatusApproved {
			sets.approved[tx.CustomerEmail] = struct{}{}
		} else {
			sets.rejected[tx.CustomerEmail] = struct{}{}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	summary := &DistinctEmailSummary{Rows: make([]DistinctEmailRow, 0, len(order))}
	for _, account := range order {
		sets := groups[account]
		all := make(map[string]struct{}, len(sets.approved)+len(sets.rejected))
		for e := range sets.approved {
			all[e] = struct{}{}
		}
		for e := range sets.rejected {
			all[e] = struct{}{}
		}
		row := DistinctEmailRow{
			AccountNumber:  account,
			ApprovedEmails: len(sets.approved),
			RejectedEmails: len(sets.rejected),
			TotalEmails:    len(sets.approved) + len(sets.rejected),
			Emails:         sortedKeys(all),
		}
		summary.Totals.ApprovedEmails += row.ApprovedEmails
		summary.Totals.RejectedEmails += row.RejectedEmails
		summary.Totals.TotalEmails += row.TotalEmails
		summary.Rows = append(summary.Rows, row)
	}

	switch sortBy {
	case SortApprovedCountDesc:
		sort.SliceStable(summary.Rows, func(i, j int) bool {
			return summary.Rows[i].ApprovedEmails > summary.Rows[j].ApprovedEmails
		})
	case SortRejectedCountDesc:
		sort.SliceStable(summary.Rows, func(i, j int) bool {
			return summary.Rows[i].RejectedEmails > summary.Rows[j].RejectedEmails
		})
	}
	return summary
}

func applySort[R any](rows []R, sortBy SortBy, metrics func(*R) *Metrics) {
	switch sortBy {
	case SortApprovedCountDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return metrics(&rows[i]).ApprovedCount > metrics(&rows[j]).ApprovedCount
		})
	case SortRejectedCountDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			return metrics(&rows[i]).RejectedCount > metrics(&rows[j]).RejectedCount
		})
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
