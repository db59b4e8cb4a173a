// Package models defines the domain records flowing through the summary
// pipeline: raw ledger and reference rows, the reconciled Transaction, and
// the homologated status classification.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HomologatedStatus is the canonical outcome derived from the free-text
// operation status of a ledger row.
type HomologatedStatus string

const (
	StatusApproved HomologatedStatus = "Approved"
	StatusRejected HomologatedStatus = "Rejected"
	StatusReview   HomologatedStatus = "Review"
)

// String returns the string representation of the status.
func (s HomologatedStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the three canonical values.
func (s HomologatedStatus) IsValid() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusReview
}

// approvedStatuses and rejectedStatuses hold the homologation table. The
// monthly export carries Spanish labels; the English forms are accepted as
// well so re-labeled exports classify identically.
var approvedStatuses = map[string]struct{}{
	"completada":        {},
	"cancelada":         {},
	"reembolso parcial": {},
	"reembolsada":       {},
	"completed":         {},
	"cancelled":         {},
	"partial refund":    {},
	"refunded":          {},
}

var rejectedStatuses = map[string]struct{}{
	"rechazada por banco":      {},
	"rechazada por antifraude": {},
	"fallida":                  {},
	"pendiente":                {},
	"rejected-by-bank":         {},
	"rejected-by-antifraud":    {},
	"failed":                   {},
	"pending":                  {},
}

// Homologate maps a raw operation status to its canonical outcome. It is a
// total function: unrecognized values map to StatusReview, never an error.
func Homologate(operationStatus string) HomologatedStatus {
	key := strings.ToLower(strings.TrimSpace(operationStatus))
	if _, ok := approvedStatuses[key]; ok {
		return StatusApproved
	}
	if _, ok := rejectedStatuses[key]; ok {
		return StatusRejected
	}
	return StatusReview
}

// LedgerEntry is one row of the primary transaction export.
type LedgerEntry struct {
	Date            time.Time       `json:"date"`
	OperationStatus string          `json:"operation_status"`
	CustomerEmail   string          `json:"customer_email"`
	OrderID         string          `json:"order_id"`
	CardLast4       string          `json:"card_last4"`
	Amount          decimal.Decimal `json:"amount"`
}

// Validate performs basic validation on the LedgerEntry.
func (e *LedgerEntry) Validate() error {
	if strings.TrimSpace(e.OrderID) == "" {
		return fmt.Errorf("ledger entry order id cannot be empty")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("ledger entry date cannot be zero")
	}
	return nil
}

// ReferenceRecord is one row of the risk/score reference sheet, providing an
// account identifier per order.
type ReferenceRecord struct {
	OrderID      string `json:"order_id"`
	AccountField string `json:"account_field"`
}

// Key returns the dedupe key for the record: the (order, account) pair.
func (r *ReferenceRecord) Key() string {
	return r.OrderID + "\x00" + r.AccountField
}

// Transaction is the reconciled record: all ledger columns plus the account
// number resolved from the reference sheet and the derived status.
type Transaction struct {
	Date            time.Time         `json:"date"`
	OperationStatus string            `json:"operation_status"`
	CustomerEmail   string            `json:"customer_email"`
	OrderID         string            `json:"order_id"`
	CardLast4       string            `json:"card_last4"`
	Amount          decimal.Decimal   `json:"amount"`
	AccountNumber   int64             `json:"account_number"`
	Homologated     HomologatedStatus `json:"homologated_status"`
}

// String returns a short representation for logging.
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{Order: %s, Email: %s, Account: %d, Amount: %s, Status: %s}",
		t.OrderID, t.CustomerEmail, t.AccountNumber, t.Amount.String(), t.Homologated)
}

// MarshalJSON renders the amount as a fixed decimal string and the date as a
// plain calendar date.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Date   string `json:"date"`
		Amount string `json:"amount"`
		*Alias
	}{
		Date:   t.Date.Format("2006-01-02"),
		Amount: t.Amount.StringFixed(2),
		Alias:  (*Alias)(t),
	})
}

// TruncateToDay discards the time-of-day component, keeping year, month and
// day in UTC.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseAmount parses a decimal currency value from a string, tolerating
// currency symbols and thousand separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format %q: %w", s, err)
	}
	return d, nil
}

// dateFormats are the layouts observed in the monthly exports, tried in
// order. The ISO forms are what the gateway emits today; the slash layouts
// cover older exports. Note 01/02/2006 (US re-exports from Excel) is tried
// before 02/01/2006 (legacy day-first files), so an ambiguous value like
// 03/04/2026 resolves as month-first.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"01-02-06 15:04",
	"Jan 2, 2006",
}

// ParseDate attempts to parse a calendar date using the known layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	var lastErr error
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, lastErr)
}

// ParseAccountNumber normalizes a reference account field to a non-negative
// integer. Empty values and non-numeric placeholders (the export uses
// "undefined") both resolve to 0; ok reports whether the value was numeric so
// callers can flag placeholders separately from unmatched rows.
func ParseAccountNumber(s string) (account int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Excel exports sometimes render integers as "555.0".
	if i := strings.Index(s, "."); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
