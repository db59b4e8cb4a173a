package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"

	"github.com/olekukonko/tablewriter"
)

// Renderer writes a summary result to an output stream.
type Renderer interface {
	Render(w io.Writer, result *summarize.SummaryResult) error
}

// NewRenderer selects a renderer by format name.
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "", "console":
		return &ConsoleRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "html":
		return NewHTMLRenderer()
	default:
		return nil, errors.ConfigurationError(errors.CodeInvalidSetting, "output_format", nil).
			WithSuggestion("use one of console, json, html").
			WithContext("value", format)
	}
}

// JSONRenderer emits the result as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, result *summarize.SummaryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return errors.InternalError("json rendering", err)
	}
	return nil
}

// ConsoleRenderer writes the three views as text tables.
type ConsoleRenderer struct{}

func (r *ConsoleRenderer) Render(w io.Writer, result *summarize.SummaryResult) error {
	fmt.Fprintf(w, "Summary for %s\n", result.Month.Format("January 2006"))
	fmt.Fprintf(w, "Entries: %d total, %d matched, %d unmatched, %d filtered\n\n",
		result.Stats.TotalEntries, result.Stats.MatchedOrders,
		result.Stats.UnmatchedOrders, result.Stats.FilteredCount)

	if !result.HasTables {
		fmt.Fprintln(w, "No statuses selected; no summary tables to render.")
		fmt.Fprintf(w, "Available dates: %v\n", result.FilterOptions.Dates)
		fmt.Fprintf(w, "Available statuses: %v\n", result.FilterOptions.Statuses)
		return nil
	}

	fmt.Fprintln(w, "By customer email")
	r.renderEmailTable(w, result.ByEmail)

	fmt.Fprintln(w, "By account number")
	r.renderAccountTable(w, result.ByAccount)

	fmt.Fprintln(w, "Distinct emails by account number")
	r.renderDistinctTable(w, result.ByDistinctEmail)
	return nil
}

func (r *ConsoleRenderer) renderEmailTable(w io.Writer, summary *summarize.EmailSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Email", "Approved", "Approved Sum", "Rejected", "Rejected Sum", "Total", "Total Sum"})
	for _, row := range summary.Rows {
		table.Append(metricCells(row.Email, row.Metrics))
	}
	table.SetFooter(metricCells("Total", summary.Totals))
	table.Render()
	fmt.Fprintln(w)
}

func (r *ConsoleRenderer) renderAccountTable(w io.Writer, summary *summarize.AccountSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Account", "Approved", "Approved Sum", "Rejected", "Rejected Sum", "Total", "Total Sum"})
	for _, row := range summary.Rows {
		table.Append(metricCells(strconv.FormatInt(row.AccountNumber, 10), row.Metrics))
	}
	table.SetFooter(metricCells("Total", summary.Totals))
	table.Render()
	fmt.Fprintln(w)
}

func (r *ConsoleRenderer) renderDistinctTable(w io.Writer, summary *summarize.DistinctEmailSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Account", "Approved Emails", "Rejected Emails", "Total"})
	for _, row := range summary.Rows {
		table.Append([]string{
			strconv.FormatInt(row.AccountNumber, 10),
			strconv.Itoa(row.ApprovedEmails),
			strconv.Itoa(row.RejectedEmails),
			strconv.Itoa(row.TotalEmails),
		})
	}
	table.SetFooter([]string{
		"Total",
		strconv.Itoa(summary.Totals.ApprovedEmails),
		strconv.Itoa(summary.Totals.RejectedEmails),
		strconv.Itoa(summary.Totals.TotalEmails),
	})
	table.Render()
	fmt.Fprintln(w)
}

func metricCells(key string, m summarize.Metrics) []string {
	return []string{
		key,
		strconv.Itoa(m.ApprovedCount),
		FormatCurrency(m.ApprovedSum),
		strconv.Itoa(m.RejectedCount),
		FormatCurrency(m.RejectedSum),
		strconv.Itoa(m.TotalCount),
		FormatCurrency(m.TotalSum),
	}
}
