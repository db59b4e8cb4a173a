package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang-ledger-summary-service/internal/summarize"

	"github.com/shopspring/decimal"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0.00"},
		{"100", "100.00"},
		{"1250.5", "1,250.50"},
		{"1234567.891", "1,234,567.89"},
		{"-9876.5", "-9,876.50"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatCurrency(decimal.RequireFromString(tt.input))
			if got != tt.want {
				t.Errorf("FormatCurrency(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func sampleResult() *summarize.SummaryResult {
	return &summarize.SummaryResult{
		Month: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		FilterOptions: summarize.FilterOptions{
			Dates:    []string{"2026-08-01", "2026-08-02"},
			Statuses: []string{"Completada", "Rechazada por banco"},
		},
		HasTables: true,
		ByEmail: &summarize.EmailSummary{
			Rows: []summarize.EmailRow{{
				Email: "a@x.com",
				Metrics: summarize.Metrics{
					ApprovedCount: 1, ApprovedSum: decimal.RequireFromString("100.00"),
					RejectedCount: 1, RejectedSum: decimal.RequireFromString("50.00"),
					TotalCount: 2, TotalSum: decimal.RequireFromString("150.00"),
				},
				Details: []summarize.DetailRow{{
					Date: "2026-08-01", OrderID: "1", AccountNumber: 555,
					CardLast4: "4242", Amount: decimal.RequireFromString("100.00"), Status: "Approved",
				}},
			}},
			Totals: summarize.Metrics{
				ApprovedCount: 1, ApprovedSum: decimal.RequireFromString("100.00"),
				RejectedCount: 1, RejectedSum: decimal.RequireFromString("50.00"),
				TotalCount: 2, TotalSum: decimal.RequireFromString("150.00"),
			},
		},
		ByAccount: &summarize.AccountSummary{
			Rows: []summarize.AccountRow{{
				AccountNumber: 555,
				Metrics: summarize.Metrics{
					ApprovedCount: 1, ApprovedSum: decimal.RequireFromString("100.00"),
					TotalCount: 1, TotalSum: decimal.RequireFromString("100.00"),
					RejectedSum: decimal.Zero,
				},
				Emails: []string{"a@x.com"},
			}},
			Totals: summarize.Metrics{
				ApprovedCount: 1, ApprovedSum: decimal.RequireFromString("100.00"),
				TotalCount: 1, TotalSum: decimal.RequireFromString("100.00"),
				RejectedSum: decimal.Zero,
			},
		},
		ByDistinctEmail: &summarize.DistinctEmailSummary{
			Rows: []summarize.DistinctEmailRow{{
				AccountNumber: 555, ApprovedEmails: 1, TotalEmails: 1, Emails: []string{"a@x.com"},
			}},
			Totals: summarize.DistinctEmailRow{ApprovedEmails: 1, TotalEmails: 1},
		},
	}
}

func TestConsoleRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&ConsoleRenderer{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"a@x.com", "555", "100.00", "150.00", "By customer email", "Distinct emails"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q", want)
		}
	}
}

func TestConsoleRendererNoTables(t *testing.T) {
	result := sampleResult()
	result.HasTables = false
	result.ByEmail, result.ByAccount, result.ByDistinctEmail = nil, nil, nil

	var buf bytes.Buffer
	if err := (&ConsoleRenderer{}).Render(&buf, result); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No statuses selected") {
		t.Error("console output missing the no-tables notice")
	}
	if !strings.Contains(buf.String(), "Completada") {
		t.Error("console output missing full-dataset filter options")
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONRenderer{}).Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["by_email"]; !ok {
		t.Error("JSON output missing by_email view")
	}
}

func TestHTMLRenderer(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, sampleResult()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<details>", "a@x.com", "100.00", "Completada",
		"approved_count_desc", "By customer email",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("html output missing %q", want)
		}
	}
}

func TestHTMLRendererNoTables(t *testing.T) {
	renderer, err := NewHTMLRenderer()
	if err != nil {
		t.Fatalf("NewHTMLRenderer() error = %v", err)
	}

	result := sampleResult()
	result.HasTables = false
	result.ByEmail, result.ByAccount, result.ByDistinctEmail = nil, nil, nil

	var buf bytes.Buffer
	if err := renderer.Render(&buf, result); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No statuses selected") {
		t.Error("html output missing the no-tables notice")
	}
	// Filter controls still list the full dataset options.
	if !strings.Contains(buf.String(), "Rechazada por banco") {
		t.Error("html output missing filter options")
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"console", false},
		{"json", false},
		{"html", false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, err := NewRenderer(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRenderer(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}
