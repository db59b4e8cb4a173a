package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"

	"github.com/xuri/excelize/v2"
)

type fakeLoader struct {
	files map[string][]byte
}

func (l *fakeLoader) Load(_ context.Context, name string) ([]byte, error) {
	data, ok := l.files[name]
	if !ok {
		return nil, errors.NotFoundError(name, nil)
	}
	return data, nil
}

func xlsxBytes(t *testing.T, headers []string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
}

func testServer(t *testing.T) *Server {
	t.Helper()
	ledger := xlsxBytes(t,
		[]string{"Fecha", "Estado de Operacion", "Email Cliente", "Pedido", "Terminacion de la Tarjeta", "Monto"},
		[][]interface{}{
			{"2026-08-01", "Completada", "a@x.com", "1", "4242", "100.00"},
			{"2026-08-02", "Rechazada por banco", "a@x.com", "2", "4242", "50.00"},
		})
	reference := xlsxBytes(t,
		[]string{"ID de compra", "Campo Personalizado 34"},
		[][]interface{}{{"1", "555"}})

	l := &fakeLoader{files: map[string][]byte{
		"T1_082026.xlsx":         ledger,
		"Claroscore_082026.xlsx": reference,
	}}
	service := summarize.NewService(l, summarize.DefaultConfig())

	srv, err := NewServer(service, fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, testServer(t), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestSummaryHTML(t *testing.T) {
	rec := get(t, testServer(t), "/?statuses=Completada&statuses=Rechazada+por+banco")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "a@x.com") || !strings.Contains(body, "555") {
		t.Errorf("html missing summary rows: %s", body)
	}
}

func TestSummaryNoStatusesRendersNoTables(t *testing.T) {
	rec := get(t, testServer(t), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No statuses selected") {
		t.Error("expected the no-tables notice")
	}
	// Filter controls list the full dataset.
	if !strings.Contains(body, "Rechazada por banco") {
		t.Error("filter options missing dataset statuses")
	}
}

func TestSummaryJSON(t *testing.T) {
	rec := get(t, testServer(t), "/?format=json&statuses=Completada")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result summarize.SummaryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !result.HasTables || len(result.ByEmail.Rows) != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSummaryPostForm(t *testing.T) {
	form := url.Values{"statuses": {"Completada"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	testServer(t).Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSummaryExplicitMonthNotFound(t *testing.T) {
	rec := get(t, testServer(t), "/?month=2026-07&statuses=Completada")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Errorf("body = %s, want error category", rec.Body.String())
	}
}

func TestSummaryBadParams(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"bad start date", "/?start_date=08-01-2026&statuses=Completada"},
		{"bad month", "/?month=august&statuses=Completada"},
		{"bad sort", "/?sort_by=amount_desc&statuses=Completada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, testServer(t), tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSummaryDateFilterApplied(t *testing.T) {
	rec := get(t, testServer(t), "/?format=json&statuses=Completada&statuses=Rechazada+por+banco&start_date=2026-08-02&end_date=2026-08-02")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result summarize.SummaryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Stats.FilteredCount != 1 {
		t.Errorf("FilteredCount = %d, want 1", result.Stats.FilteredCount)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	testServer(t).Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestUnknownPath(t *testing.T) {
	rec := get(t, testServer(t), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
