package tabular

import (
	"strings"
	"testing"
	"time"

	"golang-ledger-summary-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func ledgerCSV(rows ...string) []byte {
	header := "Fecha,Estado de Operacion,Email Cliente,Pedido,Terminacion de la Tarjeta,Monto"
	return []byte(strings.Join(append([]string{header}, rows...), "\n"))
}

func TestDecodeCSVTable(t *testing.T) {
	data := []byte("a,b\n1,2\n3,4\n")
	table, err := Decode("test.csv", data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(table.Headers) != 2 || len(table.Rows) != 2 {
		t.Errorf("got %d headers, %d rows; want 2, 2", len(table.Headers), len(table.Rows))
	}
	if table.ColumnIndex("B") != 1 {
		t.Errorf("ColumnIndex(B) = %d, want 1 (case-insensitive)", table.ColumnIndex("B"))
	}
}

func TestDecodeEmptyDataset(t *testing.T) {
	_, err := Decode("empty.csv", []byte(""))
	if err == nil {
		t.Fatal("Decode(empty) = nil error, want schema error")
	}
	perr, ok := errors.AsPipelineError(err)
	if !ok || perr.Code != errors.CodeEmptyDataset {
		t.Errorf("got %v, want code %v", err, errors.CodeEmptyDataset)
	}
}

func TestDecodeSkipsEmptyRows(t *testing.T) {
	data := []byte("a,b\n1,2\n,\n3,4\n")
	table, err := Decode("test.csv", data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(table.Rows) != 2 {
		t.Errorf("got %d rows, want 2 (blank row skipped)", len(table.Rows))
	}
}

func TestRenameHeaders(t *testing.T) {
	table := NewTable("t", []string{"Estado de OperaciÃ³n", "Monto"}, nil)
	table.RenameHeaders(map[string]string{"Estado de OperaciÃ³n": "Estado de Operacion"})
	if table.ColumnIndex("Estado de Operacion") != 0 {
		t.Error("renamed header not found")
	}
}

func TestDecodeLedger(t *testing.T) {
	data := ledgerCSV(
		"2026-08-01,Completada,a@x.com,1001,4242,100.00",
		"2026-08-02 13:30:00,Rechazada por banco,b@x.com,1002,1111,\"$1,250.50\"",
	)
	table, err := Decode("ledger.csv", data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	entries, err := DecodeLedger(table, nil)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	first := entries[0]
	if first.OrderID != "1001" || first.CustomerEmail != "a@x.com" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if !first.Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Amount = %s, want 100.00", first.Amount)
	}

	// Time-of-day must be discarded.
	second := entries[1]
	want := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	if !second.Date.Equal(want) {
		t.Errorf("Date = %v, want %v (truncated)", second.Date, want)
	}
	if !second.Amount.Equal(decimal.RequireFromString("1250.50")) {
		t.Errorf("Amount = %s, want 1250.50", second.Amount)
	}
}

func TestDecodeLedgerMissingColumns(t *testing.T) {
	table, err := Decode("ledger.csv", []byte("Fecha,Monto\n2026-08-01,1.00\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	_, err = DecodeLedger(table, nil)
	if !errors.IsSchema(err) {
		t.Errorf("DecodeLedger() error = %v, want schema error", err)
	}
}

func TestDecodeLedgerBadDateFailsWholeDecode(t *testing.T) {
	data := ledgerCSV(
		"2026-08-01,Completada,a@x.com,1001,4242,100.00",
		"not-a-date,Completada,b@x.com,1002,1111,50.00",
	)
	table, _ := Decode("ledger.csv", data)

	_, err := DecodeLedger(table, nil)
	if !errors.IsData(err) {
		t.Fatalf("DecodeLedger() error = %v, want data error", err)
	}
	perr, _ := errors.AsPipelineError(err)
	if perr.Context["row"] != 3 {
		t.Errorf("Context[row] = %v, want 3", perr.Context["row"])
	}
}

func TestDecodeLedgerMangledHeaders(t *testing.T) {
	header := "Fecha,Estado de OperaciÃ³n,Email Cliente,Pedido,TerminaciÃ³n de la Tarjeta,Monto"
	data := []byte(header + "\n2026-08-01,Completada,a@x.com,1001,4242,100.00\n")
	table, _ := Decode("ledger.csv", data)

	entries, err := DecodeLedger(table, nil)
	if err != nil {
		t.Fatalf("DecodeLedger() with mangled headers error = %v", err)
	}
	if entries[0].OperationStatus != "Completada" {
		t.Errorf("OperationStatus = %q, want Completada", entries[0].OperationStatus)
	}
}

func TestDecodeReferenceDeduplicates(t *testing.T) {
	data := []byte("ID de compra,Campo Personalizado 34\n1001,555\n1001,555\n1002,777\n1001,888\n")
	table, _ := Decode("reference.csv", data)

	records, err := DecodeReference(table, nil)
	if err != nil {
		t.Fatalf("DecodeReference() error = %v", err)
	}
	// Identical (order, account) pairs collapse; a different account for the
	// same order survives dedupe (the join decides which wins).
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].OrderID != "1001" || records[0].AccountField != "555" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
}

func TestDecodeReferenceMissingColumns(t *testing.T) {
	table, _ := Decode("reference.csv", []byte("ID de compra\n1001\n"))
	_, err := DecodeReference(table, nil)
	if !errors.IsSchema(err) {
		t.Errorf("DecodeReference() error = %v, want schema error", err)
	}
}
