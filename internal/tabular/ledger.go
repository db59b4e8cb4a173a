package tabular

import (
	"golang-ledger-summary-service/internal/models"
	"golang-ledger-summary-service/pkg/errors"
)

// LedgerConfig names the columns of the transaction ledger export.
type LedgerConfig struct {
	DateColumn   string
	StatusColumn string
	EmailColumn  string
	OrderColumn  string
	CardColumn   string
	AmountColumn string

	// ColumnAliases maps header variants found in the wild to the canonical
	// names above. The payment gateway export double-encodes accented
	// characters, so both the mangled and the properly accented forms appear.
	ColumnAliases map[string]string
}

// DefaultLedgerConfig matches the monthly T1 export layout.
func DefaultLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		DateColumn:   "Fecha",
		StatusColumn: "Estado de Operacion",
		EmailColumn:  "Email Cliente",
		OrderColumn:  "Pedido",
		CardColumn:   "Terminacion de la Tarjeta",
		AmountColumn: "Monto",
		ColumnAliases: map[string]string{
			"Estado de OperaciÃ³n":       "Estado de Operacion",
			"Estado de Operación":        "Estado de Operacion",
			"TerminaciÃ³n de la Tarjeta": "Terminacion de la Tarjeta",
			"Terminación de la Tarjeta":  "Terminacion de la Tarjeta",
		},
	}
}

// requiredColumns returns the canonical column set of the ledger.
func (c *LedgerConfig) requiredColumns() []string {
	return []string{
		c.DateColumn, c.StatusColumn, c.EmailColumn,
		c.OrderColumn, c.CardColumn, c.AmountColumn,
	}
}

// DecodeLedger converts a decoded table into ledger entries. The time-of-day
// component of each date is discarded. A malformed date or amount fails the
// whole decode; rows are never silently dropped.
func DecodeLedger(table *Table, config *LedgerConfig) ([]models.LedgerEntry, error) {
	if config == nil {
		config = DefaultLedgerConfig()
	}
	table.RenameHeaders(config.ColumnAliases)
	if err := table.RequireColumns(config.requiredColumns()...); err != nil {
		return nil, err
	}

	entries := make([]models.LedgerEntry, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowNum := i + 2 // 1-based, after the header row

		date, err := models.ParseDate(table.Field(row, config.DateColumn))
		if err != nil {
			return nil, errors.DataError(errors.CodeInvalidDate, table.Name,
				rowNum, config.DateColumn, table.Field(row, config.DateColumn), err)
		}

		amount, err := models.ParseAmount(table.Field(row, config.AmountColumn))
		if err != nil {
			return nil, errors.DataError(errors.CodeInvalidAmount, table.Name,
				rowNum, config.AmountColumn, table.Field(row, config.AmountColumn), err)
		}

		entry := models.LedgerEntry{
			Date:            models.TruncateToDay(date),
			OperationStatus: table.Field(row, config.StatusColumn),
			CustomerEmail:   table.Field(row, config.EmailColumn),
			OrderID:         table.Field(row, config.OrderColumn),
			CardLast4:       table.Field(row, config.CardColumn),
			Amount:          amount,
		}
		if err := entry.Validate(); err != nil {
			return nil, errors.DataError(errors.CodeInvalidValue, table.Name,
				rowNum, config.OrderColumn, entry.OrderID, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}
