package tabular

import (
	"golang-ledger-summary-service/internal/models"
)

// ReferenceConfig names the columns of the risk/score reference export.
type ReferenceConfig struct {
	OrderColumn   string
	AccountColumn string
	ColumnAliases map[string]string
}

// DefaultReferenceConfig matches the monthly Claroscore export layout.
func DefaultReferenceConfig() *ReferenceConfig {
	return &ReferenceConfig{
		OrderColumn:   "ID de compra",
		AccountColumn: "Campo Personalizado 34",
	}
}

// DecodeReference converts a decoded table into reference records, reduced
// to unique (order, account) pairs. Order of first appearance is preserved.
func DecodeReference(table *Table, config *ReferenceConfig) ([]models.ReferenceRecord, error) {
	if config == nil {
		config = DefaultReferenceConfig()
	}
	table.RenameHeaders(config.ColumnAliases)
	if err := table.RequireColumns(config.OrderColumn, config.AccountColumn); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(table.Rows))
	records := make([]models.ReferenceRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := models.ReferenceRecord{
			OrderID:      table.Field(row, config.OrderColumn),
			AccountField: table.Field(row, config.AccountColumn),
		}
		if record.OrderID == "" {
			continue
		}
		if _, dup := seen[record.Key()]; dup {
			continue
		}
		seen[record.Key()] = struct{}{}
		records = append(records, record)
	}

	return records, nil
}
