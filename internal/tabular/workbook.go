package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"golang-ledger-summary-service/pkg/errors"
	"golang-ledger-summary-service/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Decode turns raw dataset bytes into a Table. The format is chosen from the
// file extension: .csv is read with encoding/csv, anything else is treated as
// an xlsx workbook and the first sheet is used.
func Decode(name string, data []byte) (*Table, error) {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return decodeCSV(name, data)
	}
	return decodeWorkbook(name, data)
}

func decodeWorkbook(name string, data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidValue,
			"failed to open workbook "+name)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New(errors.CategoryNotFound, errors.CodeSheetMissing,
			"workbook "+name+" contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidValue,
			"failed to read sheet "+sheets[0]+" of "+name)
	}

	return tableFromRows(name, rows)
}

func decodeCSV(name string, data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidValue,
				"failed to read csv "+name)
		}
		rows = append(rows, record)
	}

	return tableFromRows(name, rows)
}

func tableFromRows(name string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.CategorySchema, errors.CodeEmptyDataset,
			"dataset "+name+" is empty").
			WithSuggestion("the export must contain a header row")
	}

	headers := rows[0]
	var dataRows [][]string
	skipped := 0
	for _, row := range rows[1:] {
		if IsEmptyRow(row) {
			skipped++
			continue
		}
		dataRows = append(dataRows, row)
	}

	if skipped > 0 {
		logger.GetGlobalLogger().WithComponent("tabular").WithFields(logger.Fields{
			"dataset": name,
			"skipped": skipped,
		}).Debug("skipped empty rows")
	}

	return NewTable(name, headers, dataRows), nil
}
