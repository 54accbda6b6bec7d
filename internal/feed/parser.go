// Package feed parses payment-terminal settlement feeds (CSV or XLSX) into
// settlement records. Columns are located by header name, so column order and
// extra columns do not matter.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"hotelpms/internal/domain"
	"hotelpms/internal/money"
)

// ErrInvalidFeedRow is returned when a data row cannot be converted.
var ErrInvalidFeedRow = errors.New("invalid settlement feed row")

type column int

const (
	colReference column = iota
	colAmount
	colDate
	colProvider
)

// headerAliases maps normalized header names to columns.
var headerAliases = map[string]column{
	"reference":          colReference,
	"ref":                colReference,
	"terminal_reference": colReference,
	"transaction_ref":    colReference,
	"rrn":                colReference,
	"amount":             colAmount,
	"transaction_amount": colAmount,
	"date":               colDate,
	"transaction_date":   colDate,
	"settlement_date":    colDate,
	"provider":           colProvider,
	"provider_name":      colProvider,
	"acquirer":           colProvider,
}

// DetectFormat infers the feed format from a file name.
func DetectFormat(filename string) (domain.FeedFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return domain.FeedFormatCSV, nil
	case ".xlsx":
		return domain.FeedFormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFeedFormat, filename)
}

// Parse reads a settlement feed. Returned records carry RowNumber (1-based,
// counting the header) and the raw field values; IDs are left for the caller.
func Parse(format domain.FeedFormat, r io.Reader) ([]domain.SettlementRecord, error) {
	var (
		rows [][]string
		conv cellConverter
		err  error
	)
	switch format {
	case domain.FeedFormatCSV:
		rows, err = readCSV(r)
	case domain.FeedFormatXLSX:
		rows, conv, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFeedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFeed, err)
	}
	return parseRows(rows, conv)
}

// cellConverter rewrites a raw cell value for a known column before parsing.
// A nil converter leaves values untouched.
type cellConverter func(c column, v string) string

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}

// readXLSX reads the first sheet with raw cell values, so dates arrive as
// Excel serial numbers instead of locale-formatted display text.
func readXLSX(r io.Reader) ([][]string, cellConverter, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}
	return rows, xlsxCellConverter(date1904), nil
}

// xlsxCellConverter turns numeric date cells into RFC3339 and rounds numeric
// amount cells to two decimals. Text cells pass through.
func xlsxCellConverter(date1904 bool) cellConverter {
	return func(c column, v string) string {
		v = strings.TrimSpace(v)
		switch c {
		case colDate:
			serial, err := decimal.NewFromString(v)
			if err != nil {
				return v
			}
			t, err := excelize.ExcelDateToTime(serial.InexactFloat64(), date1904)
			if err != nil {
				return v
			}
			return t.Round(time.Second).UTC().Format(time.RFC3339)
		case colAmount:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return v
			}
			return d.Round(2).String()
		}
		return v
	}
}

func parseRows(rows [][]string, conv cellConverter) ([]domain.SettlementRecord, error) {
	headerIdx := -1
	for i, row := range rows {
		if !blank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, domain.ErrEmptyFeed
	}

	cols, err := mapHeader(rows[headerIdx])
	if err != nil {
		return nil, err
	}

	records := make([]domain.SettlementRecord, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		lineNo := i + 1
		cell := func(c column) string {
			v := cellVal(row, cols[c])
			if conv != nil && v != "" {
				v = conv(c, v)
			}
			return v
		}

		rawAmount := cell(colAmount)
		amount, err := money.ParseMajor(trimCurrency(rawAmount))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: amount %q", ErrInvalidFeedRow, lineNo, rawAmount)
		}

		records = append(records, domain.SettlementRecord{
			RowNumber:       lineNo,
			Reference:       strings.TrimSpace(cell(colReference)),
			Amount:          amount,
			TransactionDate: strings.TrimSpace(cell(colDate)),
			ProviderName:    strings.TrimSpace(cell(colProvider)),
		})
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFeed
	}
	return records, nil
}

// mapHeader returns the index of every known column, -1 when absent.
// Reference and amount are required.
func mapHeader(header []string) (map[column]int, error) {
	cols := map[column]int{colReference: -1, colAmount: -1, colDate: -1, colProvider: -1}
	for i, h := range header {
		c, ok := headerAliases[normalizeHeader(h)]
		if ok && cols[c] < 0 {
			cols[c] = i
		}
	}
	if cols[colReference] < 0 || cols[colAmount] < 0 {
		return nil, fmt.Errorf("%w: header must include reference and amount columns", domain.ErrInvalidFeed)
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// trimCurrency drops a leading currency code or symbol.
func trimCurrency(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"NGN", "USD", "₦", "$"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	return s
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellVal(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
