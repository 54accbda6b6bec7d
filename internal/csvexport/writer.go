package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hotelpms/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (12 columns).
var columns = []string{
	"Settlement ID",
	"Reference",
	"Settlement Amount",
	"Transaction Date",
	"Provider",
	"Status",
	"Payment ID",
	"Payment Amount",
	"Difference",
	"Match Type",
	"Score",
	"Imported At",
}

// Writer wraps csv.Writer for exporting reconciliation records as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecords converts a batch of classified records to CSV rows and writes them.
func (w *Writer) WriteRecords(records []domain.ReconciliationRecord) error {
	for i := range records {
		if err := w.csv.Write(recordToRow(&records[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// recordToRow converts a single record to a row. Match columns stay empty
// for unmatched records.
func recordToRow(rec *domain.ReconciliationRecord) []string {
	row := make([]string, len(columns))

	row[0] = rec.SettlementID.String()
	row[1] = rec.Reference
	row[2] = rec.Amount.String()
	row[3] = rec.TransactionDate
	row[4] = rec.ProviderName
	row[5] = string(rec.Status)
	row[11] = rec.CreatedAt.UTC().Format(time.RFC3339)

	if rec.PaymentID == nil {
		return row
	}
	row[6] = rec.PaymentID.String()
	if rec.PaymentAmount != nil {
		row[7] = rec.PaymentAmount.String()
		row[8] = (rec.Amount - *rec.PaymentAmount).String()
	}
	if rec.MatchType != nil {
		row[9] = string(*rec.MatchType)
	}
	if rec.Score != nil {
		row[10] = strconv.Itoa(*rec.Score)
	}
	return row
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized export filename for a reconciliation window.
// Format: {prefix}_{from}_{to}.csv with dates as YYYY-MM-DD.
func BuildFilename(prefix string, window domain.ReconciliationWindow) string {
	return fmt.Sprintf("%s_%s_%s.csv",
		SanitizeFilename(prefix),
		window.From.UTC().Format("2006-01-02"),
		window.To.UTC().Format("2006-01-02"))
}
