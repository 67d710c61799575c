package transcript

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader matches the column order of the upstream timeline exports.
var csvHeader = []string{"date", "from", "subject", "body", "attachments"}

// WriteCSV writes the flattened timeline rows, one per emitted message.
func (o *Output) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range o.Rows {
		record := []string{row.Date, row.From, row.Subject, row.Body, row.Attachments}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
