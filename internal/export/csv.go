package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/caminoadmin/comunidades-go/internal/store"
)

// utf8BOM makes spreadsheet applications detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column maps a row key to its CSV header.
type Column struct {
	Key    string
	Header string
}

// Filename builds the download name for an export: {name}_{ISO-date}.csv.
func Filename(exportFileName string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", exportFileName, now.Format("2006-01-02"))
}

// WriteCSV writes the rows as UTF-8 CSV with a BOM. Fields containing
// commas, quotes or newlines are quoted, with inner quotes doubled.
func WriteCSV(w io.Writer, columns []Column, rows []store.Row) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = formatValue(row[c.Key])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02")
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	default:
		return fmt.Sprint(t)
	}
}
