package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KatrinTsesko/birthday-bot/internal/domain"
)

// Interchange file columns.
const (
	ColumnName = "name"
	ColumnDate = "date"
)

// Header aliases accepted on import, lowercased.
var (
	nameHeaders = []string{ColumnName, "person", "имя"}
	dateHeaders = []string{ColumnDate, "birthday", "дата"}
)

var ErrMalformedSource = errors.New("malformed import file")

// encodeCSV writes the header and one row per roster entry.
func encodeCSV(r *domain.Roster) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{ColumnName, ColumnDate}); err != nil {
		return nil, err
	}
	for _, e := range r.Entries() {
		if err := w.Write([]string{e.Name, e.Date()}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// importRow is one accepted row from the interchange file.
type importRow struct {
	name, date string
}

// decodeCSV returns the rows that have a non-empty name and a valid date.
// Everything else is skipped without error.
func decodeCSV(src io.Reader) ([]importRow, error) {
	rd := csv.NewReader(src)
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedSource, err)
	}
	nameIdx := columnIndex(header, nameHeaders)
	dateIdx := columnIndex(header, dateHeaders)
	if nameIdx < 0 || dateIdx < 0 {
		return nil, fmt.Errorf("%w: header must contain %q and %q columns", ErrMalformedSource, ColumnName, ColumnDate)
	}

	var rows []importRow
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if nameIdx >= len(rec) || dateIdx >= len(rec) {
			continue
		}
		name := strings.TrimSpace(rec[nameIdx])
		date := strings.TrimSpace(rec[dateIdx])
		if name == "" || date == "" {
			continue
		}
		day, month, err := domain.ParseDayMonth(date)
		if err != nil {
			continue
		}
		rows = append(rows, importRow{name: name, date: domain.FormatDayMonth(day, month)})
	}
	return rows, nil
}

func columnIndex(header []string, aliases []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, a := range aliases {
			if h == a {
				return i
			}
		}
	}
	return -1
}
