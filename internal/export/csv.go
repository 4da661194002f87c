package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// Header is the column order WriteCSV produces.
var Header = []string{"id", "name", "amount", "date", "category"}

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyFile     = errors.New("file has no header row")
)

// required columns for ReadCSV; id and category are optional.
var required = []string{"name", "amount", "date"}

// WriteCSV writes expenses with a header row, comma separated.
func WriteCSV(w io.Writer, expenses []tracker.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range expenses {
		record := []string{
			e.ID,
			e.Name,
			e.Amount.String(),
			e.Date.Format(time.DateOnly),
			e.Category,
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// ReadCSV parses a file written by WriteCSV, or a spreadsheet edit of one,
// into drafts. Columns are matched by header name in any order. Both comma
// and semicolon separators are accepted, and the input may be in any of the
// encodings utf8Reader recognises.
func ReadCSV(r io.Reader) ([]tracker.Draft, error) {
	utf8r, err := utf8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffSeparator(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	cols, err := columns(rows[0])
	if err != nil {
		return nil, err
	}

	drafts := make([]tracker.Draft, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		d, err := cols.draft(row)
		if err != nil {
			// +2: one for the header, one for 1-based line numbers.
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}

		drafts = append(drafts, d)
	}

	return drafts, nil
}

// sniffSeparator picks ';' when the header line has more semicolons than
// commas. Spreadsheets in locales with a decimal comma write those.
func sniffSeparator(br *bufio.Reader) rune {
	head, _ := br.Peek(sniffSize)
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}

	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';'
	}

	return ','
}

type colIndex map[string]int

func columns(header []string) (colIndex, error) {
	cols := make(colIndex, len(header))

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			cols[name] = i
		}
	}

	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	return cols, nil
}

func (c colIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

func (c colIndex) draft(row []string) (tracker.Draft, error) {
	amount, err := tracker.ParseAmount(c.get(row, "amount"))
	if err != nil {
		return tracker.Draft{}, err
	}

	date, err := tracker.ParseDate(c.get(row, "date"))
	if err != nil {
		return tracker.Draft{}, err
	}

	return tracker.Draft{
		Name:     c.get(row, "name"),
		Amount:   amount,
		Date:     date,
		Category: c.get(row, "category"),
	}, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
