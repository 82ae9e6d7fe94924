package config

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tgrunnagle/playing-card-gen/pkg/errors"
)

// Reserved decklist columns.
const (
	ColumnSkip     = "skip"
	ColumnCardType = "card_type"
	ColumnName     = "name"
)

// Row is one decklist entry, keyed by the CSV header.
type Row map[string]string

// Skipped reports whether the row's skip column is set. Any value other than
// empty, "0", "false" or "no" skips the card.
func (r Row) Skipped() bool {
	switch strings.ToLower(strings.TrimSpace(r[ColumnSkip])) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

// CardType returns the row's card type, or def when the column is empty.
func (r Row) CardType(def string) string {
	if t := strings.TrimSpace(r[ColumnCardType]); t != "" {
		return t
	}
	return def
}

// Decklist is a named list of card rows.
type Decklist struct {
	Name string
	Rows []Row
}

// Cards returns the rows that are not skipped, in order.
func (d *Decklist) Cards() []Row {
	out := make([]Row, 0, len(d.Rows))
	for _, r := range d.Rows {
		if !r.Skipped() {
			out = append(out, r)
		}
	}
	return out
}

// LoadDecklist reads a CSV decklist. The deck is named after the file.
func LoadDecklist(path string) (*Decklist, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "decklist %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open decklist %s", path)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadDecklist(name, f)
}

// ReadDecklist parses CSV with a header row. Short rows leave their missing
// columns empty; cells are kept verbatim.
func ReadDecklist(name string, r io.Reader) (*Decklist, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse decklist %s", name)
	}
	if len(records) < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "decklist %s has no header", name)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	d := &Decklist{Name: name, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
