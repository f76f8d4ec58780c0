package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/matchup/internal/logging"
)

const utf8BOM = "\uFEFF"

// ReadCSV parses a comma separated table. Header names are trimmed and
// repeated headers get ".1", ".2" suffixes so every column stays
// addressable (the "HR" / "HR.1" convention of the stock exports).
func ReadCSV(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(name, nil, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := dedupeHeader(header)

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return NewTable(name, columns, rows), nil
}

func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		if n, dup := seen[h]; dup {
			seen[h] = n + 1
			out[i] = h + "." + strconv.Itoa(n+1)
			continue
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

// LoadDir reads every registered dataset found under dir. Files that are
// absent or unreadable are reported as warnings and skipped; the analysis
// then runs with those categories empty.
func LoadDir(ctx context.Context, dir string, reg Registry, log logging.Logger) (map[string]*Table, []string, error) {
	if log == nil {
		log = logging.Nop()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("data dir %s is not a directory", dir)
	}

	tables := make(map[string]*Table, len(reg))
	var warnings []string

	for _, key := range reg.Keys() {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		ds := reg[key]
		if ds.File == "" {
			continue
		}
		path := filepath.Join(dir, ds.File)

		t, err := loadFile(key, path)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", key, err)
			warnings = append(warnings, msg)
			log.Warn(ctx, "dataset skipped", logging.String("dataset", key), logging.String("file", path), logging.Error(err))
			continue
		}
		tables[key] = t
		log.Debug(ctx, "dataset loaded", logging.String("dataset", key), logging.Int("rows", t.Len()))
	}

	return tables, warnings, nil
}

func loadFile(name, path string) (t *Table, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s not found", filepath.Base(path))
		}
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()
	return ReadCSV(name, f)
}
