// Package history reads daily sales history from CSV or XLSX exports.
//
// The first row is a header. Columns are matched by name, case-insensitively:
// "date" and "quantity_sold" are required, "is_festival" is optional.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported history file format")
	ErrMissingColumn     = errors.New("missing required column")
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02", time.RFC3339}

// LoadFile picks the reader from the file extension.
func LoadFile(path string) ([]domain.SalesRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

func ReadCSV(r io.Reader) ([]domain.SalesRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return parseRows(rows)
}

// ReadXLSX reads the first sheet of the workbook.
func ReadXLSX(path string) ([]domain.SalesRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}

type columns struct {
	date, quantity, festival int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{date: -1, quantity: -1, festival: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "sale_date":
			cols.date = i
		case "quantity_sold", "quantity", "qty":
			cols.quantity = i
		case "is_festival", "festival":
			cols.festival = i
		}
	}
	if cols.date < 0 {
		return cols, fmt.Errorf("date: %w", ErrMissingColumn)
	}
	if cols.quantity < 0 {
		return cols, fmt.Errorf("quantity_sold: %w", ErrMissingColumn)
	}
	return cols, nil
}

func parseRows(rows [][]string) ([]domain.SalesRecord, error) {
	if len(rows) == 0 {
		return []domain.SalesRecord{}, nil
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.SalesRecord, 0, len(rows)-1)
	seen := make(map[string]int, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}

		date, err := parseDate(cell(row, cols.date))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		qty, err := strconv.Atoi(strings.TrimSpace(cell(row, cols.quantity)))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid quantity %q", line, cell(row, cols.quantity))
		}
		if qty < 0 {
			return nil, fmt.Errorf("row %d: quantity must not be negative", line)
		}

		festival, err := parseBool(cell(row, cols.festival))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		day := date.Format("2006-01-02")
		if prev, ok := seen[day]; ok {
			return nil, fmt.Errorf("row %d: duplicate date %s (first seen on row %d)", line, day, prev)
		}
		seen[day] = line

		records = append(records, domain.SalesRecord{
			SaleDate:     date,
			QuantitySold: qty,
			IsFestival:   festival,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SaleDate.Before(records[j].SaleDate)
	})
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("invalid festival flag %q", raw)
	}
}
