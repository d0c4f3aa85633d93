// Package sheet reads ledgers kept in spreadsheets.
//
// A ledger sheet has a header row followed by one row per payment with the
// columns date, item, creditor, debtors and amount, in that order. Header
// names are free. A groups sheet is a membership matrix: the header row
// names the groups, the first column names the people, and any non-empty
// cell marks membership.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mmynk/splitledger/internal/models"
)

// GroupsSheet is the name of the XLSX sheet holding the group table.
const GroupsSheet = "Groups"

// ledgerColumns is the number of columns a ledger row is read from.
const ledgerColumns = 5

// Format is a spreadsheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

// Ledger is the content of a ledger file.
type Ledger struct {
	// Title is the name of the ledger sheet, or the file name for CSV.
	Title   string
	Records []models.PaymentRecord
	Groups  models.GroupTable
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ReadFile opens path and reads it as a ledger.
func ReadFile(path string) (*Ledger, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	ledger, err := ReadLedger(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if format == FormatCSV {
		ledger.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ledger, nil
}

// ReadLedger reads a ledger from r. For XLSX the ledger is the first sheet
// not named GroupsSheet and groups are read from GroupsSheet if present. A
// CSV file holds the ledger only; see ReadGroups.
func ReadLedger(r io.Reader, format Format) (*Ledger, error) {
	switch format {
	case FormatCSV:
		rows, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		records, err := parseRecords(rows)
		if err != nil {
			return nil, err
		}
		return &Ledger{Records: records}, nil
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ReadGroups reads a CSV membership matrix.
func ReadGroups(r io.Reader) (models.GroupTable, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return parseGroups(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) (*Ledger, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	ledger := &Ledger{}
	for _, name := range f.GetSheetList() {
		if name == GroupsSheet {
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		if ledger.Records, err = parseRecords(rows); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		ledger.Title = name
		break
	}
	if ledger.Title == "" {
		return nil, fmt.Errorf("%w: workbook has no ledger sheet", ErrEmptySheet)
	}

	if idx, err := f.GetSheetIndex(GroupsSheet); err == nil && idx >= 0 {
		rows, err := f.GetRows(GroupsSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", GroupsSheet, err)
		}
		if ledger.Groups, err = parseGroups(rows); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", GroupsSheet, err)
		}
	}
	return ledger, nil
}

// parseRecords skips the header and blank rows. Short rows are padded so a
// trailing empty cell reaches the pipeline as an empty field.
func parseRecords(rows [][]string) ([]models.PaymentRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	records := make([]models.PaymentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		if len(row) > ledgerColumns && !blank(row[ledgerColumns:]) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, ledgerColumns, len(row))
		}
		cells := make([]string, ledgerColumns)
		copy(cells, row)
		records = append(records, models.PaymentRecord{
			Date:     strings.TrimSpace(cells[0]),
			Item:     strings.TrimSpace(cells[1]),
			Creditor: strings.TrimSpace(cells[2]),
			Debtors:  strings.TrimSpace(cells[3]),
			Amount:   strings.TrimSpace(cells[4]),
		})
	}
	return records, nil
}

func parseGroups(rows [][]string) (models.GroupTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	header := rows[0]
	groups := make(models.GroupTable, len(header))
	for _, name := range header[min(1, len(header)):] {
		if name = strings.TrimSpace(name); name != "" {
			groups[name] = []string{}
		}
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		person := strings.TrimSpace(row[0])
		if person == "" {
			continue
		}
		for col := 1; col < len(row) && col < len(header); col++ {
			name := strings.TrimSpace(header[col])
			if name == "" || strings.TrimSpace(row[col]) == "" {
				continue
			}
			groups[name] = append(groups[name], person)
		}
	}
	return groups, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
