package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one candidate flashcard read from a file.
type Row struct {
	Number int // 1-based row number in the source file
	Front  string
	Back   string
}

// ReadRows reads the front/back columns of every non-blank row of the file
// named by cfg.FilePath. The file type is chosen by extension.
func ReadRows(cfg Config) ([]Row, error) {
	frontIdx, err := columnIndex(cfg.FrontColumn)
	if err != nil {
		return nil, err
	}
	backIdx, err := columnIndex(cfg.BackColumn)
	if err != nil {
		return nil, err
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		records, err = readCSV(cfg.FilePath)
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(cfg.FilePath, cfg.SheetName)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(cfg.FilePath))
	}
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if i == 0 && cfg.SkipHeader {
			continue
		}
		row := Row{
			Number: i + 1,
			Front:  cell(record, frontIdx),
			Back:   cell(record, backIdx),
		}
		if strings.TrimSpace(row.Front) == "" && strings.TrimSpace(row.Back) == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readWorkbook(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if !slices.Contains(f.GetSheetList(), sheet) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		records = append(records, record)
	}
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

// columnIndex converts a spreadsheet column name such as "A" or "AB" to a
// zero-based index.
func columnIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(column))
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", column, err)
	}
	return n - 1, nil
}
