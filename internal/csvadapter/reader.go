package csvadapter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Sheet is a parsed spreadsheet: the header row and one RawRow per data row
type Sheet struct {
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"rows"`
}

// Sample returns up to n leading rows for format detection
func (s *Sheet) Sample(n int) []RawRow {
	if len(s.Rows) < n {
		return s.Rows
	}
	return s.Rows[:n]
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a .csv or .xlsx file from disk
func ReadFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(filepath.Base(path), f)
}

// Read parses r according to the extension of name
func Read(name string, r io.Reader) (*Sheet, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(name))
	}
}

// ReadCSV parses a CSV export. A UTF-8 BOM is stripped, non-UTF-8 content is
// decoded as Windows-1252, the delimiter is sniffed from the header line and
// short rows are padded with empty cells.
func ReadCSV(r io.Reader) (*Sheet, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv as windows-1252: %w", err)
		}
		raw = decoded
	}

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = sniffDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	return sheetFromRecords(records), nil
}

// ReadXLSX parses the first sheet of a workbook
func ReadXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		records = append(records, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return sheetFromRecords(records), nil
}

func sheetFromRecords(records [][]string) *Sheet {
	sheet := &Sheet{Headers: []string{}, Rows: []RawRow{}}
	if len(records) == 0 {
		return sheet
	}

	for _, h := range records[0] {
		sheet.Headers = append(sheet.Headers, norm.NFC.String(strings.TrimSpace(h)))
	}

	for _, record := range records[1:] {
		if blankRecord(record) {
			continue
		}
		row := make(RawRow, len(sheet.Headers))
		for i, h := range sheet.Headers {
			if h == "" {
				continue
			}
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}

func blankRecord(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab in the
// header line, preferring comma on ties
func sniffDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}

	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, c := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}
