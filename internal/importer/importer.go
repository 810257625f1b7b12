// Package importer reads bar schedules from CSV and Excel files.
// It supports automatic delimiter detection, English and Thai header
// recognition, and values written with units such as "DB12", "2500mm" or
// "10 pcs".
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/BarCut/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Requirements []model.Requirement
	Errors       []string
	Warnings     []string
}

// OK reports whether at least one line was read and nothing failed.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Requirements) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Mark     int
	Diameter int
	Length   int
	Quantity int
	Note     int
}

// headerAliases maps canonical column names to their accepted aliases
// (lowercase, with any "(unit)" or "[unit]" suffix already removed).
var headerAliases = map[string][]string{
	"mark":     {"bar mark", "mark", "bar", "bar no", "bar no.", "id", "identifier", "bar_mark", "รหัส", "รหัสเหล็ก"},
	"diameter": {"diameter", "dia", "dia.", "db", "ø", "size", "ขนาด", "เส้นผ่าน", "เส้นผ่านศูนย์กลาง"},
	"length":   {"cut length", "length", "len", "l", "cut", "cut_length", "ความยาว", "ความยาวตัด"},
	"quantity": {"quantity", "qty", "count", "no", "no.", "nos", "pcs", "pieces", "จำนวน"},
	"note":     {"note", "notes", "remark", "remarks", "หมายเหตุ"},
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// whose split gives the most rows agreeing with the first row's width. Comma
// wins when nothing splits the first row into two or more fields.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		r := csv.NewReader(bytes.NewReader(data))
		r.Comma = delim
		r.LazyQuotes = true
		r.FieldsPerRecord = -1

		records, err := r.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		width := len(records[0])
		agree := 0
		for _, rec := range records {
			if len(rec) == width {
				agree++
			}
		}
		if score := agree*10 + width; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// normalizeHeader lowercases a header cell and drops unit annotations, so
// "Cut Length (m)" and "ความยาว (Length) [m]" reduce to their first word group.
func normalizeHeader(cell string) string {
	s := strings.ToLower(strings.TrimSpace(cell))
	for _, open := range []string{"(", "["} {
		if i := strings.Index(s, open); i > 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (mark, diameter, length, quantity, note) and false if not.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Mark: -1, Diameter: -1, Length: -1, Quantity: -1, Note: -1}
	slots := map[string]*int{
		"mark":     &mapping.Mark,
		"diameter": &mapping.Diameter,
		"length":   &mapping.Length,
		"quantity": &mapping.Quantity,
		"note":     &mapping.Note,
	}

	isHeader := false
	for i, cell := range row {
		normalized := normalizeHeader(cell)
		if normalized == "" {
			continue
		}
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					*slots[role] = i
					isHeader = true
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Mark: 0, Diameter: 1, Length: 2, Quantity: 3, Note: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Requirement from a row using the given column mapping.
// Returns the requirement and any error message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, count int) (model.Requirement, string) {
	mark := getCell(row, mapping.Mark)
	if mark == "" {
		mark = fmt.Sprintf("Mark %d", count+1)
	}

	diaStr := getCell(row, mapping.Diameter)
	if diaStr == "" {
		return model.Requirement{}, fmt.Sprintf("%s: Missing diameter value", rowLabel)
	}
	dia, err := ParseDiameter(diaStr)
	if err != nil {
		return model.Requirement{}, fmt.Sprintf("%s: Invalid diameter '%s'", rowLabel, diaStr)
	}

	lenStr := getCell(row, mapping.Length)
	if lenStr == "" {
		return model.Requirement{}, fmt.Sprintf("%s: Missing length value", rowLabel)
	}
	length, err := ParseLength(lenStr)
	if err != nil {
		return model.Requirement{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lenStr)
	}

	qtyStr := getCell(row, mapping.Quantity)
	if qtyStr == "" {
		return model.Requirement{}, fmt.Sprintf("%s: Missing quantity value", rowLabel)
	}
	qty, err := ParseQuantity(qtyStr)
	if err != nil {
		return model.Requirement{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr)
	}

	req := model.NewRequirement(mark, dia, length, qty)
	req.Note = getCell(row, mapping.Note)
	if err := model.ValidateRequirement(count, req); err != nil {
		return model.Requirement{}, fmt.Sprintf("%s: Diameter, length, and quantity must be positive", rowLabel)
	}
	return req, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ImportExcel(path)
	case ".csv", ".txt", ".tsv":
		return ImportCSV(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("unsupported schedule format %q", filepath.Ext(path))}}
	}
}

// ImportCSV imports a bar schedule from a CSV file, detecting the delimiter
// and mapping columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("open schedule: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "schedule is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("using %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read schedule CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "schedule is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read schedule CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "schedule is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports a bar schedule from the first sheet of an .xlsx file.
func ImportExcel(path string) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("open schedule workbook: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f)
}

// ImportExcelFromReader is ImportExcel for in-memory workbooks.
func ImportExcelFromReader(r io.Reader) ImportResult {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("open schedule workbook: %v", err)}}
	}
	defer f.Close()
	return importWorkbook(f)
}

func importWorkbook(f *excelize.File) ImportResult {
	result := ImportResult{}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "workbook has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("read first sheet: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "first sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "no bar rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "header row found, columns mapped by name")

		missing := []string{}
		if mapping.Diameter == -1 {
			missing = append(missing, "Diameter")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Quantity == -1 {
			missing = append(missing, "Quantity")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("header is missing columns: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// An unrecognized header: the diameter column does not parse
		if _, err := ParseDiameter(getCell(rows[0], 1)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "first row looks like a header, skipped")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		req, errMsg := parseRow(row, mapping, rowLabel, len(result.Requirements))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		result.Requirements = append(result.Requirements, req)
	}

	return result
}
