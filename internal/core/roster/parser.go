package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	msgRequiredMissing = "required field missing"
	msgInvalidDate     = "invalid date format, use D/M/YYYY, D/M/YY (e.g. 15/3/1995 or 15/3/95) or YYYY for the year only (e.g. 1996)"

	// GeneralField is the field of errors that concern the whole file.
	GeneralField = "general"
)

// Supported roster extensions.
var Extensions = []string{".xlsx", ".xls", ".csv"}

// Record is one valid roster row.
type Record struct {
	LastName        string
	FirstNames      string
	BirthDate       time.Time
	BirthPlace      string
	Diploma         string
	DiplomaPlace    string
	AssignmentPlace string
	DecreeNumber    string
}

// RowError describes why a row (or the whole file, row 0) was rejected.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result holds the accepted records and the rejected rows of one file.
type Result struct {
	Records []Record
	Errors  []RowError
}

// Valid reports whether the whole file can be imported.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) fail(row int, field, msg string) {
	r.Errors = append(r.Errors, RowError{Row: row, Field: field, Message: msg})
}

// ValidationError rejects a whole file because of its row errors.
type ValidationError struct {
	Errors []RowError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "roster validation failed: 1 error"
	}
	return fmt.Sprintf("roster validation failed: %d errors", len(e.Errors))
}

// Parser turns roster files into records.
type Parser struct {
	matcher *Matcher
}

// NewParser returns a Parser using m, or the default aliases when m is nil.
func NewParser(m *Matcher) *Parser {
	if m == nil {
		m = NewMatcher(nil)
	}
	return &Parser{matcher: m}
}

// HasValidExtension reports whether name ends with one of allowed (case-insensitive).
func HasValidExtension(name string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// ParseFile reads a roster from r; the format is chosen from name's
// extension. Problems with the content are reported in Result.Errors, the
// returned error is reserved for read failures.
func (p *Parser) ParseFile(name string, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return p.parseCSV(data), nil
	case ".xlsx":
		return p.parseXLSX(data), nil
	case ".xls":
		res := &Result{}
		res.fail(0, GeneralField, "legacy .xls workbooks are not supported, save the file as .xlsx or .csv")
		return res, nil
	default:
		res := &Result{}
		res.fail(0, GeneralField, "the file must have a .xlsx, .xls or .csv extension")
		return res, nil
	}
}

// sheetRow is a data row together with its 1-based position in the source.
type sheetRow struct {
	line  int
	cells []string
}

func (p *Parser) parseXLSX(data []byte) *Result {
	res := &Result{}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		res.fail(0, GeneralField, fmt.Sprintf("unable to read the Excel file: %v", err))
		return res
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		res.fail(0, GeneralField, "the Excel file has no sheet")
		return res
	}

	// Raw values keep date cells as serial numbers instead of a locale format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		res.fail(0, GeneralField, fmt.Sprintf("unable to read the first sheet: %v", err))
		return res
	}
	if len(rows) == 0 {
		res.fail(0, GeneralField, "the file is empty")
		return res
	}

	body := make([]sheetRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		body = append(body, sheetRow{line: i + 1, cells: rows[i]})
	}
	p.extract(res, rows[0], body, "Excel")
	return res
}

func (p *Parser) parseCSV(data []byte) *Result {
	res := &Result{}

	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var (
		header []string
		body   []sheetRow
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.fail(0, GeneralField, fmt.Sprintf("unable to parse the CSV file: %v", err))
			return res
		}
		if header == nil {
			header = record
			continue
		}
		line, _ := reader.FieldPos(0)
		body = append(body, sheetRow{line: line, cells: record})
	}

	if header == nil || len(body) == 0 {
		res.fail(0, GeneralField, "the CSV file is empty")
		return res
	}

	p.extract(res, header, body, "CSV")
	return res
}

// detectDelimiter picks ';' when the header line contains one, ',' otherwise.
func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.ContainsRune(first, ';') {
		return ';'
	}
	return ','
}

// extract maps every body row onto a Record, collecting row errors. A row
// with any error contributes no record.
func (p *Parser) extract(res *Result, header []string, body []sheetRow, format string) {
	columns := p.matcher.Resolve(header)

	for _, row := range body {
		if isBlank(row.cells) {
			continue
		}

		values := make(map[Field]string, len(fieldOrder))
		var rowErrs []RowError

		for _, f := range fieldOrder {
			idx := columns[f]
			optional := optionalFields[f]

			if idx == -1 {
				if !optional {
					rowErrs = append(rowErrs, RowError{
						Row:     row.line,
						Field:   string(f),
						Message: fmt.Sprintf("column not found in the %s file", format),
					})
				}
				continue
			}

			value := ""
			if idx < len(row.cells) {
				value = strings.TrimSpace(row.cells[idx])
			}
			if value == "" {
				if !optional {
					rowErrs = append(rowErrs, RowError{Row: row.line, Field: string(f), Message: msgRequiredMissing})
				}
				continue
			}
			values[f] = value
		}

		var birth time.Time
		if raw, ok := values[FieldBirthDate]; ok {
			parsed, valid := ParseDate(raw)
			if !valid {
				rowErrs = append(rowErrs, RowError{Row: row.line, Field: string(FieldBirthDate), Message: msgInvalidDate})
			}
			birth = parsed
		}

		if len(rowErrs) > 0 {
			res.Errors = append(res.Errors, rowErrs...)
			continue
		}

		diplomaPlace := values[FieldDiplomaPlace]
		if diplomaPlace == "" {
			diplomaPlace = notProvided
		}

		res.Records = append(res.Records, Record{
			LastName:        values[FieldLastName],
			FirstNames:      values[FieldFirstNames],
			BirthDate:       birth,
			BirthPlace:      values[FieldBirthPlace],
			Diploma:         values[FieldDiploma],
			DiplomaPlace:    diplomaPlace,
			AssignmentPlace: values[FieldAssignmentPlace],
			DecreeNumber:    values[FieldDecreeNumber],
		})
	}

	if len(res.Records) == 0 && len(res.Errors) == 0 {
		res.fail(0, GeneralField, "the file contains no data rows")
	}
}

// notProvided mirrors domain.NotProvided; roster stays free of domain imports.
const notProvided = "Non renseigné"

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
