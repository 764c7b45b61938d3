package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"tablekit/domain/table"
	"tablekit/internal/errors"
)

// DataReader handles reading Excel workbooks and CSV files into Table
// snapshots
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given file path. The extension
// selects the parser; .xls is handled by excelize alongside .xlsx.
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// SheetNames lists the worksheets of the workbook. CSV files report a single
// pseudo-sheet named after the file.
func (r *DataReader) SheetNames() ([]string, error) {
	if r.fileType == "csv" {
		return []string{strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))}, nil
	}

	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.UnsupportedFile(fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// ReadSheet parses the named worksheet into an immutable Table. An empty
// sheet name selects the first worksheet. CSV files ignore the sheet name.
func (r *DataReader) ReadSheet(sheet string) (*table.Table, error) {
	raw, err := r.readRaw(sheet)
	if err != nil {
		return nil, err
	}
	return BuildTable(raw)
}

func (r *DataReader) readRaw(sheet string) (*RawSheet, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	default:
		return r.readWorkbook(sheet)
	}
}

func (r *DataReader) readWorkbook(sheet string) (*RawSheet, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.UnsupportedFile(fmt.Sprintf("failed to open workbook: %v", err))
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.UnsupportedFile("workbook has no worksheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.UnsupportedFile(fmt.Sprintf("failed to read sheet %s: %v", sheet, err))
	}
	log.Printf("[DataReader] Sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return buildRawSheet(sheet, rows)
}

func (r *DataReader) readCSV() (*RawSheet, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.UnsupportedFile(fmt.Sprintf("failed to open CSV file: %v", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.UnsupportedFile(fmt.Sprintf("failed to read CSV file: %v", err))
	}

	name := strings.TrimSuffix(filepath.Base(r.filePath), filepath.Ext(r.filePath))
	return buildRawSheet(name, rows)
}

func buildRawSheet(name string, rows [][]string) (*RawSheet, error) {
	if len(rows) < 2 {
		return nil, errors.UnsupportedFile("file must have at least a header row and one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		data = append(data, cells)
	}

	log.Printf("[DataReader] Sheet %q processed (%d columns, %d rows)", name, len(headers), len(data))
	return &RawSheet{Name: name, Headers: headers, Rows: data}, nil
}
