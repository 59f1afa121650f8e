package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gotitanic/internal"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// DataReader handles reading XLSX, CSV and JSON files
type DataReader struct {
	config   ReaderConfig
	fileType string // "xlsx", "csv" or "json"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader; the file type follows the extension
func NewDataReader(config ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	switch ext {
	case ".csv":
		fileType = "csv"
	case ".json":
		fileType = "json"
	}
	if config.Sheet == "" {
		config.Sheet = "Sheet1"
	}
	return &DataReader{
		config:   config,
		fileType: fileType,
		logger:   internal.DefaultLogger.WithComponent("reader"),
	}
}

// ReadData reads the source file into headers and string rows
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "json":
		return r.readJSONData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*ExcelData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.config.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.config.Sheet, err)
	}
	r.logger.Debug("%s read in %s (%d rows)", r.config.Sheet, time.Since(start), len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("Excel file must have a header row")
	}
	return r.processRows(rows), nil
}

func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	start := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("CSV file read in %s (%d rows)", time.Since(start), len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV file must have a header row")
	}
	return r.processRows(rows), nil
}

// readJSONData reads an array of objects keyed by column header. Values may
// be JSON strings or numbers, as in the published manifest dumps.
func (r *DataReader) readJSONData() (*ExcelData, error) {
	raw, err := os.ReadFile(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open JSON file: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("failed to parse JSON file: invalid JSON")
	}

	root := gjson.ParseBytes(raw)
	if !root.IsArray() {
		return nil, fmt.Errorf("failed to parse JSON file: expected an array of objects")
	}

	seen := make(map[string]bool)
	data := &ExcelData{Rows: make([]RawRowData, 0)}
	var rowErr error
	root.ForEach(func(_, obj gjson.Result) bool {
		if !obj.IsObject() {
			rowErr = fmt.Errorf("row %d is not an object", len(data.Rows)+1)
			return false
		}
		row := make(RawRowData)
		obj.ForEach(func(key, value gjson.Result) bool {
			if !seen[key.Str] {
				seen[key.Str] = true
				data.Headers = append(data.Headers, key.Str)
			}
			row[key.Str] = jsonCell(value)
			return true
		})
		data.Rows = append(data.Rows, row)
		return true
	})
	if rowErr != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %w", rowErr)
	}
	r.logger.Debug("JSON file read (%d rows)", len(data.Rows))
	return data, nil
}

func jsonCell(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case gjson.True:
		return "1"
	case gjson.False:
		return "0"
	default:
		return v.Raw
	}
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}
}
