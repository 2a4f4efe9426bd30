package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gosubgroup/domain/dataset"
	apperrors "gosubgroup/internal/errors"
	"gosubgroup/internal/logging"
)

// DefaultSheet is read from workbooks unless another sheet is configured
const DefaultSheet = "Sheet1"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *zap.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, sheet: DefaultSheet, logger: zap.NewNop()}
}

// WithLogger sets the logger used for read timings
func (r *DataReader) WithLogger(l *zap.Logger) *DataReader {
	r.logger = logging.OrNop(l)
	return r
}

// WithSheet selects the workbook sheet to read
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

func (r *DataReader) Describe() string {
	return fmt.Sprintf("%s file %s", r.fileType, r.filePath)
}

// Load reads the file into a table. Columns whose non-empty cells all parse as
// numbers become numeric columns. Read failures carry the DATA_SOURCE_ERROR code.
func (r *DataReader) Load(ctx context.Context) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := dataset.FromRecords(data.Headers, data.Rows)
	if err != nil {
		return nil, apperrors.DataSourceError(r.Describe(), err)
	}
	r.logger.Info("table built",
		zap.String("file", r.filePath),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("columns", len(table.Keys())),
		zap.Int("rows", table.Rows()))
	return table, nil
}

// ReadData reads data from Excel or CSV files into raw rows
func (r *DataReader) ReadData() (*RawData, error) {
	data, err := r.readData()
	if err != nil {
		return nil, apperrors.DataSourceError(r.Describe(), err)
	}
	return data, nil
}

func (r *DataReader) readData() (*RawData, error) {
	r.logger.Debug("reading file", zap.String("type", r.fileType), zap.String("file", r.filePath))

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	r.logger.Debug("excel file opened", zap.Duration("elapsed", time.Since(startTime)))

	readStart := time.Now()
	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	r.logger.Debug("sheet read", zap.String("sheet", r.sheet), zap.Duration("elapsed", time.Since(readStart)), zap.Int("rows", len(rows)))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("csv file read", zap.Duration("elapsed", time.Since(readStart)), zap.Int("rows", len(rows)))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return r.processRows(rows)
}

// processRows trims cells and pads short rows; excelize drops trailing empty cells
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
	}

	dataRows := make([][]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := make([]string, len(headers))
		for j, cell := range rows[i] {
			if j < len(headers) {
				row[j] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, row)
	}

	r.logger.Debug("rows processed", zap.Int("columns", len(headers)), zap.Int("rows", len(dataRows)))

	return &RawData{Headers: headers, Rows: dataRows}, nil
}
