package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gofacets/adapters/coercer"
	"gofacets/domain/core"
	"gofacets/domain/dataset"
	"gofacets/domain/step"
	"gofacets/internal"
	"gofacets/ports"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

var (
	_ ports.TableReader   = (*DataReader)(nil)
	_ step.OutputArtifact = (*DataReader)(nil)
)

// DataReader reads Excel and CSV artifacts into tables
type DataReader struct {
	fs       afero.Fs
	config   ReaderConfig
	fileType string // "xlsx" or "csv"
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader for config.FilePath on fs, or on the OS
// filesystem when fs is nil. The file type comes from the extension.
func NewDataReader(fs afero.Fs, config ReaderConfig, logger *internal.Logger) *DataReader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := strings.TrimPrefix(ext, ".")
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{
		fs:       fs,
		config:   config,
		fileType: fileType,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   logger,
	}
}

// Read implements step.OutputArtifact
func (r *DataReader) Read(ctx context.Context) (*dataset.Table, error) {
	return r.ReadTable(ctx)
}

// ReadTable reads the file and coerces every column
func (r *DataReader) ReadTable(ctx context.Context) (*dataset.Table, error) {
	raw, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return r.toTable(raw), nil
}

// ReadData reads the file as text rows
func (r *DataReader) ReadData(ctx context.Context) (*RawData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.config.FilePath)

	if _, err := r.fs.Stat(r.config.FilePath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, r.config.FilePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, r.fileType)
	}
}

func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	file, err := r.fs.Open(r.config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", core.ErrEmptyArtifact, r.config.FilePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := r.fs.Open(r.config.FilePath)
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
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// processRows splits off the header and pads short rows to its width.
// Cells beyond the header are dropped.
func (r *DataReader) processRows(rows [][]string) (*RawData, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyArtifact, r.config.FilePath)
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(headers))
		copy(padded, row)
		data = append(data, padded)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(data))

	return &RawData{Headers: headers, Rows: data}, nil
}

func (r *DataReader) toTable(raw *RawData) *dataset.Table {
	table := &dataset.Table{Columns: make([]dataset.Column, 0, len(raw.Headers))}
	cells := make([]string, len(raw.Rows))

	for colIdx, header := range raw.Headers {
		for rowIdx, row := range raw.Rows {
			cells[rowIdx] = row[colIdx]
		}
		columnType, values := r.coercer.CoerceColumn(cells)
		r.logger.Trace("[DataReader] column %s coerced to %s", header, columnType)
		table.Columns = append(table.Columns, dataset.Column{Name: header, Values: values})
	}
	return table
}
