package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"goab/domain/experiment"
	"goab/internal"
	"goab/ports"
)

// DataReader loads observation tables from Excel and CSV files. The
// file type is sniffed from the extension; anything that is not .csv
// is treated as a workbook.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string // empty means the first sheet
	logger   *internal.Logger
}

var _ ports.TableReader = (*DataReader)(nil)

// NewDataReader creates a reader for the given file
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		logger:   internal.DefaultLogger.Named("reader"),
	}
}

// WithSheet selects a specific workbook sheet instead of the first one
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// Read loads the file into a raw table: trimmed headers from the
// first row, every following row padded to the header width
func (r *DataReader) Read() (*experiment.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readWorkbookRows()
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("input file must have a header row and at least one data row")
	}
	return r.buildTable(rows), nil
}

func (r *DataReader) readWorkbookRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %s", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("read %d rows from sheet %q of %s", len(rows), sheet, r.filePath)
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("read %d rows from %s", len(rows), r.filePath)
	return rows, nil
}

// buildTable trims every cell and pads short rows to the header
// width. Workbook readers drop trailing empty cells, so padding keeps
// the column mapping stable.
func (r *DataReader) buildTable(rows [][]string) *experiment.Table {
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
		}
		r.logger.Trace("row %d: %v", len(data)+1, cells)
		data = append(data, cells)
	}
	return &experiment.Table{Headers: headers, Rows: data}
}
