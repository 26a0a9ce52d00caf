package excel

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"earlyvote/domain/voting"
	"earlyvote/internal"
	"earlyvote/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads the early-voting workbook: one sheet per reporting day,
// nine positional columns per sheet.
type DataReader struct {
	config ExcelConfig
	logger *internal.Logger
}

// NewDataReader creates a reader for the configured workbook
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if config.MinColumns == 0 {
		config.MinColumns = voting.ColumnCount
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger.With("DataReader")}
}

// LoadDataset reads every sheet, validates it against the positional schema
// and builds the immutable dataset. Any failure is a LOAD_ERROR.
func (r *DataReader) LoadDataset() (*voting.Dataset, error) {
	startTime := time.Now()
	sheets, err := r.ReadSheets()
	if err != nil {
		return nil, err
	}

	daySheets := make([]*voting.RawDaySheet, 0, len(sheets))
	for _, sheet := range sheets {
		rows, err := r.toCountyRows(sheet)
		if err != nil {
			return nil, errors.LoadError("invalid workbook "+r.config.FilePath, err)
		}
		daySheets = append(daySheets, voting.NewRawDaySheet(sheet.Name, rows))
	}

	dataset, err := voting.NewDataset(r.config.FilePath, daySheets, r.config.Days)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Loaded %d sheets (%d configured days) in %.2fms", len(daySheets), len(dataset.Days),
		float64(time.Since(startTime).Nanoseconds())/1e6)
	return dataset, nil
}

// ReadSheets returns every worksheet's raw rows in workbook order
func (r *DataReader) ReadSheets() ([]RawSheet, error) {
	path := r.config.FilePath
	if _, err := os.Stat(path); err != nil {
		return nil, errors.LoadError("workbook not found: "+path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.LoadError("failed to open workbook "+path, err)
	}
	defer f.Close()

	var sheets []RawSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.LoadError(fmt.Sprintf("failed to read sheet %s", name), err)
		}
		sheet, err := r.checkSchema(name, rows)
		if err != nil {
			return nil, errors.LoadError("invalid workbook "+path, err)
		}
		r.logger.Debug("Sheet %s read (%d data rows, %d columns)", name, len(sheet.Rows), sheet.Columns)
		sheets = append(sheets, sheet)
	}
	if len(sheets) == 0 {
		return nil, errors.LoadError("workbook has no sheets: "+path, nil)
	}
	return sheets, nil
}

// checkSchema splits off the header and confirms the sheet is wide enough
// for the positional mapping.
func (r *DataReader) checkSchema(name string, rows [][]string) (RawSheet, error) {
	if len(rows) == 0 {
		return RawSheet{}, &SheetError{Sheet: name, Reason: "sheet is empty"}
	}
	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns < r.config.MinColumns {
		return RawSheet{}, &SheetError{
			Sheet:  name,
			Reason: fmt.Sprintf("expected %d columns, found %d", r.config.MinColumns, columns),
		}
	}
	return RawSheet{Name: name, Header: rows[0], Rows: rows[1:], Columns: columns}, nil
}

// toCountyRows maps data rows positionally. Blank rows are skipped; the
// trailing column is never read.
func (r *DataReader) toCountyRows(sheet RawSheet) ([]voting.CountyRow, error) {
	out := make([]voting.CountyRow, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if isBlank(row) {
			continue
		}
		rowNum := i + 2
		county := strings.TrimSpace(cell(row, voting.ColCounty))
		if county == "" {
			return nil, &SheetError{Sheet: sheet.Name, Row: rowNum, Column: voting.ColumnNames[voting.ColCounty], Reason: "missing county"}
		}

		var nums [voting.ColTrailing]float64
		for col := voting.ColRegisteredVoters; col < voting.ColTrailing; col++ {
			raw := cell(row, col)
			if optionalColumns[col] && strings.TrimSpace(raw) == "" {
				continue
			}
			v, err := parseNumber(raw)
			if err != nil {
				return nil, &SheetError{Sheet: sheet.Name, Row: rowNum, Column: voting.ColumnNames[col], Value: raw, Reason: "not a number"}
			}
			nums[col] = v
		}

		out = append(out, voting.CountyRow{
			County:                 county,
			RegisteredVoters:       nums[voting.ColRegisteredVoters],
			NumInPersonVoters:      nums[voting.ColNumInPersonVoters],
			CumlInPersonVoters:     nums[voting.ColCumlInPersonVoters],
			CumlPercentInPerson:    nums[voting.ColCumlPercentInPerson],
			CumlByMailVoters:       nums[voting.ColCumlByMailVoters],
			CumlAllVoters:          nums[voting.ColCumlAllVoters],
			CumlPercentEarlyVoting: nums[voting.ColCumlPercentEarlyVoting],
		})
	}
	return out, nil
}

// optionalColumns may be blank; the dashboard never reads them.
var optionalColumns = map[int]bool{
	voting.ColCumlPercentInPerson:    true,
	voting.ColCumlPercentEarlyVoting: true,
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber accepts plain numbers plus thousands separators and a
// trailing percent sign, as the source sheets are exported.
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(s, 64)
}
