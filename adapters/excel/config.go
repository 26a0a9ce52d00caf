package excel

import "earlyvote/domain/voting"

// ExcelConfig holds configuration for the workbook data source
type ExcelConfig struct {
	FilePath string             `json:"file_path"`
	Days     voting.DaySequence `json:"days"`
	// MinColumns is the positional schema width each sheet must reach.
	MinColumns int `json:"min_columns"`
}

// DefaultExcelConfig returns the defaults for the early-voting workbook
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		FilePath:   "texas_data.xlsx",
		MinColumns: voting.ColumnCount,
	}
}
