package excel

import "fmt"

// RawSheet is a worksheet as returned by excelize: the header row, the data
// rows as raw cell strings, and the widest row seen.
type RawSheet struct {
	Name    string
	Header  []string
	Rows    [][]string
	Columns int
}

// SheetError locates a cell that failed schema checks.
type SheetError struct {
	Sheet  string
	Row    int // 1-based, as shown in a spreadsheet application
	Column string
	Value  string
	Reason string
}

func (e *SheetError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("sheet %s: %s", e.Sheet, e.Reason)
	}
	return fmt.Sprintf("sheet %s row %d column %s: %s (%q)", e.Sheet, e.Row, e.Column, e.Reason, e.Value)
}
