package voting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"earlyvote/internal/errors"
)

// RawDaySheet is one reporting day as loaded from the workbook, with a
// county index built at construction.
type RawDaySheet struct {
	Label string
	Rows  []CountyRow
	index map[string][]int
}

// NewRawDaySheet indexes rows by county. Every position is kept so lookups
// can detect duplicate counties.
func NewRawDaySheet(label string, rows []CountyRow) *RawDaySheet {
	index := make(map[string][]int, len(rows))
	for i, row := range rows {
		index[row.County] = append(index[row.County], i)
	}
	return &RawDaySheet{Label: label, Rows: rows, index: index}
}

// Lookup returns the single row for county. Zero matches is NOT_FOUND and
// more than one is AMBIGUOUS_ROW.
func (s *RawDaySheet) Lookup(county string) (CountyRow, error) {
	positions := s.index[county]
	switch len(positions) {
	case 0:
		return CountyRow{}, errors.NotFound(fmt.Sprintf("county %q on %s", county, s.Label))
	case 1:
		return s.Rows[positions[0]], nil
	default:
		return CountyRow{}, errors.AmbiguousRow(county, s.Label, len(positions))
	}
}

// Counties returns the distinct county names in row order.
func (s *RawDaySheet) Counties() []string {
	seen := make(map[string]bool, len(s.Rows))
	counties := make([]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if seen[row.County] {
			continue
		}
		seen[row.County] = true
		counties = append(counties, row.County)
	}
	return counties
}

// Dataset is the immutable data context shared by every request handler.
type Dataset struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Source   string
	Days     DaySequence

	sheets     map[string]*RawDaySheet
	sheetOrder []string
}

// NewDataset builds the context from loaded sheets and checks that every
// configured day has a sheet.
func NewDataset(source string, sheets []*RawDaySheet, days DaySequence) (*Dataset, error) {
	if len(days) == 0 {
		return nil, errors.ConfigInvalid("at least one reporting day must be configured")
	}
	ds := &Dataset{
		ID:       uuid.New(),
		LoadedAt: time.Now(),
		Source:   source,
		Days:     append(DaySequence(nil), days...),
		sheets:   make(map[string]*RawDaySheet, len(sheets)),
	}
	for _, sheet := range sheets {
		if _, dup := ds.sheets[sheet.Label]; dup {
			return nil, errors.LoadError(fmt.Sprintf("sheet %q appears twice", sheet.Label), nil)
		}
		ds.sheets[sheet.Label] = sheet
		ds.sheetOrder = append(ds.sheetOrder, sheet.Label)
	}
	for _, day := range ds.Days {
		if _, ok := ds.sheets[day]; !ok {
			return nil, errors.LoadError(fmt.Sprintf("configured day %q has no sheet in %s", day, source), nil)
		}
	}
	return ds, nil
}

// Sheet returns the sheet for a day label.
func (d *Dataset) Sheet(label string) (*RawDaySheet, bool) {
	sheet, ok := d.sheets[label]
	return sheet, ok
}

// SheetLabels returns every loaded sheet label in workbook order.
func (d *Dataset) SheetLabels() []string {
	return append([]string(nil), d.sheetOrder...)
}

// FirstDay returns the sheet of the first configured day.
func (d *Dataset) FirstDay() *RawDaySheet {
	return d.sheets[d.Days[0]]
}
