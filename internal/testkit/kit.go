// Package testkit builds early-voting fixtures: in-memory datasets and
// generated workbooks.
package testkit

import (
	"path/filepath"
	"testing"

	"earlyvote/domain/voting"

	"github.com/xuri/excelize/v2"
)

// DayRow is the subset of a sheet row the dashboard reads.
type DayRow struct {
	County       string
	Registered   float64
	NewInPerson  float64
	CumlInPerson float64
	CumlByMail   float64
	Total        float64
}

// Row converts to a full county row with the percentage columns derived.
func (r DayRow) Row() voting.CountyRow {
	row := voting.CountyRow{
		County:             r.County,
		RegisteredVoters:   r.Registered,
		NumInPersonVoters:  r.NewInPerson,
		CumlInPersonVoters: r.CumlInPerson,
		CumlByMailVoters:   r.CumlByMail,
		CumlAllVoters:      r.Total,
	}
	if r.Registered > 0 {
		row.CumlPercentInPerson = 100 * r.CumlInPerson / r.Registered
		row.CumlPercentEarlyVoting = 100 * r.Total / r.Registered
	}
	return row
}

// Sheet builds an indexed day sheet.
func Sheet(label string, rows ...DayRow) *voting.RawDaySheet {
	out := make([]voting.CountyRow, len(rows))
	for i, r := range rows {
		out[i] = r.Row()
	}
	return voting.NewRawDaySheet(label, out)
}

// Dataset builds a dataset whose configured days are the sheet labels in order.
func Dataset(t testing.TB, sheets ...*voting.RawDaySheet) *voting.Dataset {
	t.Helper()
	days := make(voting.DaySequence, len(sheets))
	for i, s := range sheets {
		days[i] = s.Label
	}
	ds, err := voting.NewDataset("testkit", sheets, days)
	if err != nil {
		t.Fatalf("testkit dataset: %v", err)
	}
	return ds
}

// ThreeDayDataset is a small fixture covering the dashboard's default counties.
// TRAVIS on the last day has 20 by mail, 30 in person and 100 registered.
func ThreeDayDataset(t testing.TB) *voting.Dataset {
	t.Helper()
	return Dataset(t, ThreeDaySheets()...)
}

// ThreeDaySheets returns the sheets behind ThreeDayDataset.
func ThreeDaySheets() []*voting.RawDaySheet {
	return []*voting.RawDaySheet{
		Sheet("Oct-4",
			DayRow{County: "HAYS", Registered: 200, NewInPerson: 10, CumlInPerson: 10, CumlByMail: 10, Total: 20},
			DayRow{County: "BEXAR", Registered: 1000, NewInPerson: 50, CumlInPerson: 50, CumlByMail: 50, Total: 100},
			DayRow{County: "TRAVIS", Registered: 100, NewInPerson: 10, CumlInPerson: 10, CumlByMail: 10, Total: 20},
		),
		Sheet("Oct-5",
			DayRow{County: "HAYS", Registered: 200, NewInPerson: 30, CumlInPerson: 40, CumlByMail: 20, Total: 60},
			DayRow{County: "BEXAR", Registered: 1000, NewInPerson: 100, CumlInPerson: 150, CumlByMail: 100, Total: 250},
			DayRow{County: "TRAVIS", Registered: 100, NewInPerson: 5, CumlInPerson: 15, CumlByMail: 15, Total: 30},
		),
		Sheet("Oct-6",
			DayRow{County: "HAYS", Registered: 200, NewInPerson: 20, CumlInPerson: 60, CumlByMail: 40, Total: 100},
			DayRow{County: "BEXAR", Registered: 1000, NewInPerson: 150, CumlInPerson: 300, CumlByMail: 200, Total: 500},
			DayRow{County: "TRAVIS", Registered: 100, NewInPerson: 15, CumlInPerson: 30, CumlByMail: 20, Total: 50},
		),
	}
}

// Header is the header row written to generated workbooks.
var Header = []interface{}{
	"County", "Registered Voters", "In-Person Voters", "Cumulative In-Person Voters",
	"Cumulative % In-Person", "Cumulative By Mail Voters", "Cumulative Voters",
	"Cumulative % Early Voting", "",
}

// WriteWorkbook saves sheets as an xlsx file in a temp dir and returns its path.
func WriteWorkbook(t testing.TB, sheets ...*voting.RawDaySheet) string {
	t.Helper()
	rows := make(map[string][][]interface{}, len(sheets))
	labels := make([]string, len(sheets))
	for i, s := range sheets {
		labels[i] = s.Label
		for _, r := range s.Rows {
			rows[s.Label] = append(rows[s.Label], []interface{}{
				r.County, r.RegisteredVoters, r.NumInPersonVoters, r.CumlInPersonVoters,
				r.CumlPercentInPerson, r.CumlByMailVoters, r.CumlAllVoters, r.CumlPercentEarlyVoting, "x",
			})
		}
	}
	return WriteRawWorkbook(t, labels, rows)
}

// WriteRawWorkbook writes arbitrary cell rows under Header, one sheet per label.
func WriteRawWorkbook(t testing.TB, labels []string, rows map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, label := range labels {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", label); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(label); err != nil {
			t.Fatalf("new sheet %s: %v", label, err)
		}
		header := Header
		if err := f.SetSheetRow(label, "A1", &header); err != nil {
			t.Fatalf("write header: %v", err)
		}
		for r, row := range rows[label] {
			cellRef, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := row
			if err := f.SetSheetRow(label, cellRef, &row); err != nil {
				t.Fatalf("write row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "texas_data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
