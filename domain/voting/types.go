// Package voting holds the county early-voting data model: per-day sheets as
// loaded from the workbook and the per-county series derived from them.
package voting

// ColumnCount is the number of positional columns every day sheet carries.
const ColumnCount = 9

// Column positions in a day sheet. The header text is ignored; fields are
// identified by position only.
const (
	ColCounty = iota
	ColRegisteredVoters
	ColNumInPersonVoters
	ColCumlInPersonVoters
	ColCumlPercentInPerson
	ColCumlByMailVoters
	ColCumlAllVoters
	ColCumlPercentEarlyVoting
	ColTrailing
)

// ColumnNames are the canonical field names, indexed by column position.
var ColumnNames = [ColumnCount]string{
	"county",
	"registered_voters",
	"num_in_person_voters",
	"cuml_in_person_voters",
	"cuml_percent_in_person",
	"cuml_by_mail_voters",
	"cuml_all_voters",
	"cuml_percent_early_voting",
	"trash",
}

// CountyRow is one county's line in a day sheet.
type CountyRow struct {
	County                 string  `json:"county"`
	RegisteredVoters       float64 `json:"registered_voters"`
	NumInPersonVoters      float64 `json:"num_in_person_voters"`
	CumlInPersonVoters     float64 `json:"cuml_in_person_voters"`
	CumlPercentInPerson    float64 `json:"cuml_percent_in_person"`
	CumlByMailVoters       float64 `json:"cuml_by_mail_voters"`
	CumlAllVoters          float64 `json:"cuml_all_voters"`
	CumlPercentEarlyVoting float64 `json:"cuml_percent_early_voting"`
}

// DayRecord is a county's figures for one reporting day.
type DayRecord struct {
	Date               string  `json:"date"`
	CumlByMailVoters   float64 `json:"cuml_by_mail_voters"`
	CumlInPersonVoters float64 `json:"cuml_in_person_voters"`
	NewInPersonVoters  float64 `json:"new_inperson_voters"`
	RegisteredVoters   float64 `json:"registered_voters"`
	TotalVoters        float64 `json:"total_voters"`
}

// CountySeries is a county's records across the configured reporting days,
// in configuration order.
type CountySeries struct {
	County  string      `json:"county"`
	Records []DayRecord `json:"records"`
}

// Last returns the most recent record. ok is false for an empty series.
func (s CountySeries) Last() (DayRecord, bool) {
	if len(s.Records) == 0 {
		return DayRecord{}, false
	}
	return s.Records[len(s.Records)-1], true
}

// Dates returns the record dates in order.
func (s CountySeries) Dates() []string {
	dates := make([]string, len(s.Records))
	for i, r := range s.Records {
		dates[i] = r.Date
	}
	return dates
}
