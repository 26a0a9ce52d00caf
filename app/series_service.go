package app

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"earlyvote/domain/voting"
	"earlyvote/internal"
	"earlyvote/internal/errors"
)

// SeriesService extracts per-county time series from the loaded dataset.
// It holds no state besides the read-only dataset.
type SeriesService struct {
	dataset *voting.Dataset
	logger  *internal.Logger
}

// SeriesSummary aggregates a county series for the summary endpoint and CLI
type SeriesSummary struct {
	County             string  `json:"county"`
	Days               int     `json:"days"`
	FirstDay           string  `json:"first_day"`
	LastDay            string  `json:"last_day"`
	RegisteredVoters   float64 `json:"registered_voters"`
	TotalVoters        float64 `json:"total_voters"`
	CumlByMailVoters   float64 `json:"cuml_by_mail_voters"`
	CumlInPersonVoters float64 `json:"cuml_in_person_voters"`
	TurnoutPercent     float64 `json:"turnout_percent"`
	NewInPersonTotal   float64 `json:"new_inperson_total"`
	NewInPersonMean    float64 `json:"new_inperson_mean"`
	NewInPersonMax     float64 `json:"new_inperson_max"`
	NewInPersonMaxDay  string  `json:"new_inperson_max_day"`
	CumulativeMaxDrift float64 `json:"cumulative_max_drift"`
}

// NewSeriesService creates a series service over a loaded dataset
func NewSeriesService(dataset *voting.Dataset, logger *internal.Logger) *SeriesService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SeriesService{dataset: dataset, logger: logger.With("SeriesService")}
}

// Dataset returns the underlying read-only dataset
func (s *SeriesService) Dataset() *voting.Dataset {
	return s.dataset
}

// Extract builds the county's series across the configured reporting days.
// The name goes through ResolveCounty first.
func (s *SeriesService) Extract(county string) (voting.CountySeries, error) {
	return s.ExtractDays(s.ResolveCounty(county), s.dataset.Days)
}

// ResolveCounty returns the county as the first configured day spells it. An
// exact match wins; otherwise a single case-insensitive match is used. Names
// with no match, or with several, come back unchanged.
func (s *SeriesService) ResolveCounty(name string) string {
	var folded []string
	for _, county := range s.dataset.FirstDay().Counties() {
		if county == name {
			return name
		}
		if strings.EqualFold(county, name) {
			folded = append(folded, county)
		}
	}
	if len(folded) == 1 {
		return folded[0]
	}
	return name
}

// ExtractDays builds the county's series for the given days, in that order.
// A county missing or duplicated on any day fails the whole extraction.
func (s *SeriesService) ExtractDays(county string, days voting.DaySequence) (voting.CountySeries, error) {
	records := make([]voting.DayRecord, 0, len(days))
	for _, day := range days {
		sheet, ok := s.dataset.Sheet(day)
		if !ok {
			return voting.CountySeries{}, errors.NotFound(fmt.Sprintf("sheet %q", day))
		}
		row, err := sheet.Lookup(county)
		if err != nil {
			return voting.CountySeries{}, err
		}
		records = append(records, voting.DayRecord{
			Date:               day,
			CumlByMailVoters:   row.CumlByMailVoters,
			CumlInPersonVoters: row.CumlInPersonVoters,
			NewInPersonVoters:  row.NumInPersonVoters,
			RegisteredVoters:   row.RegisteredVoters,
			TotalVoters:        row.CumlAllVoters,
		})
	}
	return voting.CountySeries{County: county, Records: records}, nil
}

// Summary extracts the county and aggregates its daily in-person counts
func (s *SeriesService) Summary(county string) (*SeriesSummary, error) {
	series, err := s.Extract(county)
	if err != nil {
		return nil, err
	}
	last, ok := series.Last()
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("records for county %q", county))
	}
	county = series.County

	daily := make(stats.Float64Data, len(series.Records))
	for i, r := range series.Records {
		daily[i] = r.NewInPersonVoters
	}
	total, err := stats.Sum(daily)
	if err != nil {
		return nil, errors.Wrap(err, "summing daily in-person votes")
	}
	mean, err := stats.Mean(daily)
	if err != nil {
		return nil, errors.Wrap(err, "averaging daily in-person votes")
	}
	peak, err := stats.Max(daily)
	if err != nil {
		return nil, errors.Wrap(err, "finding peak in-person day")
	}
	peakDay := ""
	for _, r := range series.Records {
		if r.NewInPersonVoters == peak {
			peakDay = r.Date
			break
		}
	}

	drift, err := CumulativeDrift(series)
	if err != nil {
		return nil, err
	}
	maxDrift := 0.0
	for _, d := range drift {
		if math.Abs(d) > math.Abs(maxDrift) {
			maxDrift = d
		}
	}
	if maxDrift != 0 {
		s.logger.Debug("County %s: running in-person sum drifts from cumulative column by up to %.0f", county, maxDrift)
	}

	summary := &SeriesSummary{
		County:             county,
		Days:               len(series.Records),
		FirstDay:           series.Records[0].Date,
		LastDay:            last.Date,
		RegisteredVoters:   last.RegisteredVoters,
		TotalVoters:        last.TotalVoters,
		CumlByMailVoters:   last.CumlByMailVoters,
		CumlInPersonVoters: last.CumlInPersonVoters,
		NewInPersonTotal:   total,
		NewInPersonMean:    mean,
		NewInPersonMax:     peak,
		NewInPersonMaxDay:  peakDay,
		CumulativeMaxDrift: maxDrift,
	}
	if last.RegisteredVoters != 0 {
		summary.TurnoutPercent = 100 * last.TotalVoters / last.RegisteredVoters
	}
	return summary, nil
}

// CumulativeDrift returns, per day, the running sum of new in-person votes
// minus the cumulative in-person column. Zero means the two agree.
func CumulativeDrift(series voting.CountySeries) ([]float64, error) {
	if len(series.Records) == 0 {
		return []float64{}, nil
	}
	daily := make(stats.Float64Data, len(series.Records))
	for i, r := range series.Records {
		daily[i] = r.NewInPersonVoters
	}
	running, err := stats.CumulativeSum(daily)
	if err != nil {
		return nil, errors.Wrap(err, "summing in-person votes")
	}
	drift := make([]float64, len(series.Records))
	for i, r := range series.Records {
		drift[i] = running[i] - r.CumlInPersonVoters
	}
	return drift, nil
}
