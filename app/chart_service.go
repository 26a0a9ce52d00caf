package app

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"

	"earlyvote/domain/chart"
	"earlyvote/internal"
	"earlyvote/internal/errors"
)

// Display constants for the dashboard figures.
const (
	FigureWidth     = 800
	LineChartHeight = 450
	PieChartHeight  = 450

	PercentageTitle  = "Percentage of Registered Texas Voters Who've Already Voted"
	PercentageYTitle = "% of Registered Voters"

	// Turnout is assumed to stay under 70%; the axis is fixed, not fitted.
	PercentageYMax = 70
)

// LineStyle is the width and color of one county's line.
type LineStyle struct {
	Width float64
	Color string
}

// DefaultCompareCounties and DefaultLineStyles are parallel: one style per county.
var (
	DefaultCompareCounties = []string{"HAYS", "BEXAR", "TRAVIS"}
	DefaultLineStyles      = []LineStyle{
		{Width: 3, Color: "#a6cee3"},
		{Width: 3, Color: "#1f78b4"},
		{Width: 4, Color: "#b2df8a"},
	}
)

// Pie categories, in slice order.
var compositionSlices = []struct {
	Label string
	Color string
}{
	{"By Mail", "#07689f"},
	{"In Person", "#40a8c4"},
	{"Haven't Voted", "#ccc"},
}

// CountyOption is one dropdown entry.
type CountyOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ChartService turns county series into chart specs
type ChartService struct {
	series *SeriesService
	logger *internal.Logger
}

// NewChartService creates a chart service backed by a series service
func NewChartService(series *SeriesService, logger *internal.Logger) *ChartService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ChartService{
		series: series,
		logger: logger.With("ChartService"),
	}
}

// PercentageChart draws one line per county of 100 * total / registered
// across the configured days. styles must be parallel to counties.
func (c *ChartService) PercentageChart(counties []string, styles []LineStyle) (chart.Spec, error) {
	if len(counties) != len(styles) {
		return chart.Spec{}, errors.ConfigInvalid(fmt.Sprintf(
			"%d counties but %d line styles; every county needs a style", len(counties), len(styles)))
	}

	spec := chart.Spec{
		Kind:       chart.KindLine,
		Title:      PercentageTitle,
		Width:      FigureWidth,
		Height:     LineChartHeight,
		Background: "white",
		XAxis: chart.Axis{
			LineColor: "#aaa",
			LineWidth: 1,
			ZeroLine:  true,
			ShowLine:  true,
		},
		YAxis: chart.Axis{
			Title:     PercentageYTitle,
			Range:     &chart.Range{Min: 0, Max: PercentageYMax},
			LineColor: "#aaa",
			LineWidth: 1,
			ShowGrid:  true,
			GridColor: "#ccc",
			ZeroLine:  true,
			ShowLine:  true,
		},
	}

	for i, county := range counties {
		series, err := c.series.Extract(county)
		if err != nil {
			return chart.Spec{}, err
		}
		county = series.County

		n := len(series.Records)
		total := make([]float64, n)
		registered := make([]float64, n)
		for j, r := range series.Records {
			total[j] = r.TotalVoters
			registered[j] = r.RegisteredVoters
		}

		pct := make([]float64, n)
		floats.DivTo(pct, total, registered)
		floats.Scale(100, pct)
		for j, r := range series.Records {
			if r.RegisteredVoters == 0 {
				pct[j] = 0
				warning := fmt.Sprintf("%s on %s reports zero registered voters; plotted as 0%%", county, r.Date)
				spec.Warnings = append(spec.Warnings, warning)
				c.logger.Warn("%s", warning)
			}
		}

		spec.Lines = append(spec.Lines, chart.LineSeries{
			Name:  county,
			X:     series.Dates(),
			Y:     pct,
			Width: styles[i].Width,
			Color: styles[i].Color,
		})
	}
	return spec, nil
}

// DefaultPercentageChart draws the dashboard's fixed county comparison
func (c *ChartService) DefaultPercentageChart() (chart.Spec, error) {
	return c.PercentageChart(DefaultCompareCounties, DefaultLineStyles)
}

// CompositionPie breaks the county's most recent day into by-mail, in-person
// and not-yet-voted. A negative not-yet-voted value is kept and flagged.
func (c *ChartService) CompositionPie(county string) (chart.Spec, error) {
	series, err := c.series.Extract(county)
	if err != nil {
		return chart.Spec{}, err
	}
	last, ok := series.Last()
	if !ok {
		return chart.Spec{}, errors.NotFound(fmt.Sprintf("records for county %q", county))
	}
	county = series.County

	values := []float64{
		last.CumlByMailVoters,
		last.CumlInPersonVoters,
		last.RegisteredVoters - last.TotalVoters,
	}

	spec := chart.Spec{
		Kind:   chart.KindPie,
		Title:  fmt.Sprintf("What kinds of votes has %s County cast?", titleCase(county)),
		Width:  FigureWidth,
		Height: PieChartHeight,
	}
	for i, s := range compositionSlices {
		spec.Slices = append(spec.Slices, chart.Slice{Label: s.Label, Value: values[i], Color: s.Color})
	}

	if notVoted := values[2]; notVoted < 0 {
		warning := fmt.Sprintf("%s on %s reports %.0f total voters but only %.0f registered; \"Haven't Voted\" is %.0f",
			county, last.Date, last.TotalVoters, last.RegisteredVoters, notVoted)
		spec.Warnings = append(spec.Warnings, warning)
		c.logger.Warn("%s", warning)
	}
	return spec, nil
}

// CountyOptions lists the distinct counties of the first configured day, in
// sheet row order.
func (c *ChartService) CountyOptions() []CountyOption {
	counties := c.series.Dataset().FirstDay().Counties()
	options := make([]CountyOption, len(counties))
	for i, county := range counties {
		options[i] = CountyOption{Label: county, Value: county}
	}
	return options
}

// titleCase renders "EL PASO" as "El Paso". A Caser is stateful, so one is
// built per call.
func titleCase(county string) string {
	return cases.Title(language.English).String(county)
}
