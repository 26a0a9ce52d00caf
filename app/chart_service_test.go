package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earlyvote/domain/chart"
	"earlyvote/internal/errors"
	"earlyvote/internal/testkit"
)

func newChartService(t *testing.T) *ChartService {
	t.Helper()
	return NewChartService(NewSeriesService(testkit.ThreeDayDataset(t), nil), nil)
}

func TestPercentageChart_ComputesTurnoutPercent(t *testing.T) {
	svc := newChartService(t)

	spec, err := svc.DefaultPercentageChart()
	require.NoError(t, err)
	assert.Equal(t, chart.KindLine, spec.Kind)
	assert.Equal(t, PercentageTitle, spec.Title)
	require.Len(t, spec.Lines, 3)

	travis := spec.Lines[2]
	assert.Equal(t, "TRAVIS", travis.Name)
	assert.Equal(t, []string{"Oct-4", "Oct-5", "Oct-6"}, travis.X)
	assert.Equal(t, []float64{20, 30, 50.0}, travis.Y)
	assert.Equal(t, 4.0, travis.Width)
	assert.Equal(t, "#b2df8a", travis.Color)

	assert.Equal(t, "HAYS", spec.Lines[0].Name)
	assert.Equal(t, []float64{10, 30, 50}, spec.Lines[0].Y)
	assert.Empty(t, spec.Warnings)
}

func TestPercentageChart_FixedStyling(t *testing.T) {
	spec, err := newChartService(t).DefaultPercentageChart()
	require.NoError(t, err)

	require.NotNil(t, spec.YAxis.Range)
	assert.Equal(t, chart.Range{Min: 0, Max: 70}, *spec.YAxis.Range)
	assert.Equal(t, "white", spec.Background)
	assert.True(t, spec.YAxis.ShowGrid)
	assert.Equal(t, "#ccc", spec.YAxis.GridColor)
	assert.Equal(t, PercentageYTitle, spec.YAxis.Title)
	assert.Equal(t, FigureWidth, spec.Width)
}

func TestPercentageChart_StyleMismatchIsConfigError(t *testing.T) {
	_, err := newChartService(t).PercentageChart([]string{"HAYS", "BEXAR"}, DefaultLineStyles)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}

func TestPercentageChart_PropagatesExtractionErrors(t *testing.T) {
	_, err := newChartService(t).PercentageChart([]string{"NOWHERE"}, DefaultLineStyles[:1])
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestPercentageChart_ZeroRegisteredIsFlagged(t *testing.T) {
	ds := testkit.Dataset(t,
		testkit.Sheet("Oct-4", testkit.DayRow{County: "LOVING", Registered: 0, Total: 3}),
		testkit.Sheet("Oct-5", testkit.DayRow{County: "LOVING", Registered: 50, Total: 5}),
	)
	svc := NewChartService(NewSeriesService(ds, nil), nil)

	spec, err := svc.PercentageChart([]string{"LOVING"}, DefaultLineStyles[:1])
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10}, spec.Lines[0].Y)
	require.Len(t, spec.Warnings, 1)
	assert.Contains(t, spec.Warnings[0], "Oct-4")
}

func TestCompositionPie_LastDaySnapshot(t *testing.T) {
	spec, err := newChartService(t).CompositionPie("TRAVIS")
	require.NoError(t, err)

	assert.Equal(t, chart.KindPie, spec.Kind)
	assert.Equal(t, "What kinds of votes has Travis County cast?", spec.Title)
	assert.Equal(t, []float64{20, 30, 50}, spec.SliceValues())
	assert.Equal(t, "By Mail", spec.Slices[0].Label)
	assert.Equal(t, "In Person", spec.Slices[1].Label)
	assert.Equal(t, "Haven't Voted", spec.Slices[2].Label)
	assert.Equal(t, []string{"#07689f", "#40a8c4", "#ccc"},
		[]string{spec.Slices[0].Color, spec.Slices[1].Color, spec.Slices[2].Color})
	assert.Empty(t, spec.Warnings)
}

func TestCompositionPie_TitleCasesMultiWordCounty(t *testing.T) {
	ds := testkit.Dataset(t, testkit.Sheet("Oct-4", testkit.DayRow{County: "EL PASO", Registered: 10, Total: 1}))
	spec, err := NewChartService(NewSeriesService(ds, nil), nil).CompositionPie("EL PASO")
	require.NoError(t, err)
	assert.Equal(t, "What kinds of votes has El Paso County cast?", spec.Title)
}

func TestCompositionPie_NegativeRemainderIsKeptAndFlagged(t *testing.T) {
	ds := testkit.Dataset(t,
		testkit.Sheet("Oct-4", testkit.DayRow{County: "KING", Registered: 100, CumlByMail: 40, CumlInPerson: 70, Total: 110}),
	)
	spec, err := NewChartService(NewSeriesService(ds, nil), nil).CompositionPie("KING")
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 70, -10}, spec.SliceValues())
	require.Len(t, spec.Warnings, 1)
	assert.Contains(t, spec.Warnings[0], "-10")
}

func TestCompositionPie_PropagatesNotFound(t *testing.T) {
	_, err := newChartService(t).CompositionPie("NOWHERE")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
}

func TestCountyOptions_FirstConfiguredSheetInRowOrder(t *testing.T) {
	ds := testkit.Dataset(t,
		testkit.Sheet("Oct-4",
			testkit.DayRow{County: "TRAVIS"}, testkit.DayRow{County: "ANDERSON"},
			testkit.DayRow{County: "TRAVIS"}, testkit.DayRow{County: "BEXAR"}),
		testkit.Sheet("Oct-5", testkit.DayRow{County: "ZAVALA"}),
	)
	options := NewChartService(NewSeriesService(ds, nil), nil).CountyOptions()
	assert.Equal(t, []CountyOption{
		{Label: "TRAVIS", Value: "TRAVIS"},
		{Label: "ANDERSON", Value: "ANDERSON"},
		{Label: "BEXAR", Value: "BEXAR"},
	}, options)
}
