package ui

import (
	"bytes"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"earlyvote/app"
	"earlyvote/domain/voting"
	"earlyvote/internal"
	"earlyvote/internal/config"
	"earlyvote/internal/testkit"
)

func newTestApp(t *testing.T, ds *voting.Dataset, debug bool) *App {
	t.Helper()
	series := app.NewSeriesService(ds, nil)
	a, err := NewApp(Config{
		Debug:           debug,
		DefaultCounty:   "TRAVIS",
		CompareCounties: app.DefaultCompareCounties,
		Description:     config.DefaultDescription,
	}, series, app.NewChartService(series, nil), nil)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, a *App, target string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec.Result()
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

var htmx = map[string]string{"HX-Request": "true"}

func TestIndex_RendersDashboard(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)

	assert.Contains(t, page, "Texas Early Voting")
	assert.Contains(t, page, `href="https://earlyvoting.texas-election.com/Elections/getElectionEVDates.do"`)
	assert.Contains(t, page, `id="multi-county-plot"`)
	assert.Contains(t, page, `id="county-pie"`)
	assert.Contains(t, page, `hx-get="/fragments/pie"`)
	assert.Contains(t, page, `hx-trigger="change"`)
	assert.Contains(t, page, `hx-target="#county-pie"`)
	assert.Contains(t, page, `<option value="TRAVIS" selected>`)
	assert.Contains(t, page, `<option value="HAYS">`)
	assert.Equal(t, 2, strings.Count(page, "<svg"))
	assert.Contains(t, page, "3 reporting days, Oct-4 to Oct-6")
}

func TestIndex_CountyQuerySelectsPie(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	page := body(t, get(t, a, "/?county=hays", nil))
	assert.Contains(t, page, `<option value="HAYS" selected>`)
	assert.Contains(t, page, "Hays County")
}

func TestIndex_SingleReportingDay(t *testing.T) {
	ds := testkit.Dataset(t, testkit.Sheet("Oct-4",
		testkit.DayRow{County: "HAYS", Registered: 200, CumlInPerson: 20, CumlByMail: 10, Total: 30},
		testkit.DayRow{County: "BEXAR", Registered: 1000, CumlInPerson: 60, CumlByMail: 40, Total: 100},
		testkit.DayRow{County: "TRAVIS", Registered: 100, CumlInPerson: 15, CumlByMail: 5, Total: 20},
	))
	a := newTestApp(t, ds, false)

	resp := get(t, a, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := body(t, resp)
	assert.Equal(t, 2, strings.Count(page, "<svg"))
	assert.Contains(t, page, "Oct-4")

	resp = get(t, a, "/charts/percentage.svg", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIndex_UnknownCountyShowsErrorInPlaceOfPie(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/?county=NOWHERE", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	page := body(t, resp)
	assert.Contains(t, page, `role="alert"`)
	assert.Contains(t, page, "NOT_FOUND")
	assert.Equal(t, 1, strings.Count(page, "<svg"))
}

func TestPieFragment_ReturnsOnlyThePie(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/fragments/pie?county=BEXAR", htmx)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fragment := body(t, resp)

	assert.Contains(t, fragment, `id="county-pie"`)
	assert.Contains(t, fragment, "Bexar County")
	assert.NotContains(t, fragment, "<html")
	assert.NotContains(t, fragment, "multi-county-plot")
}

func TestPieFragment_UnknownCountyIs404(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/fragments/pie?county=NOWHERE", htmx)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	fragment := body(t, resp)
	assert.Contains(t, fragment, `id="county-pie"`)
	assert.Contains(t, fragment, `county &#34;NOWHERE&#34; on Oct-4 not found`)
}

func TestPieFragment_MissingCountyIs400(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/fragments/pie", htmx)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "INVALID_INPUT")
}

func TestPieFragment_AmbiguousRowHidesDetailOutsideDebug(t *testing.T) {
	ds := testkit.Dataset(t, testkit.Sheet("Oct-4",
		testkit.DayRow{County: "HAYS", Registered: 200, CumlByMail: 10, Total: 20},
		testkit.DayRow{County: "BEXAR", Registered: 1000, CumlByMail: 50, Total: 100},
		testkit.DayRow{County: "TRAVIS", Registered: 100, CumlByMail: 10, Total: 20},
		testkit.DayRow{County: "HARRIS", Registered: 500, CumlByMail: 10, Total: 20},
		testkit.DayRow{County: "HARRIS", Registered: 500, CumlByMail: 10, Total: 20},
	))

	quiet := newTestApp(t, ds, false)
	resp := get(t, quiet, "/fragments/pie?county=HARRIS", htmx)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	fragment := body(t, resp)
	assert.Contains(t, fragment, "AMBIGUOUS_ROW")
	assert.NotContains(t, fragment, "matches 2 rows")

	verbose := newTestApp(t, ds, true)
	resp = get(t, verbose, "/fragments/pie?county=HARRIS", htmx)
	assert.Contains(t, body(t, resp), "matches 2 rows on Oct-4")
}

func TestPieFragment_EveryDropdownOptionRenders(t *testing.T) {
	ds := testkit.Dataset(t, testkit.Sheet("Oct-4",
		testkit.DayRow{County: "HAYS", Registered: 200, CumlInPerson: 20, CumlByMail: 10, Total: 30},
		testkit.DayRow{County: "BEXAR", Registered: 1000, CumlInPerson: 60, CumlByMail: 40, Total: 100},
		testkit.DayRow{County: "TRAVIS", Registered: 100, CumlInPerson: 15, CumlByMail: 5, Total: 20},
		testkit.DayRow{County: "DeWitt", Registered: 100, CumlInPerson: 10, CumlByMail: 5, Total: 15},
		testkit.DayRow{County: "McMullen", Registered: 50, CumlInPerson: 5, CumlByMail: 5, Total: 10},
		testkit.DayRow{County: "EL PASO", Registered: 300, CumlInPerson: 30, CumlByMail: 20, Total: 50},
	))
	a := newTestApp(t, ds, false)

	options := a.charts.CountyOptions()
	require.Len(t, options, 6)
	for _, opt := range options {
		resp := get(t, a, "/fragments/pie?county="+url.QueryEscape(opt.Value), htmx)
		assert.Equal(t, http.StatusOK, resp.StatusCode, opt.Value)
		assert.Contains(t, body(t, resp), "<svg", opt.Value)
	}

	page := body(t, get(t, a, "/?county=DeWitt", nil))
	assert.Contains(t, page, `<option value="DeWitt" selected>`)

	// Hand-typed names still reach mixed-case counties.
	resp := get(t, a, "/fragments/pie?county=dewitt", htmx)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	doc := body(t, get(t, a, "/api/counties/MCMULLEN/summary", nil))
	assert.Equal(t, "McMullen", gjson.Get(doc, "county").String())
}

func TestPieFragment_WithoutHTMXRedirectsToPage(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/fragments/pie?county=HAYS", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?county=HAYS", resp.Header.Get("Location"))
}

func TestPieFragment_NegativeRemainderShowsWarning(t *testing.T) {
	ds := testkit.Dataset(t, testkit.Sheet("Oct-4",
		testkit.DayRow{County: "HAYS", Registered: 10, CumlInPerson: 5, CumlByMail: 5, Total: 10},
		testkit.DayRow{County: "BEXAR", Registered: 10, CumlInPerson: 5, CumlByMail: 5, Total: 10},
		testkit.DayRow{County: "TRAVIS", Registered: 10, CumlInPerson: 5, CumlByMail: 5, Total: 10},
		testkit.DayRow{County: "LOVING", Registered: 10, CumlInPerson: 8, CumlByMail: 4, Total: 12},
	))
	a := newTestApp(t, ds, false)

	resp := get(t, a, "/fragments/pie?county=LOVING", htmx)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `class="warning"`)
}

func TestAPI_Counties(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/api/counties", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := body(t, resp)

	assert.Equal(t, "TRAVIS", gjson.Get(doc, "default").String())
	values := gjson.Get(doc, "counties.#.value").Array()
	require.Len(t, values, 3)
	assert.Equal(t, "HAYS", values[0].String())
	assert.Equal(t, "TRAVIS", values[2].String())
}

func TestAPI_CountySeriesAndSummary(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	doc := body(t, get(t, a, "/api/counties/travis/series", nil))
	assert.Equal(t, "TRAVIS", gjson.Get(doc, "county").String())
	assert.Equal(t, int64(3), gjson.Get(doc, "records.#").Int())
	assert.Equal(t, "Oct-6", gjson.Get(doc, "records.2.date").String())
	assert.Equal(t, 50.0, gjson.Get(doc, "records.2.total_voters").Float())

	doc = body(t, get(t, a, "/api/counties/TRAVIS/summary", nil))
	assert.Equal(t, 50.0, gjson.Get(doc, "turnout_percent").Float())
	assert.Equal(t, int64(3), gjson.Get(doc, "days").Int())

	resp := get(t, a, "/api/counties/NOWHERE/series", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", gjson.Get(body(t, resp), "code").String())
}

func TestAPI_ChartSpecs(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	doc := body(t, get(t, a, "/api/charts/percentage", nil))
	assert.Equal(t, "line", gjson.Get(doc, "kind").String())
	assert.Equal(t, 70.0, gjson.Get(doc, "yaxis.range.max").Float())
	assert.Equal(t, "TRAVIS", gjson.Get(doc, "lines.2.name").String())
	assert.Equal(t, 50.0, gjson.Get(doc, "lines.2.y.2").Float())

	doc = body(t, get(t, a, "/api/charts/pie", nil))
	assert.Equal(t, "pie", gjson.Get(doc, "kind").String())
	assert.Equal(t, "What kinds of votes has Travis County cast?", gjson.Get(doc, "title").String())
	assert.Equal(t, 50.0, gjson.Get(doc, "slices.2.value").Float())
}

func TestChartSVG_ETag(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/charts/pie.svg?county=HAYS", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	etag := resp.Header.Get("ETag")
	assert.Contains(t, etag, a.dataset.ID.String())
	assert.Contains(t, body(t, resp), "<svg")

	resp = get(t, a, "/charts/pie.svg?county=HAYS", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp = get(t, a, "/charts/percentage.svg", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, etag, resp.Header.Get("ETag"))
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(prev) })

	series := app.NewSeriesService(testkit.ThreeDayDataset(t), nil)
	a, err := NewApp(Config{}, series, app.NewChartService(series, nil), internal.NewLogger(internal.LogLevelWarn))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.writeJSON(rec, http.StatusOK, map[string]float64{"turnout": math.NaN()})

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, logs.String(), "[WARN] [Dashboard] Error writing JSON response")
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/health", nil)
	assert.Equal(t, a.dataset.ID.String(), resp.Header.Get("X-Dataset-ID"))
	doc := body(t, resp)
	assert.Equal(t, "ok", gjson.Get(doc, "status").String())
	assert.Equal(t, a.dataset.ID.String(), gjson.Get(doc, "load_id").String())
	assert.Equal(t, int64(3), gjson.Get(doc, "days").Int())
}

func TestStaticCSS(t *testing.T) {
	a := newTestApp(t, testkit.ThreeDayDataset(t), false)

	resp := get(t, a, "/static/css/dashboard.css", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), ".dashboard")
}

func TestNewApp_FailsWhenDefaultCountyMissing(t *testing.T) {
	series := app.NewSeriesService(testkit.ThreeDayDataset(t), nil)
	_, err := NewApp(Config{DefaultCounty: "NOWHERE"}, series, app.NewChartService(series, nil), nil)
	require.Error(t, err)
}
