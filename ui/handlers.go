package ui

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"earlyvote/adapters/render"
	"earlyvote/app"
	"earlyvote/domain/chart"
	"earlyvote/internal/errors"
	"earlyvote/ui/templates/fragments"
)

// figure is a rendered chart plus any data-quality warnings to show with it
type figure struct {
	ID       string
	Title    string
	SVG      template.HTML
	Warnings []string
}

type pageData struct {
	Title       string
	Description template.HTML
	LineChart   figure
	Options     []app.CountyOption
	Selected    string
	Pie         figure
	PieError    *errorData
	DayCount    int
	FirstDay    string
	LastDay     string
}

type errorData struct {
	Code    string
	Message string
}

// buildPage renders the static parts of the page: the line chart, the county
// options and the default pie.
func (a *App) buildPage() error {
	lineSpec, err := a.percentageSpec()
	if err != nil {
		return errors.Wrap(err, "building percentage chart")
	}
	line, err := toFigure("multi-county-plot", lineSpec)
	if err != nil {
		return err
	}

	pie, err := a.pieFigure(a.config.DefaultCounty)
	if err != nil {
		return errors.Wrapf(err, "building pie chart for default county %s", a.config.DefaultCounty)
	}

	days := a.dataset.Days
	a.page = pageData{
		Title:       "Texas Early Voting",
		Description: renderMarkdown(a.config.Description),
		LineChart:   line,
		Options:     a.charts.CountyOptions(),
		Selected:    a.series.ResolveCounty(a.config.DefaultCounty),
		Pie:         pie,
		DayCount:    len(days),
		FirstDay:    days[0],
		LastDay:     days[len(days)-1],
	}
	a.logger.Info("Dashboard ready: %d counties, %d reporting days (%s to %s)",
		len(a.page.Options), a.page.DayCount, a.page.FirstDay, a.page.LastDay)
	return nil
}

// lineStyles pairs each compared county with a default style, cycling when
// more counties are configured than there are styles.
func (a *App) lineStyles() []app.LineStyle {
	styles := make([]app.LineStyle, len(a.config.CompareCounties))
	for i := range styles {
		styles[i] = app.DefaultLineStyles[i%len(app.DefaultLineStyles)]
	}
	return styles
}

func (a *App) pieFigure(county string) (figure, error) {
	spec, err := a.charts.CompositionPie(county)
	if err != nil {
		return figure{}, err
	}
	return toFigure("county-pie", spec)
}

func toFigure(id string, spec chart.Spec) (figure, error) {
	svg, err := render.SVGBytes(spec)
	if err != nil {
		return figure{}, errors.RenderError(err)
	}
	return figure{ID: id, Title: spec.Title, SVG: template.HTML(svg), Warnings: spec.Warnings}, nil
}

// handleIndex serves the dashboard. ?county= selects the pie without
// JavaScript; the default page is prebuilt.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := a.page
	if county := a.resolveCounty(r.URL.Query().Get("county")); county != "" && county != page.Selected {
		page.Selected = county
		pie, err := a.pieFigure(county)
		if err != nil {
			status, data := a.errorFor(r, err)
			page.Pie = figure{ID: "county-pie"}
			page.PieError = &data
			a.renderTemplate(w, status, fragments.Index, page)
			return
		}
		page.Pie = pie
	}
	a.renderTemplate(w, http.StatusOK, fragments.Index, page)
}

// handlePieFragment is the dropdown's change handler: it rebuilds the pie for
// the selected county and returns only that fragment.
func (a *App) handlePieFragment(w http.ResponseWriter, r *http.Request) {
	county := a.resolveCounty(r.URL.Query().Get("county"))
	if county == "" {
		a.renderError(w, r, errors.InvalidInput("county is required"))
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/?county="+url.QueryEscape(county), http.StatusSeeOther)
		return
	}

	pie, err := a.pieFigure(county)
	if err != nil {
		a.renderError(w, r, err)
		return
	}
	a.logger.Debug("Pie rebuilt for %s", county)
	a.renderTemplate(w, http.StatusOK, fragments.Pie, pie)
}

// renderError surfaces a failure as an error fragment with a matching status
func (a *App) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, data := a.errorFor(r, err)
	a.renderTemplate(w, status, fragments.Error, data)
}

func (a *App) errorFor(r *http.Request, err error) (int, errorData) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		a.logger.Info("%s %s: %v", r.Method, r.URL.Path, err)
	}
	return status, errorData{
		Code:    errors.GetCode(err),
		Message: publicMessage(err, a.config.Debug),
	}
}

// resolveCounty maps a request value onto the county as the sheets spell it.
// Dropdown values are already exact; hand-typed names may differ in case.
func (a *App) resolveCounty(raw string) string {
	return a.series.ResolveCounty(strings.TrimSpace(raw))
}
