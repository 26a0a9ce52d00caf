package ui

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"earlyvote/adapters/render"
	"earlyvote/domain/chart"
	"earlyvote/internal/errors"
)

func (a *App) handleCounties(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"counties": a.page.Options,
		"default":  a.config.DefaultCounty,
	})
}

func (a *App) handleCountySeries(w http.ResponseWriter, r *http.Request) {
	series, err := a.series.Extract(a.resolveCounty(chi.URLParam(r, "county")))
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, series)
}

func (a *App) handleCountySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.series.Summary(a.resolveCounty(chi.URLParam(r, "county")))
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, summary)
}

func (a *App) handlePercentageSpec(w http.ResponseWriter, r *http.Request) {
	spec, err := a.percentageSpec()
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, spec)
}

func (a *App) handlePieSpec(w http.ResponseWriter, r *http.Request) {
	spec, err := a.pieSpec(r)
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeJSON(w, http.StatusOK, spec)
}

func (a *App) handlePercentageSVG(w http.ResponseWriter, r *http.Request) {
	spec, err := a.percentageSpec()
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeSVG(w, r, "percentage", spec)
}

func (a *App) handlePieSVG(w http.ResponseWriter, r *http.Request) {
	spec, err := a.pieSpec(r)
	if err != nil {
		a.writeJSONError(w, r, err)
		return
	}
	a.writeSVG(w, r, "pie-"+a.resolveCounty(r.URL.Query().Get("county")), spec)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"load_id":   a.dataset.ID.String(),
		"source":    a.dataset.Source,
		"days":      len(a.dataset.Days),
		"sheets":    a.dataset.SheetLabels(),
		"loaded_at": a.dataset.LoadedAt.Format(time.RFC3339),
	})
}

func (a *App) percentageSpec() (chart.Spec, error) {
	return a.charts.PercentageChart(a.config.CompareCounties, a.lineStyles())
}

// pieSpec reads the county from the query string; it falls back to the
// default county when absent.
func (a *App) pieSpec(r *http.Request) (chart.Spec, error) {
	county := a.resolveCounty(r.URL.Query().Get("county"))
	if county == "" {
		county = a.config.DefaultCounty
	}
	return a.charts.CompositionPie(county)
}

// writeSVG renders spec with an ETag tied to the loaded dataset. The data
// never changes while the process runs, so a matching If-None-Match is a 304.
func (a *App) writeSVG(w http.ResponseWriter, r *http.Request, name string, spec chart.Spec) {
	etag := fmt.Sprintf("%q", a.dataset.ID.String()+"-"+name)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	svg, err := render.SVGBytes(spec)
	if err != nil {
		w.Header().Del("ETag")
		a.writeJSONError(w, r, errors.RenderError(err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		a.logger.Warn("Error writing SVG response: %v", err)
	}
}
