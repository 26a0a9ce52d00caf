package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"earlyvote/app"
	"earlyvote/domain/voting"
	"earlyvote/internal"
	uimiddleware "earlyvote/ui/middleware"
	"earlyvote/ui/templates/fragments"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard web application. Everything it holds is built once in
// NewApp and only read afterwards.
type App struct {
	router    *chi.Mux
	series    *app.SeriesService
	charts    *app.ChartService
	dataset   *voting.Dataset
	templates *template.Template
	config    Config
	logger    *internal.Logger

	page pageData
}

// Config holds UI application configuration
type Config struct {
	Debug           bool
	DefaultCounty   string
	CompareCounties []string
	Description     string
}

// NewApp builds the dashboard: parses templates, renders the static figures
// and registers routes. A chart that cannot be built fails construction.
func NewApp(config Config, series *app.SeriesService, charts *app.ChartService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if len(config.CompareCounties) == 0 {
		config.CompareCounties = app.DefaultCompareCounties
	}
	if config.DefaultCounty == "" {
		config.DefaultCounty = "TRAVIS"
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range fragments.GetAllTemplateNames() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s is missing", name)
		}
	}

	a := &App{
		router:    chi.NewRouter(),
		series:    series,
		charts:    charts,
		dataset:   series.Dataset(),
		templates: templates,
		config:    config,
		logger:    logger.With("Dashboard"),
	}

	if err := a.buildPage(); err != nil {
		return nil, err
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(uimiddleware.StampDataset(a.dataset))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		a.logger.Error("Static filesystem unavailable: %v", err)
	} else {
		a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Page and the HTMX fragment bound to the county dropdown
	a.router.Get("/", a.handleIndex)
	a.router.Get("/fragments/pie", a.handlePieFragment)

	// Rendered figures
	a.router.Get("/charts/percentage.svg", a.handlePercentageSVG)
	a.router.Get("/charts/pie.svg", a.handlePieSVG)

	// JSON API
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/counties", a.handleCounties)
		r.Get("/counties/{county}/series", a.handleCountySeries)
		r.Get("/counties/{county}/summary", a.handleCountySummary)
		r.Get("/charts/percentage", a.handlePercentageSpec)
		r.Get("/charts/pie", a.handlePieSpec)
	})

	a.router.Get("/health", a.handleHealth)
}

// Handler exposes the router for an http.Server or httptest
func (a *App) Handler() http.Handler {
	return a.router
}
