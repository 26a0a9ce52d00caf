package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"earlyvote/adapters/excel"
	"earlyvote/app"
	"earlyvote/domain/voting"
	"earlyvote/internal"
	"earlyvote/internal/config"
	"earlyvote/ui"
)

const shutdownTimeout = 5 * time.Second

func main() {
	debug := flag.Bool("debug", false, "Enable debug mode (verbose logging, full error text in responses)")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if *debug {
		os.Setenv("DEBUG", "true")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level))
	internal.DefaultLogger = logger

	days, err := voting.ParseDaySequence(appConfig.Data.ReportingDays)
	if err != nil {
		log.Fatalf("Invalid REPORTING_DAYS: %v", err)
	}

	// The workbook is read once; everything after this is read-only.
	excelCfg := excel.DefaultExcelConfig()
	excelCfg.FilePath = appConfig.Data.ExcelFile
	excelCfg.Days = days
	dataset, err := excel.NewDataReader(excelCfg, logger).LoadDataset()
	if err != nil {
		log.Fatalf("Failed to load voting data: %v", err)
	}

	series := app.NewSeriesService(dataset, logger)
	charts := app.NewChartService(series, logger)

	dashboard, err := ui.NewApp(ui.Config{
		Debug:           appConfig.Server.Debug,
		DefaultCounty:   appConfig.Dashboard.DefaultCounty,
		CompareCounties: appConfig.Dashboard.CompareCounties,
		Description:     appConfig.Dashboard.Description,
	}, series, charts, logger)
	if err != nil {
		log.Fatalf("Failed to build dashboard: %v", err)
	}

	if err := run(dashboard.Handler(), ":"+appConfig.Server.Port, logger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests.
func run(handler http.Handler, addr string, logger *internal.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting early voting dashboard on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
