// olist serves an interactive reporting dashboard over the Olist e-commerce
// dataset, or runs a single report from the command line.
//
// Usage:
//   olist serve [--csv all_data.csv]
//   olist report city-sales [--csv all_data.csv] [--json]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"olist-dashboard/internal/config"
	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/middleware"
	"olist-dashboard/internal/models"
	"olist-dashboard/internal/observability"
	"olist-dashboard/internal/reports"
	"olist-dashboard/internal/server"
	"olist-dashboard/internal/ui/templates"
)

const (
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 30 * time.Second
	cacheMaxAge    = "public, max-age=300"
)

func main() {
	app := &cli.App{
		Name:  "olist",
		Usage: "Reporting dashboard over the Olist e-commerce dataset",
		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Path to the orders dataset (overrides CSV_FILE)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if csv := c.String("csv"); csv != "" {
				cfg.Dataset.CSVFile = csv
			}

			logger := observability.NewLogger(cfg.Logger)
			slog.SetDefault(logger)

			logger.Info("starting application",
				"version", "1.0.0",
				"dataset", cfg.Dataset.CSVFile,
			)

			// A load failure is fatal: no partial dataset is served.
			table, err := loadTable(c.Context, logger, cfg.Dataset.CSVFile)
			if err != nil {
				logger.Error("failed to load dataset", "error", err)
				return err
			}

			svc := reports.NewService(table, logger)

			templateHandlers := &server.TemplateHandlers{
				Dashboard: handleDashboard,
			}

			srv := server.NewServer(svc, logger, templateHandlers)

			rateLimiter := middleware.NewRateLimiter(cfg.Security)

			middlewareChain := middleware.Chain(
				middleware.Recovery(logger),
				middleware.RequestID(),
				middleware.Logger(logger),
				middleware.Tracing(),
				middleware.SecurityHeaders(),
				middleware.CORS(cfg.Security),
				middleware.TrustedProxy(cfg.Security),
				middleware.RateLimit(rateLimiter, logger),
			)

			httpServer := &http.Server{
				Addr:         cfg.Address(),
				Handler:      middlewareChain(srv),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

			gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
				logger.Info("report service stopped")
				return nil
			})

			if err := gracefulServer.ListenAndServe(); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}

			logger.Info("application stopped gracefully")
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Run one report against the dataset and print it",
		ArgsUsage: "(city-sales|product-category|delivery-time|category-rating|rfm|geo-sales)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "csv",
				Value:   "all_data.csv",
				Usage:   "Path to the orders dataset",
				EnvVars: []string{"CSV_FILE"},
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as indented JSON",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("expected exactly one report name", 2)
			}
			kind, err := reports.ParseKind(c.Args().First())
			if err != nil {
				return err
			}

			logger := observability.NewLogger(config.LoggerConfig{
				Level:  c.String("log-level"),
				Format: "text",
			})

			table, err := loadTable(c.Context, logger, c.String("csv"))
			if err != nil {
				return err
			}

			result, err := reports.NewService(table, logger).Run(c.Context, kind)
			if err != nil {
				return err
			}

			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printReport(os.Stdout, kind, result)
			return nil
		},
	}
}

func loadTable(ctx context.Context, logger *slog.Logger, path string) (*dataset.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, csvLoadTimeout)
	defer cancel()
	return dataset.NewLoader(logger).Load(ctx, path)
}

func printReport(w io.Writer, kind reports.Kind, result any) {
	switch rep := result.(type) {
	case *models.SalesReport:
		if rep.NoData {
			fmt.Fprintf(w, "%s: no data\n", kind)
			return
		}
		fmt.Fprintf(w, "%s sales (%d groups)\n", rep.Dimension, len(rep.ByVolume))
		fmt.Fprintf(w, "  most orders:    %s (%d)\n", rep.MostByVolume.Key, rep.MostByVolume.Count)
		fmt.Fprintf(w, "  fewest orders:  %s (%d)\n", rep.LeastByVolume.Key, rep.LeastByVolume.Count)
		fmt.Fprintf(w, "  top revenue:    %s ($%s)\n", rep.MostByRevenue.Key, rep.MostByRevenue.Revenue.StringFixed(2))
		fmt.Fprintf(w, "  lowest revenue: %s ($%s)\n", rep.LeastByRevenue.Key, rep.LeastByRevenue.Revenue.StringFixed(2))
	case *models.DeliveryTimeReport:
		if rep.NoData {
			fmt.Fprintln(w, "delivery time: no rows carry both timestamps")
			return
		}
		fmt.Fprintf(w, "average delivery time: %.2f days (%d delivered rows, %d excluded)\n",
			rep.MeanDays, rep.Delivered, rep.Excluded)
	case *models.CategoryRatingReport:
		if rep.NoData {
			fmt.Fprintln(w, "category ratings: no scored reviews")
			return
		}
		fmt.Fprintf(w, "category ratings (%d categories)\n", len(rep.Ratings))
		fmt.Fprintf(w, "  best:  %s (%.2f from %d reviews)\n", rep.Best.Category, rep.Best.MeanScore, rep.Best.Reviews)
		fmt.Fprintf(w, "  worst: %s (%.2f from %d reviews)\n", rep.Worst.Category, rep.Worst.MeanScore, rep.Worst.Reviews)
	case *models.RFMReport:
		if rep.NoData {
			fmt.Fprintln(w, "rfm: no customers")
			return
		}
		fmt.Fprintf(w, "rfm over %d customers (reference date %s)\n",
			rep.Customers, rep.ReferenceDate.Format("2006-01-02"))
		fmt.Fprintln(w, "  recency (days since last purchase -> customers):")
		for _, vc := range rep.RecencyDistribution {
			fmt.Fprintf(w, "    %4d -> %d\n", vc.Value, vc.Count)
		}
		fmt.Fprintln(w, "  frequency (orders -> customers):")
		for _, vc := range rep.FrequencyDistribution {
			fmt.Fprintf(w, "    %4d -> %d\n", vc.Value, vc.Count)
		}
		fmt.Fprintln(w, "  monetary (spend bin -> customers):")
		for _, b := range rep.MonetaryHistogram {
			fmt.Fprintf(w, "    [%10.2f, %10.2f) -> %d\n", b.Low, b.High, b.Count)
		}
	case *models.GeoSalesReport:
		if rep.NoData {
			fmt.Fprintln(w, "geo sales: no data")
			return
		}
		fmt.Fprintf(w, "state sales (%d states, total $%s)\n", len(rep.States), rep.Total.StringFixed(2))
		fmt.Fprintf(w, "  highest: %s ($%s)\n", rep.Highest.State, rep.Highest.Revenue.StringFixed(2))
		fmt.Fprintf(w, "  lowest:  %s ($%s)\n", rep.Lowest.State, rep.Lowest.Revenue.StringFixed(2))
	default:
		fmt.Fprintf(w, "%s: %v\n", kind, result)
	}
}
