package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"repolens/internal/config"
	"repolens/internal/pipeline"
	"repolens/internal/report"
	"repolens/internal/snapshot"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "repolens",
		Short: "Infer the structure and architecture of a repository from its source",
	}

	configPath  string
	format      string
	workers     int
	hubTop      int
	verbose     bool
	noColor     bool
	noProgress  bool
	metricsAddr string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "repolens.yaml", "Path to the YAML config file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	analyzeCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	analyzeCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Extraction worker count (overrides config)")
	analyzeCmd.Flags().IntVarP(&hubTop, "top", "t", 0, "How many hubs to show (overrides config)")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file evidence in the report")
	analyzeCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the extraction progress bar")
	analyzeCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a repository directory and report its inferred architecture",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		color.NoColor = color.NoColor || noColor

		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if workers > 0 {
			cfg.Analysis.Workers = workers
		}
		if hubTop > 0 {
			cfg.Analysis.HubTop = hubTop
		}

		logLevel := slog.LevelWarn
		if verbose {
			logLevel = slog.LevelInfo
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

		if metricsAddr != "" {
			if err := pipeline.RegisterMetrics(nil); err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}
			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					logger.Warn("metrics server stopped", "error", err)
				}
			}()
		}

		loaderOpts := []snapshot.LoaderOption{
			snapshot.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		}
		if len(cfg.Ignore) > 0 {
			loaderOpts = append(loaderOpts, snapshot.WithIgnoreDirs(append([]string{
				".git", "node_modules", "vendor", "dist", "build", "__pycache__", ".venv",
			}, cfg.Ignore...)))
		}
		snap, err := snapshot.NewLoader(loaderOpts...).LoadDir(root)
		if err != nil {
			return fmt.Errorf("load %s: %w", root, err)
		}
		if snap.Empty() {
			color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ no analyzable source files under %s\n", root)
		}

		analyzerOpts := []pipeline.AnalyzerOption{pipeline.WithLogger(logger)}
		var bar *progressbar.ProgressBar
		if !noProgress && format == "text" && len(snap.Files) > 0 {
			bar = progressbar.NewOptions(len(snap.Files),
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
			analyzerOpts = append(analyzerOpts, pipeline.WithProgress(func(string) {
				_ = bar.Add(1)
			}))
		}

		analyzer := pipeline.NewAnalyzer(cfg, analyzerOpts...)
		result, err := analyzer.Run(cmd.Context(), snap)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return err
		}

		renderer := report.NewRenderer(os.Stdout, cfg.Analysis.HubTop, verbose)
		switch format {
		case "json":
			return renderer.JSON(result)
		case "text":
			return renderer.Text(result)
		default:
			return fmt.Errorf("unknown format %q (want text or json)", format)
		}
	},
}
