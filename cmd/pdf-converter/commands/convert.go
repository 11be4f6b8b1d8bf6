package commands

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/spherical/pdf-converter/cmd/pdf-converter/ui"
	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/observability"
	"github.com/spherical/pdf-converter/internal/output"
	"github.com/spherical/pdf-converter/internal/pdf"
	"github.com/spherical/pdf-converter/internal/pipeline"
)

var (
	convertInputDir  string
	convertOutputDir string
	convertWorkers   int
	convertSample    int
	convertSeed      int64
	convertTimeout   time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a random sample of PDF files to markdown",
	Long: `Convert scans the input folder for PDF files, randomly selects a sample,
converts each document to markdown in parallel, and writes all batch
artifacts to the output folder. Per-document failures are recorded in the
processing report; the command only fails on input, output, or
configuration errors.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertInputDir, "input-folder", "i", "", "Path to the folder containing PDF files (required)")
	convertCmd.Flags().StringVarP(&convertOutputDir, "output-folder", "o", "markdown_output", "Path to the folder where markdown files will be saved")
	convertCmd.Flags().IntVarP(&convertWorkers, "max-workers", "n", 1, "Maximum number of parallel conversion workers")
	convertCmd.Flags().IntVar(&convertSample, "sample", 5, "Number of PDF files to randomly select")
	convertCmd.Flags().Int64Var(&convertSeed, "seed", 0, "Random seed for document selection (0 seeds from the clock)")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 0, "Per-document conversion timeout (0 disables it)")
	_ = convertCmd.MarkFlagRequired("input-folder")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "pdf-converter",
	})

	ui.InitUI(noColor, verbose)
	defer ui.Close()

	ui.Section("PDF to Markdown Converter")
	ui.Info("Docs folder: %s", convertInputDir)
	ui.Info("Output folder: %s", cfg.Output.Dir)
	ui.Info("Max workers: %d", cfg.Conversion.Workers)
	ui.Newline()

	svc := pipeline.NewService(cfg, pdf.NewConverter(), logger)

	spin := ui.NewSpinner("Scanning input folder...")
	spin.Start()

	var bar *ui.ProgressBar
	var done int64
	svc.OnSelect(func(docs []domain.Document, discovered int) {
		spin.Stop()
		ui.Info("Found %d PDF files, selected %d for processing:", discovered, len(docs))
		for i, doc := range docs {
			ui.Message("  %d. %s (%s)", i+1, doc.Name, ui.FormatBytes(doc.Size))
		}
		ui.Newline()
		if !ui.Verbose() {
			bar = ui.NewProgressBar(int64(len(docs)), "Converting")
		}
	})
	svc.OnResult(func(res domain.DocumentResult) {
		if bar != nil {
			done++
			bar.Set(done)
			return
		}
		if res.Outcome.Succeeded() {
			ui.Success("Successfully converted: %s", res.Document.Name)
		} else {
			ui.Warning("Failed to convert: %s (%s)", res.Document.Name, res.Outcome.ErrorKind)
		}
	})

	report, err := svc.Run(cmd.Context(), convertInputDir)
	if err != nil {
		spin.Stop()
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	printSummary(report)
	return nil
}

// applyFlags overlays explicitly set command-line flags on the loaded
// configuration. Flags the user did not touch leave the config alone.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-folder") {
		cfg.Output.Dir = convertOutputDir
	}
	if flags.Changed("max-workers") {
		cfg.Conversion.Workers = convertWorkers
	}
	if flags.Changed("sample") {
		cfg.Selection.SampleSize = convertSample
	}
	if flags.Changed("seed") {
		cfg.Selection.Seed = convertSeed
	}
	if flags.Changed("timeout") {
		cfg.Conversion.Timeout = convertTimeout
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

func printSummary(report *domain.BatchReport) {
	ui.Section("Processing Summary")
	ui.Table([]string{"Metric", "Value"}, [][]string{
		{"Total PDFs found", strconv.Itoa(report.Discovered)},
		{"Selected", strconv.Itoa(report.Attempted)},
		{"Successfully converted", strconv.Itoa(report.Succeeded)},
		{"Failed conversions", strconv.Itoa(report.Failed)},
		{"Output folder", report.OutputDir},
		{"Worker threads used", strconv.Itoa(report.Workers)},
		{"Duration", ui.FormatDuration(time.Duration(report.DurationMS) * time.Millisecond)},
	})

	if report.Failed > 0 {
		ui.Newline()
		ui.Warning("Failed conversions:")
		for _, rec := range report.Documents {
			if rec.Status == domain.StatusFailed {
				ui.Message("  - %s (%s): %s", rec.Name, rec.ErrorKind, rec.Error)
			}
		}
	}

	ui.Newline()
	ui.Success("Detailed results saved to: %s", filepath.Join(report.OutputDir, output.ReportFileName))
}
