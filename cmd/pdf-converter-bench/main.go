package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spherical/pdf-converter/internal/bench"
)

const (
	version = "0.1.0"
)

var (
	binaryPath   string
	runs         int
	inputFolder  string
	outputFolder string
	maxWorkers   int
	sampleSize   int
	seed         int64
	jsonOutput   bool
	showOutput   bool
	showVersion  bool
)

func init() {
	flag.StringVar(&binaryPath, "bin", "pdf-converter", "Path to the pdf-converter binary")
	flag.IntVar(&runs, "runs", 10, "Number of end-to-end invocations")
	flag.IntVar(&runs, "r", 10, "Number of end-to-end invocations (shorthand)")
	flag.StringVar(&inputFolder, "input-folder", "", "Input folder passed through to the converter (required)")
	flag.StringVar(&inputFolder, "i", "", "Input folder (shorthand)")
	flag.StringVar(&outputFolder, "output-folder", "", "Output folder passed through to the converter")
	flag.StringVar(&outputFolder, "o", "", "Output folder (shorthand)")
	flag.IntVar(&maxWorkers, "max-workers", 1, "Worker count passed through to the converter")
	flag.IntVar(&maxWorkers, "n", 1, "Worker count (shorthand)")
	flag.IntVar(&sampleSize, "sample", 0, "Sample size passed through to the converter (0 keeps its default)")
	flag.Int64Var(&seed, "seed", 0, "Selection seed passed through to the converter (0 keeps runs unseeded)")
	flag.BoolVar(&jsonOutput, "json", false, "Emit the timing distribution as JSON")
	flag.BoolVar(&showOutput, "show-output", false, "Stream the converter's own output instead of discarding it")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = usage
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("pdf-converter-bench version %s\n", version)
		os.Exit(0)
	}

	if inputFolder == "" {
		fmt.Fprintf(os.Stderr, "Error: input folder required\n\n")
		usage()
		os.Exit(1)
	}

	// Load environment variables
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	// Set up signal handling so an interrupt stops cleanly between runs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, stopping...")
		cancel()
	}()

	args := []string{"convert", "--input-folder", inputFolder, "--max-workers", strconv.Itoa(maxWorkers)}
	if outputFolder != "" {
		args = append(args, "--output-folder", outputFolder)
	}
	if sampleSize > 0 {
		args = append(args, "--sample", strconv.Itoa(sampleSize))
	}
	if seed != 0 {
		args = append(args, "--seed", strconv.FormatInt(seed, 10))
	}

	runner := &bench.Runner{
		Binary: binaryPath,
		Args:   args,
		Runs:   runs,
	}
	if showOutput {
		runner.Stdout = os.Stdout
		runner.Stderr = os.Stderr
	}
	if !jsonOutput {
		fmt.Printf("Benchmarking: %s %s\n", binaryPath, strings.Join(args, " "))
		fmt.Println(strings.Repeat("=", 60))
		runner.OnRun = func(inv bench.Invocation) {
			marker := "✓"
			if inv.ExitCode != 0 {
				marker = "✗"
			}
			fmt.Printf("%s Run %d/%d: %v (exit %d)\n", marker, inv.Run, runs, inv.Duration.Round(time.Millisecond), inv.ExitCode)
		}
	}

	invocations, runErr := runner.Execute(ctx)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Benchmark aborted: %v\n", runErr)
		if len(invocations) == 0 {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Summarizing the %d completed runs\n", len(invocations))
	}

	summary, err := bench.Summarize(invocations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		report := struct {
			Target      string             `json:"target"`
			Args        []string           `json:"args"`
			Summary     *bench.Summary     `json:"summary"`
			Invocations []bench.Invocation `json:"invocations"`
		}{
			Target:      binaryPath,
			Args:        args,
			Summary:     summary,
			Invocations: invocations,
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to encode report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		printSummary(summary)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func printSummary(s *bench.Summary) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Runs: %d (%d succeeded, %d failed)\n", s.Runs, s.Succeeded, s.Failed)
	fmt.Printf("Min: %.1f ms\n", s.MinMS)
	fmt.Printf("Max: %.1f ms\n", s.MaxMS)
	fmt.Printf("Mean: %.1f ms\n", s.MeanMS)
	fmt.Printf("Median: %.1f ms\n", s.MedianMS)
	fmt.Printf("Std dev: %.1f ms\n", s.StdDevMS)
	fmt.Printf("p25: %.1f ms  p75: %.1f ms  p95: %.1f ms\n", s.P25MS, s.P75MS, s.P95MS)
}

func usage() {
	fmt.Fprintf(os.Stderr, `pdf-converter-bench - black-box timing loop for the pdf-converter CLI

Repeatedly invokes the converter end to end, recording wall-clock
duration and exit code per run, then reports the latency distribution.
A failing converter run is recorded as a data point, not a harness
error.

Usage:
  pdf-converter-bench [options]

Options:
  --bin <path>               Path to the pdf-converter binary (default: pdf-converter)
  -r, --runs <n>             Number of end-to-end invocations (default: 10)
  -i, --input-folder <dir>   Input folder passed through to the converter (required)
  -o, --output-folder <dir>  Output folder passed through to the converter
  -n, --max-workers <n>      Worker count passed through to the converter (default: 1)
  --sample <n>               Sample size passed through to the converter
  --seed <n>                 Selection seed passed through to the converter
  --json                     Emit the timing distribution as JSON
  --show-output              Stream the converter's own output
  -v, --version              Show version information

Examples:
  pdf-converter-bench -i docs -r 20
  pdf-converter-bench -i docs -n 4 --seed 7 --json > bench.json

`)
}
