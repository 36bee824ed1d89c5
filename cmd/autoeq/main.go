// Command autoeq fits a parametric-EQ filter cascade to a measured
// frequency response, following the same load -> bounds -> optimize ->
// report shape as the reference implementation's main.rs.
//
// Usage:
//
//	autoeq --curve response.csv [flags]
package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cwbudde/autoeq/config"
	"github.com/cwbudde/autoeq/workflow"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "YAML configuration file (optional, overrides defaults)")
		curvePath  = pflag.StringP("curve", "i", "", "input curve CSV path (columns: freq,spl)")
		numFilters = pflag.IntP("filters", "n", 0, "number of PEQ filters (0 = use config default)")
		algo       = pflag.String("algo", "", "algorithm id, e.g. autoeq:de, nlopt:isres, mh:de")
		seed       = pflag.Uint64("seed", 0, "DE RNG seed (0 = nondeterministic)")
		smoothN    = pflag.Int("smooth-n", 0, "1/N-octave smooth the input curve before fitting (0 = disabled)")
		verbose    = pflag.BoolP("verbose", "v", false, "enable debug logging")
		help       = pflag.BoolP("help", "h", false, "show usage")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: autoeq --curve response.csv [flags]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		return
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *curvePath == "" {
		logger.Error("missing required flag", "flag", "--curve")
		pflag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("failed to load config", "path", *configPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *numFilters > 0 {
		cfg.NumFilters = *numFilters
	}
	if *algo != "" {
		cfg.Algo = *algo
	}
	if *seed != 0 {
		s := *seed
		cfg.Seed = &s
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	curve, err := readCurveCSV(*curvePath)
	if err != nil {
		logger.Error("failed to read input curve", "path", *curvePath, "err", err)
		os.Exit(1)
	}
	logger.Info("loaded input curve", "path", *curvePath, "points", len(curve.Freq))

	grid := workflow.CanonicalFrequencyGrid(cfg, 200)
	curve = workflow.ResampleCurve(curve, grid)
	if *smoothN > 0 {
		curve.SPL = workflow.SmoothOneOverNOctave(curve.Freq, curve.SPL, *smoothN)
	}
	deviation := workflow.BuildTargetCurve(curve, cfg.MaxDB)
	data, err := workflow.SetupObjectiveData(cfg, curve, deviation)
	if err != nil {
		logger.Error("failed to set up objective data", "err", err)
		os.Exit(1)
	}

	logger.Info("starting optimization", "algo", cfg.Algo, "filters", cfg.NumFilters, "population", cfg.Population)

	x, err := workflow.PerformOptimization(cfg, data)
	if err != nil {
		logger.Error("optimization failed", "err", err)
		os.Exit(1)
	}

	printFilters(cfg.NumFilters, x)
}

// readCurveCSV parses a two-column (freq,spl) CSV with an optional header
// row (any row whose first field doesn't parse as a float is skipped).
func readCurveCSV(path string) (workflow.InputCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return workflow.InputCurve{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return workflow.InputCurve{}, err
	}

	var curve workflow.InputCurve
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		freq, err1 := strconv.ParseFloat(row[0], 64)
		spl, err2 := strconv.ParseFloat(row[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		curve.Freq = append(curve.Freq, freq)
		curve.SPL = append(curve.SPL, spl)
	}

	if len(curve.Freq) == 0 {
		return curve, fmt.Errorf("no valid (freq,spl) rows found in %s", path)
	}
	return curve, nil
}

func printFilters(n int, x []float64) {
	fmt.Printf("%-4s %-10s %-6s %-6s\n", "#", "Freq(Hz)", "Q", "Gain(dB)")
	for i := 0; i < n; i++ {
		freq := math.Pow(10, x[i*3])
		q := x[i*3+1]
		gain := x[i*3+2]
		fmt.Printf("%-4d %-10.1f %-6.3f %-6.2f\n", i, freq, q, gain)
	}
}
