package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sartorproj/gocompare/blandaltman"
	"github.com/sartorproj/gocompare/carkeet"
	"github.com/sartorproj/gocompare/confidence"
	"github.com/sartorproj/gocompare/dispatch"
	"github.com/sartorproj/gocompare/logger"
	"github.com/sartorproj/gocompare/paired"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type analyzeOptions struct {
	first      string
	second     string
	idColumn   string
	id         string
	delimiter  string
	loa        float64
	ci         float64
	ciMethod   string
	detrend    string
	format     string
	sequential bool
	output     string
	pointsDir  string
}

// fileResult is one analysed input file.
type fileResult struct {
	File   string              `json:"file"`
	Result *blandaltman.Result `json:"result"`
}

// output is the JSON document written by analyze.
type output struct {
	Analyses []fileResult `json:"analyses"`
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	defaults := blandaltman.DefaultConfig()
	csvDefaults := paired.DefaultCSVOptions()
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze FILE.csv [FILE.csv...]",
		Short: "Compare two measurement columns of one or more CSV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyzeCmd(cmd, args, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.first, "first", csvDefaults.FirstColumn, "column of the first method")
	cmd.Flags().StringVar(&opts.second, "second", csvDefaults.SecondColumn, "column of the second method")
	cmd.Flags().StringVar(&opts.idColumn, "id-column", "", "column used to select rows with --id")
	cmd.Flags().StringVar(&opts.id, "id", "", "keep only rows whose --id-column equals this value")
	cmd.Flags().StringVar(&opts.delimiter, "delimiter", string(csvDefaults.Delimiter), "field delimiter")
	cmd.Flags().Float64Var(&opts.loa, "loa", defaults.LimitOfAgreement, "limit of agreement multiplier")
	cmd.Flags().Float64Var(&opts.ci, "ci", defaults.ConfidenceInterval, "confidence interval percent, 0 disables")
	cmd.Flags().StringVar(&opts.ciMethod, "ci-method", defaults.ConfidenceIntervalMethod, "\"exact paired\" or \"approximate\"")
	cmd.Flags().StringVar(&opts.detrend, "detrend", "none", "detrending: none, linear or odr")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&opts.sequential, "sequential", false, "solve exact coefficients one at a time")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.pointsDir, "points-dir", "", "write per-pair plot coordinates as CSV into this directory")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string, root *rootOptions, opts *analyzeOptions) error {
	fileCfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFloatConfig(cmd, "loa", &opts.loa, fileCfg.Analysis.LimitOfAgreement)
	applyFloatConfig(cmd, "ci", &opts.ci, fileCfg.Analysis.ConfidenceInterval)
	applyStringConfig(cmd, "ci-method", &opts.ciMethod, fileCfg.Analysis.CIMethod)
	applyStringConfig(cmd, "detrend", &opts.detrend, fileCfg.Analysis.Detrend)
	applyStringConfig(cmd, "format", &opts.format, fileCfg.Analysis.Format)
	applyBoolConfig(cmd, "sequential", &opts.sequential, fileCfg.Analysis.Sequential)
	applyStringConfig(cmd, "first", &opts.first, fileCfg.CSV.First)
	applyStringConfig(cmd, "second", &opts.second, fileCfg.CSV.Second)
	applyStringConfig(cmd, "delimiter", &opts.delimiter, fileCfg.CSV.Delimiter)

	format := strings.ToLower(opts.format)
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	csvOpts, err := opts.csvOptions()
	if err != nil {
		return err
	}

	estimator := carkeet.New(fileCfg.Estimator.Carkeet())
	var d dispatch.Dispatcher = dispatch.New(estimator)
	if opts.sequential {
		d = dispatch.NewSequential(estimator)
	}

	analysisCfg := &blandaltman.Config{
		LimitOfAgreement:         opts.loa,
		ConfidenceInterval:       opts.ci,
		ConfidenceIntervalMethod: opts.ciMethod,
		DetrendMethod:            opts.detrend,
		Dispatcher:               d,
	}

	ctx := cmd.Context()
	results := make([]fileResult, 0, len(args))
	names := make(map[string]bool, len(args))
	for _, path := range args {
		sample, err := paired.LoadCSV(path, csvOpts)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		sample.Name = uniqueName(names, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		res, err := blandaltman.AnalyzeSample(ctx, sample, analysisCfg)
		if err != nil {
			return fmt.Errorf("failed to analyze %s: %w", path, err)
		}
		results = append(results, fileResult{File: path, Result: res})

		if opts.pointsDir != "" {
			if err := writePoints(ctx, opts.pointsDir, res.Sample); err != nil {
				return err
			}
		}
	}

	if opts.output == "" {
		return writeReport(cmd.OutOrStdout(), format, results)
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeReport(f, format, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// uniqueName returns name, or name with a numeric suffix when an earlier
// input already used it.
func uniqueName(used map[string]bool, name string) string {
	candidate := name
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	used[candidate] = true
	return candidate
}

func (o *analyzeOptions) csvOptions() (*paired.CSVOptions, error) {
	csvOpts := paired.DefaultCSVOptions()
	csvOpts.FirstColumn = o.first
	csvOpts.SecondColumn = o.second
	csvOpts.IDColumn = o.idColumn
	csvOpts.IDFilter = o.id

	if utf8.RuneCountInString(o.delimiter) != 1 {
		return nil, fmt.Errorf("delimiter must be a single character, got %q", o.delimiter)
	}
	csvOpts.Delimiter, _ = utf8.DecodeRuneInString(o.delimiter)
	return csvOpts, nil
}

// writePoints saves the analysed pairs with their means and differences so
// they can be plotted by an external tool.
func writePoints(ctx context.Context, dir string, sample *paired.Sample) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create points directory: %w", err)
	}
	path := filepath.Join(dir, sample.Name+"_points.csv")
	if err := paired.SaveCSV(sample, path); err != nil {
		return fmt.Errorf("failed to write points: %w", err)
	}
	logger.Debug(ctx, "wrote plot points", zap.String("path", path))
	return nil
}

func writeReport(w io.Writer, format string, results []fileResult) error {
	if format == formatJSON {
		return writeJSON(w, results)
	}
	for _, r := range results {
		if err := writeText(w, r); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []fileResult) error {
	data, err := json.MarshalIndent(output{Analyses: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeText(w io.Writer, r fileResult) error {
	var buf strings.Builder
	res := r.Result
	fmt.Fprintf(&buf, "\n%s\n%s (n=%d)\n%s\n", strings.Repeat("=", 60), r.File, res.SampleCount, strings.Repeat("=", 60))

	if res.Detrend.Slope != nil {
		fmt.Fprintf(&buf, "   Detrend (%s): slope %.4f ± %.4f\n", res.Detrend.Method, *res.Detrend.Slope, *res.Detrend.SlopeStdErr)
	}

	lo, hi := paired.Range(res.Means)
	fmt.Fprintf(&buf, "   Pair means:        %10.4f to %10.4f\n", lo, hi)
	fmt.Fprintf(&buf, "   Mean difference:   %10.4f\n", res.MeanDiff)
	fmt.Fprintf(&buf, "   SD of differences: %10.4f\n", res.StdDiff)
	fmt.Fprintf(&buf, "   Upper LoA (+%.2f SD): %10.4f\n", res.LimitOfAgreement, res.UpperLimit)
	fmt.Fprintf(&buf, "   Lower LoA (-%.2f SD): %10.4f\n", res.LimitOfAgreement, res.LowerLimit)

	if ci := res.ConfidenceIntervals; ci != nil {
		fmt.Fprintf(&buf, "   %g%% confidence intervals (%s):\n", res.ConfidenceLevel, res.ConfidenceMethod)
		for _, row := range []struct {
			name string
			iv   confidence.Interval
		}{
			{"mean", ci.Mean},
			{"upper LoA", ci.UpperLoA},
			{"lower LoA", ci.LowerLoA},
		} {
			fmt.Fprintf(&buf, "      %-10s %10.4f to %10.4f\n", row.name, row.iv.Low, row.iv.High)
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}
