package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gocompare/carkeet"
)

type coefficientOptions struct {
	n             int
	gamma         float64
	loa           float64
	maxIterations int
	tolerance     float64
}

func newCoefficientCmd(root *rootOptions) *cobra.Command {
	defaults := carkeet.DefaultConfig()
	opts := &coefficientOptions{}

	cmd := &cobra.Command{
		Use:   "coefficient",
		Short: "Solve a single exact paired coefficient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCoefficientCmd(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 0, "number of pairs")
	cmd.Flags().Float64Var(&opts.gamma, "gamma", 0, "target probability in (0, 1)")
	cmd.Flags().Float64Var(&opts.loa, "loa", 1.96, "limit of agreement multiplier")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", defaults.MaxIterations, "maximum search steps per phase")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", defaults.Tolerance, "target |estimate - gamma|")
	_ = cmd.MarkFlagRequired("n")
	_ = cmd.MarkFlagRequired("gamma")

	return cmd
}

func runCoefficientCmd(cmd *cobra.Command, root *rootOptions, opts *coefficientOptions) error {
	fileCfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	applyFloatConfig(cmd, "loa", &opts.loa, fileCfg.Analysis.LimitOfAgreement)
	applyIntConfig(cmd, "max-iterations", &opts.maxIterations, fileCfg.Estimator.MaxIterations)
	applyFloatConfig(cmd, "tolerance", &opts.tolerance, fileCfg.Estimator.Tolerance)

	est := carkeet.New(&carkeet.Config{
		MaxIterations: opts.maxIterations,
		Tolerance:     opts.tolerance,
	})

	res, err := est.Solve(cmd.Context(), opts.n, opts.gamma, opts.loa)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "K = %.10g (estimate %.10g after %d iterations)\n",
		res.Coefficient, res.GammaEstimate, res.Iterations)
	return nil
}
