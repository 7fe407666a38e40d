// Package main provides the CLI entrypoint for gocompare.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sartorproj/gocompare/config"
	"github.com/sartorproj/gocompare/logger"
)

const defaultLogEnv = logger.SilentEnvironment

type rootOptions struct {
	configPath string
	logEnv     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gocompare",
		Short:         "Bland-Altman agreement statistics for paired measurements",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigPath(), "path to the TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logEnv, "log", defaultLogEnv, "log environment: development, production or silent")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newCoefficientCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// loadConfig reads the config file and sets up logging. A log environment
// given on the command line wins over the file.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}

	logEnv := o.logEnv
	applyStringConfig(cmd, "log", &logEnv, fileCfg.Log.Environment)
	if err := logger.Setup(logEnv); err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to set up logging: %w", err)
	}

	return fileCfg, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
