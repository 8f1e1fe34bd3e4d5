package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ygrebnov/dispatch/internal/bench"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dispatchbench",
		Short:        "Exercise background job dispatch policies against a simulated owner",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate a burst of edits and print what the dispatcher did",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading %s: %w", configFile, err)
				}
			}

			cfg, err := bench.Load(v)
			if err != nil {
				return err
			}

			logger, err := bench.NewLogger(cfg.LogFormat, false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := bench.Run(ctx, cfg, logger)
			if err != nil {
				return err
			}
			bench.Print(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "YAML, JSON or TOML file with run settings")
	registerFlags(cmd.Flags(), bench.NewConfig())

	v.SetEnvPrefix("DISPATCHBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	cobra.CheckErr(v.BindPFlags(cmd.Flags()))

	return cmd
}

func registerFlags(fs *pflag.FlagSet, def bench.Config) {
	fs.String("policy", def.Policy, "dispatch policy flags: keep-old, queued, delay, delay-invalidation")
	fs.Int("edits", def.Edits, "number of simulated edits")
	fs.Duration("interval", def.Interval, "pause between edits")
	fs.Int("jobs", def.Jobs, "jobs dispatched per edit")
	fs.Duration("job-duration", def.JobDuration, "time one job takes")
	fs.Int("workers", def.Workers, "executor workers (0 starts a goroutine per job)")
	fs.Duration("delay", def.Delay, "quiet period for the delay policy")
	fs.Int("fail-every", def.FailEvery, "make every n-th edit fail (0 disables)")
	fs.String("log-format", def.LogFormat, "log format: dev or json")
}
