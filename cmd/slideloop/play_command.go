package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"slideloop/internal/logging"
	"slideloop/internal/player"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var opts player.Options

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the slideshow in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			opts.Out = cmd.OutOrStdout()
			host, err := player.New(cfg, logger, opts)
			if err != nil {
				return err
			}
			summary, err := host.Run(cmd.Context())
			if err != nil {
				if errors.Is(err, player.ErrAlreadyRunning) {
					return fmt.Errorf("%w (lock %s)", err, cfg.LockPath())
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s stopped at %s (section %d, %d full passes)\n",
				summary.RunID, summary.Final.Section, summary.Final.Index, summary.Final.Cycles)
			if summary.Degraded {
				fmt.Fprintf(out, "Session state was kept in memory only (%s backend unavailable)\n", cfg.Storage.Backend)
			}
			if summary.TracePath != "" {
				fmt.Fprintf(out, "Trace: %s (%d frames, %d violations)\n", summary.TracePath, summary.Frames, len(summary.Violations))
			}
			if len(summary.Violations) > 0 {
				return fmt.Errorf("%d frames exposed the clear layer early", len(summary.Violations))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "Stop after this long (0 plays until interrupted)")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "Continue from the section shown when the last run stopped")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Record committed frames to a parquet trace")
	return cmd
}
