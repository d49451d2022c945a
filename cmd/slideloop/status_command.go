package main

import (
	"fmt"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"slideloop/internal/kvstore"
	"slideloop/internal/preflight"
	"slideloop/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show player, storage and catalog health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lock := flock.New(cfg.LockPath())
			locked, lockErr := lock.TryLock()
			switch {
			case lockErr != nil:
				fmt.Fprintln(out, renderStatusLine("Player", statusWarn, lockErr.Error(), colorize))
			case locked:
				_ = lock.Unlock()
				fmt.Fprintln(out, renderStatusLine("Player", statusInfo, "not running", colorize))
			default:
				fmt.Fprintln(out, renderStatusLine("Player", statusOK, "running", colorize))
			}

			failures := 0
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				if !result.Passed {
					failures++
				}
				fmt.Fprintln(out, renderPreflightLine(result, colorize))
			}

			store := kvstore.Open(cmd.Context(), cfg, ctx.utilityLogger())
			st := session.New(store).Load()
			_ = store.Close()
			fmt.Fprintln(out, renderSessionLine(st, colorize))

			if failures > 0 {
				return fmt.Errorf("%d preflight checks failed", failures)
			}
			return nil
		},
	}
}
