package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"slideloop/internal/trace"
)

func newTraceCommand() *cobra.Command {
	traceCmd := &cobra.Command{
		Use:         "trace",
		Short:       "Work with recorded frame traces",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	traceCmd.AddCommand(newTraceVerifyCommand())
	return traceCmd
}

func newTraceVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Check a parquet trace for frames that exposed the clear layer early",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := trace.ReadParquet(args[0])
			if err != nil {
				return err
			}
			violations := trace.Verify(records)

			runs := map[string]struct{}{}
			sections := map[string]struct{}{}
			for _, rec := range records {
				runs[rec.RunID] = struct{}{}
				sections[rec.Section] = struct{}{}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Frames: %d  Runs: %d  Sections: %d\n", len(records), len(runs), len(sections))
			if len(violations) == 0 {
				fmt.Fprintln(out, "No flashes detected")
				return nil
			}

			fmt.Fprintln(out, renderViolationTable(violations))
			return fmt.Errorf("%d flash violations in %s", len(violations), args[0])
		},
	}
}
