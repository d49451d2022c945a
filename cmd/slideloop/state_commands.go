package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"slideloop/internal/kvstore"
	"slideloop/internal/session"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or edit saved session state",
	}
	stateCmd.AddCommand(
		newStateShowCommand(ctx),
		newStateGetCommand(ctx),
		newStateSetCommand(ctx),
		newStateRemoveCommand(ctx),
		newStateClearCommand(ctx),
	)
	return stateCmd
}

// withStore opens the configured store for one command and warns on stderr
// when it had to fall back to memory.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(kvstore.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store := kvstore.Open(cmd.Context(), cfg, c.utilityLogger())
	defer store.Close()
	if store.Degraded() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s backend unavailable; changes will not persist\n", cfg.Storage.Backend)
	}
	return fn(store)
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved playback progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store kvstore.Store) error {
				st := session.New(store).Load()
				section := "-"
				if st.Saved {
					section = fmt.Sprintf("%d (%s)", st.LastSection, st.LastSectionName)
				}
				runID := st.LastRunID
				if runID == "" {
					runID = "-"
				}
				rows := [][]string{
					{"Last section", section},
					{"Full passes", strconv.Itoa(st.Cycles)},
					{"Last run", runID},
					{"Resumable", yesNo(st.Saved)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newStateGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store kvstore.Store) error {
				value, ok := store.GetItem(args[0])
				if !ok {
					return fmt.Errorf("key %q not found", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

func newStateSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store kvstore.Store) error {
				store.SetItem(args[0], args[1])
				fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
				return nil
			})
		},
	}
}

func newStateRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm KEY",
		Aliases: []string{"remove"},
		Short:   "Remove a stored value",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store kvstore.Store) error {
				store.RemoveItem(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newStateClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(store kvstore.Store) error {
				store.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared session state")
				return nil
			})
		},
	}
}
