package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/agentconf/internal/domain"
)

func hookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Manage lifecycle hooks",
	}

	cmd.AddCommand(hookListCmd(), hookAddCmd(), hookRemoveCmd())
	return cmd
}

func hookListCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hooks for both phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []domain.Hook
			for _, phase := range domain.Phases {
				hooks, err := st.ListHooks(cmd.Context(), targetScope(), phase)
				if err != nil {
					return err
				}
				for _, h := range hooks {
					if tool != "" && !h.AppliesTo(tool) {
						continue
					}
					all = append(all, h)
				}
			}
			fmt.Print(out.Hooks(all))
			return nil
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "only show hooks whose matcher covers this tool name")
	return cmd
}

func hookAddCmd() *cobra.Command {
	var (
		phase     string
		timeoutMs int
	)

	cmd := &cobra.Command{
		Use:   "add <matcher> <command>",
		Short: "Add a hook action to a matcher group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var timeout *int
			if cmd.Flags().Changed("timeout") {
				timeout = &timeoutMs
			}
			hook, err := st.AddHook(cmd.Context(), targetScope(), domain.Phase(phase), args[0], args[1], timeout)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s hook %s for matcher %q\n", hook.Phase, hook.ID, hook.Matcher)
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", string(domain.PhasePost), "lifecycle phase (pre or post)")
	cmd.Flags().IntVar(&timeoutMs, "timeout", 0, "action timeout in milliseconds")
	return cmd
}

func hookRemoveCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "remove <hook-id>",
		Short: "Remove a hook action by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.DeleteHook(cmd.Context(), targetScope(), domain.Phase(phase), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed hook %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", string(domain.PhasePost), "lifecycle phase (pre or post)")
	return cmd
}
