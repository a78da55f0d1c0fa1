package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/agentconf/internal/domain"
)

func permissionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "permission",
		Aliases: []string{"permissions", "perm"},
		Short:   "Manage permission rules",
		Long: `Manage the three permission buckets: allow, deny and ask.

Patterns are stored verbatim in insertion order. The same pattern may
appear in more than one bucket; the agent decides precedence.`,
	}

	cmd.AddCommand(permissionListCmd(), permissionAddCmd(), permissionRemoveCmd())
	return cmd
}

func permissionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List permission rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := st.GetSettings(cmd.Context(), targetScope())
			if err != nil {
				return err
			}
			fmt.Print(out.Permissions(settings.Permissions))
			return nil
		},
	}
}

func permissionAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <bucket> <pattern>",
		Short: "Add a rule to a bucket (idempotent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket := domain.Bucket(args[0])
			if err := st.AddPermissionRule(cmd.Context(), targetScope(), bucket, args[1]); err != nil {
				return err
			}
			fmt.Printf("Added %s rule %q\n", bucket, args[1])
			return nil
		},
	}
}

func permissionRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <bucket> <pattern>",
		Short: "Remove a rule from a bucket (no-op when absent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket := domain.Bucket(args[0])
			if err := st.RemovePermissionRule(cmd.Context(), targetScope(), bucket, args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed %s rule %q\n", bucket, args[1])
			return nil
		},
	}
}
