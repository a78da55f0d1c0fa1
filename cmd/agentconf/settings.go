package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect settings documents",
	}

	cmd.AddCommand(settingsShowCmd(), settingsEffectiveCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the settings of one scope",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := st.GetSettings(cmd.Context(), targetScope())
			if err != nil {
				return err
			}
			fmt.Print(out.Settings(settings))
			return nil
		},
	}
}

func settingsEffectiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "effective",
		Short: "Show the merged view of global and project settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := st.GetEffectiveSettings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(out.Settings(settings))
			return nil
		},
	}
}
