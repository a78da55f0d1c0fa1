package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func instructionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructions",
		Short: "Manage the freeform project instructions file",
	}

	cmd.AddCommand(instructionsShowCmd(), instructionsSetCmd())
	return cmd
}

func instructionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the instructions file",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := st.GetInstructions(cmd.Context(), targetScope())
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
}

func instructionsSetCmd() *cobra.Command {
	var contentFile string

	cmd := &cobra.Command{
		Use:   "set [text]",
		Short: "Replace the instructions file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inline := ""
			if len(args) == 1 {
				inline = args[0]
			}
			text, err := readContent(contentFile, inline)
			if err != nil {
				return err
			}
			if err := st.SaveInstructions(cmd.Context(), targetScope(), text); err != nil {
				return err
			}
			fmt.Println("Instructions updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&contentFile, "file", "f", "", "read instructions from file (- for stdin)")
	return cmd
}
