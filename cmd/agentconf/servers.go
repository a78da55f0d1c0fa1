package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/agentconf/internal/domain"
)

func serverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"servers"},
		Short:   "Manage external tool servers",
	}

	cmd.AddCommand(serverListCmd(), serverAddCmd(), serverRemoveCmd())
	return cmd
}

func serverListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured external servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			servers, err := st.ListExternalServers(cmd.Context(), targetScope())
			if err != nil {
				return err
			}
			fmt.Print(out.Servers(servers))
			return nil
		},
	}
}

func serverAddCmd() *cobra.Command {
	var (
		serverArgs []string
		envPairs   []string
		autoStart  bool
		timeoutMs  int
	)

	cmd := &cobra.Command{
		Use:   "add <id> <command>",
		Short: "Register an external server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := parseEnvPairs(envPairs)
			if err != nil {
				return err
			}
			cfg := domain.ServerConfig{
				Command:   args[1],
				Args:      serverArgs,
				Env:       env,
				AutoStart: autoStart,
				TimeoutMs: timeoutMs,
			}
			if cfg.Args == nil {
				cfg.Args = []string{}
			}
			if err := st.AddExternalServer(cmd.Context(), targetScope(), args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("Registered server %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&serverArgs, "arg", nil, "command argument (repeatable, order preserved)")
	cmd.Flags().StringArrayVar(&envPairs, "env", nil, "environment variable KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&autoStart, "auto-start", false, "start the server with the agent")
	cmd.Flags().IntVar(&timeoutMs, "timeout", 0, "startup timeout in milliseconds")
	return cmd
}

func serverRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an external server (no-op when absent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.RemoveExternalServer(cmd.Context(), targetScope(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed server %q\n", args[0])
			return nil
		},
	}
}
