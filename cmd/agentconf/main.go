// Package main provides the agentconf CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joss/agentconf/internal/config"
	"github.com/joss/agentconf/internal/render"
	"github.com/joss/agentconf/internal/scope"
	"github.com/joss/agentconf/internal/store"
)

var (
	version   = "0.1.0"
	st        *store.Store
	out       *render.Renderer
	useGlobal bool
	pretty    = true
)

func main() {
	var projectDir string

	rootCmd := &cobra.Command{
		Use:   "agentconf",
		Short: "Manage AI agent project configuration",
		Long: `agentconf manages the configuration tree that controls an AI coding
agent inside a project: lifecycle hooks, permission rules, external
servers, slash commands, skills, agents and project instructions.

Configuration lives in two scopes: the project scope under
<project>/.agentconf and the global scope under ~/.agentconf. Commands
target the project scope by default; pass --global to target the
user-level scope instead.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env := config.Get()
			dir := projectDir
			if dir == "" {
				dir = env.ProjectDir
			}
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolve working directory: %w", err)
				}
				dir = cwd
			}
			if env.NoColor {
				pretty = false
			}
			st = store.New(scope.NewResolver(dir))
			out = render.New(pretty)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&useGlobal, "global", "g", false, "target the global (user-level) scope")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "colorized output")

	rootCmd.AddCommand(
		settingsCmd(),
		hookCmd(),
		artifactCmd("command", "Manage slash commands"),
		artifactCmd("skill", "Manage skills"),
		artifactCmd("agent", "Manage sub-agents"),
		serverCmd(),
		permissionCmd(),
		instructionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
