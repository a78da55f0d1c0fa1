// Package config provides centralized environment configuration.
package config

import (
	"os"
	"sync"
)

// Env holds the agentconf environment variables.
type Env struct {
	// Home overrides the global configuration root (AGENTCONF_HOME)
	Home string

	// ProjectDir overrides project discovery (AGENTCONF_PROJECT_DIR)
	ProjectDir string

	// NoColor disables colored output (NO_COLOR, any non-empty value)
	NoColor bool
}

var (
	env     *Env
	envOnce sync.Once
)

// Get returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Get() *Env {
	envOnce.Do(func() {
		env = &Env{
			Home:       os.Getenv("AGENTCONF_HOME"),
			ProjectDir: os.Getenv("AGENTCONF_PROJECT_DIR"),
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	})
	return env
}

// Reset clears the cached environment (for testing).
func Reset() {
	envOnce = sync.Once{}
	env = nil
}
