// Package scope resolves the two configuration roots (project and
// global) and the persisted locations under them.
package scope

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joss/agentconf/internal/config"
)

// Scope selects one of the two configuration roots.
type Scope string

const (
	// Project is the configuration root inside the active project.
	Project Scope = "project"
	// Global is the user-level configuration root.
	Global Scope = "global"
)

// Valid reports whether s names a known scope.
func (s Scope) Valid() bool {
	return s == Project || s == Global
}

// ErrNoProject is returned when a project-scoped operation runs without
// an active project root bound.
var ErrNoProject = errors.New("no active project")

const (
	rootDirName   = ".agentconf"
	configDirName = "config"
)

// Resolver maps scopes to concrete roots. It is the explicit context
// object handed to whoever constructs store consumers; Rebind replaces
// the project root when the active project changes.
type Resolver struct {
	mu          sync.RWMutex
	projectRoot string // empty when no project is active
	globalRoot  string
}

// NewResolver binds the project configuration root under projectDir.
// An empty projectDir means no active project; project-scoped lookups
// then fail with ErrNoProject instead of silently using the global root.
// The global root is AGENTCONF_HOME when set, else ~/.agentconf.
func NewResolver(projectDir string) *Resolver {
	globalRoot := config.Get().Home
	if globalRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		globalRoot = filepath.Join(home, rootDirName)
	}
	r := &Resolver{globalRoot: globalRoot}
	r.Rebind(projectDir)
	return r
}

// Rebind replaces the active project root.
func (r *Resolver) Rebind(projectDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if projectDir == "" {
		r.projectRoot = ""
		return
	}
	r.projectRoot = filepath.Join(projectDir, rootDirName)
}

// SetGlobalRoot overrides the user-level root. Intended for tests and
// hosts that relocate the global tree.
func (r *Resolver) SetGlobalRoot(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globalRoot = dir
}

// Root resolves a scope to its configuration root. An empty scope
// defaults to the project scope.
func (r *Resolver) Root(s Scope) (string, error) {
	if s == "" {
		s = Project
	}
	if !s.Valid() {
		return "", fmt.Errorf("unknown scope %q", s)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s == Global {
		return r.globalRoot, nil
	}
	if r.projectRoot == "" {
		return "", ErrNoProject
	}
	return r.projectRoot, nil
}

// HasProject reports whether a project root is bound.
func (r *Resolver) HasProject() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.projectRoot != ""
}

// SettingsPath is the settings document location under a root.
func SettingsPath(root string) string {
	return filepath.Join(root, configDirName, "settings.json")
}

// CommandsDir holds one file per command.
func CommandsDir(root string) string {
	return filepath.Join(root, configDirName, "commands")
}

// CommandPath is the file location of a named command.
func CommandPath(root, name string) string {
	return filepath.Join(CommandsDir(root), name+".md")
}

// SkillsDir holds one sub-directory per skill.
func SkillsDir(root string) string {
	return filepath.Join(root, configDirName, "skills")
}

// SkillDir is the container directory of a named skill.
func SkillDir(root, name string) string {
	return filepath.Join(SkillsDir(root), name)
}

// SkillPath is the definition file inside a skill's container.
func SkillPath(root, name string) string {
	return filepath.Join(SkillDir(root, name), "SKILL.md")
}

// AgentsDir holds one file per agent.
func AgentsDir(root string) string {
	return filepath.Join(root, configDirName, "agents")
}

// AgentPath is the file location of a named agent.
func AgentPath(root, name string) string {
	return filepath.Join(AgentsDir(root), name+".md")
}

// InstructionsPath is the freeform project instructions file.
func InstructionsPath(root string) string {
	return filepath.Join(root, "INSTRUCTIONS.md")
}
