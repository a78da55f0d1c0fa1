package domain

import "github.com/joss/agentconf/internal/ident"

// Settings is the root configuration document for one scope.
type Settings struct {
	Hooks           Hooks                   `json:"hooks"`
	Permissions     Permissions             `json:"permissions"`
	ExternalServers map[string]ServerConfig `json:"externalServers"`
}

// NewSettings returns an empty but fully shaped document: every
// collection is non-nil so serialization emits a stable shape.
func NewSettings() *Settings {
	s := &Settings{}
	s.EnsureShape()
	return s
}

// EnsureShape replaces nil collections with empty ones. Decoded documents
// pass through this so absent fields behave as empty, never as null.
func (s *Settings) EnsureShape() {
	if s.Hooks.Pre == nil {
		s.Hooks.Pre = []MatcherGroup{}
	}
	if s.Hooks.Post == nil {
		s.Hooks.Post = []MatcherGroup{}
	}
	if s.Permissions.Allow == nil {
		s.Permissions.Allow = []string{}
	}
	if s.Permissions.Deny == nil {
		s.Permissions.Deny = []string{}
	}
	if s.Permissions.Ask == nil {
		s.Permissions.Ask = []string{}
	}
	if s.ExternalServers == nil {
		s.ExternalServers = map[string]ServerConfig{}
	}
}

// Clone returns a deep copy. The store hands out clones so no caller
// holds a reference the store also mutates.
func (s *Settings) Clone() *Settings {
	out := NewSettings()
	out.Hooks.Pre = cloneGroups(s.Hooks.Pre)
	out.Hooks.Post = cloneGroups(s.Hooks.Post)
	out.Permissions.Allow = append([]string{}, s.Permissions.Allow...)
	out.Permissions.Deny = append([]string{}, s.Permissions.Deny...)
	out.Permissions.Ask = append([]string{}, s.Permissions.Ask...)
	for id, srv := range s.ExternalServers {
		out.ExternalServers[id] = cloneServer(srv)
	}
	return out
}

func cloneGroups(groups []MatcherGroup) []MatcherGroup {
	out := make([]MatcherGroup, 0, len(groups))
	for _, g := range groups {
		cp := g
		cp.Actions = make([]HookAction, 0, len(g.Actions))
		for _, a := range g.Actions {
			ac := a
			if a.TimeoutMs != nil {
				t := *a.TimeoutMs
				ac.TimeoutMs = &t
			}
			cp.Actions = append(cp.Actions, ac)
		}
		out = append(out, cp)
	}
	return out
}

func cloneServer(srv ServerConfig) ServerConfig {
	cp := srv
	cp.Args = append([]string{}, srv.Args...)
	if srv.Env != nil {
		cp.Env = make(map[string]string, len(srv.Env))
		for k, v := range srv.Env {
			cp.Env[k] = v
		}
	}
	return cp
}

// GroupsFor returns the matcher groups of a phase. The slice aliases the
// receiver; use SetGroups to replace it.
func (s *Settings) GroupsFor(phase Phase) []MatcherGroup {
	if phase == PhasePre {
		return s.Hooks.Pre
	}
	return s.Hooks.Post
}

// SetGroups replaces the matcher groups of a phase.
func (s *Settings) SetGroups(phase Phase, groups []MatcherGroup) {
	if phase == PhasePre {
		s.Hooks.Pre = groups
		return
	}
	s.Hooks.Post = groups
}

// FlattenHooks materializes the flat hook view for a phase, one entry
// per action, in group order then action order.
func (s *Settings) FlattenHooks(phase Phase) []Hook {
	var out []Hook
	for _, g := range s.GroupsFor(phase) {
		for _, a := range g.Actions {
			out = append(out, Hook{
				ID:        ident.HookID(string(phase), g.Matcher, a.Command),
				Phase:     phase,
				Matcher:   g.Matcher,
				Command:   a.Command,
				TimeoutMs: a.TimeoutMs,
			})
		}
	}
	return out
}
