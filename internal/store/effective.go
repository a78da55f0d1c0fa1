package store

import (
	"context"

	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/scope"
)

// GetEffectiveSettings computes the read-only merge of global and
// project settings: permission buckets are the exact-string union with
// global entries first, hook matcher groups concatenate global then
// project (no cross-scope de-duplication, a matcher present in both
// scopes fires in both), and project servers
// override global servers with the same id. The result is never written
// back as a document.
func (s *Store) GetEffectiveSettings(ctx context.Context) (*domain.Settings, error) {
	global, err := s.GetSettings(ctx, scope.Global)
	if err != nil {
		return nil, err
	}
	project, err := s.GetSettings(ctx, scope.Project)
	if err != nil {
		return nil, err
	}

	out := global.Clone()
	proj := project.Clone()

	out.Permissions.Allow = unionPatterns(out.Permissions.Allow, proj.Permissions.Allow)
	out.Permissions.Deny = unionPatterns(out.Permissions.Deny, proj.Permissions.Deny)
	out.Permissions.Ask = unionPatterns(out.Permissions.Ask, proj.Permissions.Ask)

	out.Hooks.Pre = append(out.Hooks.Pre, proj.Hooks.Pre...)
	out.Hooks.Post = append(out.Hooks.Post, proj.Hooks.Post...)

	for id, srv := range proj.ExternalServers {
		out.ExternalServers[id] = srv
	}
	return out, nil
}

func unionPatterns(global, project []string) []string {
	seen := make(map[string]struct{}, len(global)+len(project))
	out := make([]string, 0, len(global)+len(project))
	for _, p := range global {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	for _, p := range project {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
