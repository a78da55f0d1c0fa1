// Package store owns the authoritative configuration tree per scope. It
// exposes CRUD for settings, hooks, external servers, permission rules
// and named artifacts, keeps no cache (every read re-reads disk, so
// external hand-edits are always visible), and raises exactly one change
// notification per successful mutation. Each public method is one
// read-modify-write cycle; concurrent calls against the same scope race
// last-write-wins, which callers accept in exchange for a lock-free
// contract.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joss/agentconf/internal/codec"
	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/ident"
	"github.com/joss/agentconf/internal/logging"
	"github.com/joss/agentconf/internal/notify"
	"github.com/joss/agentconf/internal/scope"
)

// Store is the sole mutable owner of configuration state. Callers
// receive copies on query and must mutate through the API.
type Store struct {
	scopes *scope.Resolver
	broker *notify.Broker
	logger *logging.Logger
}

// New creates a store over the given scope resolver.
func New(scopes *scope.Resolver) *Store {
	return &Store{
		scopes: scopes,
		broker: notify.NewBroker(),
		logger: logging.New("store"),
	}
}

// Scopes returns the resolver so hosts can rebind the project root.
func (s *Store) Scopes() *scope.Resolver {
	return s.scopes
}

// Subscribe registers a change handler. The returned function removes
// the registration; unsubscribing is the subscriber's responsibility.
func (s *Store) Subscribe(fn notify.Handler) func() {
	return s.broker.Subscribe(fn)
}

// GetSettings loads and parses the settings document for a scope. An
// absent or unreadable-as-JSON document yields the default empty
// document, never an error.
func (s *Store) GetSettings(ctx context.Context, sc scope.Scope) (*domain.Settings, error) {
	root, err := s.scopes.Root(sc)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(scope.SettingsPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewSettings(), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	settings, err := codec.DecodeSettings(data)
	if err != nil {
		if errors.Is(err, codec.ErrMalformed) {
			s.logger.WithScope(string(sc)).Warn("settings_malformed", map[string]any{
				"path": scope.SettingsPath(root),
			}, err)
			return domain.NewSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// SaveSettings serializes and persists the whole document, replacing
// whatever was there, then raises one change notification.
func (s *Store) SaveSettings(ctx context.Context, sc scope.Scope, settings *domain.Settings) error {
	root, err := s.scopes.Root(sc)
	if err != nil {
		return err
	}
	data, err := codec.EncodeSettings(settings)
	if err != nil {
		return err
	}
	path := scope.SettingsPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	s.publishSettings(ctx, sc)
	return nil
}

// AddHook appends an action to the matcher group for (phase, matcher),
// creating the group when absent. A matcher never gets a second group
// within a phase. Returns the flattened view of the added hook.
func (s *Store) AddHook(ctx context.Context, sc scope.Scope, phase domain.Phase, matcher, command string, timeoutMs *int) (domain.Hook, error) {
	if !phase.Valid() {
		return domain.Hook{}, fmt.Errorf("unknown hook phase %q", phase)
	}
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return domain.Hook{}, err
	}

	action := domain.HookAction{Command: command, TimeoutMs: timeoutMs}
	groups := settings.GroupsFor(phase)
	found := false
	for i := range groups {
		if groups[i].Matcher == matcher {
			groups[i].Actions = append(groups[i].Actions, action)
			found = true
			break
		}
	}
	if !found {
		groups = append(groups, domain.MatcherGroup{
			Matcher: matcher,
			Actions: []domain.HookAction{action},
		})
	}
	settings.SetGroups(phase, groups)

	if err := s.SaveSettings(ctx, sc, settings); err != nil {
		return domain.Hook{}, err
	}
	return domain.Hook{
		ID:        ident.HookID(string(phase), matcher, command),
		Phase:     phase,
		Matcher:   matcher,
		Command:   command,
		TimeoutMs: timeoutMs,
	}, nil
}

// DeleteHook removes the action matching the derived hook identity,
// dropping its group when the last action goes. Unresolvable identities
// are a no-op: the hook is already gone and no notification is raised.
func (s *Store) DeleteHook(ctx context.Context, sc scope.Scope, phase domain.Phase, hookID string) error {
	if !phase.Valid() {
		return fmt.Errorf("unknown hook phase %q", phase)
	}
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}

	groups := settings.GroupsFor(phase)
	for gi := range groups {
		for ai, action := range groups[gi].Actions {
			id := ident.HookID(string(phase), groups[gi].Matcher, action.Command)
			if id != hookID {
				continue
			}
			groups[gi].Actions = append(groups[gi].Actions[:ai], groups[gi].Actions[ai+1:]...)
			if len(groups[gi].Actions) == 0 {
				groups = append(groups[:gi], groups[gi+1:]...)
			}
			settings.SetGroups(phase, groups)
			return s.SaveSettings(ctx, sc, settings)
		}
	}
	return nil
}

// ListHooks returns the flattened hook view for a phase.
func (s *Store) ListHooks(ctx context.Context, sc scope.Scope, phase domain.Phase) ([]domain.Hook, error) {
	if !phase.Valid() {
		return nil, fmt.Errorf("unknown hook phase %q", phase)
	}
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return nil, err
	}
	return settings.FlattenHooks(phase), nil
}

// AddExternalServer registers or replaces a server config under an id.
func (s *Store) AddExternalServer(ctx context.Context, sc scope.Scope, id string, cfg domain.ServerConfig) error {
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}
	settings.ExternalServers[id] = cfg
	return s.SaveSettings(ctx, sc, settings)
}

// RemoveExternalServer deletes a server by id; absent ids are a no-op.
func (s *Store) RemoveExternalServer(ctx context.Context, sc scope.Scope, id string) error {
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}
	if _, ok := settings.ExternalServers[id]; !ok {
		return nil
	}
	delete(settings.ExternalServers, id)
	return s.SaveSettings(ctx, sc, settings)
}

// ListExternalServers returns the server registry for a scope.
func (s *Store) ListExternalServers(ctx context.Context, sc scope.Scope) (map[string]domain.ServerConfig, error) {
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return nil, err
	}
	return settings.ExternalServers, nil
}

// SetPermissions replaces all three buckets at once.
func (s *Store) SetPermissions(ctx context.Context, sc scope.Scope, perms domain.Permissions) error {
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}
	settings.Permissions = perms
	settings.EnsureShape()
	return s.SaveSettings(ctx, sc, settings)
}

// AddPermissionRule appends a pattern to a bucket. Adding a pattern the
// bucket already holds is a no-op and raises no notification.
func (s *Store) AddPermissionRule(ctx context.Context, sc scope.Scope, bucket domain.Bucket, pattern string) error {
	if !bucket.Valid() {
		return fmt.Errorf("unknown permission bucket %q", bucket)
	}
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}
	rules := settings.Permissions.Rules(bucket)
	for _, got := range *rules {
		if got == pattern {
			return nil
		}
	}
	*rules = append(*rules, pattern)
	return s.SaveSettings(ctx, sc, settings)
}

// RemovePermissionRule drops a pattern from a bucket; absent patterns
// are a no-op.
func (s *Store) RemovePermissionRule(ctx context.Context, sc scope.Scope, bucket domain.Bucket, pattern string) error {
	if !bucket.Valid() {
		return fmt.Errorf("unknown permission bucket %q", bucket)
	}
	settings, err := s.GetSettings(ctx, sc)
	if err != nil {
		return err
	}
	rules := settings.Permissions.Rules(bucket)
	for i, got := range *rules {
		if got == pattern {
			*rules = append((*rules)[:i], (*rules)[i+1:]...)
			return s.SaveSettings(ctx, sc, settings)
		}
	}
	return nil
}

// publishSettings raises the single post-mutation notification with the
// document as freshly loaded from disk.
func (s *Store) publishSettings(ctx context.Context, sc scope.Scope) {
	snapshot, err := s.GetSettings(ctx, sc)
	if err != nil {
		snapshot = domain.NewSettings()
	}
	s.broker.Publish(notify.Event{
		Type:     notify.SettingsChanged,
		Scope:    sc,
		Settings: snapshot,
	})
}
