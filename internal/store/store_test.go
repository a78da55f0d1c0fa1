package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/notify"
	"github.com/joss/agentconf/internal/scope"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	r := scope.NewResolver(t.TempDir())
	r.SetGlobalRoot(t.TempDir())
	return New(r)
}

func TestGetSettings_Uninitialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.NotNil(t, settings.Hooks.Pre)
	assert.NotNil(t, settings.Hooks.Post)
	assert.NotNil(t, settings.Permissions.Allow)
	assert.NotNil(t, settings.ExternalServers)
}

func TestGetSettings_MalformedDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root, err := s.Scopes().Root(scope.Project)
	require.NoError(t, err)
	path := scope.SettingsPath(root)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, settings.Hooks.Post)
	assert.Empty(t, settings.Permissions.Allow)
}

func TestGetSettings_NoProject(t *testing.T) {
	s := New(scope.NewResolver(""))
	_, err := s.GetSettings(context.Background(), scope.Project)
	assert.ErrorIs(t, err, scope.ErrNoProject)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	settings := domain.NewSettings()
	settings.Permissions.Deny = []string{"Bash(rm:*)"}
	settings.ExternalServers["search"] = domain.ServerConfig{
		Command: "search-server",
		Args:    []string{"--port", "7777"},
		Env:     map[string]string{"TOKEN": "x"},
	}
	require.NoError(t, s.SaveSettings(ctx, scope.Project, settings))

	got, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestAddHook_NoDuplicateMatcherGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "lint --fix $FILE", nil)
	require.NoError(t, err)
	_, err = s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "typecheck $FILE", nil)
	require.NoError(t, err)

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	require.Len(t, settings.Hooks.Post, 1)
	group := settings.Hooks.Post[0]
	assert.Equal(t, "Edit", group.Matcher)
	require.Len(t, group.Actions, 2)
	assert.Equal(t, "lint --fix $FILE", group.Actions[0].Command)
	assert.Equal(t, "typecheck $FILE", group.Actions[1].Command)
}

func TestAddHook_DistinctMatchers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, matcher := range []string{"Edit", "Write", "Edit"} {
		_, err := s.AddHook(ctx, scope.Project, domain.PhasePre, matcher, "check", nil)
		require.NoError(t, err)
	}

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	require.Len(t, settings.Hooks.Pre, 2)
	assert.Equal(t, "Edit", settings.Hooks.Pre[0].Matcher)
	assert.Equal(t, "Write", settings.Hooks.Pre[1].Matcher)
	assert.Len(t, settings.Hooks.Pre[0].Actions, 2)
}

func TestDeleteHook_RemovesEmptyGroup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hook, err := s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "lint", nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteHook(ctx, scope.Project, domain.PhasePost, hook.ID))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, settings.Hooks.Post)
}

func TestDeleteHook_UnknownIdentityIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var events int
	defer s.Subscribe(func(notify.Event) { events++ })()

	require.NoError(t, s.DeleteHook(ctx, scope.Project, domain.PhasePost, "deadbeefdeadbeef"))
	assert.Zero(t, events)
}

func TestListHooks_FlattensGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	timeout := 5000
	_, err := s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "lint", &timeout)
	require.NoError(t, err)
	_, err = s.AddHook(ctx, scope.Project, domain.PhasePost, "Write", "fmt", nil)
	require.NoError(t, err)

	hooks, err := s.ListHooks(ctx, scope.Project, domain.PhasePost)
	require.NoError(t, err)
	require.Len(t, hooks, 2)
	assert.Equal(t, "Edit", hooks[0].Matcher)
	require.NotNil(t, hooks[0].TimeoutMs)
	assert.Equal(t, 5000, *hooks[0].TimeoutMs)
	assert.NotEqual(t, hooks[0].ID, hooks[1].ID)
}

func TestCreateArtifact_NormalizesAndConflicts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindCommand,
		Name:        "Foo",
		Description: "first",
		Content:     "do the thing",
	})
	require.NoError(t, err)
	assert.Equal(t, "foo", created.Name)

	_, err = s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindCommand,
		Name:        "foo",
		Description: "second",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "foo", conflict.Name)
	assert.Equal(t, domain.KindCommand, conflict.Kind)
}

func TestCreateArtifact_RejectsUnusableNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events := 0
	defer s.Subscribe(func(notify.Event) { events++ })()

	for _, name := range []string{"", "!!!", "---", "¡¿"} {
		_, err := s.CreateArtifact(ctx, scope.Project, domain.Artifact{
			Kind:    domain.KindCommand,
			Name:    name,
			Content: "body",
		})
		assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}

	_, err := s.UpdateArtifact(ctx, scope.Project, domain.Artifact{
		Kind: domain.KindCommand,
		Name: "***",
	})
	assert.ErrorIs(t, err, ErrInvalidName)

	assert.Zero(t, events)
}

func TestCreateArtifact_UnknownKind(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateArtifact(context.Background(), scope.Project, domain.Artifact{
		Kind: domain.Kind("plugin"),
		Name: "x",
	})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSkillLifecycle_CaseInsensitiveLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindSkill,
		Name:        "API Docs",
		Description: "desc",
		Content:     "content",
		Model:       domain.ModelInherit,
	})
	require.NoError(t, err)
	assert.Equal(t, "api-docs", created.Name)

	list, err := s.ListArtifacts(ctx, scope.Project, domain.KindSkill)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "api-docs", list[0].Name)
	assert.Equal(t, "desc", list[0].Description)
	assert.Equal(t, "content", list[0].Content)

	// Original casing resolves to the same normalized name.
	require.NoError(t, s.DeleteArtifact(ctx, scope.Project, domain.KindSkill, "API Docs"))

	list, err = s.ListArtifacts(ctx, scope.Project, domain.KindSkill)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListArtifacts_SkipsMalformedEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindAgent,
		Name:        "reviewer",
		Description: "reviews changes",
		Model:       domain.ModelInherit,
	})
	require.NoError(t, err)

	root, err := s.Scopes().Root(scope.Project)
	require.NoError(t, err)
	bad := scope.AgentPath(root, "broken")
	require.NoError(t, os.WriteFile(bad, []byte("no header here"), 0o644))

	list, err := s.ListArtifacts(ctx, scope.Project, domain.KindAgent)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "reviewer", list[0].Name)
}

func TestListArtifacts_AbsentContainer(t *testing.T) {
	s := newTestStore(t)
	list, err := s.ListArtifacts(context.Background(), scope.Project, domain.KindCommand)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteArtifact_IdempotentOnAbsence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var events int
	defer s.Subscribe(func(notify.Event) { events++ })()

	require.NoError(t, s.DeleteArtifact(ctx, scope.Project, domain.KindAgent, "ghost"))
	assert.Zero(t, events)
}

func TestUpdateArtifact_RequiresExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateArtifact(ctx, scope.Project, domain.Artifact{
		Kind: domain.KindCommand,
		Name: "missing",
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindCommand,
		Name:        "deploy",
		Description: "old",
	})
	require.NoError(t, err)

	updated, err := s.UpdateArtifact(ctx, scope.Project, domain.Artifact{
		Kind:        domain.KindCommand,
		Name:        "deploy",
		Description: "new",
		Content:     "run the deploy",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)

	got, err := s.GetArtifact(ctx, scope.Project, domain.KindCommand, "deploy")
	require.NoError(t, err)
	assert.Equal(t, "run the deploy", got.Content)
}

func TestAddPermissionRule_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "Bash(git:*)"))
	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "Bash(git:*)"))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bash(git:*)"}, settings.Permissions.Allow)
}

func TestRemovePermissionRule_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"A", "B", "C"} {
		require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAsk, p))
	}
	require.NoError(t, s.RemovePermissionRule(ctx, scope.Project, domain.BucketAsk, "B"))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, settings.Permissions.Ask)
}

func TestSetPermissions_ReplacesAllBuckets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "Old(*)"))
	require.NoError(t, s.SetPermissions(ctx, scope.Project, domain.Permissions{
		Deny: []string{"Bash(rm*)"},
	}))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, settings.Permissions.Allow)
	assert.Equal(t, []string{"Bash(rm*)"}, settings.Permissions.Deny)
	// Unset buckets come back as empty slices, not nil.
	assert.NotNil(t, settings.Permissions.Ask)
}

func TestExternalServers_AddRemove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cfg := domain.ServerConfig{Command: "docs-server", Args: []string{}, AutoStart: true}
	require.NoError(t, s.AddExternalServer(ctx, scope.Project, "docs", cfg))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, cfg, settings.ExternalServers["docs"])

	servers, err := s.ListExternalServers(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ServerConfig{"docs": cfg}, servers)

	require.NoError(t, s.RemoveExternalServer(ctx, scope.Project, "docs"))
	require.NoError(t, s.RemoveExternalServer(ctx, scope.Project, "docs")) // absent: no-op

	settings, err = s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, settings.ExternalServers)
}

func TestEffectiveSettings_Layering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPermissionRule(ctx, scope.Global, domain.BucketAllow, "A"))
	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "B"))
	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "A")) // dupe across scopes

	require.NoError(t, s.AddExternalServer(ctx, scope.Global, "x", domain.ServerConfig{Command: "global-cmd", Args: []string{}}))
	require.NoError(t, s.AddExternalServer(ctx, scope.Project, "x", domain.ServerConfig{Command: "project-cmd", Args: []string{}}))

	_, err := s.AddHook(ctx, scope.Global, domain.PhasePost, "Edit", "global-lint", nil)
	require.NoError(t, err)
	_, err = s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "project-lint", nil)
	require.NoError(t, err)

	eff, err := s.GetEffectiveSettings(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, eff.Permissions.Allow)
	assert.Equal(t, "project-cmd", eff.ExternalServers["x"].Command)

	// Matcher groups concatenate, global first, no cross-scope merge.
	require.Len(t, eff.Hooks.Post, 2)
	assert.Equal(t, "global-lint", eff.Hooks.Post[0].Actions[0].Command)
	assert.Equal(t, "project-lint", eff.Hooks.Post[1].Actions[0].Command)
}

func TestEffectiveSettings_NotPersisted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPermissionRule(ctx, scope.Global, domain.BucketAllow, "A"))

	_, err := s.GetEffectiveSettings(ctx)
	require.NoError(t, err)

	project, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, project.Permissions.Allow)
}

func TestNotifications_OnePerMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var events []notify.Event
	cancel := s.Subscribe(func(e notify.Event) { events = append(events, e) })
	defer cancel()

	_, err := s.AddHook(ctx, scope.Project, domain.PhasePost, "Edit", "lint", nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, notify.SettingsChanged, events[0].Type)
	require.NotNil(t, events[0].Settings)
	assert.Len(t, events[0].Settings.Hooks.Post, 1)

	_, err = s.CreateArtifact(ctx, scope.Project, domain.Artifact{
		Kind: domain.KindCommand,
		Name: "ship",
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, notify.ArtifactCreated, events[1].Type)
	assert.Equal(t, "ship", events[1].Name)

	// Bulk application raises one event per mutation, no coalescing.
	for i := 0; i < 10; i++ {
		require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, string(rune('a'+i))))
	}
	assert.Len(t, events, 12)

	cancel()
	_, err = s.AddHook(ctx, scope.Project, domain.PhasePre, "Write", "fmt", nil)
	require.NoError(t, err)
	assert.Len(t, events, 12)
}

func TestInstructions_RoundTripAndAbsence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	text, err := s.GetInstructions(ctx, scope.Project)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, s.SaveInstructions(ctx, scope.Project, "Always run tests.\n"))

	text, err = s.GetInstructions(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, "Always run tests.\n", text)
}

func TestExternalEdit_VisibleOnNextRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPermissionRule(ctx, scope.Project, domain.BucketAllow, "A"))

	// Hand-edit the document between calls; the store keeps no cache.
	root, err := s.Scopes().Root(scope.Project)
	require.NoError(t, err)
	path := scope.SettingsPath(root)
	require.NoError(t, os.WriteFile(path, []byte(`{"permissions":{"allow":["B"]}}`), 0o644))

	settings, err := s.GetSettings(ctx, scope.Project)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, settings.Permissions.Allow)
}
