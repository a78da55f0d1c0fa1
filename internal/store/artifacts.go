package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joss/agentconf/internal/codec"
	"github.com/joss/agentconf/internal/domain"
	"github.com/joss/agentconf/internal/ident"
	"github.com/joss/agentconf/internal/notify"
	"github.com/joss/agentconf/internal/scope"
)

// validName requires the normalized form to keep at least one letter or
// digit; otherwise the name would map to an empty or all-hyphen path.
func validName(normalized string) bool {
	return strings.Trim(normalized, "-") != ""
}

// artifactPath resolves the backing location of a normalized name.
func artifactPath(kind domain.Kind, root, name string) string {
	switch kind {
	case domain.KindCommand:
		return scope.CommandPath(root, name)
	case domain.KindSkill:
		return scope.SkillPath(root, name)
	default:
		return scope.AgentPath(root, name)
	}
}

// ListArtifacts enumerates persisted artifacts of a kind by scanning the
// backing container. Entries that fail to decode are skipped; an absent
// container and an empty one both yield an empty list.
func (s *Store) ListArtifacts(ctx context.Context, sc scope.Scope, kind domain.Kind) ([]domain.Artifact, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	root, err := s.scopes.Root(sc)
	if err != nil {
		return nil, err
	}

	var dir string
	switch kind {
	case domain.KindCommand:
		dir = scope.CommandsDir(root)
	case domain.KindSkill:
		dir = scope.SkillsDir(root)
	default:
		dir = scope.AgentsDir(root)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Artifact{}, nil
		}
		return nil, fmt.Errorf("scan %s container: %w", kind, err)
	}

	out := []domain.Artifact{}
	for _, entry := range entries {
		var path string
		if kind == domain.KindSkill {
			if !entry.IsDir() {
				continue
			}
			path = scope.SkillPath(root, entry.Name())
		} else {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
				continue
			}
			path = filepath.Join(dir, entry.Name())
		}
		a, err := s.readArtifact(kind, path)
		if err != nil {
			s.logger.WithScope(string(sc)).Warn("artifact_skipped", map[string]any{
				"kind": string(kind),
				"path": path,
			}, err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// GetArtifact resolves one artifact by normalized name.
func (s *Store) GetArtifact(ctx context.Context, sc scope.Scope, kind domain.Kind, name string) (domain.Artifact, error) {
	if !kind.Valid() {
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	root, err := s.scopes.Root(sc)
	if err != nil {
		return domain.Artifact{}, err
	}
	normalized := ident.Normalize(name)
	a, err := s.readArtifact(kind, artifactPath(kind, root, normalized))
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, codec.ErrMalformed) {
			return domain.Artifact{}, &NotFoundError{Kind: kind, Name: normalized, Scope: sc}
		}
		return domain.Artifact{}, err
	}
	return a, nil
}

// CreateArtifact normalizes the name, rejects conflicts with an existing
// artifact of the same kind and normalized name, creates the backing
// container for nested kinds, writes the encoded document and raises one
// change notification.
func (s *Store) CreateArtifact(ctx context.Context, sc scope.Scope, a domain.Artifact) (domain.Artifact, error) {
	if !a.Kind.Valid() {
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	root, err := s.scopes.Root(sc)
	if err != nil {
		return domain.Artifact{}, err
	}

	out := a.Clone()
	out.Name = ident.Normalize(a.Name)
	if !validName(out.Name) {
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrInvalidName, a.Name)
	}
	path := artifactPath(out.Kind, root, out.Name)
	if _, err := os.Stat(path); err == nil {
		return domain.Artifact{}, &ConflictError{Kind: out.Kind, Name: out.Name, Scope: sc}
	} else if !os.IsNotExist(err) {
		return domain.Artifact{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := s.writeArtifact(path, out); err != nil {
		return domain.Artifact{}, err
	}
	out.Location = path

	s.broker.Publish(notify.Event{
		Type:  notify.ArtifactCreated,
		Scope: sc,
		Kind:  out.Kind,
		Name:  out.Name,
	})
	return out, nil
}

// UpdateArtifact rewrites an existing artifact. The normalized name must
// already exist in the scope.
func (s *Store) UpdateArtifact(ctx context.Context, sc scope.Scope, a domain.Artifact) (domain.Artifact, error) {
	if !a.Kind.Valid() {
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	root, err := s.scopes.Root(sc)
	if err != nil {
		return domain.Artifact{}, err
	}

	out := a.Clone()
	out.Name = ident.Normalize(a.Name)
	if !validName(out.Name) {
		return domain.Artifact{}, fmt.Errorf("%w: %q", ErrInvalidName, a.Name)
	}
	path := artifactPath(out.Kind, root, out.Name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return domain.Artifact{}, &NotFoundError{Kind: out.Kind, Name: out.Name, Scope: sc}
		}
		return domain.Artifact{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if err := s.writeArtifact(path, out); err != nil {
		return domain.Artifact{}, err
	}
	out.Location = path

	s.broker.Publish(notify.Event{
		Type:  notify.ArtifactUpdated,
		Scope: sc,
		Kind:  out.Kind,
		Name:  out.Name,
	})
	return out, nil
}

// DeleteArtifact removes the backing file, or the whole container for
// nested kinds. Deleting an absent name is a no-op and raises no
// notification.
func (s *Store) DeleteArtifact(ctx context.Context, sc scope.Scope, kind domain.Kind, name string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	root, err := s.scopes.Root(sc)
	if err != nil {
		return err
	}

	normalized := ident.Normalize(name)
	target := artifactPath(kind, root, normalized)
	if kind == domain.KindSkill {
		target = scope.SkillDir(root, normalized)
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("delete %s %q: %w", kind, normalized, err)
	}

	s.broker.Publish(notify.Event{
		Type:  notify.ArtifactDeleted,
		Scope: sc,
		Kind:  kind,
		Name:  normalized,
	})
	return nil
}

func (s *Store) readArtifact(kind domain.Kind, path string) (domain.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Artifact{}, err
	}
	return codec.DecodeArtifact(kind, string(data), path)
}

func (s *Store) writeArtifact(path string, a domain.Artifact) error {
	text, err := codec.EncodeArtifact(a)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s %q: %w", a.Kind, a.Name, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s %q: %w", a.Kind, a.Name, err)
	}
	return nil
}
