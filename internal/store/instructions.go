package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joss/agentconf/internal/notify"
	"github.com/joss/agentconf/internal/scope"
)

// GetInstructions reads the freeform instructions file for a scope. An
// absent file reads as empty.
func (s *Store) GetInstructions(ctx context.Context, sc scope.Scope) (string, error) {
	root, err := s.scopes.Root(sc)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(scope.InstructionsPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read instructions: %w", err)
	}
	return string(data), nil
}

// SaveInstructions replaces the instructions file and raises one change
// notification.
func (s *Store) SaveInstructions(ctx context.Context, sc scope.Scope, text string) error {
	root, err := s.scopes.Root(sc)
	if err != nil {
		return err
	}
	path := scope.InstructionsPath(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write instructions: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write instructions: %w", err)
	}
	s.broker.Publish(notify.Event{
		Type:  notify.InstructionsChanged,
		Scope: sc,
	})
	return nil
}
