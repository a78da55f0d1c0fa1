package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joss/agentconf/internal/domain"
)

// EncodeSettings serializes a settings document with stable key order
// and a trailing newline so on-disk diffs stay minimal.
func EncodeSettings(s *domain.Settings) ([]byte, error) {
	cp := s.Clone()
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeSettings parses a settings document. Empty input decodes to the
// default empty document; invalid JSON returns ErrMalformed.
func DecodeSettings(data []byte) (*domain.Settings, error) {
	if strings.TrimSpace(string(data)) == "" {
		return domain.NewSettings(), nil
	}
	var s domain.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	s.EnsureShape()
	return &s, nil
}
