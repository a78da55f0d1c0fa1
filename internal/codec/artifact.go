// Package codec implements the textual encodings of configuration
// artifacts: the delimited-header document used by commands, skills and
// agents, and the settings JSON document. All functions are pure.
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joss/agentconf/internal/domain"
)

// ErrMalformed is returned when a document cannot be decoded: the header
// block is missing, has no closing delimiter, or is not valid YAML.
// Decoding never panics past this sentinel.
var ErrMalformed = errors.New("malformed artifact document")

const delimiter = "---"

type commandHeader struct {
	Description  string `yaml:"description"`
	ArgumentHint string `yaml:"argument-hint,omitempty"`
}

type profileHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tools       string `yaml:"tools,omitempty"`
	Model       string `yaml:"model,omitempty"`
}

// EncodeArtifact renders an artifact as a delimited metadata header, a
// blank line, and the content verbatim. A model of "inherit" is the
// default and its key is omitted entirely.
func EncodeArtifact(a domain.Artifact) (string, error) {
	var header any
	switch a.Kind {
	case domain.KindCommand:
		header = commandHeader{
			Description:  a.Description,
			ArgumentHint: a.ArgumentHint,
		}
	case domain.KindSkill, domain.KindAgent:
		h := profileHeader{
			Name:        a.Name,
			Description: a.Description,
			Tools:       strings.Join(a.Tools, ", "),
		}
		if a.Model != "" && a.Model != domain.ModelInherit {
			h.Model = string(a.Model)
		}
		header = h
	default:
		return "", fmt.Errorf("encode artifact: unknown kind %q", a.Kind)
	}

	meta, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("encode artifact header: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(meta)
	b.WriteString(delimiter + "\n\n")
	b.WriteString(a.Content)
	return b.String(), nil
}

// DecodeArtifact parses a delimited-header document into an artifact of
// the given kind. Name resolution differs per kind: commands always take
// the source file stem, agents prefer the header name over the stem, and
// skills prefer the header name over their containing directory's name.
// Unknown header keys are dropped; a missing description decodes empty.
func DecodeArtifact(kind domain.Kind, text, sourcePath string) (domain.Artifact, error) {
	if !kind.Valid() {
		return domain.Artifact{}, fmt.Errorf("decode artifact: unknown kind %q", kind)
	}
	meta, rest, err := splitDocument(text)
	if err != nil {
		return domain.Artifact{}, err
	}

	a := domain.Artifact{
		Kind:     kind,
		Content:  splitBody(rest),
		Location: sourcePath,
	}

	switch kind {
	case domain.KindCommand:
		var h commandHeader
		if err := yaml.Unmarshal([]byte(meta), &h); err != nil {
			return domain.Artifact{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		// Commands are named after their file, header or not.
		a.Name = fileStem(sourcePath)
		a.Description = h.Description
		a.ArgumentHint = h.ArgumentHint
	default:
		var h profileHeader
		if err := yaml.Unmarshal([]byte(meta), &h); err != nil {
			return domain.Artifact{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		a.Name = h.Name
		if a.Name == "" {
			if kind == domain.KindSkill {
				a.Name = filepath.Base(filepath.Dir(sourcePath))
			} else {
				a.Name = fileStem(sourcePath)
			}
		}
		a.Description = h.Description
		a.Tools = splitTools(h.Tools)
		a.Model = domain.ModelInherit
		if m := domain.Model(h.Model); h.Model != "" && m.Valid() {
			a.Model = m
		}
	}

	return a, nil
}

// splitDocument separates the header block from the body. Only a line
// that is exactly the delimiter opens or closes the header, so header
// values containing "---" pass through intact.
func splitDocument(text string) (header, rest string, err error) {
	first, after, ok := strings.Cut(text, "\n")
	if !ok || first != delimiter {
		return "", "", fmt.Errorf("%w: missing header block", ErrMalformed)
	}
	offset := 0
	for {
		line := after[offset:]
		nl := strings.IndexByte(line, '\n')
		if nl < 0 {
			if line == delimiter {
				return after[:offset], "", nil
			}
			return "", "", fmt.Errorf("%w: unterminated header block", ErrMalformed)
		}
		if line[:nl] == delimiter {
			return after[:offset], after[offset+nl+1:], nil
		}
		offset += nl + 1
	}
}

// splitBody strips the blank separator line, leaving the content
// verbatim.
func splitBody(rest string) string {
	return strings.TrimPrefix(rest, "\n")
}

func splitTools(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
