package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joss/agentconf/internal/scope"
)

// targetScope maps the --global flag to a concrete scope.
func targetScope() scope.Scope {
	if useGlobal {
		return scope.Global
	}
	return scope.Project
}

// readContent resolves artifact content from --file, --content or stdin
// ("-" as file path), in that order of preference.
func readContent(file, inline string) (string, error) {
	switch {
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read content file: %w", err)
		}
		return string(data), nil
	default:
		return inline, nil
	}
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var outList []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			outList = append(outList, v)
		}
	}
	return outList
}

// parseEnvPairs parses repeated KEY=VALUE flags into a map.
func parseEnvPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid env pair %q, want KEY=VALUE", p)
		}
		env[k] = v
	}
	return env, nil
}
