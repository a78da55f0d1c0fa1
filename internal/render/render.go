// Package render provides terminal output formatting for configuration
// state.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/joss/agentconf/internal/domain"
	istrings "github.com/joss/agentconf/internal/strings"
)

// Renderer handles output formatting.
type Renderer struct {
	pretty bool
}

// New creates a new renderer. When pretty is false the output is plain
// text suitable for piping.
func New(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

func (r *Renderer) header(sb *strings.Builder, title string) {
	if r.pretty {
		sb.WriteString(color.CyanString(title) + "\n")
		sb.WriteString(strings.Repeat("─", 60) + "\n")
		return
	}
	sb.WriteString(title + "\n")
}

// Settings formats a whole settings document.
func (r *Renderer) Settings(s *domain.Settings) string {
	var sb strings.Builder

	r.header(&sb, "Hooks")
	for _, phase := range domain.Phases {
		for _, h := range s.FlattenHooks(phase) {
			r.hookLine(&sb, h)
		}
	}

	sb.WriteString("\n")
	r.header(&sb, "Permissions")
	sb.WriteString(r.Permissions(s.Permissions))

	sb.WriteString("\n")
	r.header(&sb, "External servers")
	sb.WriteString(r.Servers(s.ExternalServers))

	return sb.String()
}

// Hooks formats a flattened hook list.
func (r *Renderer) Hooks(hooks []domain.Hook) string {
	if len(hooks) == 0 {
		return "No hooks configured\n"
	}
	var sb strings.Builder
	for _, h := range hooks {
		r.hookLine(&sb, h)
	}
	return sb.String()
}

func (r *Renderer) hookLine(sb *strings.Builder, h domain.Hook) {
	timeout := ""
	if h.TimeoutMs != nil {
		timeout = fmt.Sprintf(" (%dms)", *h.TimeoutMs)
	}
	if r.pretty {
		fmt.Fprintf(sb, "%s %s %s → %s%s\n",
			color.HiBlackString(h.ID),
			h.Phase,
			color.YellowString(h.Matcher),
			h.Command,
			timeout,
		)
		return
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s%s\n", h.ID, h.Phase, h.Matcher, h.Command, timeout)
}

// Permissions formats the three buckets in their canonical order.
func (r *Renderer) Permissions(p domain.Permissions) string {
	var sb strings.Builder
	for _, bucket := range domain.Buckets {
		rules := *p.Rules(bucket)
		if len(rules) == 0 {
			continue
		}
		label := string(bucket)
		if r.pretty {
			switch bucket {
			case domain.BucketAllow:
				label = color.GreenString(label)
			case domain.BucketDeny:
				label = color.RedString(label)
			default:
				label = color.YellowString(label)
			}
		}
		for _, rule := range rules {
			fmt.Fprintf(&sb, "%s\t%s\n", label, rule)
		}
	}
	if sb.Len() == 0 {
		return "No permission rules\n"
	}
	return sb.String()
}

// Servers formats the external server map in id order.
func (r *Renderer) Servers(servers map[string]domain.ServerConfig) string {
	if len(servers) == 0 {
		return "No external servers\n"
	}
	ids := make([]string, 0, len(servers))
	for id := range servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		srv := servers[id]
		name := id
		if r.pretty {
			name = color.CyanString(id)
		}
		auto := ""
		if srv.AutoStart {
			auto = " [auto]"
		}
		cmdline := strings.TrimSpace(srv.Command + " " + strings.Join(srv.Args, " "))
		fmt.Fprintf(&sb, "%s\t%s%s\n", name, istrings.Truncate(cmdline, 80), auto)
	}
	return sb.String()
}

// Artifacts formats an artifact list.
func (r *Renderer) Artifacts(list []domain.Artifact) string {
	if len(list) == 0 {
		return "None found\n"
	}
	var sb strings.Builder
	for _, a := range list {
		name := a.Name
		if r.pretty {
			name = color.CyanString(a.Name)
		}
		desc := istrings.TruncateRunes(istrings.FirstLine(a.Description), 72)
		fmt.Fprintf(&sb, "%s\t%s\n", name, desc)
	}
	return sb.String()
}

// Artifact formats one artifact in full.
func (r *Renderer) Artifact(a domain.Artifact) string {
	var sb strings.Builder
	r.header(&sb, fmt.Sprintf("%s: %s", a.Kind, a.Name))
	fmt.Fprintf(&sb, "description: %s\n", a.Description)
	if a.ArgumentHint != "" {
		fmt.Fprintf(&sb, "argument-hint: %s\n", a.ArgumentHint)
	}
	if len(a.Tools) > 0 {
		fmt.Fprintf(&sb, "tools: %s\n", strings.Join(a.Tools, ", "))
	}
	if a.Model != "" && a.Model != domain.ModelInherit {
		fmt.Fprintf(&sb, "model: %s\n", a.Model)
	}
	if a.Location != "" {
		fmt.Fprintf(&sb, "location: %s\n", a.Location)
	}
	sb.WriteString("\n")
	sb.WriteString(a.Content)
	if !strings.HasSuffix(a.Content, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
