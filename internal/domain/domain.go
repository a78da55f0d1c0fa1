// Package domain defines the configuration model shared by the store,
// codecs and CLI: settings, hook matcher groups, permission buckets,
// external server descriptors and named artifacts.
package domain

// Phase identifies when a hook fires relative to the agent action.
type Phase string

const (
	PhasePre  Phase = "pre"
	PhasePost Phase = "post"
)

// Phases lists all lifecycle phases in their canonical order.
var Phases = []Phase{PhasePre, PhasePost}

// Valid reports whether p is a known lifecycle phase.
func (p Phase) Valid() bool {
	return p == PhasePre || p == PhasePost
}

// Kind identifies an artifact family.
type Kind string

const (
	KindCommand Kind = "command"
	KindSkill   Kind = "skill"
	KindAgent   Kind = "agent"
)

// Kinds lists all artifact kinds.
var Kinds = []Kind{KindCommand, KindSkill, KindAgent}

// Valid reports whether k is a known artifact kind.
func (k Kind) Valid() bool {
	return k == KindCommand || k == KindSkill || k == KindAgent
}

// Model selects which model tier an artifact runs on.
type Model string

const (
	ModelInherit Model = "inherit"
	ModelHaiku   Model = "haiku"
	ModelSonnet  Model = "sonnet"
	ModelOpus    Model = "opus"
)

// Valid reports whether m is a known model tier.
func (m Model) Valid() bool {
	switch m {
	case ModelInherit, ModelHaiku, ModelSonnet, ModelOpus:
		return true
	}
	return false
}

// Bucket names a permission rule set.
type Bucket string

const (
	BucketAllow Bucket = "allow"
	BucketDeny  Bucket = "deny"
	BucketAsk   Bucket = "ask"
)

// Buckets lists all permission buckets.
var Buckets = []Bucket{BucketAllow, BucketDeny, BucketAsk}

// Valid reports whether b is a known permission bucket.
func (b Bucket) Valid() bool {
	return b == BucketAllow || b == BucketDeny || b == BucketAsk
}

// HookAction is a single command run when its group's matcher fires.
type HookAction struct {
	Command   string `json:"command"`
	TimeoutMs *int   `json:"timeoutMs,omitempty"`
}

// MatcherGroup is the storage unit for hooks: one pattern and the ordered
// actions that run when it matches. At most one group exists per distinct
// matcher within a phase.
type MatcherGroup struct {
	Matcher string       `json:"matcher"`
	Actions []HookAction `json:"actions"`
}

// Hook is the flattened read view of one action inside a matcher group.
// It is materialized on read and never stored; ID is the derived
// phase+matcher+command identity.
type Hook struct {
	ID        string `json:"id"`
	Phase     Phase  `json:"phase"`
	Matcher   string `json:"matcher"`
	Command   string `json:"command"`
	TimeoutMs *int   `json:"timeoutMs,omitempty"`
}

// ServerConfig describes an external tool-integration server. The server
// id is the key in Settings.ExternalServers, not a field here.
type ServerConfig struct {
	Command   string            `json:"command"`
	Args      []string          `json:"args"`
	Env       map[string]string `json:"env,omitempty"`
	AutoStart bool              `json:"autoStart,omitempty"`
	TimeoutMs int               `json:"timeoutMs,omitempty"`
}

// Permissions holds the three pattern buckets. Buckets preserve insertion
// order; a pattern may appear in more than one bucket, conflict resolution
// between them is the caller's concern.
type Permissions struct {
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
	Ask   []string `json:"ask"`
}

// Rules returns the slice for a bucket. The returned pointer aliases the
// receiver so callers can mutate in place.
func (p *Permissions) Rules(b Bucket) *[]string {
	switch b {
	case BucketAllow:
		return &p.Allow
	case BucketDeny:
		return &p.Deny
	case BucketAsk:
		return &p.Ask
	}
	return nil
}

// Hooks holds the matcher groups per lifecycle phase.
type Hooks struct {
	Pre  []MatcherGroup `json:"pre"`
	Post []MatcherGroup `json:"post"`
}

// Artifact is the closed tagged variant over the three artifact kinds.
// Kind decides which fields are meaningful: ArgumentHint belongs to
// commands only, Tools and Model to skills and agents only. Location is
// the resolved storage path, set by the store on read and create.
type Artifact struct {
	Kind         Kind     `json:"kind"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ArgumentHint string   `json:"argumentHint,omitempty"`
	Tools        []string `json:"tools,omitempty"`
	Model        Model    `json:"model,omitempty"`
	Content      string   `json:"content"`
	Location     string   `json:"location,omitempty"`
}

// Clone returns a deep copy.
func (a Artifact) Clone() Artifact {
	out := a
	if a.Tools != nil {
		out.Tools = append([]string(nil), a.Tools...)
	}
	return out
}
