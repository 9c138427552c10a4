package model

import "time"

// Kind selects the execution path for a command.
type Kind int

const (
	KindRun Kind = iota
	KindExpression
	KindBuiltIn
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindExpression:
		return "expression"
	case KindBuiltIn:
		return "builtin"
	default:
		return "unknown"
	}
}

// KindFromString is the inverse of Kind.String. Unknown names map to KindRun,
// matching the importer's fail-open default.
func KindFromString(s string) Kind {
	switch s {
	case "expression":
		return KindExpression
	case "builtin":
		return KindBuiltIn
	default:
		return KindRun
	}
}

// Command is one launchable catalog entry.
type Command struct {
	ID       string
	Label    string
	Category string
	Kind     Kind

	// Verb is the dispatch key, meaningful only for KindExpression. It is
	// resolved against the verb registry at execute time, not at creation,
	// so a command may reference a verb that is registered later.
	Verb string

	// Args is the kind-specific payload: a path or command line for Run,
	// the verb argument string for Expression, a free-form payload for
	// BuiltIn.
	Args string

	Aliases []string

	HitCount  int64
	LastRunAt *time.Time

	IconRef string

	// IsBuiltIn entries must never be deleted or renamed by catalog
	// mutation.
	IsBuiltIn bool
}
