package domain

import "strings"

// Kind names one of the catalog collections.
type Kind string

const (
	KindApps      Kind = "apps"
	KindWorkflows Kind = "workflows"
	KindRepos     Kind = "repos"
	KindMCPs      Kind = "mcps"
)

// Kinds lists every collection in bulk-load order.
var Kinds = []Kind{KindWorkflows, KindRepos, KindMCPs, KindApps}

// ParseKind maps a user supplied collection name to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Singular is used in human facing messages ("App not found").
func (k Kind) Singular() string {
	switch k {
	case KindApps:
		return "App"
	case KindWorkflows:
		return "Workflow"
	case KindRepos:
		return "Repo"
	case KindMCPs:
		return "MCP"
	default:
		return string(k)
	}
}
