package models

const (
	ScopeAll     = "all"
	ScopeName    = "name"
	ScopeAlias   = "alias"
	ScopeAddress = "address"
)

const (
	DefaultSearchLimit = 100
	MinSearchLimit     = 1
	MaxSearchLimit     = 1000
)

// MinQueryLength is the minimum trimmed query length accepted by search.
const MinQueryLength = 2

// IsValidScope checks if a string is a valid search scope constant
func IsValidScope(scope string) bool {
	switch scope {
	case ScopeAll, ScopeName, ScopeAlias, ScopeAddress:
		return true
	default:
		return false
	}
}

// ClampLimit forces a requested result limit into [MinSearchLimit, MaxSearchLimit].
// Out-of-range values are clamped, not rejected.
func ClampLimit(limit int) int {
	if limit < MinSearchLimit {
		return MinSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}

// SearchParams carries the validated inputs of a unified search.
type SearchParams struct {
	Query   string
	Scope   string
	Country string
	City    string
	Limit   int
	Fuzzy   bool // reserved; accepted but has no matching semantics yet
}
