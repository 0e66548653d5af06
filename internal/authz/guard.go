// Package authz decides what a protected view may render for the current
// session. It never fails; every evaluation lands on one of four outcomes.
package authz

import (
	"slices"
	"strings"
)

type Decision int

const (
	// Loading: session restore has not finished yet; render a spinner and
	// re-evaluate on the next pass.
	Loading Decision = iota
	// LoginRequired: not authenticated; render the login prompt in place.
	LoginRequired
	// Denied: authenticated but the required roles do not intersect the
	// user's roles; render the access-denied view.
	Denied
	// Granted: render the protected content.
	Granted
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case LoginRequired:
		return "login_required"
	case Denied:
		return "denied"
	case Granted:
		return "granted"
	}
	return "unknown"
}

// Result carries the decision plus, for Denied, the canonicalized role sets
// the denial view displays.
type Result struct {
	Decision Decision
	Required []string
	Actual   []string
}

// Session is the slice of session state the guard reads.
type Session interface {
	Restoring() bool
	IsAuthenticated() bool
	Roles() []string
}

// CanonicalRole maps a role name to the backend's convention: upper-cased
// with a single ROLE_ prefix. Matching is exact and case-sensitive after
// canonicalization, so "admin", "ADMIN" and "ROLE_ADMIN" all compare equal.
func CanonicalRole(name string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if !strings.HasPrefix(n, "ROLE_") {
		n = "ROLE_" + n
	}
	return n
}

// DisplayRole strips the wire prefix for user-facing output.
func DisplayRole(name string) string {
	return strings.TrimPrefix(CanonicalRole(name), "ROLE_")
}

func canonicalize(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if c := CanonicalRole(n); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Evaluate runs the guard state machine: loading, then authentication, then
// the role check. An empty required set means any authenticated user passes.
// Role matching is OR semantics: one overlap suffices.
func Evaluate(s Session, required []string) Result {
	if s.Restoring() {
		return Result{Decision: Loading}
	}
	if !s.IsAuthenticated() {
		return Result{Decision: LoginRequired}
	}

	req := canonicalize(required)
	if len(req) == 0 {
		return Result{Decision: Granted}
	}

	actual := canonicalize(s.Roles())
	for _, r := range req {
		if slices.Contains(actual, r) {
			return Result{Decision: Granted}
		}
	}
	return Result{Decision: Denied, Required: req, Actual: actual}
}
