// Package auth holds the session snapshot, permission evaluation, and the
// JWT plumbing that produces a snapshot per request.
package auth

// Session is an immutable snapshot of the operator's identity for one
// request. It is built from the verified token and never mutated; a new
// login produces a new snapshot and logout discards it. Permission checks
// here gate UI affordances and routes; the order service re-checks on its
// side.
type Session struct {
	UserID      string
	Role        string
	permissions map[string]struct{}
}

// NewSession builds a snapshot from the token's permission list and role key.
func NewSession(userID, role string, permissions []string) *Session {
	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return &Session{UserID: userID, Role: role, permissions: set}
}

// HasPermission reports whether key is in the session's permission set.
// Unknown keys and a nil session both answer false.
func (s *Session) HasPermission(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.permissions[key]
	return ok
}

// HasAnyPermission reports whether at least one key is in the set.
func (s *Session) HasAnyPermission(keys ...string) bool {
	for _, k := range keys {
		if s.HasPermission(k) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every key is in the set. An empty key
// list is vacuously true for a non-nil session.
func (s *Session) HasAllPermissions(keys ...string) bool {
	if s == nil {
		return false
	}
	for _, k := range keys {
		if !s.HasPermission(k) {
			return false
		}
	}
	return true
}

// IsRole reports whether the session's role key equals roleKey.
func (s *Session) IsRole(roleKey string) bool {
	return s != nil && s.Role == roleKey
}

// Permissions returns the permission keys as a slice. Order is unspecified.
func (s *Session) Permissions() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.permissions))
	for k := range s.permissions {
		out = append(out, k)
	}
	return out
}

// Gate is a declarative access predicate. Exactly one of Permission, AnyOf,
// AllOf, or Role should be set; Not inverts the outcome. A gate with no
// predicate denies (before inversion), so the zero Gate is closed.
type Gate struct {
	Permission string   `json:"permission,omitempty"`
	AnyOf      []string `json:"any_of,omitempty"`
	AllOf      []string `json:"all_of,omitempty"`
	Role       string   `json:"role,omitempty"`
	Not        bool     `json:"not,omitempty"`
}

// Allows evaluates the gate's predicate against the session and applies the
// inversion flag. The caller shows primary content when true and fallback
// content otherwise.
func (g Gate) Allows(s *Session) bool {
	var ok bool
	switch {
	case g.Permission != "":
		ok = s.HasPermission(g.Permission)
	case len(g.AnyOf) > 0:
		ok = s.HasAnyPermission(g.AnyOf...)
	case len(g.AllOf) > 0:
		ok = s.HasAllPermissions(g.AllOf...)
	case g.Role != "":
		ok = s.IsRole(g.Role)
	}
	return ok != g.Not
}
