package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sessionWith(perms ...string) *Session {
	return NewSession("op-1", "sales", perms)
}

func TestHasPermission(t *testing.T) {
	s := sessionWith("view_products", "view_orders")

	assert.True(t, s.HasPermission("view_products"))
	assert.False(t, s.HasPermission("delete_products"))
	assert.False(t, s.HasPermission(""))
}

func TestHasAnyPermission(t *testing.T) {
	s := sessionWith("view_products", "view_orders")

	assert.True(t, s.HasAnyPermission("view_products", "delete_products"))
	assert.False(t, s.HasAnyPermission("delete_products", "manage_users"))
	assert.False(t, s.HasAnyPermission())
}

func TestHasAllPermissions(t *testing.T) {
	s := sessionWith("view_products", "view_orders")

	assert.True(t, s.HasAllPermissions("view_products", "view_orders"))
	assert.False(t, s.HasAllPermissions("view_products", "delete_products"))
	assert.True(t, s.HasAllPermissions())
}

func TestIsRole(t *testing.T) {
	s := sessionWith()

	assert.True(t, s.IsRole("sales"))
	assert.False(t, s.IsRole("admin"))
}

func TestNilSession_DeniesEverything(t *testing.T) {
	var s *Session

	assert.False(t, s.HasPermission("view_products"))
	assert.False(t, s.HasAnyPermission("view_products"))
	assert.False(t, s.HasAllPermissions())
	assert.False(t, s.IsRole("sales"))
	assert.Nil(t, s.Permissions())
}

func TestPermissions_ReturnsAllKeys(t *testing.T) {
	s := sessionWith("a", "b", "c")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, s.Permissions())
}

// ============================================================================
// Gate Tests
// ============================================================================

func TestGate_SinglePermission(t *testing.T) {
	s := sessionWith("view_orders")

	assert.True(t, Gate{Permission: "view_orders"}.Allows(s))
	assert.False(t, Gate{Permission: "create_orders"}.Allows(s))
}

func TestGate_AnyOf(t *testing.T) {
	s := sessionWith("view_products", "view_orders")

	assert.True(t, Gate{AnyOf: []string{"view_products", "delete_products"}}.Allows(s))
	assert.False(t, Gate{AnyOf: []string{"delete_products"}}.Allows(s))
}

func TestGate_AllOf(t *testing.T) {
	s := sessionWith("view_products", "view_orders")

	assert.True(t, Gate{AllOf: []string{"view_products", "view_orders"}}.Allows(s))
	assert.False(t, Gate{AllOf: []string{"view_products", "delete_products"}}.Allows(s))
}

func TestGate_Role(t *testing.T) {
	s := sessionWith()

	assert.True(t, Gate{Role: "sales"}.Allows(s))
	assert.False(t, Gate{Role: "admin"}.Allows(s))
}

func TestGate_NotInvertsOutcome(t *testing.T) {
	s := sessionWith("view_orders")

	// Missing permission plus inversion shows the primary content.
	assert.True(t, Gate{Permission: "admin", Not: true}.Allows(s))
	assert.False(t, Gate{Permission: "view_orders", Not: true}.Allows(s))
	assert.True(t, Gate{Role: "admin", Not: true}.Allows(s))
}

func TestGate_ZeroValueDenies(t *testing.T) {
	s := sessionWith("view_orders")

	assert.False(t, Gate{}.Allows(s))
	// Inverted empty gate allows: no predicate means false, Not flips it.
	assert.True(t, Gate{Not: true}.Allows(s))
}

func TestGate_NilSession(t *testing.T) {
	assert.False(t, Gate{Permission: "view_orders"}.Allows(nil))
	assert.True(t, Gate{Permission: "view_orders", Not: true}.Allows(nil))
}
