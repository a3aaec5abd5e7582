// Package scope holds the single ownership rule applied to every query and
// mutation: admins see all records, agents see only their own. Any new query
// path must derive its visibility from this package rather than re-filtering.
package scope

import (
	"github.com/voyahq/tripdesk/internal/common/cnst"
	"github.com/voyahq/tripdesk/internal/common/errorx"
)

// Principal is the authenticated actor, passed explicitly into every service
// operation. There is no ambient current-user state.
type Principal struct {
	UserID uint
	Role   cnst.Role
}

// IsAdmin reports whether the principal has unrestricted visibility.
func (p Principal) IsAdmin() bool {
	return p.Role == cnst.RoleAdmin
}

// Authorize returns nil when the principal may access a record owned by
// ownerID, and ErrForbidden otherwise. Ownership failures are forbidden, not
// not-found, so denied access stays distinguishable in the audit trail.
func (p Principal) Authorize(ownerID uint) error {
	if p.IsAdmin() || p.UserID == ownerID {
		return nil
	}
	return errorx.ErrForbidden
}

// RequireAdmin returns ErrForbidden unless the principal is an admin.
func (p Principal) RequireAdmin() error {
	if p.IsAdmin() {
		return nil
	}
	return errorx.ErrForbidden
}

// AgentFilter resolves the agent id a query must be filtered by. Agents are
// always locked to themselves; admins may request a specific agent or pass
// nil for all agents.
func (p Principal) AgentFilter(requested *uint) *uint {
	if p.IsAdmin() {
		return requested
	}
	id := p.UserID
	return &id
}
