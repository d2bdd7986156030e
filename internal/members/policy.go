package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// Policy evaluates whether an acting user may perform a membership or
// invitation operation. All decisions reduce to the role hierarchy; the
// policy holds no state beyond store access.
type Policy struct {
	store store.Store
}

// NewPolicy creates a new authorization policy.
func NewPolicy(st store.Store) *Policy {
	return &Policy{store: st}
}

// RequireMembership resolves the acting user's membership on a project.
// A nonexistent project yields ErrProjectNotFound; a non-member of an
// existing project yields ErrNotAMember. The asymmetry is deliberate:
// non-members must not learn more than "you cannot see this", while a
// bad project id stays a plain not-found.
func (p *Policy) RequireMembership(ctx context.Context, userID, projectID string) (*models.Membership, error) {
	if _, err := p.store.Projects().Get(ctx, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("resolving project: %w", err)
	}

	membership, err := p.store.Memberships().Get(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAMember
		}
		return nil, fmt.Errorf("resolving membership: %w", err)
	}

	return membership, nil
}

// CanInvite reports whether a role may create or list project invitations.
func (p *Policy) CanInvite(actingRole models.Role) error {
	if !actingRole.AtLeast(models.RoleManager) {
		return ErrInsufficientRank
	}
	return nil
}

// CanUpdateRole decides whether acting may change target's role to newRole.
// Self-edits are always rejected. A target whose current role ranks at or
// above acting's is protected, unless acting is Owner. The requested role
// must not outrank acting's own.
func (p *Policy) CanUpdateRole(acting, target *models.Membership, newRole models.Role) error {
	if err := p.canTarget(acting, target); err != nil {
		return err
	}
	if newRole.OutRanks(acting.Role) {
		return ErrInsufficientRank
	}
	return nil
}

// CanRemove decides whether acting may remove target from the project.
// Same self and outrank rules as CanUpdateRole, applied to removal.
func (p *Policy) CanRemove(acting, target *models.Membership) error {
	return p.canTarget(acting, target)
}

func (p *Policy) canTarget(acting, target *models.Membership) error {
	if acting.UserID == target.UserID {
		return ErrSelfTarget
	}
	if target.Role.AtLeast(acting.Role) && acting.Role != models.RoleOwner {
		return ErrInsufficientRank
	}
	return nil
}
