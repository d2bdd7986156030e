package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// Service orchestrates membership changes and the invitation lifecycle.
// Every operation takes the acting user id explicitly; nothing is read
// from ambient state.
type Service struct {
	store  store.Store
	policy *Policy
	logger *slog.Logger
}

// NewService creates a new membership service.
func NewService(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  st,
		policy: NewPolicy(st),
		logger: logger,
	}
}

// Policy returns the authorization policy backing the service.
func (s *Service) Policy() *Policy {
	return s.policy
}

// UpdateRole changes a member's role on a project.
func (s *Service) UpdateRole(ctx context.Context, actingUserID, projectID, targetUserID, role string) error {
	acting, err := s.policy.RequireMembership(ctx, actingUserID, projectID)
	if err != nil {
		return err
	}

	newRole, err := models.ParseRole(role)
	if err != nil {
		return ErrUnknownRole
	}

	target, err := s.store.Memberships().Get(ctx, targetUserID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("resolving target membership: %w", err)
	}

	if err := s.policy.CanUpdateRole(acting, target, newRole); err != nil {
		return err
	}

	if err := s.store.Memberships().UpdateRole(ctx, targetUserID, projectID, newRole); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("updating role: %w", err)
	}

	s.logger.Info("member role updated",
		"project_id", projectID,
		"target_user_id", targetUserID,
		"role", string(newRole),
		"acting_user_id", actingUserID,
	)
	return nil
}

// RemoveMember removes a member from a project.
func (s *Service) RemoveMember(ctx context.Context, actingUserID, projectID, targetUserID string) error {
	acting, err := s.policy.RequireMembership(ctx, actingUserID, projectID)
	if err != nil {
		return err
	}

	target, err := s.store.Memberships().Get(ctx, targetUserID, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("resolving target membership: %w", err)
	}

	if err := s.policy.CanRemove(acting, target); err != nil {
		return err
	}

	if err := s.store.Memberships().Remove(ctx, targetUserID, projectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing member: %w", err)
	}

	s.logger.Info("member removed",
		"project_id", projectID,
		"target_user_id", targetUserID,
		"acting_user_id", actingUserID,
	)
	return nil
}

// ListMembers returns the merged member list for a project: approved
// members first, then guests with an outstanding invitation as pending
// entries sourced from the invitation store.
func (s *Service) ListMembers(ctx context.Context, actingUserID, projectID string) ([]*models.MemberView, error) {
	if _, err := s.policy.RequireMembership(ctx, actingUserID, projectID); err != nil {
		return nil, err
	}

	views, err := s.store.Memberships().ListMemberViews(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}

	pending, err := s.store.Invitations().ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing pending invitations: %w", err)
	}

	merged := make([]*models.MemberView, 0, len(views)+len(pending))
	merged = append(merged, views...)
	for _, pm := range pending {
		merged = append(merged, &models.MemberView{
			UserID:       pm.GuestID,
			Username:     pm.GuestUsername,
			Email:        pm.GuestEmail,
			Role:         pm.Role,
			Pending:      true,
			InvitationID: pm.InvitationID,
		})
	}

	return merged, nil
}
