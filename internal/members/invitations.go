package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// Invite creates a pending invitation for the user registered under email.
// The acting user must hold at least the Manager role on the project, the
// role must be invitable (never Owner), and the guest must be neither a
// member nor already invited. A re-invite after a decline always succeeds
// because a declined invitation leaves no record behind.
func (s *Service) Invite(ctx context.Context, actingUserID, projectID, email, role string) (*models.Invitation, error) {
	acting, err := s.policy.RequireMembership(ctx, actingUserID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanInvite(acting.Role); err != nil {
		return nil, err
	}

	invRole, err := models.ParseInvitableRole(role)
	if err != nil {
		if !models.Role(role).Valid() {
			return nil, ErrUnknownRole
		}
		return nil, ErrOwnerNotInvitable
	}

	guest, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolving guest by email: %w", err)
	}

	if _, err := s.store.Memberships().Get(ctx, guest.ID, projectID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing membership: %w", err)
	}

	invitation := &models.Invitation{
		ProjectID: projectID,
		GuestID:   guest.ID,
		OwnerID:   actingUserID,
		Role:      invRole,
	}
	if err := s.store.Invitations().Create(ctx, invitation); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrAlreadyInvited
		}
		return nil, fmt.Errorf("creating invitation: %w", err)
	}

	s.logger.Info("invitation created",
		"invitation_id", invitation.ID,
		"project_id", projectID,
		"guest_id", guest.ID,
		"role", string(invRole),
		"acting_user_id", actingUserID,
	)
	return invitation, nil
}

// Accept turns an invitation into a membership. Membership creation and
// invitation deletion run in one transaction: a crash or concurrent accept
// can never leave a member with a pending invitation, nor delete the
// invitation without granting access. If the guest gained a membership
// concurrently the transaction rolls back with ErrAlreadyMember and the
// invitation stays intact.
func (s *Service) Accept(ctx context.Context, actingUserID, invitationID string) error {
	invitation, err := s.loadForGuest(ctx, actingUserID, invitationID)
	if err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(tx store.Store) error {
		membership := &models.Membership{
			UserID:    invitation.GuestID,
			ProjectID: invitation.ProjectID,
			Role:      invitation.Role,
		}
		if err := tx.Memberships().Create(ctx, membership); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("creating membership: %w", err)
		}
		if err := tx.Invitations().Delete(ctx, invitation.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Lost a race against a concurrent accept or withdraw.
				return ErrInvitationNotFound
			}
			return fmt.Errorf("deleting invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("invitation accepted",
		"invitation_id", invitation.ID,
		"project_id", invitation.ProjectID,
		"guest_id", invitation.GuestID,
		"role", string(invitation.Role),
	)
	return nil
}

// Decline deletes an invitation without creating a membership.
func (s *Service) Decline(ctx context.Context, actingUserID, invitationID string) error {
	invitation, err := s.loadForGuest(ctx, actingUserID, invitationID)
	if err != nil {
		return err
	}

	if err := s.store.Invitations().Delete(ctx, invitation.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("deleting invitation: %w", err)
	}

	s.logger.Info("invitation declined",
		"invitation_id", invitation.ID,
		"project_id", invitation.ProjectID,
		"guest_id", invitation.GuestID,
	)
	return nil
}

// Withdraw deletes an invitation on behalf of the project. Only the member
// who created the invitation may withdraw it; this is deliberately narrower
// than the Manager-rank gate on creation.
func (s *Service) Withdraw(ctx context.Context, actingUserID, projectID, invitationID string) error {
	if _, err := s.policy.RequireMembership(ctx, actingUserID, projectID); err != nil {
		return err
	}

	invitation, err := s.store.Invitations().Get(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("loading invitation: %w", err)
	}
	if invitation.ProjectID != projectID {
		return ErrWrongProject
	}
	if invitation.OwnerID != actingUserID {
		return ErrNotInviter
	}

	if err := s.store.Invitations().Delete(ctx, invitation.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("deleting invitation: %w", err)
	}

	s.logger.Info("invitation withdrawn",
		"invitation_id", invitation.ID,
		"project_id", projectID,
		"acting_user_id", actingUserID,
	)
	return nil
}

// ListInvitationsForGuest returns the acting user's pending invitations,
// enriched with inviter identity and project name.
func (s *Service) ListInvitationsForGuest(ctx context.Context, userID string) ([]*models.GuestInvitation, error) {
	invitations, err := s.store.Invitations().ListByGuest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing guest invitations: %w", err)
	}
	return invitations, nil
}

// loadForGuest loads an invitation and verifies the acting user is its guest.
func (s *Service) loadForGuest(ctx context.Context, actingUserID, invitationID string) (*models.Invitation, error) {
	invitation, err := s.store.Invitations().Get(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("loading invitation: %w", err)
	}
	if invitation.GuestID != actingUserID {
		return nil, ErrNotInviteGuest
	}
	return invitation, nil
}
