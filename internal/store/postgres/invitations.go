package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// InvitationStore implements store.InvitationStore using PostgreSQL.
type InvitationStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *InvitationStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Create inserts an invitation. The UNIQUE (project_id, guest_id)
// constraint rejects a second pending invitation for the same pair;
// concurrent losers see store.ErrConflict.
func (s *InvitationStore) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO invitations (id, project_id, guest_id, owner_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.conn().ExecContext(ctx, query,
		invitation.ID,
		invitation.ProjectID,
		invitation.GuestID,
		invitation.OwnerID,
		string(invitation.Role),
		invitation.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("inserting invitation: %w", err)
	}

	return nil
}

// Get retrieves an invitation by ID.
func (s *InvitationStore) Get(ctx context.Context, id string) (*models.Invitation, error) {
	query := `
		SELECT id, project_id, guest_id, owner_id, role, created_at
		FROM invitations WHERE id = $1`

	var inv models.Invitation
	var role string
	err := s.conn().QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.ProjectID, &inv.GuestID, &inv.OwnerID, &role, &inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying invitation: %w", err)
	}
	inv.Role = models.Role(role)

	return &inv, nil
}

// ListByGuest retrieves a guest's invitations enriched with the inviter's
// identity and the project name. The join is resolved on every call; these
// fields are not stored on the invitation.
func (s *InvitationStore) ListByGuest(ctx context.Context, guestID string) ([]*models.GuestInvitation, error) {
	query := `
		SELECT i.id, i.project_id, p.name, i.role, u.email, u.username, i.created_at
		FROM invitations i
		INNER JOIN projects p ON p.id = i.project_id
		INNER JOIN users u ON u.id = i.owner_id
		WHERE i.guest_id = $1
		ORDER BY i.created_at ASC`

	rows, err := s.conn().QueryContext(ctx, query, guestID)
	if err != nil {
		return nil, fmt.Errorf("querying guest invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.GuestInvitation
	for rows.Next() {
		gi := &models.GuestInvitation{}
		var role string
		if err := rows.Scan(
			&gi.ID, &gi.ProjectID, &gi.ProjectName, &role,
			&gi.OwnerEmail, &gi.OwnerUsername, &gi.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning guest invitation row: %w", err)
		}
		gi.Role = models.Role(role)
		invitations = append(invitations, gi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating guest invitation rows: %w", err)
	}

	return invitations, nil
}

// ListByProject retrieves a project's pending invitations enriched with
// guest identities.
func (s *InvitationStore) ListByProject(ctx context.Context, projectID string) ([]*models.PendingMember, error) {
	query := `
		SELECT i.id, i.guest_id, u.username, u.email, i.role
		FROM invitations i
		INNER JOIN users u ON u.id = i.guest_id
		WHERE i.project_id = $1
		ORDER BY i.created_at ASC`

	rows, err := s.conn().QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying project invitations: %w", err)
	}
	defer rows.Close()

	var pending []*models.PendingMember
	for rows.Next() {
		pm := &models.PendingMember{}
		var role string
		if err := rows.Scan(&pm.InvitationID, &pm.GuestID, &pm.GuestUsername, &pm.GuestEmail, &role); err != nil {
			return nil, fmt.Errorf("scanning pending member row: %w", err)
		}
		pm.Role = models.Role(role)
		pending = append(pending, pm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending member rows: %w", err)
	}

	return pending, nil
}

// Delete removes an invitation.
func (s *InvitationStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invitations WHERE id = $1`

	result, err := s.conn().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting invitation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}

	return nil
}
