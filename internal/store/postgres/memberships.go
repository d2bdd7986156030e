package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *MembershipStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Get retrieves the membership for a (user, project) pair.
func (s *MembershipStore) Get(ctx context.Context, userID, projectID string) (*models.Membership, error) {
	query := `
		SELECT user_id, project_id, role, created_at
		FROM memberships
		WHERE user_id = $1 AND project_id = $2`

	m := &models.Membership{}
	var role string
	err := s.conn().QueryRowContext(ctx, query, userID, projectID).Scan(
		&m.UserID, &m.ProjectID, &role, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying membership: %w", err)
	}
	m.Role = models.Role(role)

	return m, nil
}

// ListByProject retrieves memberships for a project in insertion order.
func (s *MembershipStore) ListByProject(ctx context.Context, projectID string) ([]*models.Membership, error) {
	query := `
		SELECT user_id, project_id, role, created_at
		FROM memberships
		WHERE project_id = $1
		ORDER BY created_at ASC`

	return s.list(ctx, query, projectID)
}

// ListByUser retrieves all memberships for a user.
func (s *MembershipStore) ListByUser(ctx context.Context, userID string) ([]*models.Membership, error) {
	query := `
		SELECT user_id, project_id, role, created_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at ASC`

	return s.list(ctx, query, userID)
}

func (s *MembershipStore) list(ctx context.Context, query string, arg any) ([]*models.Membership, error) {
	rows, err := s.conn().QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		var role string
		if err := rows.Scan(&m.UserID, &m.ProjectID, &role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning membership row: %w", err)
		}
		m.Role = models.Role(role)
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating membership rows: %w", err)
	}

	return memberships, nil
}

// ListMemberViews retrieves memberships joined with user identities.
func (s *MembershipStore) ListMemberViews(ctx context.Context, projectID string) ([]*models.MemberView, error) {
	query := `
		SELECT m.user_id, u.username, u.email, m.role
		FROM memberships m
		INNER JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.created_at ASC`

	rows, err := s.conn().QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying member views: %w", err)
	}
	defer rows.Close()

	var views []*models.MemberView
	for rows.Next() {
		v := &models.MemberView{}
		var role string
		if err := rows.Scan(&v.UserID, &v.Username, &v.Email, &role); err != nil {
			return nil, fmt.Errorf("scanning member view row: %w", err)
		}
		v.Role = models.Role(role)
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member view rows: %w", err)
	}

	return views, nil
}

// Create inserts a membership. The composite primary key rejects a second
// membership for the same (user, project) pair; concurrent losers see
// store.ErrConflict.
func (s *MembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	if membership.CreatedAt.IsZero() {
		membership.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO memberships (user_id, project_id, role, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.conn().ExecContext(ctx, query,
		membership.UserID, membership.ProjectID, string(membership.Role), membership.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("inserting membership: %w", err)
	}

	return nil
}

// UpdateRole changes the role for an existing membership.
func (s *MembershipStore) UpdateRole(ctx context.Context, userID, projectID string, role models.Role) error {
	query := `
		UPDATE memberships
		SET role = $3
		WHERE user_id = $1 AND project_id = $2`

	result, err := s.conn().ExecContext(ctx, query, userID, projectID, string(role))
	if err != nil {
		return fmt.Errorf("updating membership role: %w", err)
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

// Remove deletes the membership.
func (s *MembershipStore) Remove(ctx context.Context, userID, projectID string) error {
	query := `DELETE FROM memberships WHERE user_id = $1 AND project_id = $2`

	result, err := s.conn().ExecContext(ctx, query, userID, projectID)
	if err != nil {
		return fmt.Errorf("removing membership: %w", err)
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
