// Package store provides database access interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/textloom/textloom/internal/models"
)

// Common store errors. Implementations return these sentinels (possibly
// wrapped) so callers can branch with errors.Is without knowing the engine.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a uniqueness constraint is violated,
	// e.g. a duplicate membership or a second pending invitation for the
	// same (project, guest) pair. Concurrent losers see this error.
	ErrConflict = errors.New("record already exists")
)

// UserStore defines operations for user accounts.
type UserStore interface {
	// Create registers a new user with a bcrypt-hashed password.
	Create(ctx context.Context, email, username, password string) (*models.User, error)
	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Authenticate verifies credentials and returns the user.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// ProjectStore defines operations for projects.
type ProjectStore interface {
	// Create creates a new project.
	Create(ctx context.Context, project *models.Project) error
	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*models.Project, error)
	// ListByUser retrieves all projects the user is a member of.
	ListByUser(ctx context.Context, userID string) ([]*models.Project, error)
	// Update updates a project's name and description.
	Update(ctx context.Context, project *models.Project) error
	// Delete deletes a project. Memberships and invitations cascade.
	Delete(ctx context.Context, id string) error
}

// MembershipStore defines operations over (user, project, role) relations.
// The store is a thin consistent map over the composite key; cross-record
// rules (outranking, self-targeting) live in the policy layer.
type MembershipStore interface {
	// Get retrieves the membership for a (user, project) pair.
	Get(ctx context.Context, userID, projectID string) (*models.Membership, error)
	// ListByProject retrieves memberships for a project in insertion order.
	ListByProject(ctx context.Context, projectID string) ([]*models.Membership, error)
	// ListByUser retrieves all memberships for a user.
	ListByUser(ctx context.Context, userID string) ([]*models.Membership, error)
	// ListMemberViews retrieves memberships joined with user identities.
	ListMemberViews(ctx context.Context, projectID string) ([]*models.MemberView, error)
	// Create inserts a membership. Returns ErrConflict if one already
	// exists for the (user, project) pair.
	Create(ctx context.Context, membership *models.Membership) error
	// UpdateRole changes the role. Returns ErrNotFound if absent.
	UpdateRole(ctx context.Context, userID, projectID string, role models.Role) error
	// Remove deletes the membership. Returns ErrNotFound if absent.
	Remove(ctx context.Context, userID, projectID string) error
}

// InvitationStore defines operations for pending invitations.
type InvitationStore interface {
	// Create inserts an invitation. Returns ErrConflict if a pending
	// invitation already exists for the (project, guest) pair.
	Create(ctx context.Context, invitation *models.Invitation) error
	// Get retrieves an invitation by ID.
	Get(ctx context.Context, id string) (*models.Invitation, error)
	// ListByGuest retrieves a guest's invitations, enriched with the
	// inviter's identity and the project name at read time.
	ListByGuest(ctx context.Context, guestID string) ([]*models.GuestInvitation, error)
	// ListByProject retrieves a project's pending invitations enriched
	// with guest identities, for the merged member list.
	ListByProject(ctx context.Context, projectID string) ([]*models.PendingMember, error)
	// Delete removes an invitation. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// Store is the main interface for database operations.
type Store interface {
	// Users returns the UserStore for account operations.
	Users() UserStore
	// Projects returns the ProjectStore for project operations.
	Projects() ProjectStore
	// Memberships returns the MembershipStore for relation operations.
	Memberships() MembershipStore
	// Invitations returns the InvitationStore for invitation operations.
	Invitations() InvitationStore

	// WithTx executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Close closes the database connection.
	Close() error
}
