package members

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/textloom/textloom/internal/models"
	"github.com/textloom/textloom/internal/store"
)

// memStore is an in-memory store.Store for exercising the service without
// a database. WithTx snapshots all records and restores them when the
// callback fails, mirroring transactional rollback.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	projects    map[string]*models.Project
	memberships []*models.Membership
	invitations []*models.Invitation
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		projects: make(map[string]*models.Project),
	}
}

func (m *memStore) addUser(email, username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now(),
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addProject(name string) *models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	m.projects[p.ID] = p
	return p
}

func (m *memStore) addMembership(userID, projectID string, role models.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships = append(m.memberships, &models.Membership{
		UserID:    userID,
		ProjectID: projectID,
		Role:      role,
		CreatedAt: time.Now(),
	})
}

func (m *memStore) Users() store.UserStore             { return (*memUserStore)(m) }
func (m *memStore) Projects() store.ProjectStore       { return (*memProjectStore)(m) }
func (m *memStore) Memberships() store.MembershipStore { return (*memMembershipStore)(m) }
func (m *memStore) Invitations() store.InvitationStore { return (*memInvitationStore)(m) }
func (m *memStore) Close() error                       { return nil }

func (m *memStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	membershipsSnap := append([]*models.Membership(nil), m.memberships...)
	invitationsSnap := append([]*models.Invitation(nil), m.invitations...)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.memberships = membershipsSnap
		m.invitations = invitationsSnap
		m.mu.Unlock()
		return err
	}
	return nil
}

type memUserStore memStore

func (s *memUserStore) Create(ctx context.Context, email, username, password string) (*models.User, error) {
	return (*memStore)(s).addUser(email, username), nil
}

func (s *memUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	return s.GetByEmail(ctx, email)
}

type memProjectStore memStore

func (s *memProjectStore) Create(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	return nil
}

func (s *memProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (s *memProjectStore) ListByUser(ctx context.Context, userID string) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var projects []*models.Project
	for _, m := range s.memberships {
		if m.UserID == userID {
			if p, ok := s.projects[m.ProjectID]; ok {
				projects = append(projects, p)
			}
		}
	}
	return projects, nil
}

func (s *memProjectStore) Update(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; !ok {
		return store.ErrNotFound
	}
	s.projects[project.ID] = project
	return nil
}

func (s *memProjectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

type memMembershipStore memStore

func (s *memMembershipStore) Get(ctx context.Context, userID, projectID string) (*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.UserID == userID && m.ProjectID == projectID {
			return m, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memMembershipStore) ListByProject(ctx context.Context, projectID string) ([]*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Membership
	for _, m := range s.memberships {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMembershipStore) ListByUser(ctx context.Context, userID string) ([]*models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Membership
	for _, m := range s.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMembershipStore) ListMemberViews(ctx context.Context, projectID string) ([]*models.MemberView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.MemberView
	for _, m := range s.memberships {
		if m.ProjectID != projectID {
			continue
		}
		u := s.users[m.UserID]
		if u == nil {
			continue
		}
		out = append(out, &models.MemberView{
			UserID:   m.UserID,
			Username: u.Username,
			Email:    u.Email,
			Role:     m.Role,
		})
	}
	return out, nil
}

func (s *memMembershipStore) Create(ctx context.Context, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.UserID == membership.UserID && m.ProjectID == membership.ProjectID {
			return store.ErrConflict
		}
	}
	if membership.CreatedAt.IsZero() {
		membership.CreatedAt = time.Now()
	}
	s.memberships = append(s.memberships, membership)
	return nil
}

func (s *memMembershipStore) UpdateRole(ctx context.Context, userID, projectID string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.memberships {
		if m.UserID == userID && m.ProjectID == projectID {
			m.Role = role
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *memMembershipStore) Remove(ctx context.Context, userID, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.memberships {
		if m.UserID == userID && m.ProjectID == projectID {
			s.memberships = append(s.memberships[:i], s.memberships[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type memInvitationStore memStore

func (s *memInvitationStore) Create(ctx context.Context, invitation *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.ProjectID == invitation.ProjectID && inv.GuestID == invitation.GuestID {
			return store.ErrConflict
		}
	}
	if invitation.ID == "" {
		invitation.ID = uuid.New().String()
	}
	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now()
	}
	s.invitations = append(s.invitations, invitation)
	return nil
}

func (s *memInvitationStore) Get(ctx context.Context, id string) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memInvitationStore) ListByGuest(ctx context.Context, guestID string) ([]*models.GuestInvitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.GuestInvitation
	for _, inv := range s.invitations {
		if inv.GuestID != guestID {
			continue
		}
		owner := s.users[inv.OwnerID]
		project := s.projects[inv.ProjectID]
		if owner == nil || project == nil {
			continue
		}
		out = append(out, &models.GuestInvitation{
			ID:            inv.ID,
			ProjectID:     inv.ProjectID,
			ProjectName:   project.Name,
			Role:          inv.Role,
			OwnerEmail:    owner.Email,
			OwnerUsername: owner.Username,
			CreatedAt:     inv.CreatedAt,
		})
	}
	return out, nil
}

func (s *memInvitationStore) ListByProject(ctx context.Context, projectID string) ([]*models.PendingMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PendingMember
	for _, inv := range s.invitations {
		if inv.ProjectID != projectID {
			continue
		}
		guest := s.users[inv.GuestID]
		if guest == nil {
			continue
		}
		out = append(out, &models.PendingMember{
			InvitationID:  inv.ID,
			GuestID:       inv.GuestID,
			GuestUsername: guest.Username,
			GuestEmail:    guest.Email,
			Role:          inv.Role,
		})
	}
	return out, nil
}

func (s *memInvitationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inv := range s.invitations {
		if inv.ID == id {
			s.invitations = append(s.invitations[:i], s.invitations[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
