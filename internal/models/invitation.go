package models

import "time"

// Invitation is a pending offer of membership at a specific role. An
// invitation has no intermediate states: it is either present (pending) or
// gone. Accepting produces a membership and deletes the invitation;
// declining or withdrawing deletes it without effect.
type Invitation struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	GuestID   string    `json:"guest_id"`
	OwnerID   string    `json:"owner_id"` // the inviting member
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GuestInvitation is an invitation enriched with the inviter's identity
// and the project name, resolved at read time for guest-facing listings.
type GuestInvitation struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	ProjectName   string    `json:"project_name"`
	Role          Role      `json:"role"`
	OwnerEmail    string    `json:"owner_email"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingMember is an invitation enriched with the guest's identity,
// used to surface outstanding invitations in a project's member list.
type PendingMember struct {
	InvitationID  string `json:"invitation_id"`
	GuestID       string `json:"guest_id"`
	GuestUsername string `json:"guest_username"`
	GuestEmail    string `json:"guest_email"`
	Role          Role   `json:"role"`
}
