package models

import "time"

// Membership links a user to a project with a role. At most one membership
// exists per (user, project) pair; the composite primary key enforces this.
type Membership struct {
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberView is the merged member-list entry for a project. Approved
// members have Pending=false; guests with an outstanding invitation appear
// with Pending=true and the invitation id set.
type MemberView struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Pending      bool   `json:"pending"`
	InvitationID string `json:"invitation_id,omitempty"`
}
