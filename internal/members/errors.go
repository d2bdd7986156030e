// Package members implements the role-gated membership and invitation
// lifecycle for projects.
package members

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these sentinels so the request layer can map it to a transport code with
// errors.Is. Kinds are terminal; retry policy belongs to the caller.
var (
	// ErrValidation indicates malformed or disallowed input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the entity exists but the caller lacks
	// rights to act on it.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a uniqueness violation: duplicate invitation,
	// already a member, or a lost race on accept.
	ErrConflict = errors.New("conflict")
)

// Specific errors, each carrying its kind.
var (
	ErrOwnerNotInvitable  = fmt.Errorf("%w: the Owner role cannot be granted by invitation", ErrValidation)
	ErrUnknownRole        = fmt.Errorf("%w: unknown role", ErrValidation)
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrProjectNotFound    = fmt.Errorf("%w: project", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("%w: invitation", ErrNotFound)
	ErrMemberNotFound     = fmt.Errorf("%w: member", ErrNotFound)
	ErrNotAMember         = fmt.Errorf("%w: not a member of this project", ErrUnauthorized)
	ErrNotInviteGuest     = fmt.Errorf("%w: invitation addressed to another user", ErrUnauthorized)
	ErrNotInviter         = fmt.Errorf("%w: only the inviting member may withdraw an invitation", ErrUnauthorized)
	ErrWrongProject       = fmt.Errorf("%w: invitation does not belong to this project", ErrUnauthorized)
	ErrSelfTarget         = fmt.Errorf("%w: cannot target yourself", ErrUnauthorized)
	ErrInsufficientRank   = fmt.Errorf("%w: insufficient role", ErrUnauthorized)
	ErrAlreadyMember      = fmt.Errorf("%w: user is already a member", ErrConflict)
	ErrAlreadyInvited     = fmt.Errorf("%w: a pending invitation already exists", ErrConflict)
)
