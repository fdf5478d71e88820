package services

import (
	"errors"
	"fmt"
)

// Shared errors used across services and mapped to HTTP statuses by the
// handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Conflict errors: the request cannot be satisfied as-is. These are
	// expected, recoverable outcomes for the caller.
	ErrIdentityConflict    = errors.New("a player with this name and date of birth already exists for the club")
	ErrDuplicateAttendance = errors.New("club is already registered for this carnival")
	ErrDuplicateAssignment = errors.New("player is already assigned for this attendance")
	ErrDuplicateSponsor    = errors.New("sponsor already exists for this club, state and location")
	ErrAlreadyClaimed      = errors.New("carnival has already been claimed")

	// Range/consistency errors: a caller-level logic bug or a business
	// conflict that needs explicit resolution.
	ErrTeamNumberOutOfRange      = errors.New("team number is outside the attendance's team range")
	ErrClubMismatch              = errors.New("player does not belong to the attending club")
	ErrTeamCountReductionBlocked = errors.New("team count reduction blocked by existing assignments")

	// Immutability violations: always rejected, never silently ignored.
	ErrImmutableField = errors.New("field is immutable and cannot be updated")

	// Validation errors.
	ErrCarnivalTitleRequired   = errors.New("carnival title is required")
	ErrClubNameRequired        = errors.New("club name is required")
	ErrPlayerNameRequired      = errors.New("player first and last name are required")
	ErrInvalidTeamCount        = errors.New("number of teams must be a positive integer")
	ErrInvalidAttendanceStatus = errors.New("invalid attendance status provided")
	ErrInvalidShortsColor      = errors.New("invalid shorts color provided")
	ErrSponsorNameRequired     = errors.New("sponsor name is required")
	ErrInvalidSponsorLevel     = errors.New("invalid sponsorship level provided")

	// Authentication errors.
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email address is already in use")

	// Entity-specific not-found errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrClubNameConflict   = errors.New("club name is already in use")
	ErrClubInUse          = errors.New("club still has players, attendances or sponsors")
	ErrCarnivalNotFound   = errors.New("carnival not found")
	ErrPlayerNotFound     = errors.New("club player not found")
	ErrAttendanceNotFound = errors.New("carnival attendance not found")
	ErrAssignmentNotFound = errors.New("player assignment not found")
	ErrSponsorNotFound    = errors.New("sponsor not found")
)

// TeamCountReductionBlockedError reports which players block a team count
// reduction so the caller can reassign them first. errors.Is matches it
// against ErrTeamCountReductionBlocked.
type TeamCountReductionBlockedError struct {
	CarnivalClubID       int
	RequestedCount       int
	ConflictingPlayerIDs []int
}

func (e *TeamCountReductionBlockedError) Error() string {
	return fmt.Sprintf("cannot reduce attendance %d to %d teams: players %v are assigned to higher team numbers",
		e.CarnivalClubID, e.RequestedCount, e.ConflictingPlayerIDs)
}

func (e *TeamCountReductionBlockedError) Is(target error) bool {
	return target == ErrTeamCountReductionBlocked
}
