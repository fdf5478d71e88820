package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
)

// FeeBreakdown is the cost of one club's attendance at a carnival. The
// per-player component tracks confirmed commitment, not roster size:
// withdrawn and non-confirmed players are excluded.
type FeeBreakdown struct {
	TeamFeeTotal   float64 `json:"team_fee_total"`
	PlayerFeeTotal float64 `json:"player_fee_total"`
	GrandTotal     float64 `json:"grand_total"`
}

type RegistrationService interface {
	RegisterClubAttendance(ctx context.Context, carnivalID, clubID, numberOfTeams int) (*models.CarnivalClub, error)
	CancelAttendance(ctx context.Context, carnivalClubID int) error
	ChangeNumberOfTeams(ctx context.Context, carnivalClubID, newCount int) error
	AssignPlayer(ctx context.Context, carnivalClubID, clubPlayerID int, teamNumber *int) (*models.CarnivalClubPlayer, error)
	ReassignTeam(ctx context.Context, assignmentID int, newTeamNumber *int) error
	SetAttendanceStatus(ctx context.Context, assignmentID int, status models.AttendanceStatus) error
	WithdrawPlayer(ctx context.Context, assignmentID int) error
	RemovePlayer(ctx context.Context, assignmentID int) error
	ComputeFees(ctx context.Context, carnivalClubID int) (*FeeBreakdown, error)
	ListAttendingClubs(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error)
	ListAssignments(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error)
}

type registrationService struct {
	attendanceRepo repositories.CarnivalClubRepository
	assignmentRepo repositories.CarnivalClubPlayerRepository
	carnivalRepo   repositories.CarnivalRepository
	clubRepo       repositories.ClubRepository
	playerRepo     repositories.ClubPlayerRepository
	sink           events.Sink
}

func NewRegistrationService(
	attendanceRepo repositories.CarnivalClubRepository,
	assignmentRepo repositories.CarnivalClubPlayerRepository,
	carnivalRepo repositories.CarnivalRepository,
	clubRepo repositories.ClubRepository,
	playerRepo repositories.ClubPlayerRepository,
	sink events.Sink,
) RegistrationService {
	return &registrationService{
		attendanceRepo: attendanceRepo,
		assignmentRepo: assignmentRepo,
		carnivalRepo:   carnivalRepo,
		clubRepo:       clubRepo,
		playerRepo:     playerRepo,
		sink:           sink,
	}
}

func (s *registrationService) RegisterClubAttendance(ctx context.Context, carnivalID, clubID, numberOfTeams int) (*models.CarnivalClub, error) {
	if numberOfTeams < 1 {
		return nil, ErrInvalidTeamCount
	}

	if _, err := s.carnivalRepo.GetByID(ctx, carnivalID); err != nil {
		if errors.Is(err, repositories.ErrCarnivalNotFound) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to check carnival %d: %w", carnivalID, err)
	}
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to check club %d: %w", clubID, err)
	}

	// Pre-check for a friendlier error; the unique constraint on
	// (carnival_id, club_id) still closes the race.
	existing, err := s.attendanceRepo.FindByCarnivalAndClub(ctx, carnivalID, clubID)
	if err != nil && !errors.Is(err, repositories.ErrCarnivalClubNotFound) {
		return nil, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAttendance
	}

	attendance := &models.CarnivalClub{
		CarnivalID:    carnivalID,
		ClubID:        clubID,
		NumberOfTeams: numberOfTeams,
	}
	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCarnivalClubConflict):
			return nil, ErrDuplicateAttendance
		case errors.Is(err, repositories.ErrCarnivalClubCarnivalInvalid):
			return nil, ErrCarnivalNotFound
		case errors.Is(err, repositories.ErrCarnivalClubClubInvalid):
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to register attendance: %w", err)
	}

	s.sink.Publish(ctx, events.New(events.TypeAttendanceRegistered, events.AttendanceRegistered{
		CarnivalClubID: attendance.ID,
		CarnivalID:     carnivalID,
		ClubID:         clubID,
		NumberOfTeams:  numberOfTeams,
	}))
	return attendance, nil
}

// CancelAttendance deletes the attendance and, via cascade, its assignments.
func (s *registrationService) CancelAttendance(ctx context.Context, carnivalClubID int) error {
	if err := s.attendanceRepo.Delete(ctx, carnivalClubID); err != nil {
		if errors.Is(err, repositories.ErrCarnivalClubNotFound) {
			return ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to cancel attendance %d: %w", carnivalClubID, err)
	}
	return nil
}

// ChangeNumberOfTeams grows or shrinks an attendance's team count. Shrinking
// below a team number that still has assigned players fails with the
// conflicting player ids; unassigning them is a deliberate, separate step,
// never a side effect.
func (s *registrationService) ChangeNumberOfTeams(ctx context.Context, carnivalClubID, newCount int) error {
	if newCount < 1 {
		return ErrInvalidTeamCount
	}

	blocked, err := s.attendanceRepo.UpdateNumberOfTeams(ctx, carnivalClubID, newCount)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCarnivalClubNotFound):
			return ErrAttendanceNotFound
		case errors.Is(err, repositories.ErrCarnivalClubReductionBlocked):
			return &TeamCountReductionBlockedError{
				CarnivalClubID:       carnivalClubID,
				RequestedCount:       newCount,
				ConflictingPlayerIDs: blocked,
			}
		}
		return fmt.Errorf("failed to change team count for attendance %d: %w", carnivalClubID, err)
	}
	return nil
}

func (s *registrationService) AssignPlayer(ctx context.Context, carnivalClubID, clubPlayerID int, teamNumber *int) (*models.CarnivalClubPlayer, error) {
	attendance, err := s.attendanceRepo.GetByID(ctx, carnivalClubID)
	if err != nil {
		if errors.Is(err, repositories.ErrCarnivalClubNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance %d: %w", carnivalClubID, err)
	}

	player, err := s.playerRepo.GetByID(ctx, clubPlayerID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", clubPlayerID, err)
	}

	if player.ClubID != attendance.ClubID {
		return nil, ErrClubMismatch
	}
	if teamNumber != nil && (*teamNumber < 1 || *teamNumber > attendance.NumberOfTeams) {
		return nil, ErrTeamNumberOutOfRange
	}

	// A withdrawn assignment keeps its row, so the pre-check also catches
	// re-adding after a withdrawal. Re-adding goes through reinstatement or
	// explicit removal first.
	existing, err := s.assignmentRepo.FindByAttendanceAndPlayer(ctx, carnivalClubID, clubPlayerID)
	if err != nil && !errors.Is(err, repositories.ErrAssignmentNotFound) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAssignment
	}

	assignment := &models.CarnivalClubPlayer{
		CarnivalClubID:   carnivalClubID,
		ClubPlayerID:     clubPlayerID,
		IsActive:         true,
		AttendanceStatus: models.AttendanceConfirmed,
		TeamNumber:       teamNumber,
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		switch {
		case errors.Is(err, repositories.ErrAssignmentConflict):
			return nil, ErrDuplicateAssignment
		case errors.Is(err, repositories.ErrAssignmentAttendanceInvalid):
			return nil, ErrAttendanceNotFound
		case errors.Is(err, repositories.ErrAssignmentPlayerInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.sink.Publish(ctx, events.New(events.TypePlayerAssigned, events.PlayerAssigned{
		AssignmentID:   assignment.ID,
		CarnivalClubID: carnivalClubID,
		ClubPlayerID:   clubPlayerID,
		TeamNumber:     teamNumber,
	}))
	return assignment, nil
}

// ReassignTeam moves an assignment to a different team within the same
// attendance, or to nil (unassigned). Reassigning to the current value is a
// no-op.
func (s *registrationService) ReassignTeam(ctx context.Context, assignmentID int, newTeamNumber *int) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get assignment %d: %w", assignmentID, err)
	}

	if teamNumbersEqual(assignment.TeamNumber, newTeamNumber) {
		return nil
	}

	if newTeamNumber != nil {
		attendance, err := s.attendanceRepo.GetByID(ctx, assignment.CarnivalClubID)
		if err != nil {
			return fmt.Errorf("failed to get attendance %d: %w", assignment.CarnivalClubID, err)
		}
		if *newTeamNumber < 1 || *newTeamNumber > attendance.NumberOfTeams {
			return ErrTeamNumberOutOfRange
		}
	}

	if err := s.assignmentRepo.UpdateTeamNumber(ctx, assignmentID, newTeamNumber); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to reassign team for assignment %d: %w", assignmentID, err)
	}
	return nil
}

// SetAttendanceStatus is a pure status transition. Every transition between
// the three statuses is legal, and neither is_active nor team_number change.
func (s *registrationService) SetAttendanceStatus(ctx context.Context, assignmentID int, status models.AttendanceStatus) error {
	if !status.Valid() {
		return ErrInvalidAttendanceStatus
	}
	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, status); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to set status for assignment %d: %w", assignmentID, err)
	}
	return nil
}

// WithdrawPlayer deactivates an assignment but keeps the row: who was ever
// assigned is part of the attendance history.
func (s *registrationService) WithdrawPlayer(ctx context.Context, assignmentID int) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get assignment %d: %w", assignmentID, err)
	}

	if err := s.assignmentRepo.SetActive(ctx, assignmentID, false); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to withdraw assignment %d: %w", assignmentID, err)
	}

	s.sink.Publish(ctx, events.New(events.TypePlayerWithdrawn, events.PlayerWithdrawn{
		AssignmentID:   assignmentID,
		CarnivalClubID: assignment.CarnivalClubID,
		ClubPlayerID:   assignment.ClubPlayerID,
	}))
	return nil
}

// RemovePlayer deletes the assignment row outright. This is the only path
// that loses assignment history; withdrawal is the non-destructive default.
func (s *registrationService) RemovePlayer(ctx context.Context, assignmentID int) error {
	if err := s.assignmentRepo.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to remove assignment %d: %w", assignmentID, err)
	}
	return nil
}

func (s *registrationService) ComputeFees(ctx context.Context, carnivalClubID int) (*FeeBreakdown, error) {
	attendance, err := s.attendanceRepo.GetByID(ctx, carnivalClubID)
	if err != nil {
		if errors.Is(err, repositories.ErrCarnivalClubNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance %d: %w", carnivalClubID, err)
	}

	carnival, err := s.carnivalRepo.GetByID(ctx, attendance.CarnivalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get carnival %d: %w", attendance.CarnivalID, err)
	}

	confirmed, err := s.assignmentRepo.CountActiveConfirmed(ctx, carnivalClubID)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed players for attendance %d: %w", carnivalClubID, err)
	}

	teamFeeTotal := carnival.TeamRegistrationFee * float64(attendance.NumberOfTeams)
	playerFeeTotal := carnival.PerPlayerFee * float64(confirmed)
	return &FeeBreakdown{
		TeamFeeTotal:   teamFeeTotal,
		PlayerFeeTotal: playerFeeTotal,
		GrandTotal:     teamFeeTotal + playerFeeTotal,
	}, nil
}

func (s *registrationService) ListAttendingClubs(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error) {
	attendances, err := s.attendanceRepo.ListByCarnival(ctx, carnivalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for carnival %d: %w", carnivalID, err)
	}
	return attendances, nil
}

func (s *registrationService) ListAssignments(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error) {
	assignments, err := s.assignmentRepo.ListByCarnivalClub(ctx, carnivalClubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for attendance %d: %w", carnivalClubID, err)
	}
	return assignments, nil
}

func teamNumbersEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
