package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/footyops/carnival-system/models"
	"github.com/lib/pq"
)

var (
	ErrAssignmentNotFound = errors.New("player assignment not found")
	// ErrAssignmentConflict means the player already has an assignment row
	// under this attendance, active or withdrawn.
	ErrAssignmentConflict          = errors.New("player assignment conflict: player already assigned for this attendance")
	ErrAssignmentAttendanceInvalid = errors.New("player assignment carnival club conflict or invalid")
	ErrAssignmentPlayerInvalid     = errors.New("player assignment club player conflict or invalid")
)

type CarnivalClubPlayerRepository interface {
	Create(ctx context.Context, ccp *models.CarnivalClubPlayer) error
	GetByID(ctx context.Context, id int) (*models.CarnivalClubPlayer, error)
	FindByAttendanceAndPlayer(ctx context.Context, carnivalClubID, clubPlayerID int) (*models.CarnivalClubPlayer, error)
	ListByCarnivalClub(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error)
	UpdateTeamNumber(ctx context.Context, id int, teamNumber *int) error
	UpdateStatus(ctx context.Context, id int, status models.AttendanceStatus) error
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	CountActiveConfirmed(ctx context.Context, carnivalClubID int) (int, error)
}

type postgresCarnivalClubPlayerRepository struct {
	db *sql.DB
}

func NewPostgresCarnivalClubPlayerRepository(db *sql.DB) CarnivalClubPlayerRepository {
	return &postgresCarnivalClubPlayerRepository{db: db}
}

func (r *postgresCarnivalClubPlayerRepository) Create(ctx context.Context, ccp *models.CarnivalClubPlayer) error {
	query := `
		INSERT INTO carnival_club_players (carnival_club_id, club_player_id, is_active, attendance_status, team_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, added_at`

	err := r.db.QueryRowContext(ctx, query,
		ccp.CarnivalClubID,
		ccp.ClubPlayerID,
		ccp.IsActive,
		ccp.AttendanceStatus,
		ccp.TeamNumber,
		ccp.Notes,
	).Scan(&ccp.ID, &ccp.AddedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "carnival_club_players_carnival_club_id_club_player_id_key" {
					return ErrAssignmentConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "carnival_club_players_carnival_club_id_fkey":
					return ErrAssignmentAttendanceInvalid
				case "carnival_club_players_club_player_id_fkey":
					return ErrAssignmentPlayerInvalid
				}
			}
		}
		return fmt.Errorf("failed to create player assignment: %w", err)
	}
	return nil
}

func (r *postgresCarnivalClubPlayerRepository) scanAssignment(rowScanner interface {
	Scan(dest ...interface{}) error
}, ccp *models.CarnivalClubPlayer) error {
	return rowScanner.Scan(
		&ccp.ID,
		&ccp.CarnivalClubID,
		&ccp.ClubPlayerID,
		&ccp.IsActive,
		&ccp.AttendanceStatus,
		&ccp.TeamNumber,
		&ccp.Notes,
		&ccp.AddedAt,
	)
}

func (r *postgresCarnivalClubPlayerRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.CarnivalClubPlayer, error) {
	ccp := &models.CarnivalClubPlayer{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanAssignment(row, ccp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find player assignment: %w", err)
	}
	return ccp, nil
}

func (r *postgresCarnivalClubPlayerRepository) GetByID(ctx context.Context, id int) (*models.CarnivalClubPlayer, error) {
	query := `
		SELECT id, carnival_club_id, club_player_id, is_active, attendance_status, team_number, notes, added_at
		FROM carnival_club_players
		WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresCarnivalClubPlayerRepository) FindByAttendanceAndPlayer(ctx context.Context, carnivalClubID, clubPlayerID int) (*models.CarnivalClubPlayer, error) {
	query := `
		SELECT id, carnival_club_id, club_player_id, is_active, attendance_status, team_number, notes, added_at
		FROM carnival_club_players
		WHERE carnival_club_id = $1 AND club_player_id = $2`
	return r.findOne(ctx, query, carnivalClubID, clubPlayerID)
}

func (r *postgresCarnivalClubPlayerRepository) ListByCarnivalClub(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error) {
	query := `
		SELECT id, carnival_club_id, club_player_id, is_active, attendance_status, team_number, notes, added_at
		FROM carnival_club_players
		WHERE carnival_club_id = $1
		ORDER BY added_at ASC`

	rows, err := r.db.QueryContext(ctx, query, carnivalClubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.CarnivalClubPlayer, 0)
	for rows.Next() {
		var ccp models.CarnivalClubPlayer
		if err := r.scanAssignment(rows, &ccp); err != nil {
			return nil, fmt.Errorf("failed to scan player assignment row: %w", err)
		}
		assignments = append(assignments, &ccp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player assignment rows: %w", err)
	}
	return assignments, nil
}

func (r *postgresCarnivalClubPlayerRepository) UpdateTeamNumber(ctx context.Context, id int, teamNumber *int) error {
	query := `UPDATE carnival_club_players SET team_number = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, teamNumber, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment team number: %w", err)
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

func (r *postgresCarnivalClubPlayerRepository) UpdateStatus(ctx context.Context, id int, status models.AttendanceStatus) error {
	query := `UPDATE carnival_club_players SET attendance_status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

func (r *postgresCarnivalClubPlayerRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE carnival_club_players SET is_active = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment active flag: %w", err)
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

func (r *postgresCarnivalClubPlayerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM carnival_club_players WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete player assignment: %w", err)
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

// CountActiveConfirmed counts the assignments that contribute to the
// per-player fee: active rows with confirmed attendance.
func (r *postgresCarnivalClubPlayerRepository) CountActiveConfirmed(ctx context.Context, carnivalClubID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM carnival_club_players
		WHERE carnival_club_id = $1 AND is_active = TRUE AND attendance_status = 'confirmed'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, carnivalClubID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count confirmed assignments: %w", err)
	}
	return count, nil
}
