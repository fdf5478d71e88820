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
	ErrCarnivalClubNotFound = errors.New("carnival club not found")
	// ErrCarnivalClubConflict means the club already has an attendance row
	// for this carnival.
	ErrCarnivalClubConflict        = errors.New("carnival club conflict: club already registered for this carnival")
	ErrCarnivalClubCarnivalInvalid = errors.New("carnival club carnival conflict or invalid")
	ErrCarnivalClubClubInvalid     = errors.New("carnival club club conflict or invalid")
	// ErrCarnivalClubReductionBlocked means assignments exist above the
	// requested team count. UpdateNumberOfTeams returns the conflicting
	// player ids alongside this error.
	ErrCarnivalClubReductionBlocked = errors.New("carnival club team count reduction blocked by existing assignments")
)

type CarnivalClubRepository interface {
	Create(ctx context.Context, cc *models.CarnivalClub) error
	GetByID(ctx context.Context, id int) (*models.CarnivalClub, error)
	FindByCarnivalAndClub(ctx context.Context, carnivalID, clubID int) (*models.CarnivalClub, error)
	ListByCarnival(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error)
	// UpdateNumberOfTeams changes the team count inside a transaction. When
	// the new count would strand assignments with a higher team number the
	// update is abandoned and the ids of the affected club players are
	// returned with ErrCarnivalClubReductionBlocked.
	UpdateNumberOfTeams(ctx context.Context, id, newCount int) ([]int, error)
	Delete(ctx context.Context, id int) error
}

type postgresCarnivalClubRepository struct {
	db *sql.DB
}

func NewPostgresCarnivalClubRepository(db *sql.DB) CarnivalClubRepository {
	return &postgresCarnivalClubRepository{db: db}
}

func (r *postgresCarnivalClubRepository) Create(ctx context.Context, cc *models.CarnivalClub) error {
	query := `
		INSERT INTO carnival_clubs (carnival_id, club_id, number_of_teams)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, cc.CarnivalID, cc.ClubID, cc.NumberOfTeams).
		Scan(&cc.ID, &cc.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "carnival_clubs_carnival_id_club_id_key" {
					return ErrCarnivalClubConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "carnival_clubs_carnival_id_fkey":
					return ErrCarnivalClubCarnivalInvalid
				case "carnival_clubs_club_id_fkey":
					return ErrCarnivalClubClubInvalid
				}
			}
		}
		return fmt.Errorf("failed to create carnival club: %w", err)
	}
	return nil
}

func (r *postgresCarnivalClubRepository) scanCarnivalClub(rowScanner interface {
	Scan(dest ...interface{}) error
}, cc *models.CarnivalClub) error {
	return rowScanner.Scan(&cc.ID, &cc.CarnivalID, &cc.ClubID, &cc.NumberOfTeams, &cc.CreatedAt)
}

func (r *postgresCarnivalClubRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.CarnivalClub, error) {
	cc := &models.CarnivalClub{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanCarnivalClub(row, cc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarnivalClubNotFound
		}
		return nil, fmt.Errorf("failed to find carnival club: %w", err)
	}
	return cc, nil
}

func (r *postgresCarnivalClubRepository) GetByID(ctx context.Context, id int) (*models.CarnivalClub, error) {
	query := `SELECT id, carnival_id, club_id, number_of_teams, created_at FROM carnival_clubs WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresCarnivalClubRepository) FindByCarnivalAndClub(ctx context.Context, carnivalID, clubID int) (*models.CarnivalClub, error) {
	query := `SELECT id, carnival_id, club_id, number_of_teams, created_at FROM carnival_clubs WHERE carnival_id = $1 AND club_id = $2`
	return r.findOne(ctx, query, carnivalID, clubID)
}

func (r *postgresCarnivalClubRepository) ListByCarnival(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error) {
	query := `
		SELECT id, carnival_id, club_id, number_of_teams, created_at
		FROM carnival_clubs
		WHERE carnival_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, carnivalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list carnival clubs: %w", err)
	}
	defer rows.Close()

	attendances := make([]*models.CarnivalClub, 0)
	for rows.Next() {
		var cc models.CarnivalClub
		if err := r.scanCarnivalClub(rows, &cc); err != nil {
			return nil, fmt.Errorf("failed to scan carnival club row: %w", err)
		}
		attendances = append(attendances, &cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carnival club rows: %w", err)
	}
	return attendances, nil
}

func (r *postgresCarnivalClubRepository) UpdateNumberOfTeams(ctx context.Context, id, newCount int) ([]int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin team count transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock assignments above the new bound so a concurrent reassignment
	// cannot slip in between the check and the update.
	rows, err := tx.QueryContext(ctx, `
		SELECT club_player_id
		FROM carnival_club_players
		WHERE carnival_club_id = $1 AND team_number > $2
		ORDER BY club_player_id ASC
		FOR UPDATE`, id, newCount)
	if err != nil {
		return nil, fmt.Errorf("failed to check assignments above team count: %w", err)
	}

	blocked := make([]int, 0)
	for rows.Next() {
		var playerID int
		if err := rows.Scan(&playerID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan blocking assignment row: %w", err)
		}
		blocked = append(blocked, playerID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating blocking assignment rows: %w", err)
	}
	rows.Close()

	if len(blocked) > 0 {
		return blocked, ErrCarnivalClubReductionBlocked
	}

	result, err := tx.ExecContext(ctx, `UPDATE carnival_clubs SET number_of_teams = $1 WHERE id = $2`, newCount, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update team count: %w", err)
	}
	if err := checkAffectedRows(result, ErrCarnivalClubNotFound); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit team count transaction: %w", err)
	}
	return nil, nil
}

// Delete removes the attendance and, through the ON DELETE CASCADE on
// carnival_club_players, every assignment under it.
func (r *postgresCarnivalClubRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM carnival_clubs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete carnival club: %w", err)
	}
	return checkAffectedRows(result, ErrCarnivalClubNotFound)
}
