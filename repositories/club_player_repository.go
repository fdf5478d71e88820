package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/footyops/carnival-system/models"
	"github.com/lib/pq"
)

var (
	ErrClubPlayerNotFound = errors.New("club player not found")
	// ErrClubPlayerIdentityConflict means a player with the same
	// (club, first name, last name, date of birth) tuple already exists.
	ErrClubPlayerIdentityConflict = errors.New("club player identity conflict")
	ErrClubPlayerClubInvalid      = errors.New("club player club conflict or invalid")
)

type ClubPlayerRepository interface {
	Create(ctx context.Context, player *models.ClubPlayer) error
	GetByID(ctx context.Context, id int) (*models.ClubPlayer, error)
	FindByIdentity(ctx context.Context, clubID int, firstName, lastName string, dateOfBirth time.Time) (*models.ClubPlayer, error)
	Update(ctx context.Context, player *models.ClubPlayer) error
	SetActive(ctx context.Context, id int, active bool) error
	ListByClub(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error)
}

type postgresClubPlayerRepository struct {
	db *sql.DB
}

func NewPostgresClubPlayerRepository(db *sql.DB) ClubPlayerRepository {
	return &postgresClubPlayerRepository{db: db}
}

func (r *postgresClubPlayerRepository) Create(ctx context.Context, player *models.ClubPlayer) error {
	query := `
		INSERT INTO club_players (club_id, first_name, last_name, date_of_birth, email, is_active, shorts_color, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, registered_at`

	err := r.db.QueryRowContext(ctx, query,
		player.ClubID,
		player.FirstName,
		player.LastName,
		player.DateOfBirth,
		player.Email,
		player.IsActive,
		player.ShortsColor,
		player.Notes,
	).Scan(&player.ID, &player.RegisteredAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "club_players_identity_key" {
					return ErrClubPlayerIdentityConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "club_players_club_id_fkey" {
					return ErrClubPlayerClubInvalid
				}
			}
		}
		return fmt.Errorf("failed to create club player: %w", err)
	}
	return nil
}

func (r *postgresClubPlayerRepository) scanPlayer(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.ClubPlayer) error {
	return rowScanner.Scan(
		&p.ID,
		&p.ClubID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Email,
		&p.IsActive,
		&p.ShortsColor,
		&p.Notes,
		&p.RegisteredAt,
	)
}

func (r *postgresClubPlayerRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.ClubPlayer, error) {
	p := &models.ClubPlayer{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanPlayer(row, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find club player: %w", err)
	}
	return p, nil
}

func (r *postgresClubPlayerRepository) GetByID(ctx context.Context, id int) (*models.ClubPlayer, error) {
	query := `
		SELECT id, club_id, first_name, last_name, date_of_birth, email, is_active, shorts_color, notes, registered_at
		FROM club_players
		WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresClubPlayerRepository) FindByIdentity(ctx context.Context, clubID int, firstName, lastName string, dateOfBirth time.Time) (*models.ClubPlayer, error) {
	query := `
		SELECT id, club_id, first_name, last_name, date_of_birth, email, is_active, shorts_color, notes, registered_at
		FROM club_players
		WHERE club_id = $1 AND first_name = $2 AND last_name = $3 AND date_of_birth = $4`
	return r.findOne(ctx, query, clubID, firstName, lastName, dateOfBirth)
}

// Update writes the mutable player attributes. Identity columns (club, name,
// date of birth) are never part of the statement.
func (r *postgresClubPlayerRepository) Update(ctx context.Context, player *models.ClubPlayer) error {
	query := `
		UPDATE club_players
		SET email = $1, shorts_color = $2, notes = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, player.Email, player.ShortsColor, player.Notes, player.ID)
	if err != nil {
		return fmt.Errorf("failed to update club player: %w", err)
	}
	return checkAffectedRows(result, ErrClubPlayerNotFound)
}

func (r *postgresClubPlayerRepository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE club_players SET is_active = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update club player active flag: %w", err)
	}
	return checkAffectedRows(result, ErrClubPlayerNotFound)
}

func (r *postgresClubPlayerRepository) ListByClub(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error) {
	query := `
		SELECT id, club_id, first_name, last_name, date_of_birth, email, is_active, shorts_color, notes, registered_at
		FROM club_players
		WHERE club_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list club players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.ClubPlayer, 0)
	for rows.Next() {
		var p models.ClubPlayer
		if err := r.scanPlayer(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan club player row: %w", err)
		}
		players = append(players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating club player rows: %w", err)
	}
	return players, nil
}
