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
	ErrSponsorNotFound = errors.New("sponsor not found")
	// ErrSponsorConflict means a sponsor with the same
	// (name, club, state, location) tuple already exists.
	ErrSponsorConflict    = errors.New("sponsor conflict: sponsor already exists for this club, state and location")
	ErrSponsorClubInvalid = errors.New("sponsor club conflict or invalid")
)

type SponsorRepository interface {
	Create(ctx context.Context, sponsor *models.Sponsor) error
	GetByID(ctx context.Context, id int) (*models.Sponsor, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Sponsor, error)
	UpdateLevel(ctx context.Context, id int, level models.SponsorshipLevel) error
	Delete(ctx context.Context, id int) error
}

type postgresSponsorRepository struct {
	db *sql.DB
}

func NewPostgresSponsorRepository(db *sql.DB) SponsorRepository {
	return &postgresSponsorRepository{db: db}
}

func (r *postgresSponsorRepository) Create(ctx context.Context, sponsor *models.Sponsor) error {
	query := `
		INSERT INTO sponsors (sponsor_name, club_id, state, location, sponsorship_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		sponsor.SponsorName,
		sponsor.ClubID,
		sponsor.State,
		sponsor.Location,
		sponsor.SponsorshipLevel,
	).Scan(&sponsor.ID, &sponsor.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "sponsors_identity_key" {
					return ErrSponsorConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "sponsors_club_id_fkey" {
					return ErrSponsorClubInvalid
				}
			}
		}
		return fmt.Errorf("failed to create sponsor: %w", err)
	}
	return nil
}

func (r *postgresSponsorRepository) scanSponsor(rowScanner interface {
	Scan(dest ...interface{}) error
}, s *models.Sponsor) error {
	return rowScanner.Scan(
		&s.ID,
		&s.SponsorName,
		&s.ClubID,
		&s.State,
		&s.Location,
		&s.SponsorshipLevel,
		&s.CreatedAt,
	)
}

func (r *postgresSponsorRepository) GetByID(ctx context.Context, id int) (*models.Sponsor, error) {
	query := `
		SELECT id, sponsor_name, club_id, state, location, sponsorship_level, created_at
		FROM sponsors
		WHERE id = $1`

	s := &models.Sponsor{}
	row := r.db.QueryRowContext(ctx, query, id)
	if err := r.scanSponsor(row, s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSponsorNotFound
		}
		return nil, fmt.Errorf("failed to find sponsor: %w", err)
	}
	return s, nil
}

func (r *postgresSponsorRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Sponsor, error) {
	query := `
		SELECT id, sponsor_name, club_id, state, location, sponsorship_level, created_at
		FROM sponsors
		WHERE club_id = $1
		ORDER BY sponsorship_level ASC, sponsor_name ASC`

	rows, err := r.db.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors: %w", err)
	}
	defer rows.Close()

	sponsors := make([]*models.Sponsor, 0)
	for rows.Next() {
		var s models.Sponsor
		if err := r.scanSponsor(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan sponsor row: %w", err)
		}
		sponsors = append(sponsors, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sponsor rows: %w", err)
	}
	return sponsors, nil
}

func (r *postgresSponsorRepository) UpdateLevel(ctx context.Context, id int, level models.SponsorshipLevel) error {
	query := `UPDATE sponsors SET sponsorship_level = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, level, id)
	if err != nil {
		return fmt.Errorf("failed to update sponsor level: %w", err)
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}

func (r *postgresSponsorRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sponsors WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete sponsor: %w", err)
	}
	return checkAffectedRows(result, ErrSponsorNotFound)
}
