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
	ErrCarnivalNotFound = errors.New("carnival not found")
	// ErrCarnivalAlreadyClaimed means the conditional claim update matched a
	// row that already has an owner.
	ErrCarnivalAlreadyClaimed       = errors.New("carnival already claimed")
	ErrCarnivalMySidelineIDConflict = errors.New("carnival mysideline id conflict")
	ErrCarnivalUserInvalid          = errors.New("carnival claimed-by user conflict or invalid")
)

type CarnivalRepository interface {
	Create(ctx context.Context, carnival *models.Carnival) error
	GetByID(ctx context.Context, id int) (*models.Carnival, error)
	GetByMySidelineID(ctx context.Context, mySidelineID string) (*models.Carnival, error)
	// Update writes the organiser-mutable columns. The provenance columns
	// (mysideline_id, mysideline_subtitle, original_mysideline_contact_email)
	// and the claim column are never part of the statement.
	Update(ctx context.Context, carnival *models.Carnival) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	// Claim performs the atomic unclaimed-to-claimed transition. The update
	// only matches rows with claimed_by_user_id IS NULL, which closes the
	// race between two organisers claiming concurrently.
	Claim(ctx context.Context, id, userID int, contactEmailOverride *string) error
	List(ctx context.Context, limit, offset int) ([]models.Carnival, error)
	ListUnclaimed(ctx context.Context) ([]models.Carnival, error)
}

type postgresCarnivalRepository struct {
	db *sql.DB
}

func NewPostgresCarnivalRepository(db *sql.DB) CarnivalRepository {
	return &postgresCarnivalRepository{db: db}
}

const carnivalColumns = `
	id, title, subtitle, mysideline_id, mysideline_subtitle, original_mysideline_contact_email,
	contact_email, address_line1, address_line2, suburb, state,
	team_registration_fee, per_player_fee, start_date, end_date,
	claimed_by_user_id, logo_key, created_at`

func (r *postgresCarnivalRepository) Create(ctx context.Context, carnival *models.Carnival) error {
	query := `
		INSERT INTO carnivals (
			title, subtitle, mysideline_id, mysideline_subtitle, original_mysideline_contact_email,
			contact_email, address_line1, address_line2, suburb, state,
			team_registration_fee, per_player_fee, start_date, end_date, claimed_by_user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		carnival.Title,
		carnival.Subtitle,
		carnival.MySidelineID,
		carnival.MySidelineSubtitle,
		carnival.OriginalMySidelineContactEmail,
		carnival.ContactEmail,
		carnival.AddressLine1,
		carnival.AddressLine2,
		carnival.Suburb,
		carnival.State,
		carnival.TeamRegistrationFee,
		carnival.PerPlayerFee,
		carnival.StartDate,
		carnival.EndDate,
		carnival.ClaimedByUserID,
	).Scan(&carnival.ID, &carnival.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "carnivals_mysideline_id_key" {
					return ErrCarnivalMySidelineIDConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "carnivals_claimed_by_user_id_fkey" {
					return ErrCarnivalUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create carnival: %w", err)
	}
	return nil
}

func (r *postgresCarnivalRepository) scanCarnival(rowScanner interface {
	Scan(dest ...interface{}) error
}, c *models.Carnival) error {
	return rowScanner.Scan(
		&c.ID,
		&c.Title,
		&c.Subtitle,
		&c.MySidelineID,
		&c.MySidelineSubtitle,
		&c.OriginalMySidelineContactEmail,
		&c.ContactEmail,
		&c.AddressLine1,
		&c.AddressLine2,
		&c.Suburb,
		&c.State,
		&c.TeamRegistrationFee,
		&c.PerPlayerFee,
		&c.StartDate,
		&c.EndDate,
		&c.ClaimedByUserID,
		&c.LogoKey,
		&c.CreatedAt,
	)
}

func (r *postgresCarnivalRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Carnival, error) {
	c := &models.Carnival{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanCarnival(row, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to find carnival: %w", err)
	}
	return c, nil
}

func (r *postgresCarnivalRepository) GetByID(ctx context.Context, id int) (*models.Carnival, error) {
	query := `SELECT` + carnivalColumns + ` FROM carnivals WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresCarnivalRepository) GetByMySidelineID(ctx context.Context, mySidelineID string) (*models.Carnival, error) {
	query := `SELECT` + carnivalColumns + ` FROM carnivals WHERE mysideline_id = $1`
	return r.findOne(ctx, query, mySidelineID)
}

func (r *postgresCarnivalRepository) Update(ctx context.Context, carnival *models.Carnival) error {
	query := `
		UPDATE carnivals
		SET title = $1, subtitle = $2, contact_email = $3,
			address_line1 = $4, address_line2 = $5, suburb = $6, state = $7,
			team_registration_fee = $8, per_player_fee = $9,
			start_date = $10, end_date = $11
		WHERE id = $12`

	result, err := r.db.ExecContext(ctx, query,
		carnival.Title,
		carnival.Subtitle,
		carnival.ContactEmail,
		carnival.AddressLine1,
		carnival.AddressLine2,
		carnival.Suburb,
		carnival.State,
		carnival.TeamRegistrationFee,
		carnival.PerPlayerFee,
		carnival.StartDate,
		carnival.EndDate,
		carnival.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update carnival: %w", err)
	}
	return checkAffectedRows(result, ErrCarnivalNotFound)
}

func (r *postgresCarnivalRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE carnivals SET logo_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return fmt.Errorf("failed to update carnival logo key: %w", err)
	}
	return checkAffectedRows(result, ErrCarnivalNotFound)
}

func (r *postgresCarnivalRepository) Claim(ctx context.Context, id, userID int, contactEmailOverride *string) error {
	query := `
		UPDATE carnivals
		SET claimed_by_user_id = $2, contact_email = COALESCE($3, contact_email)
		WHERE id = $1 AND claimed_by_user_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, userID, contactEmailOverride)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "carnivals_claimed_by_user_id_fkey" {
				return ErrCarnivalUserInvalid
			}
		}
		return fmt.Errorf("failed to claim carnival: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for carnival claim: %w", err)
	}
	if rowsAffected == 0 {
		// Zero rows means either the carnival does not exist or it is
		// already claimed; look it up to report the right failure.
		var claimedBy sql.NullInt64
		err := r.db.QueryRowContext(ctx, `SELECT claimed_by_user_id FROM carnivals WHERE id = $1`, id).Scan(&claimedBy)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCarnivalNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to inspect carnival after claim miss: %w", err)
		}
		return ErrCarnivalAlreadyClaimed
	}
	return nil
}

func (r *postgresCarnivalRepository) List(ctx context.Context, limit, offset int) ([]models.Carnival, error) {
	query := `SELECT` + carnivalColumns + ` FROM carnivals ORDER BY start_date ASC NULLS LAST, id ASC LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *postgresCarnivalRepository) ListUnclaimed(ctx context.Context) ([]models.Carnival, error) {
	query := `SELECT` + carnivalColumns + ` FROM carnivals WHERE claimed_by_user_id IS NULL ORDER BY start_date ASC NULLS LAST, id ASC`
	return r.list(ctx, query)
}

func (r *postgresCarnivalRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Carnival, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list carnivals: %w", err)
	}
	defer rows.Close()

	carnivals := make([]models.Carnival, 0)
	for rows.Next() {
		var c models.Carnival
		if err := r.scanCarnival(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan carnival row: %w", err)
		}
		carnivals = append(carnivals, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carnival rows: %w", err)
	}
	return carnivals, nil
}
