package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
)

// ClaimService moves a carnival through its only state transition:
// unclaimed (claimed_by_user_id IS NULL) to claimed. There is no reverse.
type ClaimService interface {
	Claim(ctx context.Context, carnivalID, userID int, contactEmailOverride *string) (*models.Carnival, error)
}

type claimService struct {
	carnivalRepo repositories.CarnivalRepository
	userRepo     repositories.UserRepository
	sink         events.Sink
	emails       EmailSender
	logger       *slog.Logger
}

func NewClaimService(
	carnivalRepo repositories.CarnivalRepository,
	userRepo repositories.UserRepository,
	sink events.Sink,
	emails EmailSender,
	logger *slog.Logger,
) ClaimService {
	return &claimService{
		carnivalRepo: carnivalRepo,
		userRepo:     userRepo,
		sink:         sink,
		emails:       emails,
		logger:       logger,
	}
}

// Claim assigns ownership of a carnival to an organiser. The repository runs
// the transition as a single conditional update, so two organisers racing on
// the same carnival cannot both win. The optional contactEmailOverride
// replaces the operational contact email; the original MySideline contact
// email is never touched.
func (s *claimService) Claim(ctx context.Context, carnivalID, userID int, contactEmailOverride *string) (*models.Carnival, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if err := s.carnivalRepo.Claim(ctx, carnivalID, userID, contactEmailOverride); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCarnivalNotFound):
			return nil, ErrCarnivalNotFound
		case errors.Is(err, repositories.ErrCarnivalAlreadyClaimed):
			return nil, ErrAlreadyClaimed
		case errors.Is(err, repositories.ErrCarnivalUserInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to claim carnival %d: %w", carnivalID, err)
	}

	carnival, err := s.carnivalRepo.GetByID(ctx, carnivalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload carnival %d after claim: %w", carnivalID, err)
	}

	s.sink.Publish(ctx, events.New(events.TypeCarnivalClaimed, events.CarnivalClaimed{
		CarnivalID: carnivalID,
		UserID:     userID,
	}))

	// Let the original MySideline contact know their carnival has an owner
	// now. Delivery failures are logged, never surfaced: the claim itself
	// already committed.
	if carnival.OriginalMySidelineContactEmail != nil {
		claimant := fmt.Sprintf("%s %s", user.FirstName, user.LastName)
		if err := s.emails.SendCarnivalClaimedEmail(*carnival.OriginalMySidelineContactEmail, carnival.Title, claimant); err != nil {
			s.logger.Warn("failed to send claim notification",
				slog.Int("carnival_id", carnivalID),
				slog.Any("error", err))
		}
	}

	return carnival, nil
}
