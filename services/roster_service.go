package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
)

// PlayerIdentity is the tuple that uniquely determines a player within a
// club. Identity fields are immutable after creation; correcting them goes
// through ReplaceIdentity, never an in-place edit, so assignment history in
// the attendance ledger stays attached to the record it was made against.
type PlayerIdentity struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
}

type AddPlayerInput struct {
	Email       string
	ShortsColor models.ShortsColor
	Notes       *string
}

// UpdatePlayerInput carries the mutable player attributes. Email may change
// freely; it is not checked for uniqueness anywhere.
type UpdatePlayerInput struct {
	Email       *string
	ShortsColor *models.ShortsColor
	Notes       *string
}

type RosterService interface {
	AddPlayer(ctx context.Context, clubID int, identity PlayerIdentity, input AddPlayerInput) (*models.ClubPlayer, error)
	FindByIdentity(ctx context.Context, clubID int, identity PlayerIdentity) (*models.ClubPlayer, error)
	UpdatePlayer(ctx context.Context, playerID int, input UpdatePlayerInput) (*models.ClubPlayer, error)
	DeactivatePlayer(ctx context.Context, playerID int) error
	ReplaceIdentity(ctx context.Context, playerID int, newIdentity PlayerIdentity) (*models.ClubPlayer, error)
	ListClubPlayers(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error)
}

type rosterService struct {
	playerRepo repositories.ClubPlayerRepository
	clubRepo   repositories.ClubRepository
}

func NewRosterService(
	playerRepo repositories.ClubPlayerRepository,
	clubRepo repositories.ClubRepository,
) RosterService {
	return &rosterService{
		playerRepo: playerRepo,
		clubRepo:   clubRepo,
	}
}

func (s *rosterService) AddPlayer(ctx context.Context, clubID int, identity PlayerIdentity, input AddPlayerInput) (*models.ClubPlayer, error) {
	if strings.TrimSpace(identity.FirstName) == "" || strings.TrimSpace(identity.LastName) == "" {
		return nil, ErrPlayerNameRequired
	}
	shortsColor := input.ShortsColor
	if shortsColor == "" {
		shortsColor = models.ShortsUnrestricted
	}
	if !shortsColor.Valid() {
		return nil, ErrInvalidShortsColor
	}

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to check club %d: %w", clubID, err)
	}

	// Pre-check for a friendlier error; the unique constraint still closes
	// the race between concurrent callers.
	existing, err := s.playerRepo.FindByIdentity(ctx, clubID, identity.FirstName, identity.LastName, identity.DateOfBirth)
	if err != nil && !errors.Is(err, repositories.ErrClubPlayerNotFound) {
		return nil, fmt.Errorf("failed to check player identity: %w", err)
	}
	if existing != nil {
		return nil, ErrIdentityConflict
	}

	player := &models.ClubPlayer{
		ClubID:      clubID,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		DateOfBirth: identity.DateOfBirth,
		Email:       input.Email,
		IsActive:    true,
		ShortsColor: shortsColor,
		Notes:       input.Notes,
	}

	if err := s.playerRepo.Create(ctx, player); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubPlayerIdentityConflict):
			return nil, ErrIdentityConflict
		case errors.Is(err, repositories.ErrClubPlayerClubInvalid):
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to create club player: %w", err)
	}
	return player, nil
}

func (s *rosterService) FindByIdentity(ctx context.Context, clubID int, identity PlayerIdentity) (*models.ClubPlayer, error) {
	player, err := s.playerRepo.FindByIdentity(ctx, clubID, identity.FirstName, identity.LastName, identity.DateOfBirth)
	if err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find player by identity: %w", err)
	}
	return player, nil
}

func (s *rosterService) UpdatePlayer(ctx context.Context, playerID int, input UpdatePlayerInput) (*models.ClubPlayer, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	if input.Email != nil {
		player.Email = *input.Email
	}
	if input.ShortsColor != nil {
		if !input.ShortsColor.Valid() {
			return nil, ErrInvalidShortsColor
		}
		player.ShortsColor = *input.ShortsColor
	}
	if input.Notes != nil {
		player.Notes = input.Notes
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	return player, nil
}

func (s *rosterService) DeactivatePlayer(ctx context.Context, playerID int) error {
	if err := s.playerRepo.SetActive(ctx, playerID, false); err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to deactivate player %d: %w", playerID, err)
	}
	return nil
}

// ReplaceIdentity corrects a player's identity by deactivating the old
// record and creating a new one with the remaining attributes carried over.
// The old record and its assignments are retained for audit continuity.
func (s *rosterService) ReplaceIdentity(ctx context.Context, playerID int, newIdentity PlayerIdentity) (*models.ClubPlayer, error) {
	old, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	replacement, err := s.AddPlayer(ctx, old.ClubID, newIdentity, AddPlayerInput{
		Email:       old.Email,
		ShortsColor: old.ShortsColor,
		Notes:       old.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.playerRepo.SetActive(ctx, old.ID, false); err != nil {
		return nil, fmt.Errorf("failed to deactivate replaced player %d: %w", old.ID, err)
	}
	return replacement, nil
}

func (s *rosterService) ListClubPlayers(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error) {
	players, err := s.playerRepo.ListByClub(ctx, clubID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for club %d: %w", clubID, err)
	}
	return players, nil
}
