package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
)

type AddSponsorInput struct {
	SponsorName string
	State       string
	Location    string
	Level       models.SponsorshipLevel
}

type SponsorService interface {
	AddSponsor(ctx context.Context, clubID int, input AddSponsorInput) (*models.Sponsor, error)
	UpdateSponsorLevel(ctx context.Context, sponsorID int, level models.SponsorshipLevel) error
	ListClubSponsors(ctx context.Context, clubID int) ([]*models.Sponsor, error)
	DeleteSponsor(ctx context.Context, sponsorID int) error
}

type sponsorService struct {
	sponsorRepo repositories.SponsorRepository
	clubRepo    repositories.ClubRepository
}

func NewSponsorService(
	sponsorRepo repositories.SponsorRepository,
	clubRepo repositories.ClubRepository,
) SponsorService {
	return &sponsorService{
		sponsorRepo: sponsorRepo,
		clubRepo:    clubRepo,
	}
}

func (s *sponsorService) AddSponsor(ctx context.Context, clubID int, input AddSponsorInput) (*models.Sponsor, error) {
	if strings.TrimSpace(input.SponsorName) == "" {
		return nil, ErrSponsorNameRequired
	}
	level := input.Level
	if level == "" {
		level = models.SponsorshipSupporting
	}
	if !level.Valid() {
		return nil, ErrInvalidSponsorLevel
	}

	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to check club %d: %w", clubID, err)
	}

	sponsor := &models.Sponsor{
		SponsorName:      input.SponsorName,
		ClubID:           clubID,
		State:            input.State,
		Location:         input.Location,
		SponsorshipLevel: level,
	}
	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSponsorConflict):
			return nil, ErrDuplicateSponsor
		case errors.Is(err, repositories.ErrSponsorClubInvalid):
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to create sponsor: %w", err)
	}
	return sponsor, nil
}

func (s *sponsorService) UpdateSponsorLevel(ctx context.Context, sponsorID int, level models.SponsorshipLevel) error {
	if !level.Valid() {
		return ErrInvalidSponsorLevel
	}
	if err := s.sponsorRepo.UpdateLevel(ctx, sponsorID, level); err != nil {
		if errors.Is(err, repositories.ErrSponsorNotFound) {
			return ErrSponsorNotFound
		}
		return fmt.Errorf("failed to update sponsor %d level: %w", sponsorID, err)
	}
	return nil
}

func (s *sponsorService) ListClubSponsors(ctx context.Context, clubID int) ([]*models.Sponsor, error) {
	sponsors, err := s.sponsorRepo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsors for club %d: %w", clubID, err)
	}
	return sponsors, nil
}

func (s *sponsorService) DeleteSponsor(ctx context.Context, sponsorID int) error {
	if err := s.sponsorRepo.Delete(ctx, sponsorID); err != nil {
		if errors.Is(err, repositories.ErrSponsorNotFound) {
			return ErrSponsorNotFound
		}
		return fmt.Errorf("failed to delete sponsor %d: %w", sponsorID, err)
	}
	return nil
}
