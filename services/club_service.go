package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
	"github.com/footyops/carnival-system/storage"
	"github.com/google/uuid"
)

type ClubService interface {
	CreateClub(ctx context.Context, name string, state, location *string) (*models.Club, error)
	GetClubByID(ctx context.Context, clubID int) (*models.Club, error)
	ListClubs(ctx context.Context, limit, offset int) ([]models.Club, error)
	UpdateClub(ctx context.Context, club *models.Club) error
	DeleteClub(ctx context.Context, clubID int) error
	UploadLogo(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error)
}

type clubService struct {
	clubRepo repositories.ClubRepository
	uploader storage.FileUploader
}

func NewClubService(clubRepo repositories.ClubRepository, uploader storage.FileUploader) ClubService {
	return &clubService{
		clubRepo: clubRepo,
		uploader: uploader,
	}
}

func (s *clubService) CreateClub(ctx context.Context, name string, state, location *string) (*models.Club, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrClubNameRequired
	}

	club := &models.Club{Name: name, State: state, Location: location}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetClubByID(ctx context.Context, clubID int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club %d: %w", clubID, err)
	}
	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context, limit, offset int) ([]models.Club, error) {
	clubs, err := s.clubRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	for i := range clubs {
		s.populateLogoURL(&clubs[i])
	}
	return clubs, nil
}

func (s *clubService) UpdateClub(ctx context.Context, club *models.Club) error {
	if strings.TrimSpace(club.Name) == "" {
		return ErrClubNameRequired
	}
	if err := s.clubRepo.Update(ctx, club); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNotFound):
			return ErrClubNotFound
		case errors.Is(err, repositories.ErrClubNameConflict):
			return ErrClubNameConflict
		}
		return fmt.Errorf("failed to update club %d: %w", club.ID, err)
	}
	return nil
}

// DeleteClub removes a club outright. Clubs with players, attendances or
// sponsors are protected by foreign keys and report ErrClubInUse instead.
func (s *clubService) DeleteClub(ctx context.Context, clubID int) error {
	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubNotFound):
			return ErrClubNotFound
		case errors.Is(err, repositories.ErrClubInUse):
			return ErrClubInUse
		}
		return fmt.Errorf("failed to delete club %d: %w", clubID, err)
	}
	return nil
}

// UploadLogo stores the club logo and records its object key. The old logo
// object, if any, is deleted best-effort after the new key is committed.
func (s *clubService) UploadLogo(ctx context.Context, clubID int, contentType string, file io.Reader) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club %d: %w", clubID, err)
	}

	key := fmt.Sprintf("clubs/%d/logo-%s", clubID, uuid.NewString())
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload club logo: %w", err)
	}

	oldKey := club.LogoKey
	if err := s.clubRepo.UpdateLogoKey(ctx, clubID, &key); err != nil {
		return nil, fmt.Errorf("failed to record club logo key: %w", err)
	}
	if oldKey != nil {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	club.LogoKey = &key
	s.populateLogoURL(club)
	return club, nil
}

func (s *clubService) populateLogoURL(club *models.Club) {
	if club.LogoKey != nil {
		url := s.uploader.GetPublicURL(*club.LogoKey)
		club.LogoURL = &url
	}
}
