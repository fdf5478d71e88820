package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/mysideline"
	"github.com/footyops/carnival-system/repositories"
	"github.com/footyops/carnival-system/storage"
	"github.com/google/uuid"
)

type CreateCarnivalInput struct {
	Title               string
	Subtitle            *string
	ContactEmail        *string
	AddressLine1        *string
	AddressLine2        *string
	Suburb              *string
	State               *string
	TeamRegistrationFee float64
	PerPlayerFee        float64
	StartDate           *time.Time
	EndDate             *time.Time
}

// CarnivalPatch carries the fields an organiser may edit. The
// OriginalMySidelineContactEmail field exists only so that a patch carrying
// it can be rejected explicitly: the column is immutable once set at import,
// even when the patch value equals the stored one.
type CarnivalPatch struct {
	Title                          *string
	Subtitle                       *string
	ContactEmail                   *string
	AddressLine1                   *string
	AddressLine2                   *string
	Suburb                         *string
	State                          *string
	TeamRegistrationFee            *float64
	PerPlayerFee                   *float64
	StartDate                      *time.Time
	EndDate                        *time.Time
	OriginalMySidelineContactEmail *string
}

type CarnivalService interface {
	ImportCarnival(ctx context.Context, record mysideline.FeedRecord) (*models.Carnival, error)
	CreateCarnival(ctx context.Context, organiserID int, input CreateCarnivalInput) (*models.Carnival, error)
	EditCarnival(ctx context.Context, carnivalID int, patch CarnivalPatch) (*models.Carnival, error)
	GetCarnivalByID(ctx context.Context, carnivalID int) (*models.Carnival, error)
	ListCarnivals(ctx context.Context, limit, offset int) ([]models.Carnival, error)
	ListUnclaimedCarnivals(ctx context.Context) ([]models.Carnival, error)
	UploadLogo(ctx context.Context, carnivalID int, contentType string, file io.Reader) (*models.Carnival, error)
}

type carnivalService struct {
	carnivalRepo repositories.CarnivalRepository
	userRepo     repositories.UserRepository
	uploader     storage.FileUploader
	sink         events.Sink
}

func NewCarnivalService(
	carnivalRepo repositories.CarnivalRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	sink events.Sink,
) CarnivalService {
	return &carnivalService{
		carnivalRepo: carnivalRepo,
		userRepo:     userRepo,
		uploader:     uploader,
		sink:         sink,
	}
}

// ImportCarnival records a carnival from the MySideline feed. The organiser
// email on the feed record is preserved in the write-once
// original_mysideline_contact_email column and also seeds the operational
// contact email. Re-importing a known MySideline id returns the stored row.
func (s *carnivalService) ImportCarnival(ctx context.Context, record mysideline.FeedRecord) (*models.Carnival, error) {
	if strings.TrimSpace(record.Title) == "" {
		return nil, ErrCarnivalTitleRequired
	}

	existing, err := s.carnivalRepo.GetByMySidelineID(ctx, record.ExternalID)
	if err != nil && !errors.Is(err, repositories.ErrCarnivalNotFound) {
		return nil, fmt.Errorf("failed to check existing import %s: %w", record.ExternalID, err)
	}
	if existing != nil {
		return existing, nil
	}

	externalID := record.ExternalID
	carnival := &models.Carnival{
		Title:                          record.Title,
		Subtitle:                       record.Subtitle,
		MySidelineID:                   &externalID,
		MySidelineSubtitle:             record.Subtitle,
		OriginalMySidelineContactEmail: record.OrganiserEmail,
		ContactEmail:                   record.OrganiserEmail,
		AddressLine1:                   record.AddressLine1,
		AddressLine2:                   record.AddressLine2,
		Suburb:                         record.Suburb,
		State:                          record.State,
		TeamRegistrationFee:            record.TeamRegistrationFee,
		PerPlayerFee:                   record.PerPlayerFee,
		StartDate:                      record.StartDate,
		EndDate:                        record.EndDate,
	}

	if err := s.carnivalRepo.Create(ctx, carnival); err != nil {
		if errors.Is(err, repositories.ErrCarnivalMySidelineIDConflict) {
			// Another sync run won the race; return the stored row.
			return s.carnivalRepo.GetByMySidelineID(ctx, record.ExternalID)
		}
		return nil, fmt.Errorf("failed to import carnival %s: %w", record.ExternalID, err)
	}

	s.sink.Publish(ctx, events.New(events.TypeCarnivalImported, events.CarnivalImported{
		CarnivalID:   carnival.ID,
		MySidelineID: record.ExternalID,
		Title:        carnival.Title,
	}))
	return carnival, nil
}

// CreateCarnival records an organiser-entered carnival. It is claimed from
// birth; there is no MySideline provenance to preserve.
func (s *carnivalService) CreateCarnival(ctx context.Context, organiserID int, input CreateCarnivalInput) (*models.Carnival, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrCarnivalTitleRequired
	}

	if _, err := s.userRepo.GetByID(ctx, organiserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to check organiser %d: %w", organiserID, err)
	}

	carnival := &models.Carnival{
		Title:               input.Title,
		Subtitle:            input.Subtitle,
		ContactEmail:        input.ContactEmail,
		AddressLine1:        input.AddressLine1,
		AddressLine2:        input.AddressLine2,
		Suburb:              input.Suburb,
		State:               input.State,
		TeamRegistrationFee: input.TeamRegistrationFee,
		PerPlayerFee:        input.PerPlayerFee,
		StartDate:           input.StartDate,
		EndDate:             input.EndDate,
		ClaimedByUserID:     &organiserID,
	}

	if err := s.carnivalRepo.Create(ctx, carnival); err != nil {
		if errors.Is(err, repositories.ErrCarnivalUserInvalid) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create carnival: %w", err)
	}
	return carnival, nil
}

// EditCarnival applies a patch to the organiser-mutable fields. A patch that
// carries original_mysideline_contact_email is rejected outright, even when
// the value matches the stored one: silently accepting an equal write would
// hide caller bugs until the day the values differ.
func (s *carnivalService) EditCarnival(ctx context.Context, carnivalID int, patch CarnivalPatch) (*models.Carnival, error) {
	if patch.OriginalMySidelineContactEmail != nil {
		return nil, fmt.Errorf("%w: original_mysideline_contact_email", ErrImmutableField)
	}

	carnival, err := s.carnivalRepo.GetByID(ctx, carnivalID)
	if err != nil {
		if errors.Is(err, repositories.ErrCarnivalNotFound) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to get carnival %d: %w", carnivalID, err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ErrCarnivalTitleRequired
		}
		carnival.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		carnival.Subtitle = patch.Subtitle
	}
	if patch.ContactEmail != nil {
		carnival.ContactEmail = patch.ContactEmail
	}
	if patch.AddressLine1 != nil {
		carnival.AddressLine1 = patch.AddressLine1
	}
	if patch.AddressLine2 != nil {
		carnival.AddressLine2 = patch.AddressLine2
	}
	if patch.Suburb != nil {
		carnival.Suburb = patch.Suburb
	}
	if patch.State != nil {
		carnival.State = patch.State
	}
	if patch.TeamRegistrationFee != nil {
		carnival.TeamRegistrationFee = *patch.TeamRegistrationFee
	}
	if patch.PerPlayerFee != nil {
		carnival.PerPlayerFee = *patch.PerPlayerFee
	}
	if patch.StartDate != nil {
		carnival.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		carnival.EndDate = patch.EndDate
	}

	if err := s.carnivalRepo.Update(ctx, carnival); err != nil {
		if errors.Is(err, repositories.ErrCarnivalNotFound) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to update carnival %d: %w", carnivalID, err)
	}
	return carnival, nil
}

func (s *carnivalService) GetCarnivalByID(ctx context.Context, carnivalID int) (*models.Carnival, error) {
	carnival, err := s.carnivalRepo.GetByID(ctx, carnivalID)
	if err != nil {
		if errors.Is(err, repositories.ErrCarnivalNotFound) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to get carnival %d: %w", carnivalID, err)
	}
	s.populateLogoURL(carnival)
	return carnival, nil
}

func (s *carnivalService) UploadLogo(ctx context.Context, carnivalID int, contentType string, file io.Reader) (*models.Carnival, error) {
	carnival, err := s.carnivalRepo.GetByID(ctx, carnivalID)
	if err != nil {
		if errors.Is(err, repositories.ErrCarnivalNotFound) {
			return nil, ErrCarnivalNotFound
		}
		return nil, fmt.Errorf("failed to get carnival %d: %w", carnivalID, err)
	}

	key := fmt.Sprintf("carnivals/%d/logo-%s", carnivalID, uuid.NewString())
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload carnival logo: %w", err)
	}

	oldKey := carnival.LogoKey
	if err := s.carnivalRepo.UpdateLogoKey(ctx, carnivalID, &key); err != nil {
		return nil, fmt.Errorf("failed to record carnival logo key: %w", err)
	}
	if oldKey != nil {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	carnival.LogoKey = &key
	s.populateLogoURL(carnival)
	return carnival, nil
}

func (s *carnivalService) populateLogoURL(carnival *models.Carnival) {
	if carnival.LogoKey != nil {
		url := s.uploader.GetPublicURL(*carnival.LogoKey)
		carnival.LogoURL = &url
	}
}

func (s *carnivalService) ListCarnivals(ctx context.Context, limit, offset int) ([]models.Carnival, error) {
	carnivals, err := s.carnivalRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range carnivals {
		s.populateLogoURL(&carnivals[i])
	}
	return carnivals, nil
}

func (s *carnivalService) ListUnclaimedCarnivals(ctx context.Context) ([]models.Carnival, error) {
	carnivals, err := s.carnivalRepo.ListUnclaimed(ctx)
	if err != nil {
		return nil, err
	}
	for i := range carnivals {
		s.populateLogoURL(&carnivals[i])
	}
	return carnivals, nil
}
