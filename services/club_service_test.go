package services

import (
	"context"
	"strings"
	"testing"

	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClubFixture() (*fakeClubRepo, *fakeUploader, ClubService) {
	clubRepo := &fakeClubRepo{}
	uploader := &fakeUploader{}
	svc := NewClubService(clubRepo, uploader)
	return clubRepo, uploader, svc
}

func TestCreateClub(t *testing.T) {
	t.Run("creates a club", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		clubRepo.CreateFunc = func(_ context.Context, club *models.Club) error {
			club.ID = 4
			return nil
		}

		club, err := svc.CreateClub(context.Background(), "Brighton Seagulls", strPtr("NSW"), nil)
		require.NoError(t, err)
		assert.Equal(t, 4, club.ID)
		assert.Equal(t, "Brighton Seagulls", club.Name)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, _, svc := newClubFixture()
		_, err := svc.CreateClub(context.Background(), "   ", nil, nil)
		assert.ErrorIs(t, err, ErrClubNameRequired)
	})

	t.Run("reports duplicate club names", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		clubRepo.CreateFunc = func(_ context.Context, _ *models.Club) error {
			return repositories.ErrClubNameConflict
		}

		_, err := svc.CreateClub(context.Background(), "Brighton Seagulls", nil, nil)
		assert.ErrorIs(t, err, ErrClubNameConflict)
	})
}

func TestDeleteClub(t *testing.T) {
	t.Run("deletes an unused club", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		var deletedID int
		clubRepo.DeleteFunc = func(_ context.Context, id int) error {
			deletedID = id
			return nil
		}

		err := svc.DeleteClub(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, 4, deletedID)
	})

	t.Run("reports clubs still referenced elsewhere", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		clubRepo.DeleteFunc = func(_ context.Context, _ int) error {
			return repositories.ErrClubInUse
		}

		err := svc.DeleteClub(context.Background(), 4)
		assert.ErrorIs(t, err, ErrClubInUse)
	})

	t.Run("reports unknown club", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		clubRepo.DeleteFunc = func(_ context.Context, _ int) error {
			return repositories.ErrClubNotFound
		}

		err := svc.DeleteClub(context.Background(), 99)
		assert.ErrorIs(t, err, ErrClubNotFound)
	})
}

func TestClubUploadLogo(t *testing.T) {
	t.Run("uploads and records the logo key", func(t *testing.T) {
		clubRepo, _, svc := newClubFixture()
		clubRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Club, error) {
			return &models.Club{ID: id, Name: "Brighton Seagulls"}, nil
		}
		var recordedKey *string
		clubRepo.UpdateLogoKeyFunc = func(_ context.Context, _ int, logoKey *string) error {
			recordedKey = logoKey
			return nil
		}

		club, err := svc.UploadLogo(context.Background(), 4, "image/png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		require.NotNil(t, recordedKey)
		assert.True(t, strings.HasPrefix(*recordedKey, "clubs/4/logo-"))
		require.NotNil(t, club.LogoURL)
		assert.Contains(t, *club.LogoURL, *recordedKey)
	})

	t.Run("deletes the previous logo object", func(t *testing.T) {
		clubRepo, uploader, svc := newClubFixture()
		clubRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Club, error) {
			return &models.Club{ID: id, Name: "Brighton Seagulls", LogoKey: strPtr("clubs/4/logo-old")}, nil
		}
		var deletedKey string
		uploader.DeleteFunc = func(_ context.Context, key string) error {
			deletedKey = key
			return nil
		}

		_, err := svc.UploadLogo(context.Background(), 4, "image/png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		assert.Equal(t, "clubs/4/logo-old", deletedKey)
	})

	t.Run("reports unknown club before uploading", func(t *testing.T) {
		_, _, svc := newClubFixture()
		_, err := svc.UploadLogo(context.Background(), 99, "image/png", strings.NewReader("png-bytes"))
		assert.ErrorIs(t, err, ErrClubNotFound)
	})
}
