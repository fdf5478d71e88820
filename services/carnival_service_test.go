package services

import (
	"context"
	"testing"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/mysideline"
	"github.com/footyops/carnival-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarnivalFixture() (*fakeCarnivalRepo, *fakeUserRepo, *recordingSink, CarnivalService) {
	carnivalRepo := &fakeCarnivalRepo{}
	userRepo := &fakeUserRepo{}
	sink := &recordingSink{}
	return carnivalRepo, userRepo, sink, NewCarnivalService(carnivalRepo, userRepo, &fakeUploader{}, sink)
}

func feedRecord() mysideline.FeedRecord {
	return mysideline.FeedRecord{
		ExternalID:          "ms-1042",
		Title:               "Coastal Sevens Carnival",
		Subtitle:            strPtr("Masters division"),
		OrganiserEmail:      strPtr("organiser@coastal.example.com"),
		State:               strPtr("NSW"),
		TeamRegistrationFee: 50,
		PerPlayerFee:        10,
	}
}

func TestImportCarnival(t *testing.T) {
	t.Run("sets provenance and seeds contact email", func(t *testing.T) {
		carnivalRepo, _, sink, svc := newCarnivalFixture()
		var created *models.Carnival
		carnivalRepo.CreateFunc = func(_ context.Context, c *models.Carnival) error {
			c.ID = 7
			created = c
			return nil
		}

		carnival, err := svc.ImportCarnival(context.Background(), feedRecord())
		require.NoError(t, err)
		require.NotNil(t, created)
		require.NotNil(t, carnival.MySidelineID)
		assert.Equal(t, "ms-1042", *carnival.MySidelineID)
		require.NotNil(t, carnival.OriginalMySidelineContactEmail)
		assert.Equal(t, "organiser@coastal.example.com", *carnival.OriginalMySidelineContactEmail)
		require.NotNil(t, carnival.ContactEmail)
		assert.Equal(t, "organiser@coastal.example.com", *carnival.ContactEmail)
		assert.Nil(t, carnival.ClaimedByUserID, "imported carnivals start unclaimed")
		assert.Equal(t, []events.Type{events.TypeCarnivalImported}, sink.TypesSeen())
	})

	t.Run("re-import returns the stored row", func(t *testing.T) {
		carnivalRepo, _, sink, svc := newCarnivalFixture()
		stored := &models.Carnival{ID: 7, Title: "Coastal Sevens Carnival", MySidelineID: strPtr("ms-1042")}
		carnivalRepo.GetByMySidelineIDFunc = func(_ context.Context, _ string) (*models.Carnival, error) {
			return stored, nil
		}
		carnivalRepo.CreateFunc = func(_ context.Context, _ *models.Carnival) error {
			t.Fatal("create must not be called for a known mysideline id")
			return nil
		}

		carnival, err := svc.ImportCarnival(context.Background(), feedRecord())
		require.NoError(t, err)
		assert.Equal(t, stored, carnival)
		assert.Empty(t, sink.Events(), "re-import is not a new event")
	})

	t.Run("concurrent import race falls back to lookup", func(t *testing.T) {
		carnivalRepo, _, _, svc := newCarnivalFixture()
		stored := &models.Carnival{ID: 7, MySidelineID: strPtr("ms-1042")}
		lookups := 0
		carnivalRepo.GetByMySidelineIDFunc = func(_ context.Context, _ string) (*models.Carnival, error) {
			lookups++
			if lookups == 1 {
				return nil, repositories.ErrCarnivalNotFound
			}
			return stored, nil
		}
		carnivalRepo.CreateFunc = func(_ context.Context, _ *models.Carnival) error {
			return repositories.ErrCarnivalMySidelineIDConflict
		}

		carnival, err := svc.ImportCarnival(context.Background(), feedRecord())
		require.NoError(t, err)
		assert.Equal(t, stored, carnival)
	})
}

func TestEditCarnival(t *testing.T) {
	storedCarnival := func() *models.Carnival {
		return &models.Carnival{
			ID:                             7,
			Title:                          "Coastal Sevens Carnival",
			MySidelineID:                   strPtr("ms-1042"),
			OriginalMySidelineContactEmail: strPtr("organiser@coastal.example.com"),
			ContactEmail:                   strPtr("organiser@coastal.example.com"),
			TeamRegistrationFee:            50,
			PerPlayerFee:                   10,
		}
	}

	t.Run("rejects original contact email even when value is equal", func(t *testing.T) {
		carnivalRepo, _, _, svc := newCarnivalFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, _ int) (*models.Carnival, error) {
			return storedCarnival(), nil
		}
		updated := false
		carnivalRepo.UpdateFunc = func(_ context.Context, _ *models.Carnival) error {
			updated = true
			return nil
		}

		_, err := svc.EditCarnival(context.Background(), 7, CarnivalPatch{
			OriginalMySidelineContactEmail: strPtr("organiser@coastal.example.com"),
		})
		assert.ErrorIs(t, err, ErrImmutableField)
		assert.False(t, updated, "rejected patch must not touch the row")
	})

	t.Run("operational contact email is freely editable", func(t *testing.T) {
		carnivalRepo, _, _, svc := newCarnivalFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, _ int) (*models.Carnival, error) {
			return storedCarnival(), nil
		}

		carnival, err := svc.EditCarnival(context.Background(), 7, CarnivalPatch{
			ContactEmail: strPtr("newcontact@coastal.example.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, "newcontact@coastal.example.com", *carnival.ContactEmail)
		assert.Equal(t, "organiser@coastal.example.com", *carnival.OriginalMySidelineContactEmail)
	})

	t.Run("patch applies only provided fields", func(t *testing.T) {
		carnivalRepo, _, _, svc := newCarnivalFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, _ int) (*models.Carnival, error) {
			return storedCarnival(), nil
		}

		fee := 75.0
		carnival, err := svc.EditCarnival(context.Background(), 7, CarnivalPatch{TeamRegistrationFee: &fee})
		require.NoError(t, err)
		assert.Equal(t, 75.0, carnival.TeamRegistrationFee)
		assert.Equal(t, "Coastal Sevens Carnival", carnival.Title)
		assert.Equal(t, 10.0, carnival.PerPlayerFee)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		carnivalRepo, _, _, svc := newCarnivalFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, _ int) (*models.Carnival, error) {
			return storedCarnival(), nil
		}

		_, err := svc.EditCarnival(context.Background(), 7, CarnivalPatch{Title: strPtr("  ")})
		assert.ErrorIs(t, err, ErrCarnivalTitleRequired)
	})
}

func TestCreateCarnival(t *testing.T) {
	carnivalRepo, userRepo, _, svc := newCarnivalFixture()
	userRepo.GetByIDFunc = func(_ context.Context, id int) (*models.User, error) {
		return &models.User{ID: id, Role: models.RoleOrganiser}, nil
	}
	carnivalRepo.CreateFunc = func(_ context.Context, c *models.Carnival) error {
		c.ID = 9
		return nil
	}

	carnival, err := svc.CreateCarnival(context.Background(), 4, CreateCarnivalInput{
		Title:               "Club Organised Gala",
		TeamRegistrationFee: 40,
	})
	require.NoError(t, err)
	require.NotNil(t, carnival.ClaimedByUserID)
	assert.Equal(t, 4, *carnival.ClaimedByUserID, "organiser-created carnivals are claimed from birth")
	assert.Nil(t, carnival.MySidelineID)
	assert.Nil(t, carnival.OriginalMySidelineContactEmail)
}
