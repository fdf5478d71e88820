package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
	"github.com/footyops/carnival-system/storage"
)

// Hand-written fakes with overridable function fields. Tests set only the
// behaviour they care about; everything else returns not-found.

type fakeUserRepo struct {
	CreateFunc     func(ctx context.Context, user *models.User) error
	GetByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, user)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

type fakeClubRepo struct {
	CreateFunc        func(ctx context.Context, club *models.Club) error
	GetByIDFunc       func(ctx context.Context, id int) (*models.Club, error)
	GetAllFunc        func(ctx context.Context, limit, offset int) ([]models.Club, error)
	UpdateFunc        func(ctx context.Context, club *models.Club) error
	UpdateLogoKeyFunc func(ctx context.Context, id int, logoKey *string) error
	DeleteFunc        func(ctx context.Context, id int) error
}

func (f *fakeClubRepo) Create(ctx context.Context, club *models.Club) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, club)
	}
	return nil
}

func (f *fakeClubRepo) GetByID(ctx context.Context, id int) (*models.Club, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrClubNotFound
}

func (f *fakeClubRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Club, error) {
	if f.GetAllFunc != nil {
		return f.GetAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (f *fakeClubRepo) Update(ctx context.Context, club *models.Club) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, club)
	}
	return nil
}

func (f *fakeClubRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	if f.UpdateLogoKeyFunc != nil {
		return f.UpdateLogoKeyFunc(ctx, id, logoKey)
	}
	return nil
}

func (f *fakeClubRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

type fakeClubPlayerRepo struct {
	CreateFunc         func(ctx context.Context, player *models.ClubPlayer) error
	GetByIDFunc        func(ctx context.Context, id int) (*models.ClubPlayer, error)
	FindByIdentityFunc func(ctx context.Context, clubID int, firstName, lastName string, dateOfBirth time.Time) (*models.ClubPlayer, error)
	UpdateFunc         func(ctx context.Context, player *models.ClubPlayer) error
	SetActiveFunc      func(ctx context.Context, id int, active bool) error
	ListByClubFunc     func(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error)
}

func (f *fakeClubPlayerRepo) Create(ctx context.Context, player *models.ClubPlayer) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, player)
	}
	return nil
}

func (f *fakeClubPlayerRepo) GetByID(ctx context.Context, id int) (*models.ClubPlayer, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrClubPlayerNotFound
}

func (f *fakeClubPlayerRepo) FindByIdentity(ctx context.Context, clubID int, firstName, lastName string, dateOfBirth time.Time) (*models.ClubPlayer, error) {
	if f.FindByIdentityFunc != nil {
		return f.FindByIdentityFunc(ctx, clubID, firstName, lastName, dateOfBirth)
	}
	return nil, repositories.ErrClubPlayerNotFound
}

func (f *fakeClubPlayerRepo) Update(ctx context.Context, player *models.ClubPlayer) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, player)
	}
	return nil
}

func (f *fakeClubPlayerRepo) SetActive(ctx context.Context, id int, active bool) error {
	if f.SetActiveFunc != nil {
		return f.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (f *fakeClubPlayerRepo) ListByClub(ctx context.Context, clubID int, activeOnly bool) ([]*models.ClubPlayer, error) {
	if f.ListByClubFunc != nil {
		return f.ListByClubFunc(ctx, clubID, activeOnly)
	}
	return nil, nil
}

type fakeCarnivalRepo struct {
	CreateFunc            func(ctx context.Context, carnival *models.Carnival) error
	GetByIDFunc           func(ctx context.Context, id int) (*models.Carnival, error)
	GetByMySidelineIDFunc func(ctx context.Context, mySidelineID string) (*models.Carnival, error)
	UpdateFunc            func(ctx context.Context, carnival *models.Carnival) error
	UpdateLogoKeyFunc     func(ctx context.Context, id int, logoKey *string) error
	ClaimFunc             func(ctx context.Context, id, userID int, contactEmailOverride *string) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]models.Carnival, error)
	ListUnclaimedFunc     func(ctx context.Context) ([]models.Carnival, error)
}

func (f *fakeCarnivalRepo) Create(ctx context.Context, carnival *models.Carnival) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, carnival)
	}
	return nil
}

func (f *fakeCarnivalRepo) GetByID(ctx context.Context, id int) (*models.Carnival, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrCarnivalNotFound
}

func (f *fakeCarnivalRepo) GetByMySidelineID(ctx context.Context, mySidelineID string) (*models.Carnival, error) {
	if f.GetByMySidelineIDFunc != nil {
		return f.GetByMySidelineIDFunc(ctx, mySidelineID)
	}
	return nil, repositories.ErrCarnivalNotFound
}

func (f *fakeCarnivalRepo) Update(ctx context.Context, carnival *models.Carnival) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, carnival)
	}
	return nil
}

func (f *fakeCarnivalRepo) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	if f.UpdateLogoKeyFunc != nil {
		return f.UpdateLogoKeyFunc(ctx, id, logoKey)
	}
	return nil
}

func (f *fakeCarnivalRepo) Claim(ctx context.Context, id, userID int, contactEmailOverride *string) error {
	if f.ClaimFunc != nil {
		return f.ClaimFunc(ctx, id, userID, contactEmailOverride)
	}
	return nil
}

func (f *fakeCarnivalRepo) List(ctx context.Context, limit, offset int) ([]models.Carnival, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (f *fakeCarnivalRepo) ListUnclaimed(ctx context.Context) ([]models.Carnival, error) {
	if f.ListUnclaimedFunc != nil {
		return f.ListUnclaimedFunc(ctx)
	}
	return nil, nil
}

type fakeCarnivalClubRepo struct {
	CreateFunc                func(ctx context.Context, cc *models.CarnivalClub) error
	GetByIDFunc               func(ctx context.Context, id int) (*models.CarnivalClub, error)
	FindByCarnivalAndClubFunc func(ctx context.Context, carnivalID, clubID int) (*models.CarnivalClub, error)
	ListByCarnivalFunc        func(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error)
	UpdateNumberOfTeamsFunc   func(ctx context.Context, id, newCount int) ([]int, error)
	DeleteFunc                func(ctx context.Context, id int) error
}

func (f *fakeCarnivalClubRepo) Create(ctx context.Context, cc *models.CarnivalClub) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, cc)
	}
	return nil
}

func (f *fakeCarnivalClubRepo) GetByID(ctx context.Context, id int) (*models.CarnivalClub, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrCarnivalClubNotFound
}

func (f *fakeCarnivalClubRepo) FindByCarnivalAndClub(ctx context.Context, carnivalID, clubID int) (*models.CarnivalClub, error) {
	if f.FindByCarnivalAndClubFunc != nil {
		return f.FindByCarnivalAndClubFunc(ctx, carnivalID, clubID)
	}
	return nil, repositories.ErrCarnivalClubNotFound
}

func (f *fakeCarnivalClubRepo) ListByCarnival(ctx context.Context, carnivalID int) ([]*models.CarnivalClub, error) {
	if f.ListByCarnivalFunc != nil {
		return f.ListByCarnivalFunc(ctx, carnivalID)
	}
	return nil, nil
}

func (f *fakeCarnivalClubRepo) UpdateNumberOfTeams(ctx context.Context, id, newCount int) ([]int, error) {
	if f.UpdateNumberOfTeamsFunc != nil {
		return f.UpdateNumberOfTeamsFunc(ctx, id, newCount)
	}
	return nil, nil
}

func (f *fakeCarnivalClubRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

type fakeAssignmentRepo struct {
	CreateFunc                    func(ctx context.Context, ccp *models.CarnivalClubPlayer) error
	GetByIDFunc                   func(ctx context.Context, id int) (*models.CarnivalClubPlayer, error)
	FindByAttendanceAndPlayerFunc func(ctx context.Context, carnivalClubID, clubPlayerID int) (*models.CarnivalClubPlayer, error)
	ListByCarnivalClubFunc        func(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error)
	UpdateTeamNumberFunc          func(ctx context.Context, id int, teamNumber *int) error
	UpdateStatusFunc              func(ctx context.Context, id int, status models.AttendanceStatus) error
	SetActiveFunc                 func(ctx context.Context, id int, active bool) error
	DeleteFunc                    func(ctx context.Context, id int) error
	CountActiveConfirmedFunc      func(ctx context.Context, carnivalClubID int) (int, error)
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, ccp *models.CarnivalClubPlayer) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, ccp)
	}
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id int) (*models.CarnivalClubPlayer, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) FindByAttendanceAndPlayer(ctx context.Context, carnivalClubID, clubPlayerID int) (*models.CarnivalClubPlayer, error) {
	if f.FindByAttendanceAndPlayerFunc != nil {
		return f.FindByAttendanceAndPlayerFunc(ctx, carnivalClubID, clubPlayerID)
	}
	return nil, repositories.ErrAssignmentNotFound
}

func (f *fakeAssignmentRepo) ListByCarnivalClub(ctx context.Context, carnivalClubID int) ([]*models.CarnivalClubPlayer, error) {
	if f.ListByCarnivalClubFunc != nil {
		return f.ListByCarnivalClubFunc(ctx, carnivalClubID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) UpdateTeamNumber(ctx context.Context, id int, teamNumber *int) error {
	if f.UpdateTeamNumberFunc != nil {
		return f.UpdateTeamNumberFunc(ctx, id, teamNumber)
	}
	return nil
}

func (f *fakeAssignmentRepo) UpdateStatus(ctx context.Context, id int, status models.AttendanceStatus) error {
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (f *fakeAssignmentRepo) SetActive(ctx context.Context, id int, active bool) error {
	if f.SetActiveFunc != nil {
		return f.SetActiveFunc(ctx, id, active)
	}
	return nil
}

func (f *fakeAssignmentRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeAssignmentRepo) CountActiveConfirmed(ctx context.Context, carnivalClubID int) (int, error) {
	if f.CountActiveConfirmedFunc != nil {
		return f.CountActiveConfirmedFunc(ctx, carnivalClubID)
	}
	return 0, nil
}

type fakeSponsorRepo struct {
	CreateFunc      func(ctx context.Context, sponsor *models.Sponsor) error
	GetByIDFunc     func(ctx context.Context, id int) (*models.Sponsor, error)
	ListByClubFunc  func(ctx context.Context, clubID int) ([]*models.Sponsor, error)
	UpdateLevelFunc func(ctx context.Context, id int, level models.SponsorshipLevel) error
	DeleteFunc      func(ctx context.Context, id int) error
}

func (f *fakeSponsorRepo) Create(ctx context.Context, sponsor *models.Sponsor) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, sponsor)
	}
	return nil
}

func (f *fakeSponsorRepo) GetByID(ctx context.Context, id int) (*models.Sponsor, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrSponsorNotFound
}

func (f *fakeSponsorRepo) ListByClub(ctx context.Context, clubID int) ([]*models.Sponsor, error) {
	if f.ListByClubFunc != nil {
		return f.ListByClubFunc(ctx, clubID)
	}
	return nil, nil
}

func (f *fakeSponsorRepo) UpdateLevel(ctx context.Context, id int, level models.SponsorshipLevel) error {
	if f.UpdateLevelFunc != nil {
		return f.UpdateLevelFunc(ctx, id, level)
	}
	return nil
}

func (f *fakeSponsorRepo) Delete(ctx context.Context, id int) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

// fakeUploader satisfies storage.FileUploader without touching the network.
type fakeUploader struct {
	UploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	DeleteFunc func(ctx context.Context, key string) error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.UploadFunc != nil {
		return f.UploadFunc(ctx, key, contentType, reader)
	}
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, key)
	}
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// recordingSink collects published events so tests can assert on them.
type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (s *recordingSink) Publish(_ context.Context, event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *recordingSink) TypesSeen() []events.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]events.Type, 0, len(s.events))
	for _, e := range s.events {
		types = append(types, e.Type)
	}
	return types
}

// recordingEmailSender captures notification calls.
type recordingEmailSender struct {
	mu           sync.Mutex
	claimedCalls []claimedEmailCall
	err          error
}

type claimedEmailCall struct {
	to            string
	carnivalTitle string
	claimantName  string
}

func (s *recordingEmailSender) SendCarnivalClaimedEmail(to, carnivalTitle, claimantName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimedCalls = append(s.claimedCalls, claimedEmailCall{to, carnivalTitle, claimantName})
	return s.err
}

func (s *recordingEmailSender) SendAttendanceConfirmationEmail(to, carnivalTitle, clubName string, numberOfTeams int) error {
	return s.err
}

func (s *recordingEmailSender) ClaimedCalls() []claimedEmailCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]claimedEmailCall, len(s.claimedCalls))
	copy(out, s.claimedCalls)
	return out
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }
