package services

import (
	"context"
	"testing"

	"github.com/footyops/carnival-system/events"
	"github.com/footyops/carnival-system/models"
	"github.com/footyops/carnival-system/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationFixture() (*fakeCarnivalClubRepo, *fakeAssignmentRepo, *fakeCarnivalRepo, *fakeClubRepo, *fakeClubPlayerRepo, *recordingSink, RegistrationService) {
	attendanceRepo := &fakeCarnivalClubRepo{}
	assignmentRepo := &fakeAssignmentRepo{}
	carnivalRepo := &fakeCarnivalRepo{}
	clubRepo := &fakeClubRepo{}
	playerRepo := &fakeClubPlayerRepo{}
	sink := &recordingSink{}
	svc := NewRegistrationService(attendanceRepo, assignmentRepo, carnivalRepo, clubRepo, playerRepo, sink)
	return attendanceRepo, assignmentRepo, carnivalRepo, clubRepo, playerRepo, sink, svc
}

func TestRegisterClubAttendance(t *testing.T) {
	t.Run("creates attendance and publishes event", func(t *testing.T) {
		_, _, carnivalRepo, clubRepo, _, sink, svc := newRegistrationFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Carnival, error) {
			return &models.Carnival{ID: id}, nil
		}
		clubRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Club, error) {
			return &models.Club{ID: id}, nil
		}

		attendance, err := svc.RegisterClubAttendance(context.Background(), 7, 3, 2)
		require.NoError(t, err)
		assert.Equal(t, 7, attendance.CarnivalID)
		assert.Equal(t, 3, attendance.ClubID)
		assert.Equal(t, 2, attendance.NumberOfTeams)
		assert.Equal(t, []events.Type{events.TypeAttendanceRegistered}, sink.TypesSeen())
	})

	t.Run("rejects zero teams", func(t *testing.T) {
		_, _, _, _, _, sink, svc := newRegistrationFixture()

		_, err := svc.RegisterClubAttendance(context.Background(), 7, 3, 0)
		assert.ErrorIs(t, err, ErrInvalidTeamCount)
		assert.Empty(t, sink.Events())
	})

	t.Run("rejects duplicate carnival and club pair", func(t *testing.T) {
		attendanceRepo, _, carnivalRepo, clubRepo, _, sink, svc := newRegistrationFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Carnival, error) {
			return &models.Carnival{ID: id}, nil
		}
		clubRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Club, error) {
			return &models.Club{ID: id}, nil
		}
		attendanceRepo.FindByCarnivalAndClubFunc = func(_ context.Context, carnivalID, clubID int) (*models.CarnivalClub, error) {
			return &models.CarnivalClub{ID: 1, CarnivalID: carnivalID, ClubID: clubID, NumberOfTeams: 2}, nil
		}

		_, err := svc.RegisterClubAttendance(context.Background(), 7, 3, 2)
		assert.ErrorIs(t, err, ErrDuplicateAttendance)
		assert.Empty(t, sink.Events())
	})

	t.Run("translates unique constraint race to duplicate attendance", func(t *testing.T) {
		attendanceRepo, _, carnivalRepo, clubRepo, _, _, svc := newRegistrationFixture()
		carnivalRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Carnival, error) {
			return &models.Carnival{ID: id}, nil
		}
		clubRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Club, error) {
			return &models.Club{ID: id}, nil
		}
		attendanceRepo.CreateFunc = func(_ context.Context, _ *models.CarnivalClub) error {
			return repositories.ErrCarnivalClubConflict
		}

		_, err := svc.RegisterClubAttendance(context.Background(), 7, 3, 2)
		assert.ErrorIs(t, err, ErrDuplicateAttendance)
	})
}

func TestCancelAttendance(t *testing.T) {
	t.Run("deletes the attendance", func(t *testing.T) {
		attendanceRepo, _, _, _, _, _, svc := newRegistrationFixture()
		var deletedID int
		attendanceRepo.DeleteFunc = func(_ context.Context, id int) error {
			deletedID = id
			return nil
		}

		err := svc.CancelAttendance(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, 9, deletedID)
	})

	t.Run("reports unknown attendance", func(t *testing.T) {
		attendanceRepo, _, _, _, _, _, svc := newRegistrationFixture()
		attendanceRepo.DeleteFunc = func(_ context.Context, _ int) error {
			return repositories.ErrCarnivalClubNotFound
		}

		err := svc.CancelAttendance(context.Background(), 9)
		assert.ErrorIs(t, err, ErrAttendanceNotFound)
	})
}

func TestChangeNumberOfTeams(t *testing.T) {
	t.Run("rejects count below one", func(t *testing.T) {
		_, _, _, _, _, _, svc := newRegistrationFixture()
		err := svc.ChangeNumberOfTeams(context.Background(), 5, 0)
		assert.ErrorIs(t, err, ErrInvalidTeamCount)
	})

	t.Run("reduction blocked reports conflicting player ids", func(t *testing.T) {
		attendanceRepo, _, _, _, _, _, svc := newRegistrationFixture()
		attendanceRepo.UpdateNumberOfTeamsFunc = func(_ context.Context, id, newCount int) ([]int, error) {
			return []int{11, 12}, repositories.ErrCarnivalClubReductionBlocked
		}

		err := svc.ChangeNumberOfTeams(context.Background(), 5, 1)
		require.ErrorIs(t, err, ErrTeamCountReductionBlocked)

		var blocked *TeamCountReductionBlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, 5, blocked.CarnivalClubID)
		assert.Equal(t, 1, blocked.RequestedCount)
		assert.Equal(t, []int{11, 12}, blocked.ConflictingPlayerIDs)
	})

	t.Run("increase succeeds", func(t *testing.T) {
		attendanceRepo, _, _, _, _, _, svc := newRegistrationFixture()
		var gotCount int
		attendanceRepo.UpdateNumberOfTeamsFunc = func(_ context.Context, id, newCount int) ([]int, error) {
			gotCount = newCount
			return nil, nil
		}

		require.NoError(t, svc.ChangeNumberOfTeams(context.Background(), 5, 4))
		assert.Equal(t, 4, gotCount)
	})

	t.Run("unknown attendance", func(t *testing.T) {
		attendanceRepo, _, _, _, _, _, svc := newRegistrationFixture()
		attendanceRepo.UpdateNumberOfTeamsFunc = func(_ context.Context, id, newCount int) ([]int, error) {
			return nil, repositories.ErrCarnivalClubNotFound
		}

		err := svc.ChangeNumberOfTeams(context.Background(), 99, 2)
		assert.ErrorIs(t, err, ErrAttendanceNotFound)
	})
}

func TestAssignPlayer(t *testing.T) {
	setup := func() (*fakeCarnivalClubRepo, *fakeAssignmentRepo, *fakeClubPlayerRepo, *recordingSink, RegistrationService) {
		attendanceRepo, assignmentRepo, _, _, playerRepo, sink, svc := newRegistrationFixture()
		attendanceRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClub, error) {
			return &models.CarnivalClub{ID: id, CarnivalID: 7, ClubID: 3, NumberOfTeams: 3}, nil
		}
		playerRepo.GetByIDFunc = func(_ context.Context, id int) (*models.ClubPlayer, error) {
			return &models.ClubPlayer{ID: id, ClubID: 3, IsActive: true}, nil
		}
		return attendanceRepo, assignmentRepo, playerRepo, sink, svc
	}

	t.Run("assigns with nil team number", func(t *testing.T) {
		_, _, _, sink, svc := setup()

		assignment, err := svc.AssignPlayer(context.Background(), 5, 21, nil)
		require.NoError(t, err)
		assert.Nil(t, assignment.TeamNumber)
		assert.True(t, assignment.IsActive)
		assert.Equal(t, models.AttendanceConfirmed, assignment.AttendanceStatus)
		assert.Equal(t, []events.Type{events.TypePlayerAssigned}, sink.TypesSeen())
	})

	t.Run("accepts boundary team numbers", func(t *testing.T) {
		for _, n := range []int{1, 3} {
			_, _, _, _, svc := setup()
			assignment, err := svc.AssignPlayer(context.Background(), 5, 21, intPtr(n))
			require.NoError(t, err)
			assert.Equal(t, n, *assignment.TeamNumber)
		}
	})

	t.Run("rejects out of range team numbers", func(t *testing.T) {
		for _, n := range []int{0, 4, -1} {
			_, _, _, _, svc := setup()
			_, err := svc.AssignPlayer(context.Background(), 5, 21, intPtr(n))
			assert.ErrorIs(t, err, ErrTeamNumberOutOfRange, "team number %d", n)
		}
	})

	t.Run("rejects player from another club", func(t *testing.T) {
		_, _, playerRepo, _, svc := setup()
		playerRepo.GetByIDFunc = func(_ context.Context, id int) (*models.ClubPlayer, error) {
			return &models.ClubPlayer{ID: id, ClubID: 99}, nil
		}

		_, err := svc.AssignPlayer(context.Background(), 5, 21, nil)
		assert.ErrorIs(t, err, ErrClubMismatch)
	})

	t.Run("rejects duplicate assignment even when withdrawn", func(t *testing.T) {
		_, assignmentRepo, _, sink, svc := setup()
		assignmentRepo.FindByAttendanceAndPlayerFunc = func(_ context.Context, carnivalClubID, clubPlayerID int) (*models.CarnivalClubPlayer, error) {
			// A withdrawn assignment keeps its row with is_active=false.
			return &models.CarnivalClubPlayer{ID: 1, CarnivalClubID: carnivalClubID, ClubPlayerID: clubPlayerID, IsActive: false}, nil
		}

		_, err := svc.AssignPlayer(context.Background(), 5, 21, nil)
		assert.ErrorIs(t, err, ErrDuplicateAssignment)
		assert.Empty(t, sink.Events())
	})
}

func TestReassignTeam(t *testing.T) {
	t.Run("same team number is a no-op", func(t *testing.T) {
		_, assignmentRepo, _, _, _, _, svc := newRegistrationFixture()
		assignmentRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClubPlayer, error) {
			return &models.CarnivalClubPlayer{ID: id, CarnivalClubID: 5, TeamNumber: intPtr(2)}, nil
		}
		updated := false
		assignmentRepo.UpdateTeamNumberFunc = func(_ context.Context, _ int, _ *int) error {
			updated = true
			return nil
		}

		require.NoError(t, svc.ReassignTeam(context.Background(), 1, intPtr(2)))
		assert.False(t, updated)
	})

	t.Run("nil to nil is a no-op", func(t *testing.T) {
		_, assignmentRepo, _, _, _, _, svc := newRegistrationFixture()
		assignmentRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClubPlayer, error) {
			return &models.CarnivalClubPlayer{ID: id, CarnivalClubID: 5}, nil
		}
		updated := false
		assignmentRepo.UpdateTeamNumberFunc = func(_ context.Context, _ int, _ *int) error {
			updated = true
			return nil
		}

		require.NoError(t, svc.ReassignTeam(context.Background(), 1, nil))
		assert.False(t, updated)
	})

	t.Run("rejects new team number above the range", func(t *testing.T) {
		attendanceRepo, assignmentRepo, _, _, _, _, svc := newRegistrationFixture()
		assignmentRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClubPlayer, error) {
			return &models.CarnivalClubPlayer{ID: id, CarnivalClubID: 5, TeamNumber: intPtr(1)}, nil
		}
		attendanceRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClub, error) {
			return &models.CarnivalClub{ID: id, NumberOfTeams: 2}, nil
		}

		err := svc.ReassignTeam(context.Background(), 1, intPtr(3))
		assert.ErrorIs(t, err, ErrTeamNumberOutOfRange)
	})

	t.Run("moves to unassigned", func(t *testing.T) {
		_, assignmentRepo, _, _, _, _, svc := newRegistrationFixture()
		assignmentRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClubPlayer, error) {
			return &models.CarnivalClubPlayer{ID: id, CarnivalClubID: 5, TeamNumber: intPtr(1)}, nil
		}
		var gotTeam *int = intPtr(99)
		assignmentRepo.UpdateTeamNumberFunc = func(_ context.Context, _ int, teamNumber *int) error {
			gotTeam = teamNumber
			return nil
		}

		require.NoError(t, svc.ReassignTeam(context.Background(), 1, nil))
		assert.Nil(t, gotTeam)
	})
}

func TestSetAttendanceStatus(t *testing.T) {
	t.Run("rejects unknown status", func(t *testing.T) {
		_, _, _, _, _, _, svc := newRegistrationFixture()
		err := svc.SetAttendanceStatus(context.Background(), 1, models.AttendanceStatus("maybe"))
		assert.ErrorIs(t, err, ErrInvalidAttendanceStatus)
	})

	t.Run("passes valid status through", func(t *testing.T) {
		_, assignmentRepo, _, _, _, _, svc := newRegistrationFixture()
		var gotStatus models.AttendanceStatus
		assignmentRepo.UpdateStatusFunc = func(_ context.Context, _ int, status models.AttendanceStatus) error {
			gotStatus = status
			return nil
		}

		require.NoError(t, svc.SetAttendanceStatus(context.Background(), 1, models.AttendanceTentative))
		assert.Equal(t, models.AttendanceTentative, gotStatus)
	})
}

func TestWithdrawPlayer(t *testing.T) {
	_, assignmentRepo, _, _, _, sink, svc := newRegistrationFixture()
	assignmentRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClubPlayer, error) {
		return &models.CarnivalClubPlayer{ID: id, CarnivalClubID: 5, ClubPlayerID: 21, IsActive: true}, nil
	}
	var deactivated bool
	assignmentRepo.SetActiveFunc = func(_ context.Context, id int, active bool) error {
		deactivated = !active
		return nil
	}
	deleted := false
	assignmentRepo.DeleteFunc = func(_ context.Context, id int) error {
		deleted = true
		return nil
	}

	require.NoError(t, svc.WithdrawPlayer(context.Background(), 1))
	assert.True(t, deactivated, "withdrawal must deactivate, not delete")
	assert.False(t, deleted)
	assert.Equal(t, []events.Type{events.TypePlayerWithdrawn}, sink.TypesSeen())
}

func TestComputeFees(t *testing.T) {
	attendanceRepo, assignmentRepo, carnivalRepo, _, _, _, svc := newRegistrationFixture()
	attendanceRepo.GetByIDFunc = func(_ context.Context, id int) (*models.CarnivalClub, error) {
		return &models.CarnivalClub{ID: id, CarnivalID: 7, NumberOfTeams: 2}, nil
	}
	carnivalRepo.GetByIDFunc = func(_ context.Context, id int) (*models.Carnival, error) {
		return &models.Carnival{ID: id, TeamRegistrationFee: 50, PerPlayerFee: 10}, nil
	}
	assignmentRepo.CountActiveConfirmedFunc = func(_ context.Context, _ int) (int, error) {
		return 3, nil
	}

	fees, err := svc.ComputeFees(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, fees.TeamFeeTotal)
	assert.Equal(t, 30.0, fees.PlayerFeeTotal)
	assert.Equal(t, 130.0, fees.GrandTotal)
}
