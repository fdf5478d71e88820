package models

import "time"

// AttendanceStatus mirrors the attendance_status ENUM in the database.
// Any transition between statuses is legal.
type AttendanceStatus string

const (
	AttendanceConfirmed   AttendanceStatus = "confirmed"
	AttendanceTentative   AttendanceStatus = "tentative"
	AttendanceUnavailable AttendanceStatus = "unavailable"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceConfirmed, AttendanceTentative, AttendanceUnavailable:
		return true
	}
	return false
}

// CarnivalClubPlayer assigns one club player to a team within a club's
// attendance at a carnival. A player appears at most once per attendance.
// TeamNumber is nil while the player is unassigned; when set it must fall in
// [1, parent.NumberOfTeams]. Withdrawn players keep their row with
// IsActive=false so the assignment history survives.
type CarnivalClubPlayer struct {
	ID               int              `json:"id" db:"id"`
	CarnivalClubID   int              `json:"carnival_club_id" db:"carnival_club_id"`
	ClubPlayerID     int              `json:"club_player_id" db:"club_player_id"`
	IsActive         bool             `json:"is_active" db:"is_active"`
	AttendanceStatus AttendanceStatus `json:"attendance_status" db:"attendance_status"`
	TeamNumber       *int             `json:"team_number,omitempty" db:"team_number"`
	Notes            *string          `json:"notes,omitempty" db:"notes"`
	AddedAt          time.Time        `json:"added_at" db:"added_at"`

	Player *ClubPlayer `json:"player,omitempty" db:"-"`
}
