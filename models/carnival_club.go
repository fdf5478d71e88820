package models

import "time"

// CarnivalClub is one club's attendance at one carnival. A club attends a
// carnival at most once but may field several teams via NumberOfTeams.
type CarnivalClub struct {
	ID            int       `json:"id" db:"id"`
	CarnivalID    int       `json:"carnival_id" db:"carnival_id"`
	ClubID        int       `json:"club_id" db:"club_id"`
	NumberOfTeams int       `json:"number_of_teams" db:"number_of_teams"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Carnival *Carnival            `json:"carnival,omitempty" db:"-"`
	Club     *Club                `json:"club,omitempty" db:"-"`
	Players  []CarnivalClubPlayer `json:"players,omitempty" db:"-"`
}
