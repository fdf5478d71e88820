package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttendanceStatusValid(t *testing.T) {
	for _, status := range []AttendanceStatus{AttendanceConfirmed, AttendanceTentative, AttendanceUnavailable} {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, AttendanceStatus("maybe").Valid())
	assert.False(t, AttendanceStatus("").Valid())
}

func TestShortsColorValid(t *testing.T) {
	for _, color := range []ShortsColor{ShortsUnrestricted, ShortsRed, ShortsYellow, ShortsBlue, ShortsGreen} {
		assert.True(t, color.Valid(), string(color))
	}
	assert.False(t, ShortsColor("purple").Valid())
}

func TestSponsorshipLevelValid(t *testing.T) {
	for _, level := range []SponsorshipLevel{SponsorshipGold, SponsorshipSilver, SponsorshipBronze, SponsorshipSupporting} {
		assert.True(t, level.Valid(), string(level))
	}
	assert.False(t, SponsorshipLevel("platinum").Valid())
}

func TestCarnivalClaimed(t *testing.T) {
	c := Carnival{}
	assert.False(t, c.Claimed())
	userID := 4
	c.ClaimedByUserID = &userID
	assert.True(t, c.Claimed())
}
