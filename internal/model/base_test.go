package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidBloodGroup(t *testing.T) {
	for _, bg := range BloodGroups {
		assert.True(t, ValidBloodGroup(bg), bg)
	}

	assert.False(t, ValidBloodGroup(""))
	assert.False(t, ValidBloodGroup("C+"))
	assert.False(t, ValidBloodGroup("o-"))
	assert.False(t, ValidBloodGroup("AB"))
}

func TestDecisionValid(t *testing.T) {
	assert.True(t, DecisionApproved.Valid())
	assert.True(t, DecisionRejected.Valid())
	assert.False(t, Decision("PENDING").Valid())
	assert.False(t, Decision("").Valid())
}

func TestNextEligibleDate(t *testing.T) {
	donated := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, donated.AddDate(0, 0, 56), NextEligibleDate(donated))
}

func TestStartOfDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	late := time.Date(2026, 6, 15, 23, 45, 0, 0, ist)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, ist), StartOfDay(late))

	early := time.Date(2026, 6, 16, 0, 10, 0, 0, ist)
	assert.Equal(t, time.Date(2026, 6, 16, 0, 0, 0, 0, ist), StartOfDay(early))
}

func TestCampIsUpcomingLocalMidnight(t *testing.T) {
	// 23:45 local is 18:15 UTC the same day; the cutoff must follow the
	// caller's calendar day, not the UTC one
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 6, 15, 23, 45, 0, 0, ist)

	camp := &Camp{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, ist)}
	assert.True(t, camp.IsUpcoming(now))
	assert.False(t, camp.Date.Before(StartOfDay(now)))

	past := &Camp{Date: time.Date(2026, 6, 14, 0, 0, 0, 0, ist)}
	assert.False(t, past.IsUpcoming(now))
}

func TestCampIsUpcoming(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)

	today := &Camp{Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.True(t, today.IsUpcoming(now))

	tomorrow := &Camp{Date: time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)}
	assert.True(t, tomorrow.IsUpcoming(now))

	yesterday := &Camp{Date: time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)}
	assert.False(t, yesterday.IsUpcoming(now))
}
