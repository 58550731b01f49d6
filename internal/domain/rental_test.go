package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to RentalStatus
		want     bool
	}{
		{RentalStatusPending, RentalStatusConfirmed, true},
		{RentalStatusPending, RentalStatusCancelled, true},
		{RentalStatusPending, RentalStatusActive, false},
		{RentalStatusConfirmed, RentalStatusApproved, true},
		{RentalStatusConfirmed, RentalStatusRejected, true},
		{RentalStatusConfirmed, RentalStatusCompleted, true},
		{RentalStatusApproved, RentalStatusActive, true},
		{RentalStatusApproved, RentalStatusCompleted, false},
		{RentalStatusActive, RentalStatusCompleted, true},
		{RentalStatusActive, RentalStatusCancelled, false},
		{RentalStatusCompleted, RentalStatusActive, false},
		{RentalStatusCancelled, RentalStatusPending, false},
		{RentalStatusRejected, RentalStatusConfirmed, false},
		// Replays of the same status are tolerated.
		{RentalStatusConfirmed, RentalStatusConfirmed, true},
		{RentalStatusCompleted, RentalStatusCompleted, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTotalDays(t *testing.T) {
	assert.Equal(t, int32(1), TotalDays(date(2026, 3, 1), date(2026, 3, 2)))
	assert.Equal(t, int32(3), TotalDays(date(2026, 3, 1), date(2026, 3, 4)))
	// Partial days round up.
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, int32(2), TotalDays(start, end))
}

func TestRentalOverlaps(t *testing.T) {
	rt := &Rental{StartDate: date(2026, 3, 10), EndDate: date(2026, 3, 15)}

	assert.True(t, rt.Overlaps(date(2026, 3, 12), date(2026, 3, 20)))
	assert.True(t, rt.Overlaps(date(2026, 3, 5), date(2026, 3, 11)))
	assert.True(t, rt.Overlaps(date(2026, 3, 1), date(2026, 3, 30)))

	// Half-open: a booking ending on another's start date does not collide.
	assert.False(t, rt.Overlaps(date(2026, 3, 15), date(2026, 3, 20)))
	assert.False(t, rt.Overlaps(date(2026, 3, 5), date(2026, 3, 10)))
}

func TestCanBeCancelled(t *testing.T) {
	today := date(2026, 3, 10)

	for _, status := range []RentalStatus{RentalStatusPending, RentalStatusConfirmed, RentalStatusApproved} {
		rt := &Rental{Status: status, StartDate: date(2026, 3, 11)}
		assert.True(t, rt.CanBeCancelled(today), "status %s", status)
	}

	active := &Rental{Status: RentalStatusActive, StartDate: date(2026, 3, 11)}
	assert.False(t, active.CanBeCancelled(today))

	started := &Rental{Status: RentalStatusConfirmed, StartDate: date(2026, 3, 10)}
	assert.False(t, started.CanBeCancelled(today))
}

func TestNeedsApproval(t *testing.T) {
	rt := &Rental{Status: RentalStatusConfirmed, ApprovalStatus: ApprovalStatusPending}
	assert.True(t, rt.NeedsApproval())

	rt.Status = RentalStatusPending
	assert.False(t, rt.NeedsApproval())

	rt.Status = RentalStatusConfirmed
	rt.ApprovalStatus = ApprovalStatusApproved
	assert.False(t, rt.NeedsApproval())
}

func TestIsOccupying(t *testing.T) {
	occupying := []RentalStatus{RentalStatusPending, RentalStatusConfirmed, RentalStatusApproved, RentalStatusActive}
	for _, s := range occupying {
		assert.True(t, s.IsOccupying(), "status %s", s)
	}
	for _, s := range []RentalStatus{RentalStatusCompleted, RentalStatusCancelled, RentalStatusRejected} {
		assert.False(t, s.IsOccupying(), "status %s", s)
	}
}
