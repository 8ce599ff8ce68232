package honors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeZeroPoints(t *testing.T) {
	s := Compute(0)
	assert.Equal(t, Beginner, s.Current)
	assert.Equal(t, Bronze, s.Next)
	assert.Zero(t, s.Progress)
}

func TestComputeExactThreshold(t *testing.T) {
	s := Compute(250)
	assert.Equal(t, Silver, s.Current)
	assert.Equal(t, Gold, s.Next)
	assert.Zero(t, s.Progress)
}

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		points   int
		current  Tier
		next     Tier
		progress float64
	}{
		{50, Beginner, Bronze, 50},
		{99, Beginner, Bronze, 99},
		{100, Bronze, Silver, 0},
		{175, Bronze, Silver, 50},
		{375, Silver, Gold, 50},
		{750, Gold, Platinum, 50},
	}
	for _, tc := range cases {
		s := Compute(tc.points)
		assert.Equal(t, tc.current, s.Current, "points=%d", tc.points)
		assert.Equal(t, tc.next, s.Next, "points=%d", tc.points)
		assert.InDelta(t, tc.progress, s.Progress, 0.001, "points=%d", tc.points)
	}
}

func TestComputeMaxLevel(t *testing.T) {
	s := Compute(1500)
	assert.Equal(t, Platinum, s.Current)
	assert.True(t, s.IsMaxLevel())
	assert.Equal(t, 1000, s.Next.Points)
	assert.Equal(t, 100.0, s.Progress)
}
