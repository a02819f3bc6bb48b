package learner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want string
	}{
		{xp: 0, want: "Beginner A1"},
		{xp: 499, want: "Beginner A1"},
		{xp: 500, want: "Beginner A2"},
		{xp: 1499, want: "Beginner A2"},
		{xp: 1500, want: "Intermediate B1"},
		{xp: 3000, want: "Intermediate B2"},
		{xp: 4999, want: "Intermediate B2"},
		{xp: 5000, want: "Advanced C1"},
		{xp: 7999, want: "Advanced C1"},
		{xp: 8000, want: "Advanced C2"},
		{xp: 120000, want: "Advanced C2"},
		{xp: -10, want: "Beginner A1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForXP(tt.xp))
		})
	}
}

func TestLevelForXP_HighestTierAtOrBelow(t *testing.T) {
	for xp := 0; xp <= 9000; xp += 7 {
		got := LevelForXP(xp)

		var want Tier
		for _, tier := range Tiers {
			if tier.Threshold <= xp && tier.Threshold >= want.Threshold {
				want = tier
			}
		}
		assert.Equal(t, want.Name, got, "xp=%d", xp)
	}
}

func TestLevelBucket(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{level: "Beginner A1", want: BucketBeginner},
		{level: "Beginner A2", want: BucketBeginner},
		{level: "Intermediate B1", want: BucketIntermediate},
		{level: "Advanced C2", want: BucketAdvanced},
		{level: "", want: BucketBeginner},
		{level: "unknown", want: BucketBeginner},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelBucket(tt.level))
		})
	}
}
