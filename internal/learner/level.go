package learner

import "strings"

// Tier is a proficiency level unlocked at Threshold XP.
type Tier struct {
	Name      string
	Threshold int
}

// Tiers is ordered by ascending threshold.
var Tiers = []Tier{
	{Name: "Beginner A1", Threshold: 0},
	{Name: "Beginner A2", Threshold: 500},
	{Name: "Intermediate B1", Threshold: 1500},
	{Name: "Intermediate B2", Threshold: 3000},
	{Name: "Advanced C1", Threshold: 5000},
	{Name: "Advanced C2", Threshold: 8000},
}

// LevelForXP returns the highest tier whose threshold is at most xp.
func LevelForXP(xp int) string {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].Threshold <= xp {
			return Tiers[i].Name
		}
	}
	return Tiers[0].Name
}

// Level buckets used when generating quizzes.
const (
	BucketBeginner     = "beginner"
	BucketIntermediate = "intermediate"
	BucketAdvanced     = "advanced"
)

// LevelBucket maps a tier name to its coarse bucket, defaulting to beginner.
func LevelBucket(level string) string {
	lower := strings.ToLower(level)
	switch {
	case strings.Contains(lower, BucketIntermediate):
		return BucketIntermediate
	case strings.Contains(lower, BucketAdvanced):
		return BucketAdvanced
	default:
		return BucketBeginner
	}
}
