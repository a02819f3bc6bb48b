package learner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
)

const day = 24 * time.Hour

// Service registers users and performs login bookkeeping.
type Service struct {
	repository *Repository
	tokens     *TokenIssuer
	now        func() time.Time
}

func NewService(repository *Repository, tokens *TokenIssuer) *Service {
	return &Service{
		repository: repository,
		tokens:     tokens,
		now:        time.Now,
	}
}

// Register creates a new profile. It fails with ErrDuplicateUser when the username is taken.
func (s *Service) Register(ctx context.Context, username string) (*Profile, error) {
	now := s.now()
	profile, err := s.repository.upsert(ctx, username,
		func() (Profile, error) {
			return NewProfile(username, now), nil
		},
		func(*Profile) error {
			return fmt.Errorf("%w: %s", ErrDuplicateUser, username)
		},
	)
	if err != nil {
		return nil, err
	}

	slog.Default().Info("registered user", "username", username)
	return profile, nil
}

// Login returns the profile for username, creating it when it does not exist yet,
// and a fresh session token. Logging in on the day after the last login extends the streak;
// a longer gap resets it to 1.
func (s *Service) Login(ctx context.Context, username string) (*Profile, string, error) {
	now := s.now()
	profile, err := s.repository.upsert(ctx, username,
		func() (Profile, error) {
			slog.Default().Info("creating profile on first login", "username", username)
			return NewProfile(username, now), nil
		},
		func(p *Profile) error {
			p.Streak = NextStreak(p.Streak, p.LastLogin, now)
			p.LastLogin = now
			return nil
		},
	)
	if err != nil {
		return nil, "", fmt.Errorf("repository.upsert(%s) > %w", username, err)
	}

	token, err := s.tokens.Issue(username, now)
	if err != nil {
		return nil, "", fmt.Errorf("tokens.Issue(%s) > %w", username, err)
	}
	return profile, token, nil
}

// NextStreak computes the streak after a login at now.
func NextStreak(streak int, lastLogin, now time.Time) int {
	daysDiff := int(math.Floor(float64(now.Sub(lastLogin)) / float64(day)))
	switch {
	case daysDiff == 1:
		return streak + 1
	case daysDiff > 1:
		return 1
	default:
		return streak
	}
}
