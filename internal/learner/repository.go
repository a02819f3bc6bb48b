package learner

import (
	"context"
	"errors"
	"fmt"

	"github.com/at-ishikawa/langtutor/internal/store"
)

var (
	ErrDuplicateUser = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// Repository reads and updates profiles in the users collection.
type Repository struct {
	users *store.Collection[Profile]
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{
		users: store.NewCollection[Profile](s, store.Users),
	}
}

// Find returns ErrUserNotFound when no profile has the username.
func (r *Repository) Find(ctx context.Context, username string) (*Profile, error) {
	profiles, err := r.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.All() > %w", err)
	}
	if i := indexOf(profiles, username); i >= 0 {
		return &profiles[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
}

func (r *Repository) All(ctx context.Context) ([]Profile, error) {
	profiles, err := r.users.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.All() > %w", err)
	}
	return profiles, nil
}

// Update applies fn to the stored profile and persists the result.
// It returns ErrUserNotFound without writing when the profile does not exist.
func (r *Repository) Update(ctx context.Context, username string, fn func(*Profile) error) (*Profile, error) {
	var updated Profile
	if err := r.users.Update(ctx, func(profiles []Profile) ([]Profile, error) {
		i := indexOf(profiles, username)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		if err := fn(&profiles[i]); err != nil {
			return nil, err
		}
		updated = profiles[i]
		return profiles, nil
	}); err != nil {
		return nil, err
	}
	return &updated, nil
}

// upsert runs create when the username is unknown and touch otherwise, in one exclusive section.
func (r *Repository) upsert(ctx context.Context, username string, create func() (Profile, error), touch func(*Profile) error) (*Profile, error) {
	var result Profile
	if err := r.users.Update(ctx, func(profiles []Profile) ([]Profile, error) {
		if i := indexOf(profiles, username); i >= 0 {
			if err := touch(&profiles[i]); err != nil {
				return nil, err
			}
			result = profiles[i]
			return profiles, nil
		}

		profile, err := create()
		if err != nil {
			return nil, err
		}
		result = profile
		return append(profiles, profile), nil
	}); err != nil {
		return nil, err
	}
	return &result, nil
}

func indexOf(profiles []Profile, username string) int {
	for i := range profiles {
		if profiles[i].Username == username {
			return i
		}
	}
	return -1
}
