package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/timing"
)

type Countdowns struct {
	env Env
	key *store.Key[[]models.Countdown]
	mu  sync.Mutex
}

func NewCountdowns(env Env) *Countdowns {
	return &Countdowns{
		env: env,
		key: store.Open(env.Store, constants.KeyCountdowns, []models.Countdown{}),
	}
}

// Add stores a countdown to target, which must be in the future.
func (s *Countdowns) Add(name string, target time.Time, emoji string) (models.Countdown, error) {
	c := models.Countdown{
		ID:     uuid.New().String(),
		Name:   name,
		Target: target.UTC().Format(constants.InstantFormat),
		Emoji:  emoji,
	}
	if err := c.Validate(s.env.now()); err != nil {
		return models.Countdown{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key.Update(func(list []models.Countdown) []models.Countdown {
		return append(list, c)
	})
	return c, nil
}

// List returns the countdowns with unfinished ones first, each group by
// target ascending.
func (s *Countdowns) List() []models.Countdown {
	return timing.SortCountdowns(s.key.Get(), s.env.now())
}

func (s *Countdowns) Subscribe(fn func([]models.Countdown)) func() {
	return s.key.Subscribe(fn)
}

func (s *Countdowns) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.key.Get()
	out := make([]models.Countdown, 0, len(list))
	for _, c := range list {
		if c.ID != id {
			out = append(out, c)
		}
	}
	if len(out) == len(list) {
		return apperrors.NotFound("countdown", id)
	}
	s.key.Set(out)
	return nil
}
