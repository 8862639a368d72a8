package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/worldclock"
)

// Clocks manages the world clock city list. The local entry is inserted on
// first load.
type Clocks struct {
	env  Env
	key  *store.Key[[]models.WorldClockCity]
	zone string
	mu   sync.Mutex
}

func NewClocks(env Env, localZone string) *Clocks {
	if localZone == "" {
		localZone = worldclock.DetectLocalZone()
	}
	c := &Clocks{
		env:  env,
		key:  store.Open(env.Store, constants.KeyWorldClock, []models.WorldClockCity{}),
		zone: localZone,
	}
	if list, changed := worldclock.EnsureLocal(c.key.Get(), localZone); changed {
		c.key.Set(list)
	}
	return c
}

func (c *Clocks) List() []models.WorldClockCity {
	list, _ := worldclock.EnsureLocal(c.key.Get(), c.zone)
	return list
}

func (c *Clocks) Subscribe(fn func([]models.WorldClockCity)) func() {
	return c.key.Subscribe(fn)
}

func (c *Clocks) Add(name, zone string) (models.WorldClockCity, error) {
	city := models.WorldClockCity{ID: uuid.New().String(), Name: name, Timezone: zone}

	c.mu.Lock()
	defer c.mu.Unlock()
	list, err := worldclock.Add(c.List(), city)
	if err != nil {
		return models.WorldClockCity{}, err
	}
	c.key.Set(list)
	return city, nil
}

func (c *Clocks) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, err := worldclock.Remove(c.List(), id)
	if err != nil {
		return err
	}
	c.key.Set(list)
	return nil
}

// Readings projects now into every city relative to the user's zone.
func (c *Clocks) Readings(now time.Time) []worldclock.Reading {
	return worldclock.Project(c.List(), now, c.env.location())
}
