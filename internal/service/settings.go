package service

import (
	"sync"

	"github.com/julianstephens/chronos/internal/constants"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/store"
	"github.com/julianstephens/chronos/internal/utils"
)

type Settings struct {
	key *store.Key[models.AppSettings]
	mu  sync.Mutex
}

func NewSettings(env Env) *Settings {
	return &Settings{key: store.Open(env.Store, constants.KeySettings, models.DefaultSettings())}
}

// Get returns the settings with defaults applied to empty fields.
func (s *Settings) Get() models.AppSettings {
	v := s.key.Get()
	models.ApplyDefaultSettings(&v)
	return v
}

func (s *Settings) Set(name, value string) (models.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.Get()
	if err := v.Set(name, value); err != nil {
		return models.AppSettings{}, err
	}
	s.key.Set(v)
	return v, nil
}

// Formatter returns a display formatter for the current settings.
func (s *Settings) Formatter() utils.Formatter {
	return utils.NewFormatter(s.Get())
}

func (s *Settings) Subscribe(fn func(models.AppSettings)) func() {
	return s.key.Subscribe(fn)
}
