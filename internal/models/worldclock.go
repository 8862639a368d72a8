package models

import (
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
)

type WorldClockCity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"` // IANA name
}

// IsLocal reports whether this entry represents the viewer's own zone.
func (c *WorldClockCity) IsLocal() bool {
	return c.ID == constants.LocalCityID
}

func (c *WorldClockCity) Validate() error {
	if c.Name == "" {
		return apperrors.Invalid("city name cannot be empty")
	}
	if c.Timezone == "" {
		return apperrors.Invalid("timezone cannot be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return apperrors.Invalid("unknown timezone %q", c.Timezone)
	}
	return nil
}
