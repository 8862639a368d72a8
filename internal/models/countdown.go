package models

import (
	"time"

	apperrors "github.com/julianstephens/chronos/internal/errors"
)

type Countdown struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Target string `json:"target_date"` // RFC3339 with milliseconds, UTC
	Emoji  string `json:"emoji,omitempty"`
}

// Validate checks the countdown at creation time: the target must be
// strictly after now.
func (c *Countdown) Validate(now time.Time) error {
	if c.Name == "" {
		return apperrors.Invalid("countdown name cannot be empty")
	}
	target, err := time.Parse(time.RFC3339, c.Target)
	if err != nil {
		return apperrors.Invalid("invalid countdown target %q (expected RFC3339)", c.Target)
	}
	if !target.After(now) {
		return apperrors.Invalid("countdown target must be in the future")
	}
	return nil
}
