// Package worldclock keeps the city list invariants and projects the
// current instant into each city's zone.
package worldclock

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
	"github.com/julianstephens/chronos/internal/logger"
	"github.com/julianstephens/chronos/internal/models"
	"github.com/julianstephens/chronos/internal/utils"
)

// DetectLocalZone returns the IANA name of the system zone, or "UTC" when it
// cannot be determined.
func DetectLocalZone() string {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" && utils.ValidateTimezone(tz) {
		return tz
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):]
		}
	}
	return "UTC"
}

// LocalCity builds the sentinel entry for zone.
func LocalCity(zone string) models.WorldClockCity {
	return models.WorldClockCity{ID: constants.LocalCityID, Name: "Local", Timezone: zone}
}

// EnsureLocal guarantees exactly one local entry, inserting one for zone at
// the front when missing. It reports whether the list changed.
func EnsureLocal(list []models.WorldClockCity, zone string) ([]models.WorldClockCity, bool) {
	out := make([]models.WorldClockCity, 0, len(list)+1)
	seen := false
	changed := false
	for _, c := range list {
		if c.IsLocal() {
			if seen {
				changed = true
				continue
			}
			seen = true
		}
		out = append(out, c)
	}
	if !seen {
		out = append([]models.WorldClockCity{LocalCity(zone)}, out...)
		changed = true
	}
	return out, changed
}

// Add appends a validated city. The local sentinel id is reserved.
func Add(list []models.WorldClockCity, city models.WorldClockCity) ([]models.WorldClockCity, error) {
	if city.IsLocal() {
		return nil, apperrors.Invalid("the %q city is managed automatically", constants.LocalCityID)
	}
	if err := city.Validate(); err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.ID == city.ID {
			return nil, apperrors.Invalid("city %s already exists", city.ID)
		}
	}
	return append(append([]models.WorldClockCity(nil), list...), city), nil
}

// Remove deletes the city with id. The local entry cannot be removed.
func Remove(list []models.WorldClockCity, id string) ([]models.WorldClockCity, error) {
	if id == constants.LocalCityID {
		return nil, apperrors.Invalid("the local clock cannot be removed")
	}
	out := make([]models.WorldClockCity, 0, len(list))
	found := false
	for _, c := range list {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		return nil, apperrors.NotFound("city", id)
	}
	return out, nil
}

// Reading is one city's view of an instant.
type Reading struct {
	City models.WorldClockCity
	Time time.Time
	// OffsetSec is the city's UTC offset minus the reference zone's.
	OffsetSec int
	// DayDelta is -1, 0 or 1 when the city's calendar date differs from
	// the reference zone's.
	DayDelta int
}

// Project converts now into every city's zone, relative to ref. A city with
// an unknown zone is shown in UTC.
func Project(list []models.WorldClockCity, now time.Time, ref *time.Location) []Reading {
	refNow := now.In(ref)
	_, refOff := refNow.Zone()
	refDay := utils.Midnight(refNow)

	out := make([]Reading, 0, len(list))
	for _, c := range list {
		loc, err := utils.LoadLocation(c.Timezone)
		if err != nil {
			logger.Warn("Unknown timezone, showing UTC", "city", c.Name, "timezone", c.Timezone, "error", err)
			loc = time.UTC
		}
		t := now.In(loc)
		_, off := t.Zone()

		cityDay := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ref)
		delta := int(math.Round(cityDay.Sub(refDay).Hours() / 24))

		out = append(out, Reading{City: c, Time: t, OffsetSec: off - refOff, DayDelta: delta})
	}
	return out
}
