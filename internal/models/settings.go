package models

import (
	"github.com/julianstephens/chronos/internal/constants"
	apperrors "github.com/julianstephens/chronos/internal/errors"
)

// AppSettings represents process-wide display settings
type AppSettings struct {
	TimeFormat constants.TimeDisplay `json:"time_format"` // 12h or 24h clock display
	Theme      constants.Theme       `json:"theme"`       // light, dark, or system
	Language   string                `json:"language"`    // language code, e.g. "en"
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() AppSettings {
	return AppSettings{
		TimeFormat: constants.DefaultTimeDisplay,
		Theme:      constants.DefaultTheme,
		Language:   constants.DefaultLanguage,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *AppSettings) {
	if settings.TimeFormat == "" {
		settings.TimeFormat = constants.DefaultTimeDisplay
	}
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.Language == "" {
		settings.Language = constants.DefaultLanguage
	}
}

func (s *AppSettings) Validate() error {
	switch s.TimeFormat {
	case constants.TimeDisplay12h, constants.TimeDisplay24h:
	default:
		return apperrors.Invalid("invalid time format %q (must be 12h or 24h)", s.TimeFormat)
	}
	switch s.Theme {
	case constants.ThemeLight, constants.ThemeDark, constants.ThemeSystem:
	default:
		return apperrors.Invalid("invalid theme %q (must be light, dark, or system)", s.Theme)
	}
	for _, lang := range constants.SupportedLanguages {
		if s.Language == lang {
			return nil
		}
	}
	return apperrors.Invalid("unsupported language %q", s.Language)
}

// Set assigns a single setting by name and validates the result.
func (s *AppSettings) Set(key, value string) error {
	next := *s
	switch key {
	case constants.SettingTimeFormat:
		next.TimeFormat = constants.TimeDisplay(value)
	case constants.SettingTheme:
		next.Theme = constants.Theme(value)
	case constants.SettingLanguage:
		next.Language = value
	default:
		return apperrors.Invalid("unknown setting %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*s = next
	return nil
}

// SettingsToMap converts settings to a map of key-value pairs.
func SettingsToMap(settings AppSettings) map[string]string {
	return map[string]string{
		constants.SettingTimeFormat: string(settings.TimeFormat),
		constants.SettingTheme:      string(settings.Theme),
		constants.SettingLanguage:   settings.Language,
	}
}
