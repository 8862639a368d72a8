package constants

// TimeDisplay selects 12 or 24 hour clocks
type TimeDisplay string

// Theme selects the color scheme
type Theme string

const (
	TimeDisplay12h TimeDisplay = "12h"
	TimeDisplay24h TimeDisplay = "24h"

	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"

	// Setting names accepted by `chronos settings set`
	SettingTimeFormat = "time_format"
	SettingTheme      = "theme"
	SettingLanguage   = "language"

	// Default Settings Values
	DefaultTimeDisplay = TimeDisplay24h
	DefaultTheme       = ThemeSystem
	DefaultLanguage    = "en"
	DefaultTimezone    = "Local"
	DefaultSound       = "classic"
	DefaultSnoozeMin   = 5
)

// SupportedLanguages lists the language codes the formatters know about
var SupportedLanguages = []string{"en", "es", "fr", "de", "ja"}
