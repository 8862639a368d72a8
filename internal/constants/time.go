package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Clock12Format is used when settings select a 12 hour display
	Clock12Format = "3:04:05 PM"

	// Clock24Format is used when settings select a 24 hour display
	Clock24Format = "15:04:05"

	// InstantFormat stores countdown targets as UTC instants with millisecond precision
	InstantFormat = "2006-01-02T15:04:05.000Z07:00"

	// LocalCityID is the sentinel identifier of the viewer's own world clock entry
	LocalCityID = "local"
)
