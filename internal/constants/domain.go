package constants

// RecurrenceType represents the recurrence of a schedule item
type RecurrenceType string

// Difficulty tiers for schedule items
type Difficulty string

// NotificationKind identifies the feature that raised a notification
type NotificationKind string

const (
	RecurrenceNone   RecurrenceType = ""
	RecurrenceDaily  RecurrenceType = "daily"
	RecurrenceWeekly RecurrenceType = "weekly"

	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"

	NotifyAlarm NotificationKind = "alarm"
	NotifyTimer NotificationKind = "timer"

	// Stats counters
	StatTimersCompleted = "timers_completed"
	StatAlarmsRung      = "alarms_rung"
	StatTasksCompleted  = "tasks_completed"
)
