package models

import "time"

// CalendarConfig fires at most one post per calendar day when an event's date
// matches. LastRunDate ("YYYY-MM-DD") is the at-most-once guard.
type CalendarConfig struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	TargetURN   string    `db:"target_urn" json:"target_urn"`
	Enabled     bool      `db:"enabled" json:"enabled"`
	LastRunDate string    `db:"last_run_date" json:"last_run_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CalendarEvent struct {
	ID        int64     `db:"id" json:"id"`
	ConfigID  int64     `db:"config_id" json:"config_id"`
	EventDate string    `db:"event_date" json:"event_date"`
	Topic     string    `db:"topic" json:"topic"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IndustryConfig holds time-of-day slots; each slot carries its own
// LastRunDate so it fires at most once per day independently.
type IndustryConfig struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	TargetURN string    `db:"target_urn" json:"target_urn"`
	Enabled   bool      `db:"enabled" json:"enabled"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type IndustrySlot struct {
	ID          int64     `db:"id" json:"id"`
	ConfigID    int64     `db:"config_id" json:"config_id"`
	TimeOfDay   string    `db:"time_of_day" json:"time_of_day"`
	Keyword     string    `db:"keyword" json:"keyword"`
	LastRunDate string    `db:"last_run_date" json:"last_run_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
