package transfer

import "github.com/golang-jwt/jwt/v5"

type PostCreation struct {
	Caption       string   `json:"caption"`
	TargetURN     string   `json:"target_urn"`
	ScheduledTime string   `json:"scheduled_time"`
	ImageSources  []string `json:"image_sources"`
	VideoSource   string   `json:"video_source"`
}

type ScheduleEventUpdate struct {
	EventDate string `json:"event_date"`
	Topic     string `json:"topic"`
}

type CalendarConfigUpdate struct {
	TargetURN string                `json:"target_urn"`
	Enabled   bool                  `json:"enabled"`
	Events    []ScheduleEventUpdate `json:"events"`
}

type IndustrySlotUpdate struct {
	TimeOfDay string `json:"time_of_day"`
	Keyword   string `json:"keyword"`
}

type IndustryConfigUpdate struct {
	TargetURN string               `json:"target_urn"`
	Enabled   bool                 `json:"enabled"`
	Slots     []IndustrySlotUpdate `json:"slots"`
}

type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
