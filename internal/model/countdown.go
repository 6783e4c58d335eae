package model

// Date and time layouts used across the bot. The countdown record keeps
// both as plain strings so the persisted document stays exactly what the
// user typed.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Countdown is the single active countdown configuration. At most one
// instance is persisted at any time; absence means no countdown is running.
type Countdown struct {
	EventName    string  `json:"event_name"`
	TargetDate   string  `json:"target_date"` // YYYY-MM-DD
	SendTime     string  `json:"send_time"`   // HH:MM, 24h
	ChannelID    int64   `json:"channel_id"`
	LastSentDate *string `json:"last_sent_date"` // YYYY-MM-DD of the last notification, nil until the first one
}
