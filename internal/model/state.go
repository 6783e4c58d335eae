package model

import "time"

// StateRecord is a key-value row holding a JSON document. The countdown
// settings live under a single well-known key.
type StateRecord struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
