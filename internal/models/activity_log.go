package models

import (
	"time"
)

// ActivityLog is an append-only audit entry
type ActivityLog struct {
	LogID      int64     `json:"log_id" db:"log_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Action     string    `json:"action" db:"action"`
	ActionTime time.Time `json:"action_time" db:"action_time"`
}

// MaxActionLength mirrors the width of activity_logs.action.
const MaxActionLength = 255
