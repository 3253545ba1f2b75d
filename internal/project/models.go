package project

import "time"

// Project groups sessions under a name and a default hourly rate.
// Projects are soft-deleted: toggling IsActive off keeps them for history.
type Project struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Name              string    `json:"name"`
	DefaultHourlyRate float64   `json:"default_hourly_rate"`
	Color             int       `json:"color"`
	Description       string    `json:"description"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}
