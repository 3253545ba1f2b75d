package session

import "backend-worktracker/internal/shared/geo"

const msPerHour = 3600000.0

// WorkSession is one closed work interval. Sessions enter history at
// clock-out and are never mutated afterwards.
type WorkSession struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Date            string      `json:"date"`       // yyyy-MM-dd, from the start time
	StartTime       int64       `json:"start_time"` // ms since epoch
	EndTime         int64       `json:"end_time"`   // ms since epoch
	ProjectName     string      `json:"project_name"`
	TaskDescription string      `json:"task_description"`
	HourlyRate      float64     `json:"hourly_rate"`
	Location        string      `json:"location"` // work / home / other
	StartLatLng     *geo.LatLng `json:"start_lat_lng,omitempty"`
	EndLatLng       *geo.LatLng `json:"end_lat_lng,omitempty"`
}

func (s WorkSession) Duration() int64 {
	return s.EndTime - s.StartTime
}

func (s WorkSession) Earnings() float64 {
	return float64(s.Duration()) / msPerHour * s.HourlyRate
}
