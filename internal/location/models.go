package location

import "backend-worktracker/internal/shared/geo"

// Labels a point can resolve to, by geofence proximity.
const (
	LabelWork  = "work"
	LabelHome  = "home"
	LabelOther = "other"
)

// Point is one accepted location sample. Points are append-only.
type Point struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	SessionID string     `json:"session_id,omitempty"` // open session, when working
	Timestamp int64      `json:"timestamp"`            // ms since epoch
	LatLng    geo.LatLng `json:"lat_lng"`
	Label     string     `json:"label"`
}
