package place

import "backend-worktracker/internal/shared/geo"

const (
	KindWork = "work"
	KindHome = "home"
)

// Settings is everything the tracker needs to evaluate geofences for a user.
// HomeLocation is optional; auto clock-out is skipped without it.
type Settings struct {
	UserID          string      `json:"user_id"`
	WorkLocation    *geo.LatLng `json:"work_location,omitempty"`
	HomeLocation    *geo.LatLng `json:"home_location,omitempty"`
	TrackingEnabled bool        `json:"tracking_enabled"`
}
