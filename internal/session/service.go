package session

import (
	"context"

	"backend-worktracker/internal/db"
	"backend-worktracker/internal/shared/geo"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Append stores a closed session in history.
func (s *Service) Append(ctx context.Context, ws WorkSession) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO work_sessions (id, user_id, session_date, start_time_ms, end_time_ms,
		                           project_name, task_description, hourly_rate, location_label,
		                           start_lat, start_lng, end_lat, end_lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, ws.ID, ws.UserID, ws.Date, ws.StartTime, ws.EndTime,
		ws.ProjectName, ws.TaskDescription, ws.HourlyRate, ws.Location,
		latPtr(ws.StartLatLng), lngPtr(ws.StartLatLng), latPtr(ws.EndLatLng), lngPtr(ws.EndLatLng))
	return err
}

// History returns all of a user's sessions ordered by start time.
func (s *Service) History(ctx context.Context, userID string) ([]WorkSession, error) {
	return s.query(ctx, `
		SELECT id, user_id, session_date, start_time_ms, end_time_ms,
		       project_name, task_description, hourly_rate, location_label,
		       start_lat, start_lng, end_lat, end_lng
		FROM work_sessions WHERE user_id=$1
		ORDER BY start_time_ms
	`, userID)
}

// ByDate returns the sessions whose stored date string equals date.
func (s *Service) ByDate(ctx context.Context, userID, date string) ([]WorkSession, error) {
	return s.query(ctx, `
		SELECT id, user_id, session_date, start_time_ms, end_time_ms,
		       project_name, task_description, hourly_rate, location_label,
		       start_lat, start_lng, end_lat, end_lng
		FROM work_sessions WHERE user_id=$1 AND session_date=$2
		ORDER BY start_time_ms
	`, userID, date)
}

// ReplaceAll swaps a user's entire history for the given sessions. Used by
// the cloud restore path.
func (s *Service) ReplaceAll(ctx context.Context, userID string, sessions []WorkSession) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM work_sessions WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, ws := range sessions {
		ws.UserID = userID
		if err := s.Append(ctx, ws); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) query(ctx context.Context, sql string, args ...any) ([]WorkSession, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []WorkSession
	for rows.Next() {
		var ws WorkSession
		var sLat, sLng, eLat, eLng *float64
		if err := rows.Scan(&ws.ID, &ws.UserID, &ws.Date, &ws.StartTime, &ws.EndTime,
			&ws.ProjectName, &ws.TaskDescription, &ws.HourlyRate, &ws.Location,
			&sLat, &sLng, &eLat, &eLng); err != nil {
			return nil, err
		}
		ws.StartLatLng = latLngOf(sLat, sLng)
		ws.EndLatLng = latLngOf(eLat, eLng)
		sessions = append(sessions, ws)
	}
	return sessions, nil
}

func latPtr(ll *geo.LatLng) *float64 {
	if ll == nil {
		return nil
	}
	return &ll.Lat
}

func lngPtr(ll *geo.LatLng) *float64 {
	if ll == nil {
		return nil
	}
	return &ll.Lng
}

func latLngOf(lat, lng *float64) *geo.LatLng {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.LatLng{Lat: *lat, Lng: *lng}
}
