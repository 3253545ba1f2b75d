package location

import (
	"context"

	"backend-worktracker/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Append(ctx context.Context, p Point) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO location_points (id, user_id, session_id, timestamp_ms, lat, lng, label)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.UserID, nullable(p.SessionID), p.Timestamp, p.LatLng.Lat, p.LatLng.Lng, p.Label)
	return err
}

// All returns every point of a user ordered by timestamp.
func (s *Service) All(ctx context.Context, userID string) ([]Point, error) {
	return s.query(ctx, `
		SELECT id, user_id, COALESCE(session_id,''), timestamp_ms, lat, lng, label
		FROM location_points WHERE user_id=$1
		ORDER BY timestamp_ms
	`, userID)
}

// ByRange returns the points recorded inside the [fromMs, toMs) window.
// Callers derive day windows in local time so the timezone decision stays
// out of SQL.
func (s *Service) ByRange(ctx context.Context, userID string, fromMs, toMs int64) ([]Point, error) {
	return s.query(ctx, `
		SELECT id, user_id, COALESCE(session_id,''), timestamp_ms, lat, lng, label
		FROM location_points WHERE user_id=$1 AND timestamp_ms >= $2 AND timestamp_ms < $3
		ORDER BY timestamp_ms
	`, userID, fromMs, toMs)
}

func (s *Service) query(ctx context.Context, sql string, args ...any) ([]Point, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.UserID, &p.SessionID, &p.Timestamp, &p.LatLng.Lat, &p.LatLng.Lng, &p.Label); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
