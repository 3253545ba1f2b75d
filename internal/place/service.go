package place

import (
	"context"
	"errors"

	"backend-worktracker/internal/db"
	"backend-worktracker/internal/shared/geo"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) SetPlace(ctx context.Context, userID, kind string, ll geo.LatLng) error {
	if kind != KindWork && kind != KindHome {
		return errors.New("kind must be work or home")
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_places (user_id, kind, lat, lng)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, kind) DO UPDATE SET lat=EXCLUDED.lat, lng=EXCLUDED.lng
	`, userID, kind, ll.Lat, ll.Lng)
	return err
}

func (s *Service) ClearPlace(ctx context.Context, userID, kind string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM user_places WHERE user_id=$1 AND kind=$2`, userID, kind)
	return err
}

// Place returns the stored coordinate for kind, or nil when none is set.
func (s *Service) Place(ctx context.Context, userID, kind string) (*geo.LatLng, error) {
	row := s.db.QueryRow(ctx, `
		SELECT lat, lng FROM user_places WHERE user_id=$1 AND kind=$2
	`, userID, kind)
	var ll geo.LatLng
	if err := row.Scan(&ll.Lat, &ll.Lng); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ll, nil
}

func (s *Service) SetTracking(ctx context.Context, userID string, enabled bool) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_settings (user_id, tracking_enabled)
		VALUES ($1,$2)
		ON CONFLICT (user_id) DO UPDATE SET tracking_enabled=EXCLUDED.tracking_enabled
	`, userID, enabled)
	return err
}

func (s *Service) TrackingEnabled(ctx context.Context, userID string) (bool, error) {
	row := s.db.QueryRow(ctx, `SELECT tracking_enabled FROM user_settings WHERE user_id=$1`, userID)
	var enabled bool
	if err := row.Scan(&enabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return enabled, nil
}

// Settings bundles both geofence coordinates and the tracking flag.
func (s *Service) Settings(ctx context.Context, userID string) (Settings, error) {
	work, err := s.Place(ctx, userID, KindWork)
	if err != nil {
		return Settings{}, err
	}
	home, err := s.Place(ctx, userID, KindHome)
	if err != nil {
		return Settings{}, err
	}
	enabled, err := s.TrackingEnabled(ctx, userID)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		UserID:          userID,
		WorkLocation:    work,
		HomeLocation:    home,
		TrackingEnabled: enabled,
	}, nil
}
