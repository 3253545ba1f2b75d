package location

import (
	"context"
	"errors"
	"testing"

	"backend-worktracker/internal/shared/geo"

	"github.com/pashagolub/pgxmock/v3"
)

var errQuery = errors.New("query error")

func TestAppendAndAll(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	sessionID := "session-1"
	mock.ExpectExec(`INSERT INTO location_points`).
		WithArgs("point-1", "user-1", &sessionID, int64(1000), 37.5, 127.0, "work").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.Append(context.Background(), Point{
		ID: "point-1", UserID: "user-1", SessionID: "session-1",
		Timestamp: 1000, LatLng: geo.LatLng{Lat: 37.5, Lng: 127.0}, Label: "work",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(session_id,''\), timestamp_ms, lat, lng, label`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "timestamp_ms", "lat", "lng", "label"}).
			AddRow("point-1", "user-1", "session-1", int64(1000), 37.5, 127.0, "work"))

	points, err := svc.All(context.Background(), "user-1")
	if err != nil || len(points) != 1 {
		t.Fatalf("all: %v", err)
	}
	if points[0].LatLng.Lat != 37.5 || points[0].Label != "work" {
		t.Fatalf("unexpected point")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAppendWithoutSession(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO location_points`).
		WithArgs("point-2", "user-1", (*string)(nil), int64(2000), 37.5, 127.0, "other").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	svc := NewService(mock)
	err = svc.Append(context.Background(), Point{
		ID: "point-2", UserID: "user-1",
		Timestamp: 2000, LatLng: geo.LatLng{Lat: 37.5, Lng: 127.0}, Label: "other",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestByRange(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(session_id,''\), timestamp_ms, lat, lng, label`).
		WithArgs("user-1", int64(0), int64(86400000)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "session_id", "timestamp_ms", "lat", "lng", "label"}))

	svc := NewService(mock)
	points, err := svc.ByRange(context.Background(), "user-1", 0, 86400000)
	if err != nil {
		t.Fatalf("by range: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestAllQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, user_id, COALESCE\(session_id,''\), timestamp_ms, lat, lng, label`).
		WithArgs("user-err").
		WillReturnError(errQuery)

	svc := NewService(mock)
	if _, err := svc.All(context.Background(), "user-err"); err == nil {
		t.Fatalf("expected error")
	}
}
