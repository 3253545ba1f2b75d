package syncdrive

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"backend-worktracker/internal/db"
	"backend-worktracker/internal/session"

	"github.com/jackc/pgx/v5"
)

// SessionStore is the slice of session history the sync layer needs.
type SessionStore interface {
	History(ctx context.Context, userID string) ([]session.WorkSession, error)
	ReplaceAll(ctx context.Context, userID string, sessions []session.WorkSession) error
}

// Service keeps one JSON snapshot of each user's work history. Upload and
// Download are deliberately lossy about errors: sync is best-effort and must
// never surface a hard failure to the tracker.
type Service struct {
	db       db.Querier
	sessions SessionStore
}

func NewService(db db.Querier, sessions SessionStore) *Service {
	return &Service{db: db, sessions: sessions}
}

// Upload stores the history snapshot, replacing any previous one. The
// boolean is the entire failure contract.
func (s *Service) Upload(ctx context.Context, userID string, sessions []session.WorkSession) bool {
	payload, err := json.Marshal(sessions)
	if err != nil {
		log.Printf("sync marshal error: %v", err)
		return false
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO sync_snapshots (user_id, payload, uploaded_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET payload=EXCLUDED.payload, uploaded_at=EXCLUDED.uploaded_at
	`, userID, payload, time.Now().UnixMilli())
	if err != nil {
		log.Printf("sync upload error: %v", err)
		return false
	}
	return true
}

// Download returns the stored snapshot, or nil when there is none or the
// payload does not parse.
func (s *Service) Download(ctx context.Context, userID string) []session.WorkSession {
	row := s.db.QueryRow(ctx, `SELECT payload FROM sync_snapshots WHERE user_id=$1`, userID)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("sync download error: %v", err)
		}
		return nil
	}
	var sessions []session.WorkSession
	if err := json.Unmarshal(payload, &sessions); err != nil {
		log.Printf("sync payload parse error: %v", err)
		return nil
	}
	return sessions
}

// Restore replaces local history with the cloud snapshot. A missing or
// unreadable snapshot restores nothing and reports false.
func (s *Service) Restore(ctx context.Context, userID string) (int, bool, error) {
	sessions := s.Download(ctx, userID)
	if sessions == nil {
		return 0, false, nil
	}
	if err := s.sessions.ReplaceAll(ctx, userID, sessions); err != nil {
		return 0, false, err
	}
	return len(sessions), true, nil
}
