package tracker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// TimerState is the persisted snapshot of an open timer. It exists so a
// process restart resumes a running session instead of losing it.
type TimerState struct {
	Working     bool    `json:"working"`
	SessionID   string  `json:"session_id,omitempty"`
	StartTime   int64   `json:"start_time,omitempty"`
	ProjectName string  `json:"project_name,omitempty"`
	HourlyRate  float64 `json:"hourly_rate,omitempty"`
	Task        string  `json:"task,omitempty"`
}

type TimerStore interface {
	Save(ctx context.Context, userID string, st TimerState) error
	Load(ctx context.Context, userID string) (TimerState, bool, error)
}

type RedisTimerStore struct {
	client *redis.Client
}

func NewRedisTimerStore(client *redis.Client) *RedisTimerStore {
	return &RedisTimerStore{client: client}
}

func timerKey(userID string) string {
	return "worktracker:" + userID + ":timer"
}

func (s *RedisTimerStore) Save(ctx context.Context, userID string, st TimerState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, timerKey(userID), payload, 0).Err()
}

// Load reports ok=false when no snapshot exists. A corrupt snapshot also
// reads as absent rather than wedging the tracker.
func (s *RedisTimerStore) Load(ctx context.Context, userID string) (TimerState, bool, error) {
	payload, err := s.client.Get(ctx, timerKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return TimerState{}, false, nil
	}
	if err != nil {
		return TimerState{}, false, err
	}
	var st TimerState
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return TimerState{}, false, nil
	}
	return st, true, nil
}
