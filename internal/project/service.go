package project

import (
	"context"

	"backend-worktracker/internal/db"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultColor = 0x2196F3

type Service struct {
	db    db.Querier
	redis *redis.Client
}

func NewService(db db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

func (s *Service) Create(ctx context.Context, input Project) (Project, error) {
	input.ID = uuid.NewString()
	input.IsActive = true
	if input.Color == 0 {
		input.Color = defaultColor
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO projects (id, user_id, name, default_hourly_rate, color, description, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.UserID, input.Name, input.DefaultHourlyRate, input.Color, input.Description, input.IsActive)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Project{}, err
	}
	return input, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Project) (Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if patch.Name != "" {
		p.Name = patch.Name
	}
	if patch.DefaultHourlyRate != 0 {
		p.DefaultHourlyRate = patch.DefaultHourlyRate
	}
	if patch.Color != 0 {
		p.Color = patch.Color
	}
	if patch.Description != "" {
		p.Description = patch.Description
	}

	_, err = s.db.Exec(ctx, `
		UPDATE projects
		SET name=$2, default_hourly_rate=$3, color=$4, description=$5
		WHERE id=$1
	`, p.ID, p.Name, p.DefaultHourlyRate, p.Color, p.Description)
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, default_hourly_rate, color, description, is_active, created_at
		FROM projects WHERE id=$1
	`, id)
	var p Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.DefaultHourlyRate, &p.Color, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
		return Project{}, err
	}
	return p, nil
}

// List returns a user's projects; activeOnly drops soft-deleted ones, which
// is what selection lists use.
func (s *Service) List(ctx context.Context, userID string, activeOnly bool) ([]Project, error) {
	sql := `
		SELECT id, user_id, name, default_hourly_rate, color, description, is_active, created_at
		FROM projects WHERE user_id=$1
		ORDER BY created_at
	`
	if activeOnly {
		sql = `
		SELECT id, user_id, name, default_hourly_rate, color, description, is_active, created_at
		FROM projects WHERE user_id=$1 AND is_active
		ORDER BY created_at
	`
	}

	rows, err := s.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.DefaultHourlyRate, &p.Color, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *Service) ToggleActive(ctx context.Context, id string) (Project, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE projects SET is_active = NOT is_active WHERE id=$1
		RETURNING id, user_id, name, default_hourly_rate, color, description, is_active, created_at
	`, id)
	var p Project
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.DefaultHourlyRate, &p.Color, &p.Description, &p.IsActive, &p.CreatedAt); err != nil {
		return Project{}, err
	}
	return p, nil
}

// SetCurrent marks a project as the user's current one. Exactly one project
// is current at a time; the selection lives in redis.
func (s *Service) SetCurrent(ctx context.Context, userID, projectID string) (Project, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return Project{}, err
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, currentKey(userID), projectID, 0).Err(); err != nil {
			return Project{}, err
		}
	}
	return p, nil
}

// Current resolves the user's current project, falling back to the first
// active project when nothing is selected. Returns nil without error when
// the user has no usable project.
func (s *Service) Current(ctx context.Context, userID string) (*Project, error) {
	if s.redis != nil {
		id, err := s.redis.Get(ctx, currentKey(userID)).Result()
		if err == nil && id != "" {
			p, err := s.Get(ctx, id)
			if err == nil {
				return &p, nil
			}
		}
	}

	projects, err := s.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	return &projects[0], nil
}

func currentKey(userID string) string {
	return "worktracker:" + userID + ":current_project"
}
