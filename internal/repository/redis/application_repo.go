package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"muzza-postulaciones/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "muzza:application:"

type applicationRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewApplicationRepository stores sessions as JSON under a TTL that slides
// on every write.
func NewApplicationRepository(client *goredis.Client, ttl time.Duration) domain.ApplicationRepository {
	return &applicationRepo{client: client, ttl: ttl}
}

func applicationKey(id string) string {
	return keyPrefix + id
}

// Create stores a new session; fails if the id is taken
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	ok, err := r.client.SetNX(ctx, applicationKey(app.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis create application: %w", err)
	}
	if !ok {
		return fmt.Errorf("application %s already exists", app.ID)
	}
	return nil
}

// GetByID returns the session or nil when missing/expired
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	data, err := r.client.Get(ctx, applicationKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get application: %w", err)
	}
	var app domain.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return &app, nil
}

// Update overwrites an existing session and refreshes its TTL
func (r *applicationRepo) Update(ctx context.Context, app *domain.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	ok, err := r.client.SetXX(ctx, applicationKey(app.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis update application: %w", err)
	}
	if !ok {
		return domain.ErrApplicationNotFound
	}
	return nil
}

// Delete removes the session
func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, applicationKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete application: %w", err)
	}
	return nil
}
