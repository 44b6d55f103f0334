package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"muzza-postulaciones/internal/domain"
)

// entry stores an encoded snapshot so callers never share slices or maps
type entry struct {
	data      []byte
	expiresAt time.Time
}

type applicationRepo struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewApplicationRepository creates an in-process session store. Sessions
// expire ttl after their last write.
func NewApplicationRepository(ttl time.Duration) domain.ApplicationRepository {
	return newApplicationRepo(ttl, time.Now)
}

func newApplicationRepo(ttl time.Duration, now func() time.Time) *applicationRepo {
	return &applicationRepo{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// StartCleanup evicts expired sessions every interval until ctx is done
func StartCleanup(ctx context.Context, repo domain.ApplicationRepository, interval time.Duration) {
	r, ok := repo.(*applicationRepo)
	if !ok {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.evictExpired()
			}
		}
	}()
}

func (r *applicationRepo) evictExpired() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, e := range r.entries {
		if now.After(e.expiresAt) {
			delete(r.entries, id)
		}
	}
}

func (r *applicationRepo) put(app *domain.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("encode application: %w", err)
	}
	r.entries[app.ID] = entry{data: data, expiresAt: r.now().Add(r.ttl)}
	return nil
}

// Create stores a new session
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[app.ID]; exists {
		return fmt.Errorf("application %s already exists", app.ID)
	}
	return r.put(app)
}

// GetByID returns a copy of the session, or nil when missing or expired
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok && r.now().After(e.expiresAt) {
		delete(r.entries, id)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var app domain.Application
	if err := json.Unmarshal(e.data, &app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return &app, nil
}

// Update replaces the session and refreshes its expiry
func (r *applicationRepo) Update(ctx context.Context, app *domain.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[app.ID]
	if !ok || r.now().After(e.expiresAt) {
		delete(r.entries, app.ID)
		return domain.ErrApplicationNotFound
	}
	return r.put(app)
}

// Delete removes the session
func (r *applicationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}
