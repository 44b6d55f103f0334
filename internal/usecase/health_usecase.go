package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	store string
	ping  func(ctx context.Context) error
}

// NewHealthUsecase reports the session store in use. ping may be nil for
// stores that cannot fail (memory).
func NewHealthUsecase(store string, ping func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{store: store, ping: ping}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status": "ok",
		"store":  u.store,
	}
	if u.ping != nil {
		if err := u.ping(ctx); err != nil {
			result["status"] = "degraded"
			result["store_error"] = err.Error()
		}
	}
	return result
}
