package user

import (
	"context"
	"log/slog"
)

// Notifier receives domain events after a mutation commits. Implementations
// must swallow their own failures: notification is a side effect, never part
// of the mutation's success contract.
type Notifier interface {
	UserCreated(ctx context.Context, u User)
	UserDeleted(ctx context.Context, u User)
}

// Service orchestrates the store and the notifier. Handlers stay thin; the
// rule "notify only after the mutation succeeded" lives here.
type Service struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

func NewService(store Store, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.store.FindByEmail(ctx, email)
}

// Create persists u and, on success, emits the created event.
func (s *Service) Create(ctx context.Context, u User) (User, error) {
	created, err := s.store.Create(ctx, u)
	if err != nil {
		return User{}, err
	}
	s.notifier.UserCreated(ctx, created)
	return created, nil
}

// Delete removes the user and emits the deleted event with the final
// snapshot of the record.
func (s *Service) Delete(ctx context.Context, id int64) (User, error) {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return User{}, err
	}
	s.notifier.UserDeleted(ctx, deleted)
	return deleted, nil
}
