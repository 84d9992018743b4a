package user_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suntzu974/zevis/internal/user"
)

// recordingNotifier captures which users were announced, in order.
type recordingNotifier struct {
	created []user.User
	deleted []user.User
}

func (n *recordingNotifier) UserCreated(_ context.Context, u user.User) {
	n.created = append(n.created, u)
}

func (n *recordingNotifier) UserDeleted(_ context.Context, u user.User) {
	n.deleted = append(n.deleted, u)
}

// failingStore rejects every mutation.
type failingStore struct {
	user.Store
	err error
}

func (f failingStore) Create(context.Context, user.User) (user.User, error) {
	return user.User{}, f.err
}

func (f failingStore) Delete(context.Context, int64) (user.User, error) {
	return user.User{}, f.err
}

func newService(t *testing.T) (*user.Service, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	svc := user.NewService(user.NewMemoryStore(), notifier, slog.New(slog.DiscardHandler))
	return svc, notifier
}

func TestCreateNotifiesWithStoredRecord(t *testing.T) {
	svc, notifier := newService(t)

	created, err := svc.Create(context.Background(), user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.Len(t, notifier.created, 1)
	require.Equal(t, created, notifier.created[0])
	require.NotZero(t, notifier.created[0].ID)
}

func TestDeleteNotifiesWithFinalSnapshot(t *testing.T) {
	svc, notifier := newService(t)
	created, err := svc.Create(context.Background(), user.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, notifier.deleted, 1)
	require.Equal(t, deleted, notifier.deleted[0])
	require.Equal(t, "alice@example.com", notifier.deleted[0].Email)
}

func TestFailedMutationsDoNotNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	storeErr := errors.New("connection reset")
	svc := user.NewService(failingStore{err: storeErr}, notifier, slog.New(slog.DiscardHandler))

	_, err := svc.Create(context.Background(), user.User{Name: "Alice", Email: "alice@example.com"})
	require.ErrorIs(t, err, storeErr)

	_, err = svc.Delete(context.Background(), 1)
	require.ErrorIs(t, err, storeErr)

	require.Empty(t, notifier.created)
	require.Empty(t, notifier.deleted)
}
