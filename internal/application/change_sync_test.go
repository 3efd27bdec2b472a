package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

type recordingWriter struct {
	updated []entity.User
	deleted []string
	err     error
}

func (w *recordingWriter) Update(ctx context.Context, u entity.User) error {
	w.updated = append(w.updated, u)
	return w.err
}

func (w *recordingWriter) Delete(ctx context.Context, id string) error {
	w.deleted = append(w.deleted, id)
	return w.err
}

func TestPersistChanges(t *testing.T) {
	w := &recordingWriter{}
	s := NewStore(&staticSource{users: makeUsers(3)}, 0, nil)
	s.Subscribe(PersistChanges(w, helpers.NewNopLogger(), 0))

	require.NoError(t, s.Load(context.Background()))
	_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("New Name")})
	require.NoError(t, err)
	require.NoError(t, s.DeleteUser("usr_002"))

	require.Len(t, w.updated, 1)
	assert.Equal(t, "New Name", w.updated[0].Name)
	assert.Equal(t, []string{"usr_002"}, w.deleted)
}

func TestPersistChanges_FailureDoesNotAffectStore(t *testing.T) {
	w := &recordingWriter{err: errors.New("write failed")}
	s := NewStore(&staticSource{users: makeUsers(2)}, 0, nil)
	s.Subscribe(PersistChanges(w, helpers.NewNopLogger(), 0))
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.DeleteUser("usr_000"))
	assert.Len(t, s.Snapshot().Users, 1)
}

// gatedWriter holds its first Update until gate is closed.
type gatedWriter struct {
	mu      sync.Mutex
	calls   int
	updated []entity.User
	entered chan struct{}
	gate    chan struct{}
}

func (w *gatedWriter) Update(ctx context.Context, u entity.User) error {
	w.mu.Lock()
	w.calls++
	first := w.calls == 1
	w.mu.Unlock()
	if first {
		close(w.entered)
		<-w.gate
	}
	w.mu.Lock()
	w.updated = append(w.updated, u)
	w.mu.Unlock()
	return nil
}

func (w *gatedWriter) Delete(ctx context.Context, id string) error { return nil }

func TestPersistChanges_ConcurrentEditsPersistInVersionOrder(t *testing.T) {
	w := &gatedWriter{entered: make(chan struct{}), gate: make(chan struct{})}
	s := loadedStore(t, makeUsers(2))
	s.Subscribe(PersistChanges(w, helpers.NewNopLogger(), time.Second))

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("First")})
		firstDone <- err
	}()
	<-w.entered

	secondDone := make(chan error, 1)
	go func() {
		_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("Second")})
		secondDone <- err
	}()
	require.Eventually(t, func() bool {
		u, err := s.Get("usr_000")
		return err == nil && u.Name == "Second"
	}, time.Second, time.Millisecond)

	select {
	case <-secondDone:
		t.Fatal("second edit delivered before the first finished")
	default:
	}

	close(w.gate)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone)

	current, err := s.Get("usr_000")
	require.NoError(t, err)
	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.updated, 2)
	assert.Equal(t, "First", w.updated[0].Name)
	assert.Equal(t, current, w.updated[len(w.updated)-1])
}
