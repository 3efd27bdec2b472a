package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-admin-dashboard/pkg/helpers"
)

func loadedStore(t *testing.T, users []entity.User) *Store {
	t.Helper()
	s := NewStore(&staticSource{users: users}, 0, helpers.NewNopLogger())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_EmptyBeforeLoad(t *testing.T) {
	s := NewStore(&staticSource{users: makeUsers(3)}, 0, nil)

	snap := s.Snapshot()
	assert.False(t, snap.Ready)
	assert.Empty(t, snap.Users)

	_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.DeleteUser("usr_000"), ErrNotLoaded)
	_, err = s.Get("usr_000")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestStore_LoadReportsLoadingUntilDelayElapses(t *testing.T) {
	s := NewStore(&staticSource{users: makeUsers(3)}, 200*time.Millisecond, nil)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	require.Eventually(t, func() bool { return s.Snapshot().Loading }, time.Second, time.Millisecond)
	assert.Empty(t, s.Snapshot().Users)
	assert.ErrorIs(t, s.Load(context.Background()), ErrLoadInProgress)

	require.NoError(t, <-done)
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Ready)
	assert.Len(t, snap.Users, 3)
	assert.Equal(t, uint64(1), snap.Version)
}

func TestStore_LoadCancelledLeavesStoreUntouched(t *testing.T) {
	src := &staticSource{users: makeUsers(3)}
	s := NewStore(src, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx) }()
	require.Eventually(t, func() bool { return s.Snapshot().Loading }, time.Second, time.Millisecond)

	var notified int
	s.Subscribe(func(Change) { notified++ })
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Ready)
	assert.Empty(t, snap.Users)
	assert.Zero(t, src.calls, "source must not be called after cancellation")
	assert.Zero(t, notified)
	assert.NoError(t, s.LastError(), "cancellation is not a load failure")
}

func TestStore_LoadFailureIsReported(t *testing.T) {
	boom := errors.New("db down")
	s := NewStore(&staticSource{err: boom}, 0, helpers.NewNopLogger())

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.LastError(), boom)
	assert.False(t, s.Snapshot().Ready)
}

func TestStore_LoadRejectsDuplicateIDs(t *testing.T) {
	users := makeUsers(2)
	users[1].ID = users[0].ID
	s := NewStore(&staticSource{users: users}, 0, nil)

	assert.ErrorIs(t, s.Load(context.Background()), ErrDuplicateID)
}

func TestStore_LoadRejectsUnknownStatus(t *testing.T) {
	users := makeUsers(2)
	users[0].Status = "Banned"
	s := NewStore(&staticSource{users: users}, 0, nil)

	assert.ErrorIs(t, s.Load(context.Background()), entity.ErrInvalidStatus)
}

func TestStore_UpdateChangesOnlyThatField(t *testing.T) {
	users := makeUsers(5)
	s := loadedStore(t, users)

	updated, err := s.UpdateUser("usr_002", entity.UserPatch{Status: ptr(entity.StatusInactive)})
	require.NoError(t, err)

	want := users[2]
	want.Status = entity.StatusInactive
	assert.Equal(t, want, updated)

	snap := s.Snapshot()
	require.Len(t, snap.Users, 5)
	for i, u := range snap.Users {
		if i == 2 {
			assert.Equal(t, want, u)
			continue
		}
		assert.Equal(t, users[i], u)
	}
}

func TestStore_UpdateUnknownID(t *testing.T) {
	s := loadedStore(t, makeUsers(2))
	before := s.Snapshot()

	_, err := s.UpdateUser("nope", entity.UserPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_UpdateRejectsInvalidPatch(t *testing.T) {
	s := loadedStore(t, makeUsers(2))

	_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("   "), Email: ptr("not-an-email")})
	require.ErrorIs(t, err, ErrInvalidUpdate)

	var invalid *InvalidUpdateError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "is required", invalid.Fields["name"])
	assert.Equal(t, "must be a valid email", invalid.Fields["email"])

	u, err := s.Get("usr_000")
	require.NoError(t, err)
	assert.Equal(t, "User 00", u.Name)
}

func TestStore_DeleteRemovesExactlyOne(t *testing.T) {
	s := loadedStore(t, makeUsers(4))

	require.NoError(t, s.DeleteUser("usr_001"))

	snap := s.Snapshot()
	assert.Equal(t, []string{"usr_000", "usr_002", "usr_003"}, ids(snap.Users))
	_, err := s.Get("usr_001")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStore_DeleteUnknownIDLeavesCollection(t *testing.T) {
	s := loadedStore(t, makeUsers(4))
	before := s.Snapshot()

	assert.ErrorIs(t, s.DeleteUser("missing"), ErrUserNotFound)
	assert.Equal(t, before, s.Snapshot())
}

func TestStore_SnapshotsAreIndependent(t *testing.T) {
	s := loadedStore(t, makeUsers(3))
	first := s.Snapshot()
	first.Users[0].Name = "mutated by reader"

	_, err := s.UpdateUser("usr_001", entity.UserPatch{Role: ptr("Admin")})
	require.NoError(t, err)

	second := s.Snapshot()
	assert.Equal(t, "User 00", second.Users[0].Name)
	assert.Equal(t, "Viewer", first.Users[1].Role, "old snapshot keeps its values")
	assert.Greater(t, second.Version, first.Version)
}

func TestStore_SubscribersSeeEveryChangeInOrder(t *testing.T) {
	s := NewStore(&staticSource{users: makeUsers(3)}, 0, nil)

	var order []string
	var kinds []ChangeKind
	s.Subscribe(func(c Change) { order = append(order, "a"); kinds = append(kinds, c.Kind) })
	unsubscribe := s.Subscribe(func(c Change) { order = append(order, "b") })

	require.NoError(t, s.Load(context.Background()))
	_, err := s.UpdateUser("usr_000", entity.UserPatch{Name: ptr("Zed")})
	require.NoError(t, err)
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.DeleteUser("usr_001"))

	assert.Equal(t, []ChangeKind{ChangeLoaded, ChangeUpdated, ChangeDeleted}, kinds)
	assert.Equal(t, []string{"a", "b", "a", "b", "a"}, order)
}

func TestStore_ChangeCarriesSnapshot(t *testing.T) {
	s := loadedStore(t, makeUsers(3))

	var got Change
	s.Subscribe(func(c Change) { got = c })
	_, err := s.UpdateUser("usr_002", entity.UserPatch{Name: ptr("Renamed")})
	require.NoError(t, err)

	require.NotNil(t, got.User)
	assert.Equal(t, "Renamed", got.User.Name)
	assert.Equal(t, "usr_002", got.UserID)
	assert.Equal(t, s.Snapshot(), got.Snapshot)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := loadedStore(t, makeUsers(2))

	var seen int
	s.Subscribe(func(Change) { seen = len(s.Snapshot().Users) })
	require.NoError(t, s.DeleteUser("usr_000"))
	assert.Equal(t, 1, seen)
}
