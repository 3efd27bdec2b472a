package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
	repo "github.com/oksasatya/go-admin-dashboard/internal/domain/repository"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNotLoaded      = errors.New("users not loaded")
	ErrLoadInProgress = errors.New("users load already in progress")
	ErrDuplicateID    = errors.New("duplicate user id")
)

var storeMetrics = expvar.NewMap("user_store")

type ChangeKind string

const (
	ChangeLoaded  ChangeKind = "users.loaded"
	ChangeUpdated ChangeKind = "user.updated"
	ChangeDeleted ChangeKind = "user.deleted"
)

// Snapshot is a point-in-time view of the store. Users is a private copy
// and is empty until the first load completes or while a reload runs.
type Snapshot struct {
	Users   []entity.User
	Loading bool
	Ready   bool
	Version uint64
}

// Change is delivered to listeners after every successful load or mutation.
type Change struct {
	Kind     ChangeKind
	UserID   string
	User     *entity.User
	Snapshot Snapshot
}

type Listener func(Change)

type subscription struct {
	id uint64
	fn Listener
}

// Store is the single owner of the users collection. The collection slice
// is replaced on every mutation, never written in place.
type Store struct {
	source repo.UserSource
	delay  time.Duration
	Logger *logrus.Logger

	mu      sync.RWMutex
	users   []entity.User
	loading bool
	ready   bool
	version uint64
	lastErr error

	lmu       sync.Mutex
	listeners []subscription
	nextSubID uint64

	// delivery runs change notifications one version at a time
	dmu       sync.Mutex
	dcond     *sync.Cond
	delivered uint64
}

func NewStore(source repo.UserSource, delay time.Duration, logger *logrus.Logger) *Store {
	s := &Store{source: source, delay: delay, Logger: logger}
	s.dcond = sync.NewCond(&s.dmu)
	return s
}

// Load waits for the configured delay, then replaces the collection with the
// source's result. Cancelling ctx before completion leaves the store as it was.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrLoadInProgress
	}
	s.loading = true
	s.mu.Unlock()

	users, err := s.fetch(ctx)
	if err != nil {
		cancelled := errors.Is(err, context.Canceled)
		s.mu.Lock()
		s.loading = false
		if !cancelled {
			s.lastErr = err
		}
		s.mu.Unlock()
		if cancelled {
			if s.Logger != nil {
				s.Logger.Info("load users cancelled")
			}
			return err
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("load users failed")
		}
		storeMetrics.Add("load_failures", 1)
		return err
	}

	s.mu.Lock()
	s.users = users
	s.loading = false
	s.ready = true
	s.lastErr = nil
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	storeMetrics.Add("loads", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"count": len(users), "version": snap.Version}).Info("users loaded")
	}
	s.notify(Change{Kind: ChangeLoaded, Snapshot: snap})
	return nil
}

func (s *Store) fetch(ctx context.Context) ([]entity.User, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	users, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkCollection(users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return slices.Clone(users), nil
}

func checkCollection(users []entity.User) error {
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}
		if !u.Status.Valid() {
			return fmt.Errorf("user %s: %w", u.ID, entity.ErrInvalidStatus)
		}
	}
	return nil
}

// LastError returns the failure of the most recent load, if any.
// A cancelled load is not a failure and leaves it unchanged.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Loading: s.loading, Ready: s.ready && !s.loading, Version: s.version}
	if snap.Ready {
		snap.Users = slices.Clone(s.users)
	} else {
		snap.Users = []entity.User{}
	}
	return snap
}

// Get looks a user up by id.
func (s *Store) Get(id string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready || s.loading {
		return entity.User{}, ErrNotLoaded
	}
	u, ok := FindByID(s.users, id)
	if !ok {
		return entity.User{}, ErrUserNotFound
	}
	return u, nil
}

// UpdateUser merges patch into the user with the given id.
func (s *Store) UpdateUser(id string, patch entity.UserPatch) (entity.User, error) {
	if err := ValidatePatch(patch); err != nil {
		return entity.User{}, err
	}

	s.mu.Lock()
	if !s.ready || s.loading {
		s.mu.Unlock()
		return entity.User{}, ErrNotLoaded
	}
	idx := indexOf(s.users, id)
	if idx < 0 {
		s.mu.Unlock()
		return entity.User{}, ErrUserNotFound
	}
	next := slices.Clone(s.users)
	next[idx] = patch.Apply(next[idx])
	s.users = next
	s.version++
	updated := next[idx]
	snap := s.snapshotLocked()
	s.mu.Unlock()

	storeMetrics.Add("updates", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": id, "version": snap.Version}).Debug("user updated")
	}
	s.notify(Change{Kind: ChangeUpdated, UserID: id, User: &updated, Snapshot: snap})
	return updated, nil
}

// DeleteUser removes the user with the given id.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	if !s.ready || s.loading {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	idx := indexOf(s.users, id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrUserNotFound
	}
	s.users = slices.Delete(slices.Clone(s.users), idx, idx+1)
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	storeMetrics.Add("deletes", 1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": id, "version": snap.Version}).Debug("user deleted")
	}
	s.notify(Change{Kind: ChangeDeleted, UserID: id, Snapshot: snap})
	return nil
}

// Subscribe registers l for change notifications. Listeners run in
// registration order on the mutating goroutine, after the store lock is
// released, and changes are delivered strictly in version order: a mutation
// returns only after every earlier change has been delivered. Listeners may
// read the store but must not mutate it synchronously.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.lmu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.lmu.Lock()
			defer s.lmu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// notify waits for the previous version to be delivered, then runs the listeners.
func (s *Store) notify(c Change) {
	v := c.Snapshot.Version
	s.dmu.Lock()
	for s.delivered+1 < v {
		s.dcond.Wait()
	}
	defer func() {
		if v > s.delivered {
			s.delivered = v
		}
		s.dcond.Broadcast()
		s.dmu.Unlock()
	}()

	s.lmu.Lock()
	subs := slices.Clone(s.listeners)
	s.lmu.Unlock()
	for _, sub := range subs {
		sub.fn(c)
	}
}

func indexOf(users []entity.User, id string) int {
	return slices.IndexFunc(users, func(u entity.User) bool { return u.ID == id })
}
