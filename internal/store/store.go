// Package store holds the canonical in-memory schedule state and applies all
// mutations to it. The policy is local-first, remote-best-effort: memory is
// updated synchronously, then the change is persisted locally and pushed to
// the remote document store; a downstream failure is reported to the caller
// as a secondary signal but never rolls the mutation back.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Memaso-max/schedule-sync-service/internal/events"
	"github.com/Memaso-max/schedule-sync-service/internal/models"
	"github.com/Memaso-max/schedule-sync-service/internal/remote"
	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

// Store is the domain state store consumed by the UI shell and the sync
// controller. Collection mutations stamp a fresh version token and attempt a
// remote push; update/delete of an unknown id is a silent no-op.
type Store interface {
	// ===== READ ACCESS =====
	Snapshot() models.Snapshot
	CurrentUser() *models.User
	LastUpdated() string
	IsLoading() bool

	// ===== SESSION =====
	Login(ctx context.Context, user models.User) error
	Logout(ctx context.Context) error

	// ===== USERS =====
	AddUser(ctx context.Context, user models.User) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error

	// ===== SUBJECTS =====
	AddSubject(ctx context.Context, subject models.Subject) (models.Subject, error)
	UpdateSubject(ctx context.Context, subject models.Subject) error
	// DeleteSubject removes the subject and every class period referencing it
	// as one state transition; readers never observe a dangling period.
	DeleteSubject(ctx context.Context, id string) error

	// ===== CLASS PERIODS =====
	AddClassPeriod(ctx context.Context, period models.ClassPeriod) (models.ClassPeriod, error)
	UpdateClassPeriod(ctx context.Context, period models.ClassPeriod) error
	DeleteClassPeriod(ctx context.Context, id string) error

	// ===== SYNC SUPPORT =====
	// Hydrate installs previously persisted state into memory without
	// persisting or pushing; used once at startup.
	Hydrate(snap models.Snapshot, currentUser *models.User)
	// ReplaceSnapshot overwrites memory and local persistence with a remote
	// snapshot. No push: the content just came from the remote.
	ReplaceSnapshot(ctx context.Context, snap *models.Snapshot, source string) error
	SetLoading(loading bool)
	// SavePushToken persists the remote push credential for StoredToken.
	SavePushToken(ctx context.Context, token string) error
}

type scheduleStore struct {
	mu          sync.Mutex
	snap        models.Snapshot
	currentUser *models.User
	isLoading   bool

	kv     repositories.KeyValueStore
	client remote.Client
	bus    *events.Bus
	logger *slog.Logger
}

// NewStore starts from the baked-in default dataset; the sync controller
// replaces it with cached or remote state during load. client and bus may be
// nil (no pushes, no events).
func NewStore(kv repositories.KeyValueStore, client remote.Client, bus *events.Bus, logger *slog.Logger) Store {
	return &scheduleStore{
		snap:      models.DefaultSnapshot(),
		isLoading: true,
		kv:        kv,
		client:    client,
		bus:       bus,
		logger:    logger,
	}
}

// ===== READ ACCESS =====

func (s *scheduleStore) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func (s *scheduleStore) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

func (s *scheduleStore) LastUpdated() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.LastUpdated
}

func (s *scheduleStore) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *scheduleStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

// ===== SESSION =====

func (s *scheduleStore) Login(ctx context.Context, user models.User) error {
	s.mu.Lock()
	u := user
	s.currentUser = &u
	s.mu.Unlock()

	// The login is applied in memory regardless; a persistence failure is
	// surfaced so the shell can warn that the session will not survive a
	// restart.
	return s.persistJSON(ctx, repositories.KeyCurrentUser, user)
}

func (s *scheduleStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.currentUser = nil
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, repositories.KeyCurrentUser); err != nil {
		return fmt.Errorf("clearing persisted session: %w", err)
	}
	return nil
}

// ===== USERS =====

func (s *scheduleStore) AddUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.snap.Users = append(s.snap.Users, user)
	s.mu.Unlock()

	return user, s.commit(ctx, repositories.KeyUsers)
}

func (s *scheduleStore) UpdateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	found := false
	for i := range s.snap.Users {
		if s.snap.Users[i].ID == user.ID {
			s.snap.Users[i] = user
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil
	}
	return s.commit(ctx, repositories.KeyUsers)
}

func (s *scheduleStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.snap.Users[:0:0]
	for _, u := range s.snap.Users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	changed := len(kept) != len(s.snap.Users)
	s.snap.Users = kept
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.commit(ctx, repositories.KeyUsers)
}

// ===== SUBJECTS =====

func (s *scheduleStore) AddSubject(ctx context.Context, subject models.Subject) (models.Subject, error) {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.snap.Subjects = append(s.snap.Subjects, subject)
	s.mu.Unlock()

	return subject, s.commit(ctx, repositories.KeySubjects)
}

func (s *scheduleStore) UpdateSubject(ctx context.Context, subject models.Subject) error {
	s.mu.Lock()
	found := false
	for i := range s.snap.Subjects {
		if s.snap.Subjects[i].ID == subject.ID {
			s.snap.Subjects[i] = subject
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil
	}
	return s.commit(ctx, repositories.KeySubjects)
}

func (s *scheduleStore) DeleteSubject(ctx context.Context, id string) error {
	s.mu.Lock()
	subjects := s.snap.Subjects[:0:0]
	for _, subj := range s.snap.Subjects {
		if subj.ID != id {
			subjects = append(subjects, subj)
		}
	}
	schedule := s.snap.Schedule[:0:0]
	for _, p := range s.snap.Schedule {
		if p.SubjectID != id {
			schedule = append(schedule, p)
		}
	}
	changed := len(subjects) != len(s.snap.Subjects)
	// Both collections swap under the same lock hold, so no reader sees the
	// subject gone while its periods remain.
	s.snap.Subjects = subjects
	s.snap.Schedule = schedule
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.commit(ctx, repositories.KeySubjects, repositories.KeySchedule)
}

// ===== CLASS PERIODS =====

func (s *scheduleStore) AddClassPeriod(ctx context.Context, period models.ClassPeriod) (models.ClassPeriod, error) {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.snap.Schedule = append(s.snap.Schedule, period)
	s.mu.Unlock()

	return period, s.commit(ctx, repositories.KeySchedule)
}

func (s *scheduleStore) UpdateClassPeriod(ctx context.Context, period models.ClassPeriod) error {
	s.mu.Lock()
	found := false
	for i := range s.snap.Schedule {
		if s.snap.Schedule[i].ID == period.ID {
			s.snap.Schedule[i] = period
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return nil
	}
	return s.commit(ctx, repositories.KeySchedule)
}

func (s *scheduleStore) DeleteClassPeriod(ctx context.Context, id string) error {
	s.mu.Lock()
	kept := s.snap.Schedule[:0:0]
	for _, p := range s.snap.Schedule {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	changed := len(kept) != len(s.snap.Schedule)
	s.snap.Schedule = kept
	s.mu.Unlock()
	if !changed {
		return nil
	}
	return s.commit(ctx, repositories.KeySchedule)
}

// ===== SYNC SUPPORT =====

func (s *scheduleStore) Hydrate(snap models.Snapshot, currentUser *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Normalize()
	s.snap = snap
	s.currentUser = currentUser
}

func (s *scheduleStore) ReplaceSnapshot(ctx context.Context, snap *models.Snapshot, source string) error {
	incoming := snap.Clone()
	incoming.Normalize()
	if incoming.LastUpdated == "" {
		// The remote document carried no stamp; invent one so the next
		// inequality check still works.
		incoming.LastUpdated = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	s.mu.Lock()
	s.snap = incoming
	persisted := incoming.Clone()
	s.mu.Unlock()

	if err := s.persistCollections(ctx, persisted, repositories.KeyUsers, repositories.KeySubjects, repositories.KeySchedule); err != nil {
		return err
	}
	if err := s.kv.Set(ctx, repositories.KeyLastUpdated, mustJSON(persisted.LastUpdated)); err != nil {
		return fmt.Errorf("persisting version stamp: %w", err)
	}
	if s.bus != nil {
		s.bus.Publish(source, persisted.LastUpdated)
	}
	return nil
}

func (s *scheduleStore) SavePushToken(ctx context.Context, token string) error {
	return s.persistJSON(ctx, repositories.KeyPushToken, token)
}

// ===== COMMIT PIPELINE =====

// commit runs after a collection mutation has been applied in memory: persist
// the touched collections, stamp and persist a fresh version token, announce
// the change, then push to the remote store. The first downstream failure is
// returned as a secondary signal; the in-memory mutation stands either way.
func (s *scheduleStore) commit(ctx context.Context, touched ...string) error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)

	s.mu.Lock()
	s.snap.LastUpdated = stamp
	snap := s.snap.Clone()
	s.mu.Unlock()

	var firstErr error
	if err := s.persistCollections(ctx, snap, touched...); err != nil {
		firstErr = err
	}
	if err := s.kv.Set(ctx, repositories.KeyLastUpdated, mustJSON(stamp)); err != nil {
		s.logger.Error("persisting version stamp failed", "error", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("persisting version stamp: %w", err)
		}
	}

	if s.bus != nil {
		s.bus.Publish(events.SourceMutation, stamp)
	}

	if s.client != nil {
		if _, err := s.client.PushDocument(ctx, &snap, "App: update data.json from app"); err != nil {
			s.logger.Warn("remote push failed, keeping local state", "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("pushing to remote: %w", err)
			}
		}
	}
	return firstErr
}

func (s *scheduleStore) persistCollections(ctx context.Context, snap models.Snapshot, keys ...string) error {
	var firstErr error
	for _, key := range keys {
		var payload any
		switch key {
		case repositories.KeyUsers:
			payload = snap.Users
		case repositories.KeySubjects:
			payload = snap.Subjects
		case repositories.KeySchedule:
			payload = snap.Schedule
		default:
			continue
		}
		if err := s.persistJSON(ctx, key, payload); err != nil {
			s.logger.Error("persisting collection failed", "error", err, "key", key)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *scheduleStore) persistJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("persisting %s: %w", key, err)
	}
	return nil
}

func mustJSON(value any) string {
	data, _ := json.Marshal(value)
	return string(data)
}
