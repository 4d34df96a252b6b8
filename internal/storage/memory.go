package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStorage keeps links and users in process memory. It is used when no
// database DSN is configured and backs most of the test suite. Semantics
// match the Postgres repository: the same sentinel errors are returned for
// conflicts and misses.
type MemoryStorage struct {
	mu          sync.RWMutex
	byCode      map[string]*LinkRecord
	byOriginal  map[string]*LinkRecord
	usersByID   map[string]*UserRecord
	usersByName map[string]*UserRecord
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		byCode:      make(map[string]*LinkRecord),
		byOriginal:  make(map[string]*LinkRecord),
		usersByID:   make(map[string]*UserRecord),
		usersByName: make(map[string]*UserRecord),
	}, nil
}

// WriteLink inserts a new link record. If the original URL is already
// shortened the stored record is returned together with ErrConflict.
func (m *MemoryStorage) WriteLink(_ context.Context, record LinkRecord) (*LinkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byOriginal[record.Original]; ok {
		copied := *existing
		return &copied, ErrConflict
	}

	if _, ok := m.byCode[record.Code]; ok {
		return nil, ErrCodeTaken
	}

	stored := record
	m.byCode[record.Code] = &stored
	m.byOriginal[record.Original] = &stored

	copied := stored
	return &copied, nil
}

// ResolveLink increments the visit counter of the link matching code and
// returns its original URL. The increment and the read happen under one
// lock, mirroring the single-statement UPDATE of the SQL repository.
func (m *MemoryStorage) ResolveLink(_ context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.byCode[code]
	if !ok {
		return "", ErrNotFound
	}

	record.Visits++
	return record.Original, nil
}

func (m *MemoryStorage) FindByCode(_ context.Context, code string) (*LinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *record
	return &copied, nil
}

func (m *MemoryStorage) FindByOriginal(_ context.Context, original string) (*LinkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byOriginal[original]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *record
	return &copied, nil
}

// CreateUser inserts a new user record, enforcing username uniqueness.
func (m *MemoryStorage) CreateUser(_ context.Context, record UserRecord) (*UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByName[record.Username]; ok {
		return nil, ErrUserExists
	}

	stored := record
	m.usersByID[record.ID] = &stored
	m.usersByName[record.Username] = &stored

	copied := stored
	return &copied, nil
}

func (m *MemoryStorage) FindUserByName(_ context.Context, username string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.usersByName[username]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *record
	return &copied, nil
}

func (m *MemoryStorage) FindUserByID(_ context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.usersByID[id]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *record
	return &copied, nil
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return errors.ErrUnsupported
}
