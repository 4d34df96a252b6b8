package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriteLink(t *testing.T) {
	m, err := CreateMemoryStorage()
	require.NoError(t, err)

	record := LinkRecord{Code: "abc123", Original: "https://example.com/a", CreatedBy: "user-1"}

	written, err := m.WriteLink(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, "abc123", written.Code)
	assert.Equal(t, int64(0), written.Visits)
}

func TestMemoryWriteLinkConflict(t *testing.T) {
	m, _ := CreateMemoryStorage()

	first := LinkRecord{Code: "abc123", Original: "https://example.com/a", CreatedBy: "user-1"}
	_, err := m.WriteLink(context.Background(), first)
	require.NoError(t, err)

	// Same URL submitted by another user must surface the original code.
	second := LinkRecord{Code: "zzz999", Original: "https://example.com/a", CreatedBy: "user-2"}
	existing, err := m.WriteLink(context.Background(), second)
	assert.ErrorIs(t, err, ErrConflict)
	require.NotNil(t, existing)
	assert.Equal(t, "abc123", existing.Code)

	// The losing code must not be resolvable.
	_, err = m.FindByCode(context.Background(), "zzz999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryWriteLinkCodeTaken(t *testing.T) {
	m, _ := CreateMemoryStorage()

	_, err := m.WriteLink(context.Background(), LinkRecord{Code: "abc123", Original: "https://example.com/a"})
	require.NoError(t, err)

	_, err = m.WriteLink(context.Background(), LinkRecord{Code: "abc123", Original: "https://example.com/b"})
	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestMemoryResolveLink(t *testing.T) {
	m, _ := CreateMemoryStorage()

	_, err := m.WriteLink(context.Background(), LinkRecord{Code: "abc123", Original: "https://example.com/a"})
	require.NoError(t, err)

	original, err := m.ResolveLink(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", original)

	original, err = m.ResolveLink(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", original)

	record, err := m.FindByCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Visits)
}

func TestMemoryResolveLinkNotFound(t *testing.T) {
	m, _ := CreateMemoryStorage()

	_, err := m.ResolveLink(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers(t *testing.T) {
	m, _ := CreateMemoryStorage()

	user := UserRecord{ID: "id-1", Username: "alice", PasswordHash: "$2a$10$hash", Role: RoleAdmin}
	created, err := m.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	byName, err := m.FindUserByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byName.ID)

	byID, err := m.FindUserByID(context.Background(), "id-1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, byID.Role)

	_, err = m.CreateUser(context.Background(), UserRecord{ID: "id-2", Username: "alice"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = m.FindUserByName(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryKnownRole(t *testing.T) {
	assert.True(t, KnownRole(RoleUser))
	assert.True(t, KnownRole(RoleAdmin))
	assert.False(t, KnownRole("superuser"))
	assert.False(t, KnownRole(""))
}
