package vip

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/vipsense/store"
)

func newTestRegistry(t *testing.T) (*Registry, *mockGateway, *mockDriver) {
	t.Helper()
	gateway := newMockGateway()
	driver := newMockDriver()
	registry := NewRegistry(newTestStore(driver), NewResolver(gateway))
	return registry, gateway, driver
}

func TestRegistryAddAndList(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")
	gateway.addUser("U200", "bob", "Bob")

	base := time.Unix(1700000000, 0)
	clock := base
	registry.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := registry.Add(ctx, "UOWNER", "<@U100>")
	require.NoError(t, err)
	assert.Equal(t, "U100", first.VIPUserID)
	assert.Equal(t, "alice", first.Username)
	assert.True(t, first.Active)

	second, err := registry.Add(ctx, "UOWNER", "@bob")
	require.NoError(t, err)
	assert.Equal(t, "U200", second.VIPUserID)

	list, err := registry.List(ctx, "UOWNER")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by added_at ascending.
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)

	isVIP, err := registry.IsVIP(ctx, "UOWNER", "U100")
	require.NoError(t, err)
	assert.True(t, isVIP)

	isVIP, err = registry.IsVIP(ctx, "UOWNER", "U999")
	require.NoError(t, err)
	assert.False(t, isVIP)
}

func TestRegistryAddSelf(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("UOWNER", "owner", "Owner")

	_, err := registry.Add(ctx, "UOWNER", "<@UOWNER>")
	var selfErr *SelfVIPError
	require.ErrorAs(t, err, &selfErr)
}

func TestRegistryAddDuplicate(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	_, err := registry.Add(ctx, "UOWNER", "alice")
	require.NoError(t, err)

	_, err = registry.Add(ctx, "UOWNER", "alice")
	var dupErr *DuplicateVIPError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "alice", dupErr.Username)
}

func TestRegistryAddUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	registry, _, _ := newTestRegistry(t)

	_, err := registry.Add(ctx, "UOWNER", "ghost")
	var notFound *IdentityNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRegistryRemoveAndReAdd(t *testing.T) {
	ctx := context.Background()
	registry, gateway, driver := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	created, err := registry.Add(ctx, "UOWNER", "alice")
	require.NoError(t, err)

	require.NoError(t, registry.Remove(ctx, "UOWNER", "alice"))

	list, err := registry.List(ctx, "UOWNER")
	require.NoError(t, err)
	assert.Empty(t, list)

	// Re-adding reactivates the soft-deleted row instead of inserting a new one.
	readded, err := registry.Add(ctx, "UOWNER", "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, readded.ID)
	assert.True(t, readded.Active)

	driver.mu.Lock()
	rowCount := len(driver.relationships)
	driver.mu.Unlock()
	assert.Equal(t, 1, rowCount)
}

func TestRegistryRemoveNotOnList(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	err := registry.Remove(ctx, "UOWNER", "alice")
	var notFound *VIPNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "alice", notFound.Username)
}

func TestRegistryRemoveDepartedUser(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	_, err := registry.Add(ctx, "UOWNER", "alice")
	require.NoError(t, err)

	// The user left the workspace; the directory no longer resolves the name,
	// but removal still works off the cached relationship row.
	gateway.mu.Lock()
	delete(gateway.byName, "alice")
	delete(gateway.identities, "U100")
	gateway.mu.Unlock()

	require.NoError(t, registry.Remove(ctx, "UOWNER", "@alice"))

	list, err := registry.List(ctx, "UOWNER")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegistryOwnerIsolation(t *testing.T) {
	ctx := context.Background()
	registry, gateway, _ := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	_, err := registry.Add(ctx, "UOWNER1", "alice")
	require.NoError(t, err)
	_, err = registry.Add(ctx, "UOWNER2", "alice")
	require.NoError(t, err)

	require.NoError(t, registry.Remove(ctx, "UOWNER1", "alice"))

	list, err := registry.List(ctx, "UOWNER2")
	require.NoError(t, err)
	require.Len(t, list, 1)

	isVIP, err := registry.IsVIP(ctx, "UOWNER1", "U100")
	require.NoError(t, err)
	assert.False(t, isVIP)
}

func TestRegistryAddRaceLoser(t *testing.T) {
	ctx := context.Background()
	registry, gateway, driver := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	// Simulate losing the insert race: the pre-check sees nothing, but the
	// storage unique constraint fires on create.
	driver.createRelErr = store.ErrAlreadyExists

	_, err := registry.Add(ctx, "UOWNER", "alice")
	var dupErr *DuplicateVIPError
	require.ErrorAs(t, err, &dupErr)
}

func TestRegistryStorageFailure(t *testing.T) {
	ctx := context.Background()
	registry, gateway, driver := newTestRegistry(t)
	gateway.addUser("U100", "alice", "Alice")

	driver.createRelErr = errors.New("disk full")

	_, err := registry.Add(ctx, "UOWNER", "alice")
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
}
