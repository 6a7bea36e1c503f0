package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseSlot(t *testing.T, slot Slot) {
	t.Helper()
	ctx := context.Background()

	_, err := slot.Load(ctx)
	require.ErrorIs(t, err, ErrEmptySlot)

	require.NoError(t, slot.Save(ctx, ownerToken))
	got, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ownerToken, got)

	require.NoError(t, slot.Save(ctx, "second"))
	got, err = slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	require.NoError(t, slot.Clear(ctx))
	require.NoError(t, slot.Clear(ctx), "clearing an empty slot is not an error")
	_, err = slot.Load(ctx)
	require.ErrorIs(t, err, ErrEmptySlot)
}

func TestMemorySlot(t *testing.T) {
	exerciseSlot(t, NewMemorySlot(""))
}

func TestFileSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	exerciseSlot(t, NewFileSlot(path))
}

func TestFileSlotPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	slot := NewFileSlot(path)
	require.NoError(t, slot.Save(context.Background(), ownerToken))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileSlotTreatsBlankFileAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := NewFileSlot(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptySlot)
}

func TestDefaultFilePathUsesProfile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	def, err := DefaultFilePath("")
	require.NoError(t, err)
	assert.Equal(t, "token", filepath.Base(def))

	staging, err := DefaultFilePath("staging")
	require.NoError(t, err)
	assert.Equal(t, "token-staging", filepath.Base(staging))
	assert.Equal(t, filepath.Dir(def), filepath.Dir(staging))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestRedisSlot(t *testing.T) {
	_, rdb := newTestRedis(t)
	slot := NewRedisSlot(rdb, "sr", "kiosk", 0)
	assert.Equal(t, "sr:token:kiosk", slot.Key())
	exerciseSlot(t, slot)
}

func TestRedisSlotDefaultsAndTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	slot := NewRedisSlot(rdb, "", "", time.Hour)
	assert.Equal(t, "storerate:token:default", slot.Key())

	require.NoError(t, slot.Save(context.Background(), ownerToken))
	assert.Equal(t, time.Hour, mr.TTL(slot.Key()))

	mr.FastForward(2 * time.Hour)
	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptySlot)
}

func TestRedisSlotUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	slot := NewRedisSlot(rdb, "sr", "x", 0)
	mr.Close()

	_, err := slot.Load(context.Background())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = slot.Ping(context.Background())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestStoreOverSharedRedisSlot(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	writer := NewStore(NewRedisSlot(rdb, "sr", "shared", 0))
	writer.Initialize(ctx)
	_, err := writer.Login(ctx, ownerToken)
	require.NoError(t, err)

	reader := NewStore(NewRedisSlot(rdb, "sr", "shared", 0))
	st := reader.Initialize(ctx)
	require.True(t, st.SignedIn())
	assert.Equal(t, "u1", st.Identity.UserID)
}
