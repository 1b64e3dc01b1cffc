package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryVerifyConsumesOnMatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "register:a@b.c", []byte(`{"nome":"Ana"}`), "123456", 15*time.Minute))

	payload, err := m.Verify(ctx, "register:a@b.c", "123456")
	require.NoError(t, err)
	require.JSONEq(t, `{"nome":"Ana"}`, string(payload))

	// Second attempt with the same code must fail: the slot was consumed.
	_, err = m.Verify(ctx, "register:a@b.c", "123456")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryVerifyMismatchRetainsEntry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "register:a@b.c", []byte("payload"), "123456", 15*time.Minute))

	_, err := m.Verify(ctx, "register:a@b.c", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)

	// The entry survives a wrong guess, so the right code still works.
	payload, err := m.Verify(ctx, "register:a@b.c", "123456")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), payload)
}

func TestMemoryVerifyExpiredRemovesEntry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	require.NoError(t, m.Put(ctx, "register:a@b.c", []byte("payload"), "123456", 15*time.Minute))

	m.now = func() time.Time { return base.Add(16 * time.Minute) }

	_, err := m.Verify(ctx, "register:a@b.c", "123456")
	require.ErrorIs(t, err, ErrExpired)

	// Expiry deletes. A retry sees an absent slot, not another expiry.
	_, err = m.Verify(ctx, "register:a@b.c", "123456")
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, m.Len())
}

func TestMemoryPutOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "email-change:7", []byte("old"), "111111", 15*time.Minute))
	require.NoError(t, m.Put(ctx, "email-change:7", []byte("new"), "222222", 15*time.Minute))

	_, err := m.Verify(ctx, "email-change:7", "111111")
	require.ErrorIs(t, err, ErrCodeMismatch)

	payload, err := m.Verify(ctx, "email-change:7", "222222")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), payload)
	require.Zero(t, m.Len())
}

func TestMemoryVerifyAbsentKey(t *testing.T) {
	m := NewMemory()

	_, err := m.Verify(context.Background(), "register:nobody@b.c", "123456")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPeekDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "register:a@b.c", []byte("payload"), "123456", 15*time.Minute))

	entry, err := m.Peek(ctx, "register:a@b.c")
	require.NoError(t, err)
	require.Equal(t, "123456", entry.Code)

	entry, err = m.Peek(ctx, "register:a@b.c")
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), entry.Payload)
}

func TestMemoryDeleteRollsBackAttempt(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Put(ctx, "register:a@b.c", []byte("payload"), "123456", 15*time.Minute))
	require.NoError(t, m.Delete(ctx, "register:a@b.c"))

	_, err := m.Verify(ctx, "register:a@b.c", "123456")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, m.Delete(ctx, "register:a@b.c"))
}

func TestMemorySweepExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	require.NoError(t, m.Put(ctx, "register:old@b.c", []byte("a"), "111111", 5*time.Minute))
	require.NoError(t, m.Put(ctx, "register:new@b.c", []byte("b"), "222222", 30*time.Minute))

	m.now = func() time.Time { return base.Add(10 * time.Minute) }

	removed, err := m.SweepExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, m.Len())

	payload, err := m.Verify(ctx, "register:new@b.c", "222222")
	require.NoError(t, err)
	require.Equal(t, []byte("b"), payload)
}
