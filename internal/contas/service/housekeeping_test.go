package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/controlefin/contas/internal/contas/ledger"
)

func TestHousekeepingSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	lg := ledger.NewMemory()

	require.NoError(t, lg.Put(ctx, "register:a@b.c", []byte("x"), "123456", time.Millisecond))
	require.NoError(t, lg.Put(ctx, "register:b@b.c", []byte("y"), "654321", time.Hour))

	hk := NewHousekeepingService(lg, 5*time.Millisecond, testLogger())
	hk.Start(ctx)

	require.Eventually(t, func() bool {
		return lg.Len() == 1
	}, time.Second, 5*time.Millisecond)

	hk.Stop()
}
