package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	dl := NewMemoryDenylist()

	revoked, err := dl.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, dl.Revoke(ctx, "tok-1", time.Hour))

	revoked, err = dl.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = dl.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryDenylistExpiry(t *testing.T) {
	ctx := context.Background()
	dl := NewMemoryDenylist()

	require.NoError(t, dl.Revoke(ctx, "tok-1", -time.Second))

	revoked, err := dl.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
