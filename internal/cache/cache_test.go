package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIsStableAndQuerySensitive(t *testing.T) {
	k1 := Key("fetch bizevents | limit 100")
	k2 := Key("fetch bizevents | limit 100")
	k3 := Key("fetch bizevents | limit 101")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, "ordersight:query:"))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "fetch bizevents")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, c.Set(ctx, "fetch bizevents", []byte("[]")))
	assert.NoError(t, c.Close())
}
