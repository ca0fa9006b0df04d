package redis_client

import (
	"testing"

	"github.com/Is0meone/TransitTracker/pkg/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("skips when no address is configured", func(t *testing.T) {
		require.NoError(t, Connect(config.RedisConfig{}))
		assert.False(t, Connected())
	})

	t.Run("fails against an unreachable server", func(t *testing.T) {
		assert.Error(t, Connect(config.RedisConfig{Address: "127.0.0.1:1"}))
		assert.False(t, Connected())
	})

	t.Run("connects to a running server", func(t *testing.T) {
		server := miniredis.RunT(t)

		require.NoError(t, Connect(config.RedisConfig{Address: server.Addr()}))
		t.Cleanup(func() {
			Client.Close()
			Client = nil
			QueueConnection = nil
		})

		assert.True(t, Connected())
		assert.NotNil(t, QueueConnection)
	})
}
