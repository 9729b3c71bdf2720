package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oftbridge/relay/relay"
)

func TestResolveNetworkConfig(t *testing.T) {
	t.Run("built-in network", func(t *testing.T) {
		cfg, known, err := resolveNetworkConfig("eip155:84532", "")
		require.NoError(t, err)
		assert.True(t, known)
		assert.Equal(t, relay.NetworkConfigs["eip155:84532"].RelayAddress, cfg.RelayAddress)
	})

	t.Run("override replaces the built-in address", func(t *testing.T) {
		override := "0x4444444444444444444444444444444444444444"
		cfg, known, err := resolveNetworkConfig("eip155:84532", override)
		require.NoError(t, err)
		assert.True(t, known)
		assert.Equal(t, override, cfg.RelayAddress)
	})

	t.Run("unknown network without an address is rejected", func(t *testing.T) {
		_, _, err := resolveNetworkConfig("eip155:1", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown network "eip155:1"`)
		assert.Contains(t, err.Error(), "--relay-address")
	})

	t.Run("unknown network with an address is accepted", func(t *testing.T) {
		override := "0x4444444444444444444444444444444444444444"
		cfg, known, err := resolveNetworkConfig("eip155:1", override)
		require.NoError(t, err)
		assert.False(t, known)
		assert.Equal(t, override, cfg.RelayAddress)
	})
}
