package cmd

import (
	"testing"

	"backend-probe/core/backend"
	"backend-probe/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseRow(t *testing.T) {
	row, err := parseRow([]string{"name=ann", "department = ops", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, backend.Row{"name": "ann", "department": " ops", "note": "a=b"}, row)

	row, err = parseRow(nil)
	assert.NoError(t, err)
	assert.Nil(t, row)

	_, err = parseRow([]string{"novalue"})
	assert.Error(t, err)
}

func TestBuildService_ConfigErrors(t *testing.T) {
	t.Run("MissingURL", func(t *testing.T) {
		directFlag = false
		cfg := &config.Config{Supabase: backend.Config{AnonKey: "k", Role: "anon"}}

		svc, cleanup, err := buildService(cfg, zap.NewNop())
		cleanup()
		assert.Nil(t, svc)
		cfgErr, ok := asConfigError(err)
		require.True(t, ok)
		assert.Equal(t, "SUPABASE_URL", cfgErr.Key)
	})

	t.Run("DirectWithoutDatabase", func(t *testing.T) {
		directFlag = true
		t.Cleanup(func() { directFlag = false })

		svc, cleanup, err := buildService(&config.Config{}, zap.NewNop())
		cleanup()
		assert.Nil(t, svc)
		cfgErr, ok := asConfigError(err)
		require.True(t, ok)
		assert.Equal(t, "DATABASE_HOST", cfgErr.Key)
	})

	t.Run("REST", func(t *testing.T) {
		directFlag = false
		cfg := &config.Config{Supabase: backend.Config{URL: "https://x.supabase.co", AnonKey: "k", Role: "anon"}}

		svc, cleanup, err := buildService(cfg, zap.NewNop())
		defer cleanup()
		require.NoError(t, err)
		assert.NotNil(t, svc)
		assert.False(t, svc.StorageEnabled())
	})
}
