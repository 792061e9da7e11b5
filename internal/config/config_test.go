package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noConfigFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.json")
}

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := ParseArgs([]string{"-c", noConfigFile(t)})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, opts.Port)
	assert.Equal(t, DefaultUsersFile, opts.UsersFile)
	assert.Equal(t, DefaultJWTSecret, opts.JWTSecret)
	assert.Equal(t, time.Hour, opts.TokenTTL)
	assert.Equal(t, 10, opts.BcryptCost)
	assert.Equal(t, "info", opts.LogLevel)
	assert.False(t, opts.RequireAuthProducts)
	assert.False(t, opts.RequireAuthCheckout)
	assert.False(t, opts.EnforceCartOwner)
}

func TestParseArgs_Flags(t *testing.T) {
	opts, err := ParseArgs([]string{
		"-c", noConfigFile(t),
		"-a", "localhost:9000",
		"-u", "/tmp/users.json",
		"-ttl", "30m",
		"-products-auth",
		"-cart-owner",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", opts.Port)
	assert.Equal(t, "/tmp/users.json", opts.UsersFile)
	assert.Equal(t, 30*time.Minute, opts.TokenTTL)
	assert.True(t, opts.RequireAuthProducts)
	assert.False(t, opts.RequireAuthCheckout)
	assert.True(t, opts.EnforceCartOwner)
}

func TestParseArgs_ConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"port":":4000","users_file":"file-users.json","jwt_secret":"from-file","checkout_require_auth":true}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CART_ENFORCE_OWNER", "true")

	opts, err := ParseArgs([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, ":4000", opts.Port)
	assert.Equal(t, "file-users.json", opts.UsersFile)
	assert.Equal(t, "from-env", opts.JWTSecret)
	assert.Equal(t, 2*time.Hour, opts.TokenTTL)
	assert.True(t, opts.RequireAuthCheckout)
	assert.True(t, opts.EnforceCartOwner)
}

func TestParseArgs_Errors(t *testing.T) {
	t.Run("bad config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, err := ParseArgs([]string{"-c", path})
		assert.Error(t, err)
	})

	t.Run("bad ttl", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "soon")
		_, err := ParseArgs([]string{"-c", noConfigFile(t)})
		assert.Error(t, err)
	})

	t.Run("bad bool", func(t *testing.T) {
		t.Setenv("PRODUCTS_REQUIRE_AUTH", "maybe")
		_, err := ParseArgs([]string{"-c", noConfigFile(t)})
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseArgs([]string{"-nope"})
		assert.Error(t, err)
	})
}
