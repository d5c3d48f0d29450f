package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "5.92", cfg.VK.APIVersion)
	assert.Equal(t, "https://api.vk.com/method", cfg.VK.APIBaseURL)
	assert.Equal(t, "https://vk.com", cfg.VK.WebBaseURL)
	assert.Equal(t, 200, cfg.VK.PageSize)
	assert.Equal(t, time.Second, cfg.VK.ResolveRetryDelay)
	assert.Zero(t, cfg.VK.ResolveMaxAttempts, "resolution retries forever by default")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "users.txt", cfg.Scan.UsersFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VKSCAN_ACCESS_TOKEN", "env-token")
	t.Setenv("VKSCAN_API_VERSION", "5.131")
	t.Setenv("VKSCAN_RESOLVE_MAX_ATTEMPTS", "7")
	t.Setenv("VKSCAN_REQUESTS_PER_SECOND", "1.5")
	t.Setenv("VKSCAN_DB_DRIVER", "pgx")
	t.Setenv("VKSCAN_DB_DSN", "postgres://localhost/vk")
	t.Setenv("VKSCAN_USERS_FILE", "/tmp/handles.txt")
	t.Setenv("VKSCAN_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-token", cfg.VK.AccessToken)
	assert.Equal(t, "5.131", cfg.VK.APIVersion)
	assert.Equal(t, 7, cfg.VK.ResolveMaxAttempts)
	assert.Equal(t, 1.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/vk", cfg.Database.DSN)
	assert.Equal(t, "/tmp/handles.txt", cfg.Scan.UsersFile)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidNumbers(t *testing.T) {
	t.Setenv("VKSCAN_RESOLVE_MAX_ATTEMPTS", "many")
	t.Setenv("VKSCAN_REQUESTS_PER_SECOND", "fast")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VKSCAN_RESOLVE_MAX_ATTEMPTS")
	assert.Contains(t, err.Error(), "VKSCAN_REQUESTS_PER_SECOND")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing api version", func(c *Config) { c.VK.APIVersion = "" }, "API version"},
		{"page size too large", func(c *Config) { c.VK.PageSize = 201 }, "page size"},
		{"page size zero", func(c *Config) { c.VK.PageSize = 0 }, "page size"},
		{"negative attempts", func(c *Config) { c.VK.ResolveMaxAttempts = -1 }, "max attempts"},
		{"negative delay", func(c *Config) { c.VK.ResolveRetryDelay = -time.Second }, "retry delay"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "DSN"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
		{"negative rate", func(c *Config) { c.RateLimit.RequestsPerSecond = -1 }, "requests per second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vkscan.yaml")

	cfg := DefaultConfig()
	cfg.VK.AccessToken = "file-token"
	cfg.VK.ResolveRetryDelay = 250 * time.Millisecond
	cfg.Database.DSN = "file:test.db"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "file-token", loaded.VK.AccessToken)
	assert.Equal(t, 250*time.Millisecond, loaded.VK.ResolveRetryDelay)
	assert.Equal(t, "file:test.db", loaded.Database.DSN)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vk: [unclosed"), 0600))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"access-token":         "flag-token",
		"resolve-max-attempts": 3,
		"db-driver":            "pgx",
		"db-dsn":               "postgres://db/vk",
		"users-file":           "list.txt",
		"requests-per-second":  0.5,
		"log-level":            "warn",
		"api-version":          "",
	})

	assert.Equal(t, "flag-token", cfg.VK.AccessToken)
	assert.Equal(t, 3, cfg.VK.ResolveMaxAttempts)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "postgres://db/vk", cfg.Database.DSN)
	assert.Equal(t, "list.txt", cfg.Scan.UsersFile)
	assert.Equal(t, 0.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "5.92", cfg.VK.APIVersion, "empty flags keep existing values")
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vk:
  access_token: from-file
database:
  dsn: from-file.db
logging:
  level: error
`), 0600))
	t.Setenv("VKSCAN_DB_DSN", "from-env.db")

	cfg, err := Load(path, map[string]interface{}{"log-level": "debug"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.VK.AccessToken)
	assert.Equal(t, "from-env.db", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)

	_, err := Load("", map[string]interface{}{"db-driver": "oracle"})
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir for toolchains that predate it.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
