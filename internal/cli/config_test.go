package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/keeper/pkg/types"
)

// testFlags returns a flag set carrying the flags loadConfig binds.
func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("keeper", pflag.ContinueOnError)
	fs.String("backend", "", "")
	fs.Int("capacity", 0, "")
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := loadConfig(dir, testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, types.Config{Backend: types.BackendMemory, Capacity: 0}, s.Inventory)
	assert.Equal(t, "warn", s.Logging.Level)
	assert.Equal(t, "text", s.Logging.Format)
	assert.Empty(t, s.File)
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "backend: sqlite\ncapacity: 5\nlog_level: info\n")

	s, err := loadConfig(dir, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, types.Config{Backend: types.BackendSQLite, Capacity: 5}, s.Inventory)
	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), s.File)

	t.Setenv("KEEPER_CAPACITY", "7")
	s, err = loadConfig(dir, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 7, s.Inventory.Capacity, "env overrides file")
	assert.Equal(t, types.BackendSQLite, s.Inventory.Backend)

	s, err = loadConfig(dir, testFlags(t, "--capacity", "9", "--backend", "memory"))
	require.NoError(t, err)
	assert.Equal(t, types.Config{Backend: types.BackendMemory, Capacity: 9}, s.Inventory, "flags override env")
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		wantErr error
	}{
		{"unknown backend", "backend: postgres\n", nil, types.ErrBackendUnknown},
		{"negative capacity", "capacity: -1\n", nil, types.ErrCapacityInvalid},
		{"flag backend", "", []string{"--backend", "redis"}, types.ErrBackendUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				writeConfigFile(t, dir, tt.content)
			}
			_, err := loadConfig(dir, testFlags(t, tt.args...))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "backend: [sqlite\n")
		_, err := loadConfig(dir, testFlags(t))
		assert.ErrorContains(t, err, "read config")
	})
}

func TestWriteConfigIfMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "keeper")

	written, err := writeConfigIfMissing(dir)
	require.NoError(t, err)
	assert.True(t, written)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	s, err := loadConfig(dir, testFlags(t))
	require.NoError(t, err)
	assert.Equal(t, types.BackendMemory, s.Inventory.Backend)

	written, err = writeConfigIfMissing(dir)
	require.NoError(t, err)
	assert.False(t, written)
}
