package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rm-hull/nl-fuel-prices/internal/history"
)

const testConfig = `
history:
  backend: sqlite
locations:
  - name: Thuis
    latitude: 52.0907
    longitude: 5.1214
`

func TestBootstrapWithoutConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	svc, err := bootstrap("")
	require.NoError(t, err)
	defer svc.Close()

	assert.Empty(t, svc.config.Locations)
	assert.Equal(t, history.BACKEND_MEMORY, svc.config.History.Backend)
	assert.NotNil(t, svc.engine)
}

func TestBootstrapConfigFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	t.Setenv("CONFIG_FILE", path)

	svc, err := bootstrap("")
	require.NoError(t, err)
	defer svc.Close()

	require.Len(t, svc.config.Locations, 1)
	assert.Equal(t, "Thuis", svc.config.Locations[0].Name)
	assert.Equal(t, history.BACKEND_SQLITE, svc.config.History.Backend)
}

func TestBootstrapMissingConfigFile(t *testing.T) {
	_, err := bootstrap(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
