package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATA_DIR", "SOURCES_FILE", "START_DATE", "END_DATE",
		"PATCH", "ESTIMATE_LONG_GAPS", "DATABASE_URL", "TIMEZONE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "original_data", cfg.DataDir)
	assert.Equal(t, "sources.yml", cfg.SourcesFile)
	assert.Equal(t, "Europe/Brussels", cfg.Timezone)
	assert.True(t, cfg.Patch)
	assert.False(t, cfg.EstimateLongGaps)
	assert.True(t, cfg.StartFromUser.IsZero())
}

func TestLoadParsesUserRange(t *testing.T) {
	t.Setenv("START_DATE", "2015-01-01")
	t.Setenv("END_DATE", "2015-12-31")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartFromUser)
	assert.Equal(t, time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC), cfg.EndFromUser)
}

func TestLoadRejectsBadDate(t *testing.T) {
	t.Setenv("START_DATE", "01.01.2015")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err := Load()
	assert.Error(t, err)
}

const sampleSources = `
50Hertz:
  wind_generation:
    web: http://example.invalid/wind
    resolution: 15min
    timezone: Europe/Berlin
    columns:
      generation:
        variable: wind
        region: DE50hertz
        attribute: generation
        source: 50Hertz
        web: "{web}"
        unit: MW
Svenska_Kraftnaet:
  wind:
    web: http://example.invalid/se
    resolution: 60min
    timezone: Europe/Stockholm
`

func TestLoadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleSources), 0o644))

	srcs, err := LoadSources(path)
	require.NoError(t, err)
	require.Contains(t, srcs, "50Hertz")

	vc := srcs["50Hertz"]["wind_generation"]
	res, err := vc.Bucket()
	require.NoError(t, err)
	assert.Equal(t, "15min", res.String())

	spec := vc.Columns["generation"]
	assert.Equal(t, "wind", spec.Variable)
	assert.Equal(t, "{web}", spec.Web)

	loc, err := srcs["Svenska_Kraftnaet"]["wind"].Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Stockholm", loc.String())
}

func TestLoadSourcesRejectsBadResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	bad := "PSE:\n  wind:\n    resolution: 5min\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadSources(path)
	assert.Error(t, err)
}
