package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"powerts/domain/core"
	"powerts/domain/series"
	"powerts/internal/errors"
)

// VariableConfig describes one (source, variable) pair of the declarative
// sources file: where the data comes from, its native resolution and zone,
// and how raw columns map to header-field values.
type VariableConfig struct {
	Web        string                       `yaml:"web"`
	Resolution string                       `yaml:"resolution"`
	Timezone   string                       `yaml:"timezone"`
	Columns    map[string]series.ColumnSpec `yaml:"columns"`
}

// Bucket returns the validated resolution bucket.
func (v VariableConfig) Bucket() (core.Resolution, error) {
	return core.ParseResolution(v.Resolution)
}

// Location returns the variable's IANA zone, defaulting to Europe/Berlin,
// which is where most of the covered control areas live.
func (v VariableConfig) Location() (*time.Location, error) {
	zone := v.Timezone
	if zone == "" {
		zone = "Europe/Berlin"
	}
	return time.LoadLocation(zone)
}

// Sources is the full declarative source configuration:
// source name -> variable name -> settings.
type Sources map[string]map[string]VariableConfig

// LoadSources reads and validates the sources YAML file.
func LoadSources(path string) (Sources, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sources file %s", path)
	}
	var sources Sources
	if err := yaml.Unmarshal(raw, &sources); err != nil {
		return nil, errors.Wrapf(err, "parsing sources file %s", path)
	}
	for sourceName, variables := range sources {
		for variableName, vc := range variables {
			if _, err := vc.Bucket(); err != nil {
				return nil, errors.ConfigInvalid(fmt.Sprintf(
					"%s/%s: %v", sourceName, variableName, err))
			}
			if _, err := vc.Location(); err != nil {
				return nil, errors.ConfigInvalid(fmt.Sprintf(
					"%s/%s: timezone: %v", sourceName, variableName, err))
			}
		}
	}
	return sources, nil
}
