package params

import (
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// FilePreset is one named parameter set loaded from a TOML preset file.
type FilePreset struct {
	Name   string
	Params ParameterSet
}

// LoadPresetFile reads a TOML file of the form
//
//	[presets.baseline]
//	NUM_MEMBERS = 100
//	SIMULATION_WEEKS = 52
//
// Each preset is merged over Default and validated; sparse presets are fine.
// Results are sorted by name for stable reporting.
func LoadPresetFile(path string) ([]FilePreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Presets map[string]map[string]any `toml:"presets"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigurationError{"presets", err.Error()}
	}

	names := make([]string, 0, len(doc.Presets))
	for name := range doc.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]FilePreset, 0, len(names))
	for _, name := range names {
		// Round-trip the sparse entry through TOML so it merges over the
		// pre-filled defaults field by field.
		entry, err := toml.Marshal(doc.Presets[name])
		if err != nil {
			return nil, &ConfigurationError{"presets." + name, err.Error()}
		}
		merged := Default()
		if err := toml.Unmarshal(entry, &merged); err != nil {
			return nil, &ConfigurationError{"presets." + name, err.Error()}
		}
		if err := merged.Validate(); err != nil {
			return nil, err
		}
		out = append(out, FilePreset{Name: name, Params: merged})
	}
	return out, nil
}
