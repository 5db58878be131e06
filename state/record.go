// Package state persists preset records, one record per panel name.
package state

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// PresetRecord is one persisted preset. Values maps leaf paths to plain data:
// float64, bool, string, or a string-keyed mapping for springs.
type PresetRecord struct {
	ID     string                 `yaml:"id" json:"id" jsonschema:"required,description=Preset identifier"`
	Name   string                 `yaml:"name" json:"name" jsonschema:"required,description=Display name; not unique"`
	Values map[string]interface{} `yaml:"values" json:"values" jsonschema:"required,description=Leaf path to stored value"`
}

// PanelRecord is everything persisted for one panel.
type PanelRecord struct {
	ActivePresetID string         `yaml:"active_preset_id,omitempty" json:"active_preset_id,omitempty" jsonschema:"description=Preset applied last; empty means none"`
	Presets        []PresetRecord `yaml:"presets" json:"presets" jsonschema:"description=Presets in creation order"`
}

// Backend loads and saves panel records by key. Loading a key that was never
// saved returns an empty record.
type Backend interface {
	Load(key string) (PanelRecord, error)
	Save(key string, record PanelRecord) error
}

// Clone returns a deep copy.
func (r PanelRecord) Clone() PanelRecord {
	out := PanelRecord{ActivePresetID: r.ActivePresetID}
	if r.Presets != nil {
		out.Presets = make([]PresetRecord, len(r.Presets))
		for i, p := range r.Presets {
			out.Presets[i] = PresetRecord{ID: p.ID, Name: p.Name, Values: copyMap(p.Values)}
		}
	}
	return out
}

// Find returns the preset with id.
func (r PanelRecord) Find(id string) (PresetRecord, bool) {
	for _, p := range r.Presets {
		if p.ID == id {
			return p, true
		}
	}
	return PresetRecord{}, false
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyMap(t)
	case map[string]float64:
		out := make(map[string]float64, len(t))
		for k, f := range t {
			out[k] = f
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// GenerateRecordSchema returns the JSON Schema of a persisted panel record.
func GenerateRecordSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}

	schema := r.Reflect(&PanelRecord{})
	schema.Title = "TweakPine Preset Record"
	schema.Description = "Presets persisted for one panel."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record schema: %w", err)
	}
	return data, nil
}
