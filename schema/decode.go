package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	tperrors "github.com/eminiarts/tweakpine/errors"
)

// Decode parses a YAML schema document into a Config, keeping declaration order.
//
// Shape rules, applied per mapping value:
//   - number                     -> Number with implicit bounds
//   - [value, min, max(, step)]  -> Number
//   - true / false               -> Boolean
//   - "#rrggbb" style string     -> Color
//   - any other string           -> Text
//   - {value, min, max, step}    -> Number (also Boolean, Color, Text by value)
//   - {value, options}           -> Select
//   - mapping of spring fields   -> Spring
//   - {type: ...}                -> the named kind; an explicit type always wins
//   - any other mapping          -> folder, with optional _collapsed and _label
func Decode(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, tperrors.Wrap(err, tperrors.ErrCodeSchemaInvalid, "failed to parse schema YAML")
	}
	if doc.Kind == 0 {
		return New(), nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return New(), nil
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, tperrors.SchemaInvalid("", "schema document must be a mapping")
	}
	return decodeFolder("", root)
}

// DecodeFile reads and decodes a YAML schema file.
func DecodeFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tperrors.Wrap(err, tperrors.ErrCodeInvalidInput, fmt.Sprintf("failed to read schema file: %s", path))
	}
	return Decode(data)
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + PathSeparator + key
}

func decodeFolder(path string, m *yaml.Node) (*Config, error) {
	cfg := New()
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		val := m.Content[i+1]
		switch key {
		case CollapsedKey:
			var collapsed bool
			if err := val.Decode(&collapsed); err != nil {
				return nil, tperrors.SchemaInvalid(joinPath(path, key), "_collapsed must be a boolean")
			}
			cfg.Collapsed = collapsed
			continue
		case "_label":
			cfg.Label = val.Value
			continue
		}
		node, err := decodeNode(joinPath(path, key), val)
		if err != nil {
			return nil, err
		}
		cfg.Add(key, node)
	}
	return cfg, nil
}

func decodeNode(path string, n *yaml.Node) (Node, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(path, n)
	case yaml.SequenceNode:
		return decodeTuple(path, n, "")
	case yaml.MappingNode:
		return decodeMapping(path, n)
	}
	return nil, tperrors.SchemaInvalid(path, "unsupported YAML node")
}

func decodeScalar(path string, n *yaml.Node) (Node, error) {
	switch n.Tag {
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, tperrors.SchemaInvalid(path, err.Error())
		}
		return Num(f), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, tperrors.SchemaInvalid(path, err.Error())
		}
		return Boolean{Value: b}, nil
	case "!!str":
		if IsHexColor(n.Value) {
			return Color{Value: n.Value}, nil
		}
		return Text{Value: n.Value}, nil
	case "!!null":
		return nil, tperrors.SchemaInvalid(path, "value is null")
	}
	return nil, tperrors.SchemaInvalid(path, fmt.Sprintf("unsupported scalar tag %s", n.Tag))
}

func decodeTuple(path string, n *yaml.Node, label string) (Node, error) {
	var nums []float64
	if err := n.Decode(&nums); err != nil {
		return nil, tperrors.SchemaInvalid(path, "range tuple must contain only numbers")
	}
	switch len(nums) {
	case 3:
		return Number{Value: nums[0], Min: nums[1], Max: nums[2], Label: label}, nil
	case 4:
		return Number{Value: nums[0], Min: nums[1], Max: nums[2], Step: nums[3], Label: label}, nil
	}
	return nil, tperrors.SchemaInvalid(path, "range tuple must be [value, min, max] or [value, min, max, step]")
}

// fields indexes a mapping node by key.
type fields map[string]*yaml.Node

func indexMapping(m *yaml.Node) fields {
	out := make(fields, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out[m.Content[i].Value] = m.Content[i+1]
	}
	return out
}

func (f fields) str(key string) string {
	if n, ok := f[key]; ok && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

func isSpringField(key string) bool {
	for _, f := range SpringFields {
		if f == key {
			return true
		}
	}
	return false
}

func decodeMapping(path string, m *yaml.Node) (Node, error) {
	f := indexMapping(m)
	if t, ok := f["type"]; ok && t.Kind == yaml.ScalarNode {
		return decodeTyped(path, Kind(strings.ToLower(t.Value)), m, f)
	}
	if v, ok := f["value"]; ok {
		if _, hasOptions := f["options"]; hasOptions {
			return decodeTyped(path, KindSelect, m, f)
		}
		switch {
		case v.Kind == yaml.ScalarNode && (v.Tag == "!!int" || v.Tag == "!!float"):
			return decodeTyped(path, KindNumber, m, f)
		case v.Kind == yaml.SequenceNode:
			return decodeTuple(path, v, f.str("label"))
		case v.Kind == yaml.ScalarNode && v.Tag == "!!bool":
			return decodeTyped(path, KindBoolean, m, f)
		case v.Kind == yaml.ScalarNode && v.Tag == "!!str" && IsHexColor(v.Value):
			return decodeTyped(path, KindColor, m, f)
		case v.Kind == yaml.ScalarNode && v.Tag == "!!str":
			return decodeTyped(path, KindText, m, f)
		case v.Kind == yaml.MappingNode:
			return decodeTyped(path, KindSpring, m, f)
		}
		return nil, tperrors.SchemaInvalid(path, "unsupported value")
	}
	if _, ok := f["options"]; ok {
		return decodeTyped(path, KindSelect, m, f)
	}

	if looksLikeSpring(f) {
		return decodeTyped(path, KindSpring, m, f)
	}
	return decodeFolder(path, m)
}

// looksLikeSpring reports whether every key is a spring field or "label", and
// at least one spring field is present.
func looksLikeSpring(f fields) bool {
	found := false
	for key, n := range f {
		switch {
		case isSpringField(key) && n.Kind == yaml.ScalarNode:
			found = true
		case key == "label":
		default:
			return false
		}
	}
	return found
}

type numberDoc struct {
	Value float64  `yaml:"value"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Step  float64  `yaml:"step"`
	Label string   `yaml:"label"`
}

type selectDoc struct {
	Value   string      `yaml:"value"`
	Options []yaml.Node `yaml:"options"`
	Label   string      `yaml:"label"`
}

type textDoc struct {
	Value       string `yaml:"value"`
	Placeholder string `yaml:"placeholder"`
	Label       string `yaml:"label"`
}

func decodeTyped(path string, kind Kind, m *yaml.Node, f fields) (Node, error) {
	fail := func(err error) (Node, error) {
		return nil, tperrors.SchemaInvalid(path, err.Error())
	}
	switch kind {
	case KindNumber, "slider":
		var doc numberDoc
		if err := m.Decode(&doc); err != nil {
			return fail(err)
		}
		n := Number{Value: doc.Value, Step: doc.Step, Label: doc.Label}
		if doc.Min != nil || doc.Max != nil {
			n.Min, n.Max = DefaultMin, DefaultMax
			if doc.Min != nil {
				n.Min = *doc.Min
			}
			if doc.Max != nil {
				n.Max = *doc.Max
			}
		}
		return n, nil
	case KindBoolean, "toggle":
		var doc struct {
			Value bool   `yaml:"value"`
			Label string `yaml:"label"`
		}
		if err := m.Decode(&doc); err != nil {
			return fail(err)
		}
		return Boolean{Value: doc.Value, Label: doc.Label}, nil
	case KindColor:
		var doc struct {
			Value string `yaml:"value"`
			Label string `yaml:"label"`
		}
		if err := m.Decode(&doc); err != nil {
			return fail(err)
		}
		return Color{Value: doc.Value, Label: doc.Label}, nil
	case KindSelect:
		var doc selectDoc
		if err := m.Decode(&doc); err != nil {
			return fail(err)
		}
		opts := make([]Option, 0, len(doc.Options))
		for i := range doc.Options {
			o := &doc.Options[i]
			var opt Option
			switch o.Kind {
			case yaml.ScalarNode:
				opt.Value = o.Value
			case yaml.MappingNode:
				if err := o.Decode(&opt); err != nil {
					return fail(err)
				}
			default:
				return nil, tperrors.SchemaInvalid(path, "options must be strings or {value, label} mappings")
			}
			opts = append(opts, opt)
		}
		return Select{Value: doc.Value, Options: opts, Label: doc.Label}, nil
	case KindText:
		var doc textDoc
		if err := m.Decode(&doc); err != nil {
			return fail(err)
		}
		return Text{Value: doc.Value, Placeholder: doc.Placeholder, Label: doc.Label}, nil
	case KindSpring:
		raw := make(map[string]any)
		src := m
		if v, ok := f["value"]; ok && v.Kind == yaml.MappingNode {
			src = v
		}
		if err := src.Decode(&raw); err != nil {
			return fail(err)
		}
		delete(raw, "type")
		delete(raw, "label")
		cfg, err := DecodeSpring(raw)
		if err != nil {
			return fail(err)
		}
		return Spring{Value: cfg, Label: f.str("label")}, nil
	case KindAction, "button":
		return Action{Label: f.str("label")}, nil
	case KindFolder:
		folderNode := &yaml.Node{Kind: yaml.MappingNode}
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == "type" {
				continue
			}
			folderNode.Content = append(folderNode.Content, m.Content[i], m.Content[i+1])
		}
		return decodeFolder(path, folderNode)
	}
	return nil, tperrors.SchemaInvalid(path, fmt.Sprintf("unknown type '%s'", kind))
}
