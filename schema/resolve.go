package schema

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	tperrors "github.com/eminiarts/tweakpine/errors"
)

// Number defaults used when a number declares no bounds.
const (
	DefaultMin  = 0.0
	DefaultMax  = 1.0
	DefaultStep = 0.01
)

// ControlMeta is the resolved form of one schema node.
type ControlMeta struct {
	Path  string
	Key   string
	Kind  Kind
	Label string
	// Node is the normalized node: defaults filled in, options labelled.
	Node     Node
	Children []ControlMeta
	// DefaultOpen is meaningful for folders only.
	DefaultOpen bool
}

// Leaf returns the node as a Leaf when it stores a value.
func (m ControlMeta) Leaf() (Leaf, bool) {
	l, ok := m.Node.(Leaf)
	return l, ok
}

// PanelConfig is a registered panel as exposed to renderers.
type PanelConfig struct {
	ID       string
	Name     string
	Controls []ControlMeta
}

// Flatten lists every control depth-first in declaration order, folders included.
func Flatten(controls []ControlMeta) []ControlMeta {
	var out []ControlMeta
	var walk func([]ControlMeta)
	walk = func(cs []ControlMeta) {
		for _, c := range cs {
			out = append(out, c)
			if c.Kind == KindFolder {
				walk(c.Children)
			}
		}
	}
	walk(controls)
	return out
}

// Resolve walks cfg depth-first and returns the control tree. Every path is
// unique and every leaf is normalized, or an error names the offending path.
func Resolve(cfg *Config) ([]ControlMeta, error) {
	if cfg == nil {
		return nil, tperrors.SchemaInvalid("", "schema is nil")
	}
	seen := make(map[string]struct{})
	return resolveEntries(cfg, "", seen)
}

func resolveEntries(cfg *Config, prefix string, seen map[string]struct{}) ([]ControlMeta, error) {
	controls := make([]ControlMeta, 0, len(cfg.Entries))
	for _, e := range cfg.Entries {
		if e.Key == CollapsedKey {
			continue
		}
		path := e.Key
		if prefix != "" {
			path = prefix + PathSeparator + e.Key
		}
		if e.Key == "" {
			return nil, tperrors.SchemaInvalid(path, "empty key")
		}
		if _, dup := seen[path]; dup {
			return nil, tperrors.DuplicatePath(path)
		}
		seen[path] = struct{}{}

		meta, err := resolveNode(e.Key, path, e.Node, seen)
		if err != nil {
			return nil, err
		}
		controls = append(controls, meta)
	}
	return controls, nil
}

func resolveNode(key, path string, node Node, seen map[string]struct{}) (ControlMeta, error) {
	meta := ControlMeta{Path: path, Key: key}
	if node == nil {
		return meta, tperrors.SchemaInvalid(path, "node is nil")
	}
	meta.Kind = node.Kind()

	var label string
	switch n := node.(type) {
	case Number:
		norm, err := normalizeNumber(path, n)
		if err != nil {
			return meta, err
		}
		meta.Node, label = norm, n.Label
	case Boolean:
		meta.Node, label = n, n.Label
	case Color:
		if !IsHexColor(n.Value) {
			return meta, tperrors.SchemaInvalid(path, fmt.Sprintf("'%s' is not a hex color", n.Value))
		}
		meta.Node, label = n, n.Label
	case Select:
		norm, err := normalizeSelect(path, n)
		if err != nil {
			return meta, err
		}
		meta.Node, label = norm, n.Label
	case Text:
		meta.Node, label = n, n.Label
	case Spring:
		if err := n.Value.validate(); err != nil {
			return meta, tperrors.SchemaInvalid(path, err.Error())
		}
		meta.Node, label = Spring{Value: n.Value.Clone(), Label: n.Label}, n.Label
	case Action:
		meta.Node, label = n, n.Label
	case *Config:
		if n == nil {
			return meta, tperrors.SchemaInvalid(path, "folder is nil")
		}
		children, err := resolveEntries(n, path, seen)
		if err != nil {
			return meta, err
		}
		meta.Node, label = n, n.Label
		meta.Children = children
		meta.DefaultOpen = !n.Collapsed
	default:
		return meta, tperrors.SchemaInvalid(path, fmt.Sprintf("unsupported node %T", node))
	}

	if label == "" {
		label = Humanize(key)
	}
	meta.Label = label
	return meta, nil
}

func normalizeNumber(path string, n Number) (Number, error) {
	if math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return n, tperrors.SchemaInvalid(path, "value must be finite")
	}
	if n.Step < 0 {
		return n, tperrors.SchemaInvalid(path, "step must not be negative")
	}
	if n.Step == 0 {
		n.Step = DefaultStep
	}

	explicit := n.Min != 0 || n.Max != 0
	if explicit {
		if n.Max < n.Min {
			return n, tperrors.SchemaInvalid(path, fmt.Sprintf("max %g is below min %g", n.Max, n.Min))
		}
		if n.Value < n.Min || n.Value > n.Max {
			return n, tperrors.SchemaInvalid(path, fmt.Sprintf("value %g is outside [%g, %g]", n.Value, n.Min, n.Max))
		}
		return n, nil
	}

	n.Min, n.Max = DefaultMin, DefaultMax
	if n.Value < n.Min || n.Value > n.Max {
		n.Min = math.Min(0, 2*n.Value)
		n.Max = math.Max(1, 2*n.Value)
	}
	return n, nil
}

func normalizeSelect(path string, s Select) (Select, error) {
	if len(s.Options) == 0 {
		return s, tperrors.SchemaInvalid(path, "select needs at least one option")
	}
	opts := make([]Option, len(s.Options))
	seen := make(map[string]struct{}, len(s.Options))
	for i, o := range s.Options {
		if _, dup := seen[o.Value]; dup {
			return s, tperrors.SchemaInvalid(path, fmt.Sprintf("option '%s' is listed twice", o.Value))
		}
		seen[o.Value] = struct{}{}
		if o.Label == "" {
			o.Label = TitleCase(o.Value)
		}
		opts[i] = o
	}
	s.Options = opts

	if s.Value == "" {
		s.Value = opts[0].Value
	} else if !s.HasOption(s.Value) {
		return s, tperrors.SchemaInvalid(path, fmt.Sprintf("value '%s' is not one of the options", s.Value))
	}
	return s, nil
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// Humanize turns a schema key into a display label: "blurAmount" and
// "blur_amount" both become "Blur Amount".
func Humanize(key string) string {
	var words []string
	var current []rune
	runes := []rune(key)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return TitleCase(strings.Join(words, " "))
}
