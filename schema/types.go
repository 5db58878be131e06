// Package schema describes tweak panels: the closed set of node kinds a host can
// declare, the ordered Config tree that nests them, and the resolver that turns a
// tree into addressable controls.
package schema

import (
	"regexp"
)

// Value is a stored leaf value. Its dynamic type is fixed by the leaf kind:
// float64 for numbers, bool for booleans, string for colors, selects and text,
// and SpringConfig for springs.
type Value = any

// Kind discriminates schema nodes.
type Kind string

const (
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindColor   Kind = "color"
	KindSelect  Kind = "select"
	KindText    Kind = "text"
	KindSpring  Kind = "spring"
	KindAction  Kind = "action"
	KindFolder  Kind = "folder"
)

// PathSeparator joins nested keys into a path.
const PathSeparator = "."

// CollapsedKey is the reserved mapping key carrying a folder's collapsed flag.
const CollapsedKey = "_collapsed"

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{4}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)

// Node is one entry of a schema. The set of implementations is closed: Number,
// Boolean, Color, Select, Text, Spring, Action and *Config (a folder).
type Node interface {
	Kind() Kind
	isNode()
}

// Leaf is a node that owns a stored value.
type Leaf interface {
	Node
	// Initial returns the declared starting value.
	Initial() Value
	// Coerce validates v for this leaf and returns the normalized value to store.
	Coerce(path string, v any) (Value, error)
}

// Number is a slider. Bounds are implicit when Min and Max are both zero.
type Number struct {
	Value float64
	Min   float64
	Max   float64
	Step  float64
	Label string
}

// Boolean is a toggle.
type Boolean struct {
	Value bool
	Label string
}

// Color holds a hex color string (#RGB, #RGBA, #RRGGBB or #RRGGBBAA).
type Color struct {
	Value string
	Label string
}

// Option is one choice of a Select.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Select picks one string out of an ordered option list.
type Select struct {
	Value   string
	Options []Option
	Label   string
}

// Text is a free-form string.
type Text struct {
	Value       string
	Placeholder string
	Label       string
}

// Spring holds animation spring parameters.
type Spring struct {
	Value SpringConfig
	Label string
}

// Action is a trigger without a stored value. Handler, when set, runs each time
// the action is triggered.
type Action struct {
	Label   string
	Handler func()
}

func (Number) Kind() Kind  { return KindNumber }
func (Boolean) Kind() Kind { return KindBoolean }
func (Color) Kind() Kind   { return KindColor }
func (Select) Kind() Kind  { return KindSelect }
func (Text) Kind() Kind    { return KindText }
func (Spring) Kind() Kind  { return KindSpring }
func (Action) Kind() Kind  { return KindAction }
func (*Config) Kind() Kind { return KindFolder }

func (Number) isNode()  {}
func (Boolean) isNode() {}
func (Color) isNode()   {}
func (Select) isNode()  {}
func (Text) isNode()    {}
func (Spring) isNode()  {}
func (Action) isNode()  {}
func (*Config) isNode() {}

func (n Number) Initial() Value  { return n.Value }
func (b Boolean) Initial() Value { return b.Value }
func (c Color) Initial() Value   { return c.Value }
func (s Select) Initial() Value  { return s.Value }
func (t Text) Initial() Value    { return t.Value }
func (s Spring) Initial() Value  { return s.Value.Clone() }

// Num declares a number with implicit bounds.
func Num(v float64) Number {
	return Number{Value: v}
}

// Range declares a number with explicit bounds. A zero step means the default.
func Range(v, min, max, step float64) Number {
	return Number{Value: v, Min: min, Max: max, Step: step}
}

// Options builds string options whose labels are derived from their values.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v}
	}
	return opts
}

// Entry is a keyed node inside a Config.
type Entry struct {
	Key  string
	Node Node
}

// Config is an ordered schema tree. Used as a node it is a folder.
type Config struct {
	Entries   []Entry
	Collapsed bool
	Label     string
}

// New returns an empty Config.
func New() *Config {
	return &Config{}
}

// Add appends a keyed node and returns the config for chaining.
// Duplicate keys are reported by Resolve.
func (c *Config) Add(key string, n Node) *Config {
	c.Entries = append(c.Entries, Entry{Key: key, Node: n})
	return c
}

// SetCollapsed marks the folder as initially closed.
func (c *Config) SetCollapsed(collapsed bool) *Config {
	c.Collapsed = collapsed
	return c
}

// SetLabel overrides the folder title.
func (c *Config) SetLabel(label string) *Config {
	c.Label = label
	return c
}

// Get returns the first node stored under key.
func (c *Config) Get(key string) (Node, bool) {
	for _, e := range c.Entries {
		if e.Key == key {
			return e.Node, true
		}
	}
	return nil, false
}

// Keys returns the entry keys in declaration order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// IsHexColor reports whether s is a supported hex color.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

// ExpandHex expands #RGB and #RGBA shorthand to #RRGGBB and #RRGGBBAA.
// Other inputs are returned unchanged.
func ExpandHex(hex string) string {
	if !IsHexColor(hex) || (len(hex) != 4 && len(hex) != 5) {
		return hex
	}
	out := []byte{'#'}
	for i := 1; i < len(hex); i++ {
		out = append(out, hex[i], hex[i])
	}
	return string(out)
}
