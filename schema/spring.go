package schema

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// SpringMode selects which parameter set of a spring is edited.
type SpringMode string

const (
	SpringSimple   SpringMode = "simple"
	SpringAdvanced SpringMode = "advanced"
)

// Valid reports whether m is a known mode.
func (m SpringMode) Valid() bool {
	return m == SpringSimple || m == SpringAdvanced
}

// Defaults applied when a spring is converted between modes.
const (
	DefaultVisualDuration = 0.3
	DefaultBounce         = 0.2
	DefaultStiffness      = 400.0
	DefaultDamping        = 17.0
	DefaultMass           = 1.0
)

// SpringFields lists every mapping key a spring value may carry.
var SpringFields = []string{"visualDuration", "bounce", "stiffness", "damping", "mass"}

// SpringConfig holds either the simple parameters (VisualDuration, Bounce) or the
// physics parameters (Stiffness, Damping, Mass). Unset fields are nil.
type SpringConfig struct {
	VisualDuration *float64 `yaml:"visualDuration,omitempty" json:"visualDuration,omitempty" mapstructure:"visualDuration"`
	Bounce         *float64 `yaml:"bounce,omitempty" json:"bounce,omitempty" mapstructure:"bounce"`
	Stiffness      *float64 `yaml:"stiffness,omitempty" json:"stiffness,omitempty" mapstructure:"stiffness"`
	Damping        *float64 `yaml:"damping,omitempty" json:"damping,omitempty" mapstructure:"damping"`
	Mass           *float64 `yaml:"mass,omitempty" json:"mass,omitempty" mapstructure:"mass"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// SimpleSpring builds a duration/bounce spring.
func SimpleSpring(visualDuration, bounce float64) SpringConfig {
	return SpringConfig{VisualDuration: Float(visualDuration), Bounce: Float(bounce)}
}

// PhysicsSpring builds a stiffness/damping/mass spring.
func PhysicsSpring(stiffness, damping, mass float64) SpringConfig {
	return SpringConfig{Stiffness: Float(stiffness), Damping: Float(damping), Mass: Float(mass)}
}

// HasSimple reports whether any simple field is set.
func (s SpringConfig) HasSimple() bool {
	return s.VisualDuration != nil || s.Bounce != nil
}

// HasAdvanced reports whether any physics field is set.
func (s SpringConfig) HasAdvanced() bool {
	return s.Stiffness != nil || s.Damping != nil || s.Mass != nil
}

// Mode infers the parameter set in use. Empty springs count as simple.
func (s SpringConfig) Mode() SpringMode {
	if s.HasAdvanced() {
		return SpringAdvanced
	}
	return SpringSimple
}

// Clone returns a copy that shares no pointers with s.
func (s SpringConfig) Clone() SpringConfig {
	cp := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		return Float(*p)
	}
	return SpringConfig{
		VisualDuration: cp(s.VisualDuration),
		Bounce:         cp(s.Bounce),
		Stiffness:      cp(s.Stiffness),
		Damping:        cp(s.Damping),
		Mass:           cp(s.Mass),
	}
}

// Equal compares field by field.
func (s SpringConfig) Equal(o SpringConfig) bool {
	eq := func(a, b *float64) bool {
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	}
	return eq(s.VisualDuration, o.VisualDuration) &&
		eq(s.Bounce, o.Bounce) &&
		eq(s.Stiffness, o.Stiffness) &&
		eq(s.Damping, o.Damping) &&
		eq(s.Mass, o.Mass)
}

// Map returns the set fields keyed by their wire names.
func (s SpringConfig) Map() map[string]any {
	out := make(map[string]any)
	set := func(key string, p *float64) {
		if p != nil {
			out[key] = *p
		}
	}
	set("visualDuration", s.VisualDuration)
	set("bounce", s.Bounce)
	set("stiffness", s.Stiffness)
	set("damping", s.Damping)
	set("mass", s.Mass)
	return out
}

// ToMode keeps the fields belonging to mode, drops the others and fills missing
// fields with defaults.
func (s SpringConfig) ToMode(mode SpringMode) SpringConfig {
	pick := func(p *float64, def float64) *float64 {
		if p == nil {
			return Float(def)
		}
		return Float(*p)
	}
	if mode == SpringAdvanced {
		return SpringConfig{
			Stiffness: pick(s.Stiffness, DefaultStiffness),
			Damping:   pick(s.Damping, DefaultDamping),
			Mass:      pick(s.Mass, DefaultMass),
		}
	}
	return SpringConfig{
		VisualDuration: pick(s.VisualDuration, DefaultVisualDuration),
		Bounce:         pick(s.Bounce, DefaultBounce),
	}
}

// Physics returns the stiffness, damping and mass the spring resolves to in mode.
// Simple springs are converted so that the motion settles in about VisualDuration.
func (s SpringConfig) Physics(mode SpringMode) (stiffness, damping, mass float64) {
	if mode == SpringAdvanced {
		full := s.ToMode(SpringAdvanced)
		return *full.Stiffness, *full.Damping, *full.Mass
	}
	full := s.ToMode(SpringSimple)
	duration := math.Max(*full.VisualDuration, 0.01)
	bounce := math.Min(math.Max(1-*full.Bounce, 0.05), 1)
	root := 2 * math.Pi / (duration * 1.2)
	stiffness = root * root
	damping = 2 * bounce * math.Sqrt(stiffness)
	return stiffness, damping, 1
}

// Evaluate returns the normalized displacement (0 at rest start, 1 at target) at
// time t seconds for a unit step driven by this spring.
func (s SpringConfig) Evaluate(t float64, mode SpringMode) float64 {
	if t <= 0 {
		return 0
	}
	k, c, m := s.Physics(mode)
	if k <= 0 || m <= 0 {
		return 1
	}
	omega := math.Sqrt(k / m)
	zeta := c / (2 * math.Sqrt(k*m))

	switch {
	case zeta < 1:
		wd := omega * math.Sqrt(1-zeta*zeta)
		decay := math.Exp(-zeta * omega * t)
		return 1 - decay*(math.Cos(wd*t)+(zeta*omega/wd)*math.Sin(wd*t))
	case zeta == 1:
		return 1 - math.Exp(-omega*t)*(1+omega*t)
	default:
		r := omega * math.Sqrt(zeta*zeta-1)
		r1 := -zeta*omega + r
		r2 := -zeta*omega - r
		return 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}
}

func (s SpringConfig) validate() error {
	if s.HasSimple() && s.HasAdvanced() {
		return fmt.Errorf("spring mixes simple (visualDuration, bounce) and advanced (stiffness, damping, mass) fields")
	}
	for key, v := range s.Map() {
		f := v.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("spring field %s must be finite", key)
		}
		if f < 0 {
			return fmt.Errorf("spring field %s must not be negative", key)
		}
	}
	return nil
}

// DecodeSpring converts a SpringConfig, a pointer to one, or a string-keyed mapping
// into a validated SpringConfig.
func DecodeSpring(v any) (SpringConfig, error) {
	var out SpringConfig
	switch t := v.(type) {
	case SpringConfig:
		out = t.Clone()
	case *SpringConfig:
		if t == nil {
			return out, fmt.Errorf("spring value is nil")
		}
		out = t.Clone()
	case map[string]any, map[string]float64, map[string]int:
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &out,
			ErrorUnused: true,
		})
		if err != nil {
			return out, err
		}
		if err := decoder.Decode(t); err != nil {
			return out, fmt.Errorf("decode spring: %w", err)
		}
	default:
		return out, fmt.Errorf("expected a spring mapping, got %T", v)
	}
	if err := out.validate(); err != nil {
		return SpringConfig{}, err
	}
	return out, nil
}

// SpringField describes one editable spring parameter.
type SpringField struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Step  float64
}

var (
	simpleFields = []SpringField{
		{Key: "visualDuration", Label: "Duration", Min: 0.1, Max: 1, Step: 0.05},
		{Key: "bounce", Label: "Bounce", Min: 0, Max: 1, Step: 0.05},
	}
	advancedFields = []SpringField{
		{Key: "stiffness", Label: "Stiffness", Min: 1, Max: 1000, Step: 10},
		{Key: "damping", Label: "Damping", Min: 1, Max: 100, Step: 1},
		{Key: "mass", Label: "Mass", Min: 0.1, Max: 10, Step: 0.1},
	}
)

// FieldsFor lists the parameters edited in mode.
func FieldsFor(mode SpringMode) []SpringField {
	if mode == SpringAdvanced {
		return advancedFields
	}
	return simpleFields
}

// Field returns the value of the named parameter, falling back to its default.
func (s SpringConfig) Field(key string) float64 {
	get := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}
	switch key {
	case "visualDuration":
		return get(s.VisualDuration, DefaultVisualDuration)
	case "bounce":
		return get(s.Bounce, DefaultBounce)
	case "stiffness":
		return get(s.Stiffness, DefaultStiffness)
	case "damping":
		return get(s.Damping, DefaultDamping)
	case "mass":
		return get(s.Mass, DefaultMass)
	}
	return 0
}

// WithField returns s converted to the mode owning key, with key set to v.
func (s SpringConfig) WithField(key string, v float64) SpringConfig {
	mode := SpringSimple
	for _, f := range advancedFields {
		if f.Key == key {
			mode = SpringAdvanced
		}
	}
	out := s.ToMode(mode)
	switch key {
	case "visualDuration":
		out.VisualDuration = Float(v)
	case "bounce":
		out.Bounce = Float(v)
	case "stiffness":
		out.Stiffness = Float(v)
	case "damping":
		out.Damping = Float(v)
	case "mass":
		out.Mass = Float(v)
	}
	return out
}
