package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tperrors "github.com/eminiarts/tweakpine/errors"
)

// Coerce clamps numeric input into [Min, Max]. Range tuples resolve to their
// first element.
func (n Number) Coerce(path string, v any) (Value, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("expected a number, got %T", v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, tperrors.InvalidValue(path, v, "number must be finite")
	}
	if n.Max > n.Min {
		f = math.Min(math.Max(f, n.Min), n.Max)
	}
	return f, nil
}

func (b Boolean) Coerce(path string, v any) (Value, error) {
	bv, ok := v.(bool)
	if !ok {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("expected a boolean, got %T", v))
	}
	return bv, nil
}

func (c Color) Coerce(path string, v any) (Value, error) {
	s, ok := v.(string)
	if !ok {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("expected a hex color string, got %T", v))
	}
	if !IsHexColor(s) {
		return nil, tperrors.InvalidValue(path, v, "expected #RGB, #RGBA, #RRGGBB or #RRGGBBAA")
	}
	return s, nil
}

func (s Select) Coerce(path string, v any) (Value, error) {
	str, ok := v.(string)
	if !ok {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("expected a string option, got %T", v))
	}
	if !s.HasOption(str) {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("'%s' is not one of the options", str))
	}
	return str, nil
}

// HasOption reports whether value is one of the select's options.
func (s Select) HasOption(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionIndex returns the position of value in the options, or -1.
func (s Select) OptionIndex(value string) int {
	for i, o := range s.Options {
		if o.Value == value {
			return i
		}
	}
	return -1
}

func (t Text) Coerce(path string, v any) (Value, error) {
	s, ok := v.(string)
	if !ok {
		return nil, tperrors.InvalidValue(path, v, fmt.Sprintf("expected a string, got %T", v))
	}
	return s, nil
}

func (s Spring) Coerce(path string, v any) (Value, error) {
	cfg, err := DecodeSpring(v)
	if err != nil {
		return nil, tperrors.InvalidValue(path, v, err.Error())
	}
	return cfg, nil
}

// CopyValue returns a copy of v that shares no mutable state with it.
func CopyValue(v Value) Value {
	switch t := v.(type) {
	case SpringConfig:
		return t.Clone()
	case *SpringConfig:
		if t == nil {
			return nil
		}
		return t.Clone()
	default:
		return v
	}
}

// RoundToStep snaps v to the nearest multiple of step and trims float noise to the
// step's precision.
func RoundToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	snapped := math.Round(v/step) * step
	pow := math.Pow(10, float64(StepDecimals(step)))
	return math.Round(snapped*pow) / pow
}

// StepDecimals returns the number of decimal places step is written with.
func StepDecimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.Index(s, "."); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case []float64:
		if len(t) == 0 {
			return 0, false
		}
		return t[0], true
	case []int:
		if len(t) == 0 {
			return 0, false
		}
		return float64(t[0]), true
	case []any:
		if len(t) == 0 {
			return 0, false
		}
		return toFloat(t[0])
	}
	return 0, false
}
