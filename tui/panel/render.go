package panel

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/eminiarts/tweakpine/schema"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the step response of spring over its settle time.
func Sparkline(spring schema.SpringConfig, mode schema.SpringMode, width int) string {
	if width <= 0 {
		return ""
	}
	span := settleTime(spring, mode)
	samples := make([]float64, width)
	peak := 1.0
	for i := range samples {
		t := span * float64(i+1) / float64(width)
		samples[i] = spring.Evaluate(t, mode)
		peak = math.Max(peak, samples[i])
	}

	out := make([]rune, width)
	top := float64(len(sparkBlocks) - 1)
	for i, v := range samples {
		level := int(math.Round(math.Max(v, 0) / peak * top))
		out[i] = sparkBlocks[clamp(level, 0, len(sparkBlocks)-1)]
	}
	return string(out)
}

// settleTime estimates how long the spring takes to come to rest.
func settleTime(spring schema.SpringConfig, mode schema.SpringMode) float64 {
	k, c, mass := spring.Physics(mode)
	if k <= 0 || mass <= 0 {
		return 1
	}
	omega := math.Sqrt(k / mass)
	zeta := c / (2 * math.Sqrt(k*mass))
	span := 6 / omega
	if zeta > 0 && zeta < 1 {
		span = 5 / (zeta * omega)
	}
	return math.Min(math.Max(span, 0.2), 3)
}

func sliderFill(v, min, max float64, width int) int {
	if max <= min {
		return 0
	}
	frac := (v - min) / (max - min)
	return clamp(int(math.Round(frac*float64(width))), 0, width)
}

func formatNumber(v, step float64) string {
	return strconv.FormatFloat(v, 'f', schema.StepDecimals(step), 64)
}

// SwatchColors returns the background of a color swatch and a foreground that
// stays readable on it.
func SwatchColors(hex string) (bg, fg string, ok bool) {
	if !schema.IsHexColor(hex) {
		return "", "", false
	}
	full := schema.ExpandHex(hex)
	c, err := colorful.Hex(full[:7])
	if err != nil {
		return "", "", false
	}
	l, _, _ := c.Lab()
	fg = "#ffffff"
	if l > 0.6 {
		fg = "#000000"
	}
	return c.Hex(), fg, true
}
