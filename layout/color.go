package layout

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"nocturne/types"
)

// StarStyle holds the derived visual identity of one artist star
type StarStyle struct {
	Hue        float64
	Sat        float64
	Color      types.RGB
	GlowColor  types.RGB
	RadiusInit float64
}

// ComputeColor derives a star's hue, saturation, base color, glow color
// and initial radius from the artist name. The function is pure: the same
// name always yields bit-identical results.
//
// The 2nd and 3rd characters drive the derivation; names shorter than
// three characters fall back to spaces, which is the documented baseline
// rather than an error.
func ComputeColor(name string) StarStyle {
	c1, c2 := byte(' '), byte(' ')
	if len(name) >= 3 {
		c1 = name[1]
		c2 = name[2]
	}

	total := clampPrintable(int(c1)) - 32 + clampPrintable(int(c2)) - 32
	phase := float64(total) / 190.0 * 5000.0

	hue := math.Sin(phase)*0.35 + 0.35
	sat := (1.0 - math.Sin((hue+0.15)*math.Pi)) * 0.75

	return StarStyle{
		Hue:        hue,
		Sat:        sat,
		Color:      hsvToRGB(hue, math.Max(sat, 0.5), 1.0),
		GlowColor:  hsvToRGB(hue, math.Min(sat+0.2, 1.0), 1.0),
		RadiusInit: 1.25 + (0.66 - hue),
	}
}

// clampPrintable clamps a byte value into the printable ASCII range
func clampPrintable(c int) int {
	if c < 32 {
		return 32
	}
	if c > 127 {
		return 127
	}
	return c
}

// hsvToRGB converts an HSV triple (hue in [0,1]) to a renderer RGB
func hsvToRGB(h, s, v float64) types.RGB {
	// go-colorful takes hue in degrees
	c := colorful.Hsv(math.Mod(h, 1.0)*360.0, s, v)
	return types.RGB{R: c.R, G: c.G, B: c.B}
}
