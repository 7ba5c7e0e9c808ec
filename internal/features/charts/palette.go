package charts

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// Palette names.
const (
	PaletteCoolWarm  = "coolwarm"
	PaletteRdBu      = "RdBu"
	PaletteYlGnBu    = "YlGnBu"
	PaletteBlackBody = "blackbody"
	PaletteKindlmann = "kindlmann"
	PaletteDeep      = "deep"
)

// deepColors is the default qualitative cycle.
var deepColors = []color.Color{
	color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
	color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff},
	color.RGBA{R: 0x55, G: 0xa8, B: 0x68, A: 0xff},
	color.RGBA{R: 0xc4, G: 0x4e, B: 0x52, A: 0xff},
	color.RGBA{R: 0x81, G: 0x72, B: 0xb3, A: 0xff},
	color.RGBA{R: 0x93, G: 0x78, B: 0x60, A: 0xff},
	color.RGBA{R: 0xda, G: 0x8b, B: 0xc3, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x8c, B: 0x8c, A: 0xff},
	color.RGBA{R: 0xcc, G: 0xb9, B: 0x74, A: 0xff},
	color.RGBA{R: 0x64, G: 0xb5, B: 0xcd, A: 0xff},
}

// palettes builds a fresh color map per call; ColorMaps are mutable.
var palettes = map[string]func() (palette.ColorMap, error){
	PaletteCoolWarm: func() (palette.ColorMap, error) {
		return moreland.SmoothBlueRed(), nil
	},
	PaletteBlackBody: func() (palette.ColorMap, error) {
		return moreland.BlackBody(), nil
	},
	PaletteKindlmann: func() (palette.ColorMap, error) {
		return moreland.Kindlmann(), nil
	},
	PaletteRdBu: func() (palette.ColorMap, error) {
		return brewerMap(PaletteRdBu, 11)
	},
	PaletteYlGnBu: func() (palette.ColorMap, error) {
		return brewerMap(PaletteYlGnBu, 9)
	},
	PaletteDeep: func() (palette.ColorMap, error) {
		return newStepMap(deepColors), nil
	},
}

// Palettes lists the known palette names.
func Palettes() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorMap returns the named palette scaled to [min, max].
func ColorMap(name string, min, max float64) (palette.ColorMap, error) {
	build, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPalette, name, Palettes())
	}
	cmap, err := build()
	if err != nil {
		return nil, err
	}
	cmap.SetMin(min)
	cmap.SetMax(max)
	return cmap, nil
}

// Cycle returns n colors for distinct series. The qualitative palette repeats;
// continuous palettes are sampled evenly.
func Cycle(name string, n int) ([]color.Color, error) {
	if n <= 0 {
		return nil, nil
	}
	if name == PaletteDeep {
		out := make([]color.Color, n)
		for i := range out {
			out[i] = deepColors[i%len(deepColors)]
		}
		return out, nil
	}
	cmap, err := ColorMap(name, 0, 1)
	if err != nil {
		return nil, err
	}
	if n == 1 {
		c, err := cmap.At(0)
		if err != nil {
			return nil, err
		}
		return []color.Color{c}, nil
	}
	return cmap.Palette(n).Colors(), nil
}

func brewerMap(name string, n int) (palette.ColorMap, error) {
	p, err := brewer.GetPalette(brewer.TypeAny, name, n)
	if err != nil {
		return nil, fmt.Errorf("failed to load brewer palette %s: %w", name, err)
	}
	return newStepMap(p.Colors()), nil
}

// stepMap is a ColorMap over a fixed list of colors, one equal-width band each.
type stepMap struct {
	colors   []color.Color
	min, max float64
	alpha    float64
}

func newStepMap(colors []color.Color) *stepMap {
	return &stepMap{colors: colors, min: 0, max: 1, alpha: 1}
}

func (m *stepMap) At(v float64) (color.Color, error) {
	if v < m.min || v > m.max {
		return nil, fmt.Errorf("charts: value %v out of range [%v, %v]", v, m.min, m.max)
	}
	n := len(m.colors)
	i := int((v - m.min) / (m.max - m.min) * float64(n))
	if i >= n {
		i = n - 1
	}
	return m.withAlpha(m.colors[i]), nil
}

func (m *stepMap) withAlpha(c color.Color) color.Color {
	if m.alpha >= 1 {
		return c
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(float64(nc.A) * m.alpha)
	return nc
}

func (m *stepMap) Max() float64     { return m.max }
func (m *stepMap) SetMax(v float64) { m.max = v }
func (m *stepMap) Min() float64     { return m.min }
func (m *stepMap) SetMin(v float64) { m.min = v }
func (m *stepMap) Alpha() float64   { return m.alpha }

func (m *stepMap) SetAlpha(a float64) {
	if a < 0 || a > 1 {
		panic(fmt.Sprintf("charts: invalid alpha %v", a))
	}
	m.alpha = a
}

func (m *stepMap) Palette(n int) palette.Palette {
	if n <= 0 {
		return colorList(nil)
	}
	out := make(colorList, n)
	if n == 1 {
		out[0] = m.withAlpha(m.colors[0])
		return out
	}
	step := (m.max - m.min) / float64(n-1)
	for i := range out {
		c, _ := m.At(m.min + step*float64(i))
		if c == nil {
			c = m.withAlpha(m.colors[len(m.colors)-1])
		}
		out[i] = c
	}
	return out
}

type colorList []color.Color

func (l colorList) Colors() []color.Color { return l }
