package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrUnknownContext = errors.New("unknown context")
	ErrUnknownMarker  = errors.New("unknown marker")
	ErrUnknownColor   = errors.New("unknown color")
	ErrUnknownPalette = errors.New("unknown palette")
)

// Theme names.
const (
	ThemeWhiteGrid = "whitegrid"
	ThemeDarkGrid  = "darkgrid"
	ThemeWhite     = "white"
	ThemeTicks     = "ticks"
)

// Context names and their font/line scale.
const (
	ContextPaper    = "paper"
	ContextNotebook = "notebook"
	ContextTalk     = "talk"
	ContextPoster   = "poster"
)

var contextScales = map[string]float64{
	ContextPaper:    0.8,
	ContextNotebook: 1.0,
	ContextTalk:     1.5,
	ContextPoster:   2.0,
}

// Base sizes at the notebook context, in points.
const (
	baseTitleSize  = 12.0
	baseLabelSize  = 11.0
	baseTickSize   = 10.0
	baseLineWidth  = 1.5
	baseMarkerSize = 3.0
	baseAnnotSize  = 8.0
)

// Style is the full set of display options a chart understands.
// Zero values fall back to the theme and context defaults.
type Style struct {
	Theme   string // whitegrid, darkgrid, white, ticks
	Context string // paper, notebook, talk, poster

	Title     string
	TitleSize float64 // points; scaled from the context when 0
	TitleBold bool

	XLabel    string
	YLabel    string
	LabelSize float64 // points; scaled from the context when 0

	TickRotation float64 // X tick labels, degrees counterclockwise

	Marker    string  // o s ^ D x + or empty for none
	LineWidth float64 // points
	Color     string  // CSS color name or #rrggbb; first palette color when empty
	Palette   string  // coolwarm, RdBu, YlGnBu, blackbody, kindlmann, deep

	Annotate         bool
	AnnotationFormat string // "%.2f" when empty
}

// resolved is a Style with every default applied and names looked up.
type resolved struct {
	Style

	scale      float64
	titleSize  vg.Length
	labelSize  vg.Length
	tickSize   vg.Length
	annotSize  vg.Length
	lineWidth  vg.Length
	markerSize vg.Length
	marker     draw.GlyphDrawer
	color      color.Color
	theme      themeSpec
}

type themeSpec struct {
	grid       bool
	gridColor  color.Color
	axesColor  color.Color // spines
	background color.Color // data area
	ticks      bool
}

var themes = map[string]themeSpec{
	ThemeWhiteGrid: {
		grid:       true,
		gridColor:  color.Gray{Y: 204},
		axesColor:  color.Gray{Y: 204},
		background: color.White,
	},
	ThemeDarkGrid: {
		grid:       true,
		gridColor:  color.White,
		axesColor:  color.RGBA{R: 234, G: 234, B: 242, A: 255},
		background: color.RGBA{R: 234, G: 234, B: 242, A: 255},
	},
	ThemeWhite: {
		axesColor:  color.Gray{Y: 38},
		background: color.White,
	},
	ThemeTicks: {
		axesColor:  color.Gray{Y: 38},
		background: color.White,
		ticks:      true,
	},
}

func (s Style) resolve() (*resolved, error) {
	r := &resolved{Style: s}

	if r.Theme == "" {
		r.Theme = ThemeWhiteGrid
	}
	theme, ok := themes[r.Theme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, r.Theme)
	}
	r.theme = theme

	if r.Context == "" {
		r.Context = ContextNotebook
	}
	scale, ok := contextScales[r.Context]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContext, r.Context)
	}
	r.scale = scale

	r.titleSize = pointsOr(s.TitleSize, baseTitleSize*scale)
	r.labelSize = pointsOr(s.LabelSize, baseLabelSize*scale)
	r.tickSize = vg.Points(baseTickSize * scale)
	r.annotSize = vg.Points(baseAnnotSize * scale)
	r.lineWidth = pointsOr(s.LineWidth, baseLineWidth*scale)
	r.markerSize = vg.Points(baseMarkerSize * scale)

	marker, err := parseMarker(s.Marker)
	if err != nil {
		return nil, err
	}
	r.marker = marker

	if r.Palette == "" {
		r.Palette = PaletteDeep
	}
	if _, ok := palettes[r.Palette]; !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPalette, r.Palette, Palettes())
	}

	if s.Color != "" {
		c, err := ParseColor(s.Color)
		if err != nil {
			return nil, err
		}
		r.color = c
	} else {
		cycle, err := Cycle(r.Palette, 1)
		if err != nil {
			return nil, err
		}
		r.color = cycle[0]
	}

	if r.AnnotationFormat == "" {
		r.AnnotationFormat = "%.2f"
	}
	return r, nil
}

func pointsOr(v, fallback float64) vg.Length {
	if v > 0 {
		return vg.Points(v)
	}
	return vg.Points(fallback)
}

// tickRadians converts the rotation to radians.
func (r *resolved) tickRadians() float64 {
	return r.TickRotation * math.Pi / 180
}

func parseMarker(m string) (draw.GlyphDrawer, error) {
	switch m {
	case "":
		return nil, nil
	case "o":
		return draw.CircleGlyph{}, nil
	case "s":
		return draw.SquareGlyph{}, nil
	case "^":
		return draw.TriangleGlyph{}, nil
	case "D":
		return diamondGlyph{}, nil
	case "x":
		return draw.CrossGlyph{}, nil
	case "+":
		return draw.PlusGlyph{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMarker, m)
	}
}

// diamondGlyph is a filled square rotated 45 degrees.
type diamondGlyph struct{}

func (diamondGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	var p vg.Path
	p.Move(vg.Point{X: pt.X, Y: pt.Y + sty.Radius})
	p.Line(vg.Point{X: pt.X + sty.Radius, Y: pt.Y})
	p.Line(vg.Point{X: pt.X, Y: pt.Y - sty.Radius})
	p.Line(vg.Point{X: pt.X - sty.Radius, Y: pt.Y})
	p.Close()
	c.Fill(p)
}

// ParseColor accepts a CSS color name (case-insensitive) or #rrggbb.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		var r, g, b uint8
		if _, err := fmt.Sscanf(name, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 255}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
