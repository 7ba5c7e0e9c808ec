package charts

import (
	"fmt"
	"image/color"
	"math"

	"synthetic-charts/internal/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

const KindHeatmap = "heatmap"

const (
	heatmapColors = 255
	// darker cells than this get white annotation text
	annotationLuminance = 0.408
)

// matrixGrid exposes a correlation matrix as a heat map grid.
// Column c of the grid is matrix column c; row r is matrix row r.
type matrixGrid struct {
	m *stats.Matrix
}

func (g matrixGrid) Dims() (c, r int)   { n := g.m.Size(); return n, n }
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }
func (g matrixGrid) Min() float64       { return -1 }
func (g matrixGrid) Max() float64       { return 1 }

// Heatmap draws the matrix as a colored grid over [-1, 1] with the first
// column at the top left, and a color bar beside it.
func Heatmap(m *stats.Matrix, style Style) (*Chart, error) {
	if style.Palette == "" {
		style.Palette = PaletteCoolWarm
	}
	r, err := style.resolve()
	if err != nil {
		return nil, err
	}
	if m == nil || m.Size() == 0 {
		return nil, fmt.Errorf("%w: empty correlation matrix", ErrNoData)
	}

	cmap, err := ColorMap(r.Palette, -1, 1)
	if err != nil {
		return nil, err
	}
	pal := cmap.Palette(heatmapColors)

	h := plotter.NewHeatMap(matrixGrid{m: m}, pal)
	h.Min, h.Max = -1, 1
	h.NaN = color.Gray{Y: 200}

	p := plot.New()
	applyAxes(p, r)
	p.Add(h)

	if r.Annotate {
		labels, err := annotations(m, pal.Colors(), r)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	names := m.Names()
	p.NominalX(names...)
	p.NominalY(names...)
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.X.Padding = 0
	p.Y.Padding = 0
	if r.TickRotation != 0 {
		p.X.Tick.Label.Rotation = r.tickRadians()
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YTop
	}

	bar, err := colorBar(r)
	if err != nil {
		return nil, err
	}

	return &Chart{Kind: KindHeatmap, main: p, side: bar, frame: color.White}, nil
}

func annotations(m *stats.Matrix, pal []color.Color, r *resolved) (*plotter.Labels, error) {
	n := m.Size()
	xyl := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: float64(col), Y: float64(row)})
			xyl.Labels = append(xyl.Labels, fmt.Sprintf(r.AnnotationFormat, m.At(row, col)))
		}
	}

	labels, err := plotter.NewLabels(xyl)
	if err != nil {
		return nil, fmt.Errorf("failed to build annotations: %w", err)
	}
	for i := range labels.TextStyle {
		v := m.At(i/n, i%n)
		labels.TextStyle[i].Font = sansFont(r.annotSize, false)
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Color = annotationColor(cellColor(pal, -1, 1, v))
	}
	return labels, nil
}

func colorBar(r *resolved) (*plot.Plot, error) {
	cm, err := ColorMap(r.Palette, -1, 1)
	if err != nil {
		return nil, err
	}

	bar := plot.New()
	bar.BackgroundColor = color.White
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})
	bar.HideX()
	bar.X.Padding = 0
	bar.Y.Padding = 0
	bar.Y.Tick.Label.Font = sansFont(r.tickSize, false)
	bar.Y.Color = r.theme.axesColor
	return bar, nil
}

// cellColor mirrors the heat map's value to palette index mapping.
func cellColor(pal []color.Color, min, max, v float64) color.Color {
	if len(pal) == 0 || math.IsNaN(v) {
		return color.White
	}
	i := int((v-min)*float64(len(pal)-1)/(max-min) + 0.5)
	if i < 0 {
		i = 0
	}
	if i >= len(pal) {
		i = len(pal) - 1
	}
	return pal[i]
}

func annotationColor(bg color.Color) color.Color {
	if relativeLuminance(bg) > annotationLuminance {
		return color.Black
	}
	return color.White
}

// relativeLuminance follows the sRGB definition.
func relativeLuminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	lin := func(v uint32) float64 {
		s := float64(v) / 0xffff
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(r) + 0.7152*lin(g) + 0.0722*lin(b)
}
