package charts

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"synthetic-charts/internal/dataset"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("no data to plot")

const KindLine = "line"

// LineChart plots one column against the table's row labels.
// Rows without labels are numbered from 1.
func LineChart(t *dataset.Table, column string, style Style) (*Chart, error) {
	r, err := style.resolve()
	if err != nil {
		return nil, err
	}

	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: column %q is empty", ErrNoData, column)
	}

	labels := t.Index()
	if labels == nil {
		labels = make([]string, len(values))
		for i := range labels {
			labels[i] = strconv.Itoa(i + 1)
		}
	}

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}

	p := plot.New()
	applyAxes(p, r)
	p.Add(background{color: r.theme.background})

	if r.theme.grid {
		grid := plotter.NewGrid()
		grid.Vertical.Color = r.theme.gridColor
		grid.Vertical.Width = r.lineWidth / 3
		grid.Horizontal = grid.Vertical
		p.Add(grid)
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("failed to build line: %w", err)
	}
	line.LineStyle.Color = r.color
	line.LineStyle.Width = r.lineWidth
	p.Add(line)

	if r.marker != nil {
		points, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build markers: %w", err)
		}
		points.GlyphStyle = draw.GlyphStyle{
			Color:  r.color,
			Radius: r.markerSize,
			Shape:  r.marker,
		}
		p.Add(points)
	}

	p.NominalX(labels...)
	p.X.Width = p.Y.Width // NominalX hides the axis line
	if r.TickRotation != 0 {
		p.X.Tick.Label.Rotation = r.tickRadians()
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YTop
	}
	p.Y.Tick.Marker = plot.TickerFunc(commaTicks)

	return &Chart{Kind: KindLine, main: p, frame: p.BackgroundColor}, nil
}

// commaTicks labels the default ticks with thousands separators.
func commaTicks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = humanize.Comma(int64(math.Round(ticks[i].Value)))
	}
	return ticks
}
