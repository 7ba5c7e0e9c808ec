package charts

// Rendered charts: one main plot plus an optional side panel (color bar)

import (
	"errors"
	"image/color"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrChartReleased = errors.New("chart already released")

// sidePanelFraction is the share of the canvas width given to a side panel.
const sidePanelFraction = 0.14

// Chart is a rendered chart waiting to be exported. It is released by Export.
type Chart struct {
	Kind string

	main  *plot.Plot
	side  *plot.Plot
	frame color.Color
}

// Plot returns the main panel, or nil after Release.
func (c *Chart) Plot() *plot.Plot { return c.main }

// HasSidePanel reports whether a color bar is drawn next to the main plot.
func (c *Chart) HasSidePanel() bool { return c.side != nil }

// Released reports whether Release has run.
func (c *Chart) Released() bool { return c == nil || c.main == nil }

// Release drops the plots so their data can be collected. Safe to call twice.
func (c *Chart) Release() {
	if c == nil {
		return
	}
	c.main = nil
	c.side = nil
}

// Draw renders the chart onto dc.
func (c *Chart) Draw(dc draw.Canvas) error {
	if c.Released() {
		return ErrChartReleased
	}

	if c.frame != nil {
		dc.SetColor(c.frame)
		dc.Fill(dc.Rectangle.Path())
	}

	if !c.HasSidePanel() {
		c.main.Draw(dc)
		return nil
	}

	main, side := c.panels(dc)
	c.main.Draw(main)
	c.side.Draw(side)
	return nil
}

// panels splits dc into the main plot and a side panel on the right.
// The side panel spans exactly the main plot's data area vertically.
func (c *Chart) panels(dc draw.Canvas) (main, side draw.Canvas) {
	width := dc.Max.X - dc.Min.X
	sideWidth := width * sidePanelFraction
	main = draw.Crop(dc, 0, -sideWidth, 0, 0)

	data := c.main.DataCanvas(main)
	side = draw.Crop(dc, width-sideWidth, 0, data.Min.Y-dc.Min.Y, data.Max.Y-dc.Max.Y)
	return main, side
}

// background fills the data area only, leaving the margins to the plot color.
type background struct {
	color color.Color
}

func (b background) Plot(c draw.Canvas, _ *plot.Plot) {
	if b.color == nil {
		return
	}
	c.SetColor(b.color)
	c.Fill(c.Rectangle.Path())
}

// applyAxes styles both axes and the title for the resolved style.
func applyAxes(p *plot.Plot, r *resolved) {
	p.BackgroundColor = color.White

	p.Title.Text = r.Title
	p.Title.Padding = r.titleSize / 2
	p.Title.TextStyle.Font = sansFont(r.titleSize, r.TitleBold)

	p.X.Label.Text = r.XLabel
	p.Y.Label.Text = r.YLabel
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font = sansFont(r.labelSize, false)
		ax.Tick.Label.Font = sansFont(r.tickSize, false)
		ax.Color = r.theme.axesColor
		ax.Width = vg.Points(0.8 * r.scale)
		ax.Tick.Color = r.theme.axesColor
		if r.theme.ticks {
			ax.Tick.Length = vg.Points(3.5 * r.scale)
		} else {
			ax.Tick.Length = 0
		}
	}
}

func sansFont(size vg.Length, bold bool) font.Font {
	f := font.Font{Typeface: "Liberation", Variant: "Sans", Size: size}
	if bold {
		f.Weight = xfont.WeightBold
	}
	return f
}
