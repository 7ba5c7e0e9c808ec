package charts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"synthetic-charts/internal/infra/fs"
	"synthetic-charts/internal/infra/log"

	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrInvalidSize = errors.New("figure size and dpi must be positive")

// fileWaitTimeout bounds how long Export waits for the PNG to show up on disk.
const fileWaitTimeout = 5 * time.Second

// FigSize is a figure size in inches.
type FigSize struct {
	Width  float64
	Height float64
}

// Pixels returns the raster size at dpi, rounded the way the canvas rounds.
func (s FigSize) Pixels(dpi int) (w, h int) {
	return int(s.Width*float64(dpi) + 0.5), int(s.Height*float64(dpi) + 0.5)
}

func (s FigSize) String() string {
	return fmt.Sprintf("%gx%gin", s.Width, s.Height)
}

// Output describes a written image.
type Output struct {
	Path   string
	Width  int
	Height int
	Bytes  int64
}

// Export rasterizes chart at size x dpi and writes it to path as PNG,
// replacing any existing file. The chart is released whatever the outcome.
func Export(ctx context.Context, chart *Chart, path string, size FigSize, dpi int) (*Output, error) {
	defer chart.Release()

	if size.Width <= 0 || size.Height <= 0 || dpi <= 0 {
		return nil, fmt.Errorf("%w: %s at %d dpi", ErrInvalidSize, size, dpi)
	}
	if chart.Released() {
		return nil, ErrChartReleased
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(size.Width)*vg.Inch, vg.Length(size.Height)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	if err := chart.Draw(draw.New(canvas)); err != nil {
		return nil, err
	}

	img := canvas.Image()
	dc := gg.NewContextForImage(img)
	if err := dc.SavePNG(path); err != nil {
		return nil, fmt.Errorf("failed to save chart: %w", err)
	}

	info, err := fs.WaitForFile(ctx, path, fileWaitTimeout)
	if err != nil {
		return nil, fmt.Errorf("chart file was not written: %w", err)
	}

	bounds := img.Bounds()
	out := &Output{
		Path:   path,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Bytes:  info.Size(),
	}

	log.LogInfo("Chart saved",
		zap.String("path", path),
		zap.String("kind", chart.Kind),
		zap.Int("width", out.Width),
		zap.Int("height", out.Height),
		zap.Int("dpi", dpi),
		zap.Bool("color_bar", chart.HasSidePanel()),
		zap.String("size", humanize.Bytes(uint64(out.Bytes))))

	return out, nil
}
