package reports

// Report variants: one generate -> render -> export pipeline with
// different figure sizes, DPI and styling

import (
	"errors"
	"fmt"

	"synthetic-charts/internal/dataset"
	"synthetic-charts/internal/features/charts"
)

var ErrUnknownVariant = errors.New("unknown variant")

const (
	VariantRevenue      = "revenue"
	VariantRevenueHiRes = "revenue-hires"
	VariantEngagement   = "engagement"
)

// Variant fixes everything about one chart except the seed and output dir.
type Variant struct {
	Name   string
	Kind   string // charts.KindLine or charts.KindHeatmap
	Output string // file name inside the output dir
	Size   charts.FigSize
	DPI    int
	Column string // plotted column, line charts only
	Style  charts.Style
}

// Pixels returns the exported image size.
func (v Variant) Pixels() (w, h int) {
	return v.Size.Pixels(v.DPI)
}

func revenueStyle() charts.Style {
	return charts.Style{
		Theme:        charts.ThemeWhiteGrid,
		Context:      charts.ContextTalk,
		Title:        "Monthly Revenue Trends (Synthetic Data)",
		TitleSize:    16,
		TitleBold:    true,
		XLabel:       "Month",
		YLabel:       "Revenue (USD)",
		LabelSize:    12,
		TickRotation: 45,
		Marker:       "o",
		LineWidth:    2.5,
		Color:        "steelblue",
		Palette:      charts.PaletteDeep,
	}
}

var variants = []Variant{
	{
		Name:   VariantRevenue,
		Kind:   charts.KindLine,
		Output: "chart.png",
		Size:   charts.FigSize{Width: 8, Height: 8},
		DPI:    64,
		Column: dataset.ColumnRevenue,
		Style:  revenueStyle(),
	},
	{
		Name:   VariantRevenueHiRes,
		Kind:   charts.KindLine,
		Output: "chart_hires.png",
		Size:   charts.FigSize{Width: 4, Height: 4},
		DPI:    128,
		Column: dataset.ColumnRevenue,
		Style: func() charts.Style {
			s := revenueStyle()
			s.Context = charts.ContextPaper
			s.TitleSize = 10
			s.LabelSize = 8
			s.LineWidth = 1.5
			return s
		}(),
	},
	{
		Name:   VariantEngagement,
		Kind:   charts.KindHeatmap,
		Output: "heatmap.png",
		Size:   charts.FigSize{Width: 5.12, Height: 5.12},
		DPI:    100,
		Style: charts.Style{
			Theme:        charts.ThemeWhite,
			Context:      charts.ContextPaper,
			Title:        "Customer Engagement Correlations",
			TitleSize:    11,
			TitleBold:    true,
			TickRotation: 45,
			Palette:      charts.PaletteCoolWarm,
			Annotate:     true,
		},
	},
}

// Variants lists every variant in render order.
func Variants() []Variant {
	return append([]Variant(nil), variants...)
}

// Names lists variant names in render order.
func Names() []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return names
}

func Lookup(name string) (Variant, error) {
	for _, v := range variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownVariant, name, Names())
}

// Select resolves names in order; no names means every variant.
func Select(names []string) ([]Variant, error) {
	if len(names) == 0 {
		return Variants(), nil
	}
	out := make([]Variant, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		v, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		seen[name] = true
		out = append(out, v)
	}
	return out, nil
}
