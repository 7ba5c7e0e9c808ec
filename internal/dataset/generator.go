package dataset

// Deterministic synthetic business metrics
// Same seed, same draw order -> bit-identical series

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultSeed = 42

	RevenueMonths  = 12
	EngagementRows = 300

	revenueStart    = 20000.0
	revenueEnd      = 35000.0
	seasonAmplitude = 3000.0
	revenueNoiseStd = 1000.0
)

// pcgStream is the fixed PCG increment; only the seed varies between runs.
const pcgStream uint64 = 0x9e3779b97f4a7c15

// Column names of the generated tables.
const (
	ColumnMonth            = "Month"
	ColumnRevenue          = "Revenue"
	ColumnOpenRate         = "Open Rate"
	ColumnClickThroughRate = "Click-Through Rate"
	ColumnBounceRate       = "Bounce Rate"
	ColumnConversionRate   = "Conversion Rate"
	ColumnSessionDuration  = "Session Duration (s)"
	ColumnPagesPerSession  = "Pages per Session"
)

// Metric describes one engagement column: a normal draw, optionally clipped to [0,1].
type Metric struct {
	Name   string
	Mean   float64
	Std    float64
	IsRate bool
}

// EngagementMetrics lists the engagement columns in table order.
var EngagementMetrics = []Metric{
	{Name: ColumnOpenRate, Mean: 0.22, Std: 0.06, IsRate: true},
	{Name: ColumnClickThroughRate, Mean: 0.035, Std: 0.015, IsRate: true},
	{Name: ColumnBounceRate, Mean: 0.45, Std: 0.10, IsRate: true},
	{Name: ColumnConversionRate, Mean: 0.025, Std: 0.01, IsRate: true},
	{Name: ColumnSessionDuration, Mean: 180, Std: 60},
	{Name: ColumnPagesPerSession, Mean: 4.5, Std: 1.5},
}

// Generator draws every series from a single seeded source, so the order of
// calls is part of the output.
type Generator struct {
	seed uint64
	src  rand.Source
}

func NewGenerator(seed uint64) *Generator {
	return &Generator{
		seed: seed,
		src:  rand.NewPCG(seed, pcgStream),
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 { return g.seed }

// Normal draws n samples from N(mu, sigma).
func (g *Generator) Normal(n int, mu, sigma float64) Series {
	dist := distuv.Normal{Mu: mu, Sigma: sigma, Src: g.src}
	out := make(Series, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// Revenue returns a linear ramp plus one seasonal sine period plus Gaussian noise.
func (g *Generator) Revenue(n int) Series {
	base := Linspace(revenueStart, revenueEnd, n)
	phase := Linspace(0, 2*math.Pi, n)
	noise := g.Normal(n, 0, revenueNoiseStd)

	out := make(Series, n)
	for i := range out {
		out[i] = base[i] + seasonAmplitude*math.Sin(phase[i]) + noise[i]
	}
	return out
}

// RevenueTable is the monthly revenue table indexed by month name.
func (g *Generator) RevenueTable() (*Table, error) {
	months := MonthLabels(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), RevenueMonths)
	return NewTable(months, Column{Name: ColumnRevenue, Values: g.Revenue(RevenueMonths)})
}

// EngagementTable draws rows samples for each engagement metric.
func (g *Generator) EngagementTable(rows int) (*Table, error) {
	cols := make([]Column, 0, len(EngagementMetrics))
	for _, m := range EngagementMetrics {
		values := g.Normal(rows, m.Mean, m.Std)
		if m.IsRate {
			Clip(values, 0, 1)
		}
		cols = append(cols, Column{Name: m.Name, Values: values})
	}
	return NewTable(nil, cols...)
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) Series {
	switch {
	case n <= 0:
		return Series{}
	case n == 1:
		return Series{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Clip limits every value of s to [lo, hi] in place.
func Clip(s Series, lo, hi float64) {
	for i, v := range s {
		s[i] = math.Min(math.Max(v, lo), hi)
	}
}

// MonthLabels returns n month-end dates starting at the month of start,
// formatted as abbreviated month names.
func MonthLabels(start time.Time, n int) []string {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	labels := make([]string, n)
	for i := range labels {
		monthEnd := first.AddDate(0, i+1, -1)
		labels[i] = monthEnd.Format("Jan")
	}
	return labels
}
