package stats

// Pairwise Pearson correlation over table columns

import (
	"math"

	"synthetic-charts/internal/dataset"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Matrix is a square correlation matrix keyed by column name on both axes.
type Matrix struct {
	names []string
	sym   *mat.SymDense
}

// Correlate computes the Pearson correlation between every pair of columns.
// Zero-variance columns correlate 0 with everything else and 1 with themselves.
func Correlate(t *dataset.Table) *Matrix {
	names := t.Names()
	n := len(names)
	if n == 0 {
		return &Matrix{}
	}

	sym := mat.NewSymDense(n, nil)
	rows := t.Rows()
	if rows < 2 {
		for i := 0; i < n; i++ {
			sym.SetSym(i, i, 1)
		}
		return &Matrix{names: names, sym: sym}
	}

	data := mat.NewDense(rows, n, nil)
	for j, name := range names {
		col, _ := t.Column(name)
		data.SetCol(j, col)
	}

	stat.CorrelationMatrix(sym, data, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				sym.SetSym(i, j, 1)
				continue
			}
			v := sym.At(i, j)
			if math.IsNaN(v) {
				sym.SetSym(i, j, 0)
				continue
			}
			// rounding can push |r| a hair past 1
			sym.SetSym(i, j, math.Max(-1, math.Min(1, v)))
		}
	}

	return &Matrix{names: names, sym: sym}
}

// Size returns the number of columns on each axis.
func (m *Matrix) Size() int { return len(m.names) }

// Names returns the axis labels.
func (m *Matrix) Names() []string {
	return append([]string(nil), m.names...)
}

// At returns the coefficient for columns i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.sym.At(i, j)
}

// Get returns the coefficient for two named columns.
func (m *Matrix) Get(a, b string) (float64, bool) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.At(i, j), true
}

// Rows returns the matrix as a row-major slice of slices.
func (m *Matrix) Rows() [][]float64 {
	n := m.Size()
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func (m *Matrix) indexOf(name string) int {
	for i, n := range m.names {
		if n == name {
			return i
		}
	}
	return -1
}
