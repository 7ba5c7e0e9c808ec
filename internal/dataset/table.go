package dataset

// Labeled tables of float series
// Columns keep insertion order, rows keep generation order

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch  = errors.New("column lengths do not match")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Series is one value per month or per synthetic sample.
type Series []float64

// Clone returns a copy that does not share the backing array.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Column is a named series used to assemble a Table.
type Column struct {
	Name   string
	Values Series
}

// Table maps column names to equal-length series.
type Table struct {
	index   []string
	names   []string
	columns map[string]Series
	rows    int
}

// NewTable zips columns into a table. index holds optional row labels and,
// when non-empty, must match the column length too.
func NewTable(index []string, columns ...Column) (*Table, error) {
	t := &Table{
		columns: make(map[string]Series, len(columns)),
		rows:    -1,
	}

	if len(index) > 0 {
		t.index = append([]string(nil), index...)
		t.rows = len(index)
	}

	for _, col := range columns {
		if _, exists := t.columns[col.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if t.rows == -1 {
			t.rows = len(col.Values)
		}
		if len(col.Values) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrLengthMismatch, col.Name, len(col.Values), t.rows)
		}
		t.names = append(t.names, col.Name)
		t.columns[col.Name] = col.Values.Clone()
	}

	if t.rows == -1 {
		t.rows = 0
	}
	return t, nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Names returns column names in insertion order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Index returns the row labels, or nil when the table has none.
func (t *Table) Index() []string {
	if t.index == nil {
		return nil
	}
	return append([]string(nil), t.index...)
}

// Column returns a copy of the named series.
func (t *Table) Column(name string) (Series, error) {
	s, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return s.Clone(), nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.names))
	for j, name := range t.names {
		row[j] = t.columns[name][i]
	}
	return row
}
