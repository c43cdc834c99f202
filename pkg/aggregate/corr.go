package aggregate

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/amruakhi/eda-analysis/pkg/data"
	"github.com/amruakhi/eda-analysis/pkg/stats"
)

// CorrMatrix holds Pearson coefficients between numeric columns.
type CorrMatrix struct {
	Names []string
	sym   *mat.SymDense
}

// Len returns the number of columns in the matrix.
func (c *CorrMatrix) Len() int { return len(c.Names) }

// At returns the coefficient between the i-th and j-th column.
func (c *CorrMatrix) At(i, j int) float64 { return c.sym.At(i, j) }

// Get returns the coefficient between two named columns.
func (c *CorrMatrix) Get(a, b string) (float64, bool) {
	i, j := c.index(a), c.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return c.At(i, j), true
}

func (c *CorrMatrix) index(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Correlation computes the Pearson correlation between every pair of numeric
// columns using pairwise complete observations. The diagonal is 1 for columns
// with nonzero variance and NaN otherwise.
func Correlation(t *data.Table) (*CorrMatrix, error) {
	names := t.NumericColumns()
	if len(names) == 0 {
		return &CorrMatrix{}, nil
	}

	cols := make([][]float64, len(names))
	for i, name := range names {
		v, err := t.Floats(name)
		if err != nil {
			return nil, err
		}
		cols[i] = v
	}

	sym := mat.NewSymDense(len(names), nil)
	for i := range cols {
		for j := i; j < len(cols); j++ {
			var r float64
			if i == j {
				r = selfCorrelation(cols[i])
			} else {
				r = stats.Correlation(cols[i], cols[j])
			}
			sym.SetSym(i, j, r)
		}
	}
	return &CorrMatrix{Names: names, sym: sym}, nil
}

func selfCorrelation(x []float64) float64 {
	f := stats.Finite(x)
	if len(f) < 2 || stats.Constant(f) {
		return math.NaN()
	}
	return 1
}
