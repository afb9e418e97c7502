package reduction

import (
	"fmt"
	"math"
)

// Matrix is a dense rows×cols projection matrix stored row-major.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix fills a rows×cols matrix with independent samples from
// U(-1/√cols, +1/√cols). A nil src falls back to the process-wide generator.
func NewMatrix(rows, cols int, src Source) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: matrix shape %dx%d", ErrInvalidInput, rows, cols)
	}
	if src == nil {
		src = globalSource{}
	}

	scale := 1 / math.Sqrt(float64(cols))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (src.Float64()*2 - 1) * scale
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// Rows is the output dimension.
func (m *Matrix) Rows() int { return m.rows }

// Cols is the expected input dimension.
func (m *Matrix) Cols() int { return m.cols }

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 { return m.data[i*m.cols+j] }

// Apply computes m·vec. Sums are accumulated in float64.
func (m *Matrix) Apply(vec []float32) ([]float32, error) {
	if len(vec) != m.cols {
		return nil, fmt.Errorf("%w: vector length %d does not match matrix columns %d", ErrInvalidInput, len(vec), m.cols)
	}
	if err := checkFinite(vec); err != nil {
		return nil, err
	}

	out := make([]float32, m.rows)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		var sum float64
		for j, v := range vec {
			sum += row[j] * float64(v)
		}
		out[i] = float32(sum)
	}
	return out, nil
}
