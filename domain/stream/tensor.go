package stream

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor is a dense row-major array of sampled values.
type Tensor struct {
	Shape Shape     `json:"shape"`
	Data  []float64 `json:"data"`
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(shape Shape) Tensor {
	return Tensor{Shape: shape.Clone(), Data: make([]float64, shape.Size())}
}

// Matrix views the tensor as a gonum matrix with one column per element of
// the last axis and one row per index of the leading axes. The matrix shares
// the tensor's backing data.
func (t Tensor) Matrix() (*mat.Dense, error) {
	if len(t.Shape) == 0 || len(t.Data) == 0 {
		return nil, fmt.Errorf("empty tensor has no matrix view")
	}
	width := t.Shape[len(t.Shape)-1]
	if width <= 0 || len(t.Data)%width != 0 {
		return nil, fmt.Errorf("tensor data of length %d does not fit shape %s", len(t.Data), t.Shape)
	}
	return mat.NewDense(len(t.Data)/width, width, t.Data), nil
}

// Rows splits the tensor along its last axis. Each row aliases the tensor's
// data.
func (t Tensor) Rows() [][]float64 {
	m, err := t.Matrix()
	if err != nil {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = m.RawRowView(i)
	}
	return rows
}
