package camgeom

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mat3x3 is a 3x3 matrix (represented as a 2D array) such as a camera matrix
// or a rectification rotation. Indices are [row][column].
type Mat3x3 [3][3]float64

// Mat3x4 is a 3x4 projection matrix. Indices are [row][column].
type Mat3x4 [3][4]float64

// Mat4x4 is a 4x4 matrix such as the stereo reprojection matrix Q.
// Indices are [row][column].
type Mat4x4 [4][4]float64

// NewMat3x3 builds a Mat3x3 from 9 row-major elements.
func NewMat3x3(elements []float64) (Mat3x3, error) {
	var m Mat3x3
	if len(elements) != 9 {
		return m, NewDimensionMismatchError(fmt.Sprintf("input to NewMat3x3 must have length of 9. Has length of %d", len(elements)))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = elements[3*i+j]
		}
	}
	return m, nil
}

// NewMat3x4 builds a Mat3x4 from 12 row-major elements.
func NewMat3x4(elements []float64) (Mat3x4, error) {
	var m Mat3x4
	if len(elements) != 12 {
		return m, NewDimensionMismatchError(fmt.Sprintf("input to NewMat3x4 must have length of 12. Has length of %d", len(elements)))
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = elements[4*i+j]
		}
	}
	return m, nil
}

func (m Mat3x3) At(row, col int) float64 {
	return m[row][col]
}

func (m Mat3x4) At(row, col int) float64 {
	return m[row][col]
}

func (m Mat4x4) At(row, col int) float64 {
	return m[row][col]
}

// Left3x3 returns the left 3x3 block of the projection matrix, dropping the
// translation column.
func (m Mat3x4) Left3x3() Mat3x3 {
	var out Mat3x3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j]
		}
	}
	return out
}

// Dense copies the matrix into a new gonum dense matrix.
func (m Mat3x3) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

// Dense copies the matrix into a new gonum dense matrix.
func (m Mat3x4) Dense() *mat.Dense {
	d := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}

// Dense copies the matrix into a new gonum dense matrix.
func (m Mat4x4) Dense() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d.Set(i, j, m[i][j])
		}
	}
	return d
}
