package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// SystemMatrix is a real sparse linear system A*x = b with 1-based indexing.
type SystemMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	elements [][]*sparse.Element // 1-based, fixed once the matrix is set up
	rhs      []float64
	solution []float64
	config   *sparse.Configuration
}

func NewMatrix(size int) (*SystemMatrix, error) {
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		Translate:      true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
		Annotate:       0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	m := &SystemMatrix{
		Size:     size,
		matrix:   mat,
		rhs:      make([]float64, size+1), // 1-based indexing
		solution: make([]float64, size+1),
		config:   config,
	}
	if err := m.setupElements(); err != nil {
		mat.Destroy()
		return nil, err
	}

	return m, nil
}

// setupElements creates every element up front. Factor reorders the
// matrix, so later stamps go through the cached pointers instead of
// looking elements up again.
func (m *SystemMatrix) setupElements() error {
	m.elements = make([][]*sparse.Element, m.Size+1)
	for i := 1; i <= m.Size; i++ {
		m.elements[i] = make([]*sparse.Element, m.Size+1)
		for j := 1; j <= m.Size; j++ {
			e := m.matrix.GetElement(int64(i), int64(j))
			if e == nil {
				return fmt.Errorf("creating element (%d, %d)", i, j)
			}
			m.elements[i][j] = e
		}
	}
	return nil
}

func (m *SystemMatrix) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		panic(fmt.Sprintf("matrix index out of bounds (i=%d, j=%d, size=%d)", i, j, m.Size))
	}
	m.elements[i][j].Real += value
}

func (m *SystemMatrix) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		panic(fmt.Sprintf("rhs index out of bounds (i=%d, size=%d)", i, m.Size))
	}
	m.rhs[i] += value
}

func (m *SystemMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

func (m *SystemMatrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.solution = solution

	return nil
}

// Solution returns x with x[0] unused.
func (m *SystemMatrix) Solution() []float64 {
	return m.solution
}

func (m *SystemMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
		m.elements = nil
	}
}
