package matrix

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

type stamp struct {
	i, j int
	v    float64
}

type linearSystem struct {
	a    []stamp
	b    []float64
	want []float64
}

func load(m *SystemMatrix, a []stamp, b []float64) {
	m.Clear()
	for _, s := range a {
		m.AddElement(s.i, s.j, s.v)
	}
	for i, v := range b {
		m.AddRHS(i+1, v)
	}
}

func TestSystemMatrixResolve(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		systems []linearSystem
	}{
		{
			name: "dense 2x2",
			size: 2,
			systems: []linearSystem{
				{[]stamp{{1, 1, 2}, {1, 2, 1}, {2, 1, 1}, {2, 2, 3}}, []float64{3, 5}, []float64{0.8, 1.4}},
				{[]stamp{{1, 1, 4}, {1, 2, -1}, {2, 1, 2}, {2, 2, 1}}, []float64{2, 4}, []float64{1, 2}},
				{[]stamp{{1, 1, 1}, {2, 2, 1}}, []float64{-7, 9}, []float64{-7, 9}},
			},
		},
		{
			name: "zero diagonal 3x3",
			size: 3,
			systems: []linearSystem{
				{[]stamp{{1, 2, 1}, {2, 1, 1}, {3, 3, 2}}, []float64{1, 2, 4}, []float64{2, 1, 2}},
				{[]stamp{{1, 2, 2}, {2, 1, 3}, {3, 3, 5}}, []float64{4, 9, 10}, []float64{3, 2, 2}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatrix(tt.size)
			if err != nil {
				t.Fatal(err)
			}
			defer m.Destroy()

			for n, sys := range tt.systems {
				load(m, sys.a, sys.b)
				if err := m.Solve(); err != nil {
					t.Fatalf("solve %d: %v", n, err)
				}
				x := m.Solution()
				for i, want := range sys.want {
					if !scalar.EqualWithinAbsOrRel(x[i+1], want, 1e-12, 1e-12) {
						t.Errorf("solve %d: x[%d] = %g, want %g", n, i+1, x[i+1], want)
					}
				}
			}
		})
	}
}

func TestSystemMatrixNewtonLoop(t *testing.T) {
	m, err := NewMatrix(1)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	// x^2 = 2 by Newton: J = 2x, delta = -(x^2 - 2) / J
	x := 1.0
	for iter := 0; iter < 20; iter++ {
		m.Clear()
		m.AddElement(1, 1, 2*x)
		m.AddRHS(1, -(x*x - 2))
		if err := m.Solve(); err != nil {
			t.Fatalf("iteration %d: %v", iter, err)
		}
		x += m.Solution()[1]
	}
	if !scalar.EqualWithinAbsOrRel(x, 1.4142135623730951, 1e-14, 1e-14) {
		t.Errorf("expected sqrt(2), got %v", x)
	}
}

func TestSystemMatrixOutOfBounds(t *testing.T) {
	m, err := NewMatrix(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	for _, idx := range [][2]int{{0, 1}, {1, 3}, {3, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("AddElement(%d, %d) did not panic", idx[0], idx[1])
				}
			}()
			m.AddElement(idx[0], idx[1], 1)
		}()
	}
}
