package tilecoder

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

var unitSquare = []r1.Interval{{Min: -1, Max: 1}, {Min: -1, Max: 1}}

func TestCoarseCoderSingleCell(t *testing.T) {
	c, err := NewCoarseCoder(unitSquare, []int{2, 2}, []float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}

	enc, err := c.Encode(mat.NewVecDense(2, []float64{0.5, 0.5}))
	if err != nil {
		t.Fatal(err)
	}

	active := enc.Active()
	if len(active) != 1 || active[0] != 3 {
		t.Fatalf("active: want([3]) have(%v)", active)
	}

	grid := enc.Grid(0)
	want := mat.NewDense(2, 2, []float64{0, 0, 0, 1})
	if !mat.Equal(grid, want) {
		t.Errorf("grid: want(%v) have(%v)", mat.Formatted(want),
			mat.Formatted(grid))
	}
}

func TestCoarseCoderOverlap(t *testing.T) {
	c, err := NewCoarseCoder(unitSquare, []int{2, 2}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		state []float64
		want  []int
	}{
		{[]float64{-0.2, -0.2}, []int{0}},
		{[]float64{0.3, -0.2}, []int{0, 2}},
		{[]float64{0.3, 0.3}, []int{0, 1, 2, 3}},
		{[]float64{0.9, 0.9}, []int{3}},
	}

	for _, test := range tests {
		enc, err := c.Encode(mat.NewVecDense(2, test.state))
		if err != nil {
			t.Fatal(err)
		}
		if !equalInts(enc.Active(), test.want) {
			t.Errorf("encode(%v): want(%v) have(%v)", test.state, test.want,
				enc.Active())
		}
	}
}

func TestCoarseCoderConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		ranges      []r1.Interval
		granularity []int
		overlap     []float64
	}{
		{"overlap equals bin", unitSquare, []int{2, 2}, []float64{1, 0}},
		{"overlap exceeds bin", unitSquare, []int{2, 4}, []float64{0, 0.6}},
		{"zero granularity", unitSquare, []int{0, 2}, []float64{0, 0}},
		{"negative granularity", unitSquare, []int{2, -1}, []float64{0, 0}},
		{"negative overlap", unitSquare, []int{2, 2}, []float64{-0.1, 0}},
		{"length mismatch", unitSquare, []int{2}, []float64{0, 0}},
		{"empty range", []r1.Interval{{Min: 1, Max: 1}, {Min: 0, Max: 1}},
			[]int{2, 2}, []float64{0, 0}},
	}

	for _, test := range tests {
		_, err := NewCoarseCoder(test.ranges, test.granularity, test.overlap)
		if !IsConfigError(err) {
			t.Errorf("%v: want config error, have %v", test.name, err)
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	c, err := NewCoarseCoder(unitSquare, []int{2, 2}, []float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	tc, err := NewTileCoder(unitSquare, []int{4, 4}, 3, 1)
	if err != nil {
		t.Fatal(err)
	}

	states := [][]float64{{1.5, 0}, {0, -1.01}, {-2, 2}}
	for _, encoder := range []Encoder{c, tc} {
		for _, state := range states {
			_, err := encoder.Encode(mat.NewVecDense(2, state))
			if !IsDomainError(err) {
				t.Errorf("%v: encode(%v): want domain error, have %v", encoder,
					state, err)
			}
		}

		_, err := encoder.Encode(mat.NewVecDense(3, []float64{0, 0, 0}))
		if !IsDomainError(err) {
			t.Errorf("%v: want domain error for wrong dimensions, have %v",
				encoder, err)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	c, err := NewCoarseCoder(unitSquare, []int{5, 5}, []float64{0.1, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	tc, err := NewTileCoder(unitSquare, []int{6, 6}, 5, 42)
	if err != nil {
		t.Fatal(err)
	}

	states := [][]float64{{0, 0}, {-1, 1}, {0.37, -0.81}, {1, 1}}
	for _, encoder := range []Encoder{c, tc} {
		for _, state := range states {
			first, err := encoder.Encode(mat.NewVecDense(2, state))
			if err != nil {
				t.Fatal(err)
			}
			second, err := encoder.Encode(mat.NewVecDense(2, state))
			if err != nil {
				t.Fatal(err)
			}

			if !first.Equal(second) || first.Key() != second.Key() {
				t.Errorf("%v: encode(%v) not deterministic: %v != %v",
					encoder, state, first, second)
			}
		}
	}
}

func TestTileCoderOneTilePerTiling(t *testing.T) {
	tilings := 8
	bins := []int{4, 3}
	tc, err := NewTileCoder(unitSquare, bins, tilings, 7)
	if err != nil {
		t.Fatal(err)
	}
	if tc.Len() != tilings*12 {
		t.Fatalf("len: want(%d) have(%d)", tilings*12, tc.Len())
	}

	states := [][]float64{{-1, -1}, {1, 1}, {0, 0}, {0.49, -0.33}, {-1, 1}}
	for _, state := range states {
		enc, err := tc.Encode(mat.NewVecDense(2, state))
		if err != nil {
			t.Fatal(err)
		}

		active := enc.Active()
		if len(active) != tilings {
			t.Fatalf("encode(%v): want(%d) active have(%d)", state, tilings,
				len(active))
		}
		for j, index := range active {
			if index < j*12 || index >= (j+1)*12 {
				t.Errorf("encode(%v): feature %d outside tiling %d", state,
					index, j)
			}
		}
	}
}

func TestTileCoderOffsets(t *testing.T) {
	tc, err := NewTileCoder(unitSquare, []int{4, 2}, 6, 11)
	if err != nil {
		t.Fatal(err)
	}

	widths := []float64{0.5, 1.0}
	for j := 0; j < tc.NumTilings(); j++ {
		for i, width := range widths {
			offset := tc.Offset(j, i)
			if j == 0 && offset != 0 {
				t.Errorf("tiling 0 should not be offset, have %v", offset)
			}
			if offset < 0 || offset >= width {
				t.Errorf("offset(%d, %d) = %v ∉ [0, %v)", j, i, offset, width)
			}
		}
	}

	same, err := NewTileCoder(unitSquare, []int{4, 2}, 6, 11)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < tc.NumTilings(); j++ {
		for i := range widths {
			if tc.Offset(j, i) != same.Offset(j, i) {
				t.Fatalf("offsets differ for equal seeds")
			}
		}
	}
}

func TestTileCoderConfigErrors(t *testing.T) {
	if _, err := NewTileCoder(unitSquare, []int{2, 2}, 0, 1); !IsConfigError(err) {
		t.Errorf("zero tilings: want config error, have %v", err)
	}
	if _, err := NewTileCoder(unitSquare, []int{2, 0}, 2, 1); !IsConfigError(err) {
		t.Errorf("zero granularity: want config error, have %v", err)
	}
}

func TestKeyDistinguishesStates(t *testing.T) {
	c, err := NewCoarseCoder(unitSquare, []int{4, 4}, []float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := c.Encode(mat.NewVecDense(2, []float64{-0.9, -0.9}))
	b, _ := c.Encode(mat.NewVecDense(2, []float64{0.9, 0.9}))
	if a.Key() == b.Key() || a.Equal(b) {
		t.Errorf("distinct cells share a key: %v", a.Key())
	}
	if len(a.Key()) != c.Len() {
		t.Errorf("key length: want(%d) have(%d)", c.Len(), len(a.Key()))
	}
}

func BenchmarkTileCoder(b *testing.B) {
	tc, err := NewTileCoder(unitSquare, []int{8, 8}, 8, 12)
	if err != nil {
		b.Fatal(err)
	}

	y := mat.NewVecDense(2, []float64{0.5, 0.5})

	for i := 0; i < b.N; i++ {
		tc.Encode(y)
	}
}

func BenchmarkCoarseCoder(b *testing.B) {
	cc, err := NewCoarseCoder(unitSquare, []int{8, 8}, []float64{0.1, 0.1})
	if err != nil {
		b.Fatal(err)
	}

	y := mat.NewVecDense(2, []float64{0.5, 0.5})

	for i := 0; i < b.N; i++ {
		cc.Encode(y)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
