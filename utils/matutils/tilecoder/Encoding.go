package tilecoder

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Key is the canonical bit pattern of an Encoding, one '0' or '1' per
// feature in feature order. Two Encodings from the same encoder are
// equal if and only if their Keys are equal, so a Key can be used to
// index tables by encoded state.
type Key string

// Encoding is the binary feature representation of a continuous state.
// It consists of one grid of bins per tiling, stacked in tiling order.
// Within a tiling, bins are laid out in row-major order with the last
// state dimension varying fastest.
type Encoding struct {
	tilings int
	bins    []int
	values  []float64
}

// newEncoding returns an all-zero Encoding with the given number of
// tilings and bins along each dimension
func newEncoding(tilings int, bins []int) *Encoding {
	return &Encoding{
		tilings: tilings,
		bins:    bins,
		values:  make([]float64, tilings*prod(bins)),
	}
}

// activate sets the feature for the bin with per-dimension indices idx
// in the given tiling to 1
func (e *Encoding) activate(tiling int, idx []int) {
	e.values[tiling*prod(e.bins)+flatIndex(idx, e.bins)] = 1.0
}

// Len returns the number of features in the Encoding
func (e *Encoding) Len() int {
	return len(e.values)
}

// Tilings returns the number of stacked tilings
func (e *Encoding) Tilings() int {
	return e.tilings
}

// At returns feature i, which is either 0 or 1
func (e *Encoding) At(i int) float64 {
	return e.values[i]
}

// Active returns the indices of all active features in increasing
// order
func (e *Encoding) Active() []int {
	var active []int
	for i, v := range e.values {
		if v != 0 {
			active = append(active, i)
		}
	}
	return active
}

// Features returns a copy of the features as a slice
func (e *Encoding) Features() []float64 {
	features := make([]float64, len(e.values))
	copy(features, e.values)
	return features
}

// Vector returns a copy of the features as a vector
func (e *Encoding) Vector() *mat.VecDense {
	return mat.NewVecDense(len(e.values), e.Features())
}

// Grid returns the bins of a single tiling of a 2-dimensional
// Encoding. Rows index bins of the first state dimension and columns
// index bins of the second.
func (e *Encoding) Grid(tiling int) *mat.Dense {
	if len(e.bins) != 2 {
		panic(fmt.Sprintf("grid: encoding is %d-dimensional, not "+
			"2-dimensional", len(e.bins)))
	}
	if tiling < 0 || tiling >= e.tilings {
		panic(fmt.Sprintf("grid: tiling %d out of range [0, %d)", tiling,
			e.tilings))
	}

	size := prod(e.bins)
	data := make([]float64, size)
	copy(data, e.values[tiling*size:(tiling+1)*size])
	return mat.NewDense(e.bins[0], e.bins[1], data)
}

// Key returns the canonical bit pattern of the Encoding
func (e *Encoding) Key() Key {
	var key strings.Builder
	key.Grow(len(e.values))
	for _, v := range e.values {
		if v != 0 {
			key.WriteByte('1')
		} else {
			key.WriteByte('0')
		}
	}
	return Key(key.String())
}

// Equal returns whether two Encodings have identical activation
// patterns
func (e *Encoding) Equal(other *Encoding) bool {
	if other == nil || len(e.values) != len(other.values) {
		return false
	}
	for i := range e.values {
		if e.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of an Encoding
func (e *Encoding) String() string {
	return fmt.Sprintf("Encoding | Tilings: %d  |  Bins: %v  |  Active: %v",
		e.tilings, e.bins, e.Active())
}

// flatIndex converts per-dimension bin indices into a row-major index
// into a single tiling
func flatIndex(idx, bins []int) int {
	index := 0
	for i := range bins {
		index = index*bins[i] + idx[i]
	}
	return index
}

// prod calculates the product of all integers in a []int
func prod(i []int) int {
	prod := 1
	for _, v := range i {
		prod *= v
	}
	return prod
}
