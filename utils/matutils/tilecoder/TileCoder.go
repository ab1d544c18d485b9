// Package tilecoder implements tile coding and coarse coding of
// continuous states into binary feature vectors
package tilecoder

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/samuelfneumann/valleycar/utils/floatutils"
)

// Encoder encodes continuous states as binary Encodings. All Encodings
// returned by a single Encoder have the same shape.
type Encoder interface {
	Encode(v mat.Vector) (*Encoding, error)
	Len() int
}

// TileCoder implements functionality for tile coding a vector. Tile
// coding takes a low-dimensional vector and changes it into a large,
// sparse vector consisting of only 0's and 1's. Each 1 represents the
// coordinates of the original vector in some space of tilings. For
// example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// The number of nonzero elements in the tile-coded representation equals
// the number of tilings used to encode the vector. The number of total
// features in the tile-coded representation is the number of tilings
// times the number of tiles per tiling. Tile coding requires that the
// space to be tiled be bounded.
//
// The first tiling is aligned with the bounds of the state space. Each
// remaining tiling is shifted along every dimension by a fraction of a
// tile width, sampled once at construction. Tiles are half-open
// intervals [start, end) and tiles which fall outside of the state
// space after shifting are clipped to the outermost tiles, so that
// exactly one tile is active per tiling.
type TileCoder struct {
	numTilings int
	ranges     []r1.Interval
	bins       []int
	binLengths []float64
	offsets    *mat.Dense
	seed       uint64
}

// NewTileCoder creates and returns a new TileCoder. The ranges argument
// bounds each state dimension, granularity determines how many tiles
// each tiling places along each dimension and tilings determines the
// number of tilings. The seed determines the tiling offsets.
//
// An error wrapping ErrConfig is returned if tilings < 1, if ranges and
// granularity have different lengths, if any range is empty or if any
// granularity is not positive.
func NewTileCoder(ranges []r1.Interval, granularity []int, tilings int,
	seed uint64) (*TileCoder, error) {
	if tilings < 1 {
		return nil, &Error{"newTileCoder", fmt.Errorf("%w: cannot have %d "+
			"tilings", ErrConfig, tilings)}
	}

	binLengths, err := validate("newTileCoder", ranges, granularity)
	if err != nil {
		return nil, err
	}

	// Calculate offsets, the first tiling is not offset
	offsets := mat.NewDense(tilings, len(ranges), nil)
	if tilings > 1 {
		bounds := make([]r1.Interval, len(ranges))
		for i := range bounds {
			bounds[i] = r1.Interval{Min: 0, Max: binLengths[i]}
		}

		// Create RNG for uniform sampling of tiling offsets
		source := rand.NewSource(seed)
		u := distmv.NewUniform(bounds, source)
		sampler := samplemv.IID{Dist: u}

		samples := mat.NewDense(tilings-1, len(ranges), nil)
		sampler.Sample(samples)
		offsets.Slice(1, tilings, 0, len(ranges)).(*mat.Dense).Copy(samples)
	}

	return &TileCoder{
		numTilings: tilings,
		ranges:     copyIntervals(ranges),
		bins:       copyInts(granularity),
		binLengths: binLengths,
		offsets:    offsets,
		seed:       seed,
	}, nil
}

// Encode tile codes v. An error wrapping ErrDomain is returned if v has
// the wrong length or lies outside the coder's ranges.
func (t *TileCoder) Encode(v mat.Vector) (*Encoding, error) {
	if err := checkDomain("encode", v, t.ranges); err != nil {
		return nil, err
	}

	encoding := newEncoding(t.numTilings, t.bins)
	idx := make([]int, len(t.bins))
	for j := 0; j < t.numTilings; j++ {
		for i := range t.bins {
			data := v.AtVec(i) - t.ranges[i].Min - t.offsets.At(j, i)

			// Calculate the index of the tile along the current
			// dimension in which the feature falls
			tile := math.Floor(data / t.binLengths[i])
			tile = floatutils.Clip(tile, 0.0, float64(t.bins[i]-1))
			idx[i] = int(tile)
		}
		encoding.activate(j, idx)
	}
	return encoding, nil
}

// Offset returns the offset of tiling along dimension dim
func (t *TileCoder) Offset(tiling, dim int) float64 {
	return t.offsets.At(tiling, dim)
}

// Len returns the number of features in a tile-coded vector
func (t *TileCoder) Len() int {
	return t.numTilings * prod(t.bins)
}

// NumTilings returns the number of tilings the tile coder uses for
// encoding vectors
func (t *TileCoder) NumTilings() int {
	return t.numTilings
}

// String returns a string representation of a *TileCoder
func (t *TileCoder) String() string {
	return fmt.Sprintf("Tilings %d  |  Tiles: %v", t.numTilings, t.bins)
}

// validate checks the ranges and granularity shared by all encoders
// and returns the bin width along each dimension
func validate(op string, ranges []r1.Interval,
	granularity []int) ([]float64, error) {
	if len(ranges) == 0 {
		return nil, &Error{op, fmt.Errorf("%w: no dimensions to encode",
			ErrConfig)}
	}
	if len(ranges) != len(granularity) {
		return nil, &Error{op, fmt.Errorf("%w: %d granularities for %d "+
			"dimensions", ErrConfig, len(granularity), len(ranges))}
	}

	binLengths := make([]float64, len(ranges))
	for i := range ranges {
		if granularity[i] <= 0 {
			return nil, &Error{op, fmt.Errorf("%w: granularity %d along "+
				"dimension %d must be positive", ErrConfig, granularity[i], i)}
		}
		if !(ranges[i].Min < ranges[i].Max) {
			return nil, &Error{op, fmt.Errorf("%w: empty range %v along "+
				"dimension %d", ErrConfig, ranges[i], i)}
		}
		binLengths[i] = (ranges[i].Max - ranges[i].Min) /
			float64(granularity[i])
	}
	return binLengths, nil
}

// checkDomain ensures v can be encoded with an encoder over ranges
func checkDomain(op string, v mat.Vector, ranges []r1.Interval) error {
	if v.Len() != len(ranges) {
		return &Error{op, fmt.Errorf("%w: state has %d dimensions, "+
			"want %d", ErrDomain, v.Len(), len(ranges))}
	}
	for i := range ranges {
		if !floatutils.Contains(v.AtVec(i), ranges[i]) {
			return &Error{op, fmt.Errorf("%w: %v ∉ [%v, %v] along "+
				"dimension %d", ErrDomain, v.AtVec(i), ranges[i].Min,
				ranges[i].Max, i)}
		}
	}
	return nil
}

func copyIntervals(in []r1.Interval) []r1.Interval {
	out := make([]r1.Interval, len(in))
	copy(out, in)
	return out
}

func copyInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

func copyFloats(in []float64) []float64 {
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
