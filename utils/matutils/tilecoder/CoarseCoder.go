package tilecoder

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// CoarseCoder implements coarse coding with a single tiling. Each state
// dimension i is split into granularity[i] bins of equal width, and the
// upper edge of each bin is extended by overlap[i]. Bins are closed
// intervals:
//
//	bin k = [min + k*width, min + (k+1)*width + overlap]
//
// so a value near a bin edge can activate more than one bin along a
// dimension. The active features of an encoded vector are all bins in
// the cartesian product of the active bins along each dimension.
type CoarseCoder struct {
	ranges     []r1.Interval
	bins       []int
	overlap    []float64
	binLengths []float64
}

// NewCoarseCoder returns a new CoarseCoder. The ranges argument bounds
// each state dimension, granularity determines the number of bins
// along each dimension and overlap the amount by which each bin's upper
// edge is extended along each dimension.
//
// An error wrapping ErrConfig is returned if the arguments have
// different lengths, if any range is empty, if any granularity is not
// positive or if any overlap is negative or not smaller than the bin
// width along its dimension.
func NewCoarseCoder(ranges []r1.Interval, granularity []int,
	overlap []float64) (*CoarseCoder, error) {
	binLengths, err := validate("newCoarseCoder", ranges, granularity)
	if err != nil {
		return nil, err
	}

	if len(overlap) != len(ranges) {
		return nil, &Error{"newCoarseCoder", fmt.Errorf("%w: %d overlaps "+
			"for %d dimensions", ErrConfig, len(overlap), len(ranges))}
	}

	for i := range overlap {
		if overlap[i] < 0 {
			return nil, &Error{"newCoarseCoder", fmt.Errorf("%w: negative "+
				"overlap %v along dimension %d", ErrConfig, overlap[i], i)}
		}

		// An overlap of a whole bin would activate every bin
		if overlap[i] >= binLengths[i] {
			return nil, &Error{"newCoarseCoder", fmt.Errorf("%w: overlap %v "+
				"along dimension %d must be smaller than the bin width %v",
				ErrConfig, overlap[i], i, binLengths[i])}
		}
	}

	return &CoarseCoder{
		ranges:     copyIntervals(ranges),
		bins:       copyInts(granularity),
		overlap:    copyFloats(overlap),
		binLengths: binLengths,
	}, nil
}

// Encode coarse codes v. An error wrapping ErrDomain is returned if v
// has the wrong length or lies outside the coder's ranges.
func (c *CoarseCoder) Encode(v mat.Vector) (*Encoding, error) {
	if err := checkDomain("encode", v, c.ranges); err != nil {
		return nil, err
	}

	// Active bins along each dimension
	active := make([][]int, len(c.bins))
	for i := range c.bins {
		value := v.AtVec(i)
		for k := 0; k < c.bins[i]; k++ {
			start := c.ranges[i].Min + float64(k)*c.binLengths[i]
			end := c.ranges[i].Min + float64(k+1)*c.binLengths[i] +
				c.overlap[i]
			if start <= value && value <= end {
				active[i] = append(active[i], k)
			}
		}
	}

	encoding := newEncoding(1, c.bins)
	forEachProduct(active, func(idx []int) {
		encoding.activate(0, idx)
	})
	return encoding, nil
}

// Len returns the number of features in a coarse coded vector
func (c *CoarseCoder) Len() int {
	return prod(c.bins)
}

// String returns a string representation of a *CoarseCoder
func (c *CoarseCoder) String() string {
	return fmt.Sprintf("Coarse Coder | Bins: %v  |  Overlap: %v", c.bins,
		c.overlap)
}

// forEachProduct calls f with every element of the cartesian product of
// sets. The slice passed to f is reused between calls.
func forEachProduct(sets [][]int, f func([]int)) {
	for _, set := range sets {
		if len(set) == 0 {
			return
		}
	}

	idx := make([]int, len(sets))
	pos := make([]int, len(sets))
	for {
		for i := range sets {
			idx[i] = sets[i][pos[i]]
		}
		f(idx)

		// Advance the odometer, last dimension fastest
		i := len(sets) - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(sets[i]) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			return
		}
	}
}
