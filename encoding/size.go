package encoding

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/arloliu/perfdat/errs"
)

// CellSize is the width in bytes of one matrix cell.
const CellSize = 4

// Shape describes the element and metric axes of one resource matrix.
type Shape struct {
	Elements int
	Metrics  int
}

// SampleCount returns the number of samples in a block window:
// max(1, (end-start)/interval). A non-positive interval yields 1.
//
// Counts above math.MaxInt32 are clamped to it; no source holds that many
// samples, so sizing such a matrix fails with errs.ErrSizeOverflow.
func SampleCount(start, end, interval int64) int {
	if interval <= 0 || end <= start {
		return 1
	}

	// end > start, so the unsigned difference is exact even when end-start overflows int64
	n := (uint64(end) - uint64(start)) / uint64(interval) //nolint: gosec
	if n < 1 {
		return 1
	}

	if n > math.MaxInt32 {
		// cannot fit in any archive; MatrixSize turns it into ErrSizeOverflow
		return math.MaxInt32
	}

	return int(n)
}

// MatrixSize returns the byte length of a samples × elements × metrics matrix.
//
// A zero dimension yields 0. Negative dimensions or a product that does not fit
// in an int return errs.ErrSizeOverflow.
func MatrixSize(samples, elements, metrics int) (int, error) {
	if samples < 0 || elements < 0 || metrics < 0 {
		return 0, fmt.Errorf("%w: negative dimension %dx%dx%d", errs.ErrSizeOverflow, samples, elements, metrics)
	}

	size := uint64(CellSize)
	for _, dim := range [...]int{samples, elements, metrics} {
		hi, lo := bits.Mul64(size, uint64(dim))
		if hi != 0 || lo > math.MaxInt {
			return 0, fmt.Errorf("%w: %dx%dx%d cells", errs.ErrSizeOverflow, samples, elements, metrics)
		}
		size = lo
	}

	return int(size), nil
}

// BlockPayloadSize returns the total matrix bytes of a block, the sum of MatrixSize
// over every shape. It is the same for every layout.
func BlockPayloadSize(samples int, shapes []Shape) (int, error) {
	total := 0
	for _, sh := range shapes {
		n, err := MatrixSize(samples, sh.Elements, sh.Metrics)
		if err != nil {
			return 0, err
		}

		if total > math.MaxInt-n {
			return 0, fmt.Errorf("%w: block payload exceeds %d bytes", errs.ErrSizeOverflow, math.MaxInt)
		}
		total += n
	}

	return total, nil
}
