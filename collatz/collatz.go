// Package collatz generates Collatz sequences and derives statistics
// about them.
package collatz

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
)

// DefaultStart is the starting value used when none is given.
const DefaultStart = 52

// ErrOverflow is returned when a 3n+1 step does not fit in an int64.
var ErrOverflow = errors.New("collatz: value out of range")

// Clamp returns n, raised to 1 if it's smaller.
func Clamp(n int64) int64 {
	if n < 1 {
		return 1
	}
	return n
}

// Step returns the member that follows n.
func Step(n int64) (int64, error) {
	if n%2 == 0 {
		return n / 2, nil
	}

	if n > (math.MaxInt64-1)/3 {
		return 0, fmt.Errorf("%d: %w", n, ErrOverflow)
	}
	return n*3 + 1, nil
}

// Generate returns the Collatz sequence starting at n and ending at 1.
// Values smaller than 1 are clamped to 1.
func Generate(n int64) ([]int64, error) {
	n = Clamp(n)

	var seq []int64
	for n != 1 {
		seq = append(seq, n)
		next, err := Step(n)
		if err != nil {
			return nil, err
		}
		n = next
	}

	return append(seq, 1), nil
}

// Length returns the number of members in seq.
func Length(seq []int64) int {
	return len(seq)
}

// Max returns the largest member of seq, 0 if seq is empty.
func Max(seq []int64) int64 {
	var max int64
	for _, v := range seq {
		if v > max {
			max = v
		}
	}
	return max
}

// BitWidth returns the number of bits needed to represent v, which is
// floor(log2(v))+1. It's 0 for v < 1.
func BitWidth(v int64) int {
	if v < 1 {
		return 0
	}
	return bits.Len64(uint64(v))
}

// BinaryDigits returns the big-endian base 2 digits of n, without prefix.
func BinaryDigits(n int64) string {
	return strconv.FormatInt(n, 2)
}

// Stats are statistics of a single sequence.
type Stats struct {
	Start    int64
	Length   int
	Max      int64
	BitWidth int
	Binary   string
}

// NewStats computes the statistics of seq.
func NewStats(seq []int64) Stats {
	var start int64
	if len(seq) > 0 {
		start = seq[0]
	}

	max := Max(seq)
	return Stats{
		Start:    start,
		Length:   Length(seq),
		Max:      max,
		BitWidth: BitWidth(max),
		Binary:   BinaryDigits(start),
	}
}
