package collatz

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Trace.Verify, wrapped with the offending row.
var (
	// ErrEmptyTrace is returned for a trace without rows.
	ErrEmptyTrace = errors.New("collatz: empty trace")
	// ErrWidth is returned when a row doesn't hold exactly Width cells.
	ErrWidth = errors.New("collatz: bad row width")
	// ErrNotBit is returned when a cell is neither 0 nor 1.
	ErrNotBit = errors.New("collatz: cell is not a bit")
	// ErrLastRow is returned when the last row isn't 1.
	ErrLastRow = errors.New("collatz: last row is not 1")
	// ErrTransition is returned when a row doesn't step to the next one.
	ErrTransition = errors.New("collatz: bad transition")
)

// Trace lays out a sequence one member per row. Each row holds Width bits,
// most significant first.
type Trace struct {
	Width int
	Rows  [][]uint8
}

// NewTrace builds the trace of seq. Width is the bit width of the largest
// member so every row fits.
func NewTrace(seq []int64) Trace {
	width := BitWidth(Max(seq))
	rows := make([][]uint8, len(seq))
	for i, v := range seq {
		row := make([]uint8, width)
		for j := width - 1; j >= 0; j-- {
			row[j] = uint8(v & 1)
			v >>= 1
		}
		rows[i] = row
	}

	return Trace{Width: width, Rows: rows}
}

// Value decodes row back to an integer.
func (t Trace) Value(row int) int64 {
	var v int64
	for _, bit := range t.Rows[row] {
		v = v<<1 | int64(bit)
	}
	return v
}

// String returns the rows as lines of 0 and 1.
func (t Trace) String() string {
	var b strings.Builder
	for _, row := range t.Rows {
		for _, bit := range row {
			b.WriteByte('0' + bit)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Verify checks that every cell is a bit, that the last row is 1 and that
// each row steps to the next by the Collatz rule.
func (t Trace) Verify() error {
	if len(t.Rows) == 0 {
		return ErrEmptyTrace
	}

	for i, row := range t.Rows {
		if len(row) != t.Width {
			return fmt.Errorf("row %d: width %d != %d: %w", i, len(row), t.Width, ErrWidth)
		}
		for _, bit := range row {
			if bit > 1 {
				return fmt.Errorf("row %d: %d: %w", i, bit, ErrNotBit)
			}
		}
	}

	last := len(t.Rows) - 1
	if v := t.Value(last); v != 1 {
		return fmt.Errorf("row %d: %d: %w", last, v, ErrLastRow)
	}

	for i := 0; i < last; i++ {
		cur, next := t.Value(i), t.Value(i+1)
		want, err := Step(cur)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if next != want {
			return fmt.Errorf("row %d: %d -> %d (want %d): %w", i, cur, next, want, ErrTransition)
		}
	}

	return nil
}
