package state

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/plugbridge/pkg/framework/param"
)

// The flat chunk is the host-facing parameter layout: one little-endian
// IEEE-754 float64 per parameter, in index order, holding the value in
// engine units. Hosts may place it after their own header, so every reader
// takes a byte offset.

// CompareTolerance is the single-precision tolerance used by CompareFlat.
// Some hosts store parameter values as 32-bit numbers, so exact 64-bit
// equality would report spurious differences.
const CompareTolerance = 1e-5

// valueSize is the encoded size of one parameter.
const valueSize = 8

// SerializeFlat appends the current value of every parameter to w.
func SerializeFlat(w io.Writer, registry *param.Registry) error {
	params := registry.All()
	buf := make([]byte, valueSize*len(params))
	for i, p := range params {
		binary.LittleEndian.PutUint64(buf[i*valueSize:], math.Float64bits(p.Value()))
	}
	_, err := w.Write(buf)
	return err
}

// UnserializeFlat sets every parameter from data starting at byte offset
// startPos and returns the offset just past the last value read.
func UnserializeFlat(data []byte, startPos int, registry *param.Registry) (int, error) {
	n := registry.Count()
	if err := checkSpan(data, startPos, n); err != nil {
		return startPos, err
	}

	pos := startPos
	for i := 0; i < n; i++ {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
		registry.GetParam(i).SetValue(v)
		pos += valueSize
	}
	return pos, nil
}

// CompareFlat reports whether every value stored at startPos matches the
// live parameter value to within CompareTolerance after both are rounded to
// float32. A buffer too short to hold every parameter never matches.
func CompareFlat(data []byte, startPos int, registry *param.Registry) bool {
	n := registry.Count()
	if checkSpan(data, startPos, n) != nil {
		return false
	}

	equal := true
	pos := startPos
	for i := 0; i < n; i++ {
		live := float32(registry.Value(i))
		stored := float32(math.Float64frombits(binary.LittleEndian.Uint64(data[pos:])))
		equal = equal && math.Abs(float64(live-stored)) < CompareTolerance
		pos += valueSize
	}
	return equal
}

// FlatSize returns the encoded size of a flat chunk for the registry.
func FlatSize(registry *param.Registry) int {
	return valueSize * registry.Count()
}

func checkSpan(data []byte, startPos, count int) error {
	if startPos < 0 || startPos > len(data) || len(data)-startPos < count*valueSize {
		return fmt.Errorf("chunk of %d bytes cannot hold %d values at offset %d: %w",
			len(data), count, startPos, io.ErrUnexpectedEOF)
	}
	return nil
}
