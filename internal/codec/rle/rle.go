// Package rle implements the Run-Length Encoding codec stage: a
// left-to-right scan emitting (byte, count) records, five bytes each.
package rle

import (
	"encoding/binary"
	"math"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
)

// recordSize is the serialized size of one run: one value byte plus a
// 32-bit big-endian count.
const recordSize = 5

// Stage implements codec.Stage for Run-Length Encoding.
type Stage struct{}

// Encode implements codec.Stage. key is unused: RLE is not a keyed
// stage.
func (Stage) Encode(data []byte, _ *keyhash.Key) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}

	out := make([]byte, 0, len(data)/4*recordSize)
	current := data[0]
	var run uint64

	flush := func() {
		for _, chunk := range splitCounts(run) {
			out = appendRecord(out, current, chunk)
		}
	}

	run = 1
	for _, b := range data[1:] {
		if b == current {
			run++
			continue
		}
		flush()
		current = b
		run = 1
	}
	flush()

	return out, nil
}

// splitCounts breaks a run length into one or more chunks that each fit
// in a uint32, so a run longer than 2^32-1 is represented as several
// same-value records instead of silently wrapping the count.
func splitCounts(total uint64) []uint32 {
	if total == 0 {
		return nil
	}
	out := make([]uint32, 0, total/math.MaxUint32+1)
	for total > 0 {
		chunk := total
		if chunk > math.MaxUint32 {
			chunk = math.MaxUint32
		}
		out = append(out, uint32(chunk))
		total -= chunk
	}
	return out
}

func appendRecord(out []byte, value byte, count uint32) []byte {
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], count)
	out = append(out, value)
	return append(out, countBuf[:]...)
}

// Decode implements codec.Stage. Trailing bytes that do not form a
// complete 5-byte record are discarded, not treated as fatal, per spec.
func (Stage) Decode(data []byte, _ *keyhash.Key) ([]byte, error) {
	out := make([]byte, 0, len(data))
	n := len(data) / recordSize * recordSize
	for i := 0; i < n; i += recordSize {
		value := data[i]
		count := binary.BigEndian.Uint32(data[i+1 : i+5])
		for j := uint32(0); j < count; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}
