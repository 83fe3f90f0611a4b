// Package huffman implements the Huffman codec stage: frequency-table
// construction, min-heap tree assembly, canonical-by-construction (not
// canonical-by-length) code generation, MSB-first bit packing, and the
// explicit on-disk header that makes the code table self-describing so
// decoding never depends on how ties were broken while building the
// tree.
package huffman

import (
	"container/heap"
	"encoding/binary"
	"fmt"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

// Stage implements codec.Stage for Huffman coding. It carries no state
// between calls; every Encode builds and drops its own tree, and every
// Decode its own code lookup table.
type Stage struct{}

// node is a Huffman tree node: a leaf holds a byte value, an internal
// node holds two owned children. Ownership is bottom-up: once two nodes
// combine into a parent, only the parent is reachable from the root.
type node struct {
	freq        uint64
	byteVal     byte
	isLeaf      bool
	left, right *node
	seq         int // insertion order, used only to break frequency ties deterministically
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Frequencies scans data and returns a byte -> count table. Iterating
// byte values 0..255 afterward, rather than ranging a map, is what
// gives the tie-break in buildTree a deterministic insertion order.
//
// It is exported so callers that batch many files through the same
// pipeline (see internal/huffcache) can hash a file's distribution and
// look for a previously-built code table before paying for tree
// construction again.
func Frequencies(data []byte) [256]uint64 {
	var counts [256]uint64
	for _, b := range data {
		counts[b]++
	}
	return counts
}

// CodeTable builds the prefix-free byte -> bit-sequence map for a given
// frequency distribution. It is the part of Encode that a code-table
// cache can short-circuit; packing and header serialization still run
// on every call.
func CodeTable(counts [256]uint64) map[byte][]bool {
	root := buildTree(counts)
	entries := generateCodes(root)
	table := make(map[byte][]bool, len(entries))
	for b, e := range entries {
		table[b] = e.bits
	}
	return table
}

// buildTree assembles the Huffman tree with a min-heap: repeatedly pop
// the two lowest-frequency nodes and push back their combination, until
// one root remains. Tie-breaking uses insertion order; since the code
// table is shipped explicitly in the header, decoding never needs the
// tie-break to be reproduced by the decoder.
func buildTree(counts [256]uint64) *node {
	h := make(nodeHeap, 0, 256)
	seq := 0
	for b := 0; b < 256; b++ {
		if counts[b] == 0 {
			continue
		}
		h = append(h, &node{freq: counts[b], byteVal: byte(b), isLeaf: true, seq: seq})
		seq++
	}
	if len(h) == 0 {
		return nil
	}
	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		parent := &node{freq: a.freq + b.freq, left: a, right: b, seq: seq}
		seq++
		heap.Push(&h, parent)
	}
	return heap.Pop(&h).(*node)
}

// codeEntry is one byte's prefix-free bit sequence.
type codeEntry struct {
	bits []bool
}

// generateCodes walks the tree depth-first, pushing false on a left
// descent and true on a right descent. A lone-leaf tree (the
// single-distinct-byte edge case) has no descent to record, so it is
// special-cased to a 1-bit code: the length field must be at least 1,
// and the convention must round-trip deterministically.
func generateCodes(root *node) map[byte]codeEntry {
	codes := make(map[byte]codeEntry)
	if root == nil {
		return codes
	}
	if root.isLeaf {
		codes[root.byteVal] = codeEntry{bits: []bool{false}}
		return codes
	}
	var walk func(n *node, prefix []bool)
	walk = func(n *node, prefix []bool) {
		if n.isLeaf {
			cp := make([]bool, len(prefix))
			copy(cp, prefix)
			codes[n.byteVal] = codeEntry{bits: cp}
			return
		}
		walk(n.left, append(prefix, false))
		walk(n.right, append(prefix, true))
	}
	walk(root, nil)
	return codes
}

// packBits concatenates bits MSB-first into bytes, zero-filling the
// low-order bits of the final byte when the stream length is not a
// multiple of 8.
func packBits(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}

// unpackBits extracts the first n bits of data, MSB-first.
func unpackBits(data []byte, n int) []bool {
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = (data[i/8]>>(7-uint(i%8)))&1 == 1
	}
	return bits
}

// Encode implements codec.Stage. key is unused: Huffman is not a keyed
// stage.
func (Stage) Encode(data []byte, _ *keyhash.Key) ([]byte, error) {
	if len(data) == 0 {
		header := make([]byte, 2+4)
		binary.BigEndian.PutUint16(header[0:2], 0)
		binary.BigEndian.PutUint32(header[2:6], 0)
		return header, nil
	}

	table := CodeTable(Frequencies(data))
	return EncodeWithCodeTable(data, table)
}

// EncodeWithCodeTable packs data using a precomputed code table instead
// of building one from data's own frequency distribution. A batch
// pipeline run that has already seen this exact distribution (see
// internal/huffcache) can reuse its table here; the header still
// serializes the full table, so decoding is identical either way and
// the bits on disk are unaffected by where the table came from.
func EncodeWithCodeTable(data []byte, table map[byte][]bool) ([]byte, error) {
	originalLen := len(data)
	bitStream := make([]bool, 0, originalLen*2)
	for _, b := range data {
		code, ok := table[b]
		if !ok {
			return nil, fmt.Errorf("huffman encode: %w: code table missing byte %#x", rzerr.ErrInvalidData, b)
		}
		bitStream = append(bitStream, code...)
	}
	packed := packBits(bitStream)
	return writeHeader(table, packed, originalLen)
}

func writeHeader(codes map[byte][]bool, packed []byte, originalLen int) ([]byte, error) {
	if len(codes) > 1<<16-1 {
		return nil, fmt.Errorf("huffman encode: %w: more than 65535 distinct byte values", rzerr.ErrInvalidData)
	}

	buf := make([]byte, 0, 2+len(codes)*3+4+len(packed))

	var countBuf [2]byte
	binary.BigEndian.PutUint16(countBuf[:], uint16(len(codes)))
	buf = append(buf, countBuf[:]...)

	for b := 0; b < 256; b++ {
		bits, ok := codes[byte(b)]
		if !ok {
			continue
		}
		length := len(bits)
		if length < 1 || length > 255 {
			return nil, fmt.Errorf("huffman encode: %w: code length %d out of range", rzerr.ErrInvalidData, length)
		}
		buf = append(buf, byte(b), byte(length))
		buf = append(buf, packBits(bits)...)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(originalLen))
	buf = append(buf, lenBuf[:]...)

	buf = append(buf, packed...)
	return buf, nil
}

// Decode implements codec.Stage. It rebuilds the bit-sequence -> byte
// map from the header and walks the packed bitstream, accumulating bits
// into a pending buffer and emitting a byte on first match, exactly as
// spec'd: decoding never depends on tree tie-break order because the
// codes are read back verbatim.
func (Stage) Decode(data []byte, _ *keyhash.Key) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("huffman decode: %w: truncated header", rzerr.ErrInvalidData)
	}
	codeCount := int(binary.BigEndian.Uint16(data[0:2]))
	off := 2

	type entry struct {
		byteVal byte
		bits    string
	}
	entries := make([]entry, 0, codeCount)

	for i := 0; i < codeCount; i++ {
		if off+2 > len(data) {
			return nil, fmt.Errorf("huffman decode: %w: truncated code table", rzerr.ErrInvalidData)
		}
		byteVal := data[off]
		length := int(data[off+1])
		off += 2
		if length < 1 || length > 255 {
			return nil, fmt.Errorf("huffman decode: %w: code length %d out of range", rzerr.ErrInvalidData, length)
		}
		nBytes := (length + 7) / 8
		if off+nBytes > len(data) {
			return nil, fmt.Errorf("huffman decode: %w: truncated code bits", rzerr.ErrInvalidData)
		}
		bits := unpackBits(data[off:off+nBytes], length)
		off += nBytes

		bitStr := make([]byte, length)
		for i, bit := range bits {
			if bit {
				bitStr[i] = '1'
			} else {
				bitStr[i] = '0'
			}
		}
		entries = append(entries, entry{byteVal: byteVal, bits: string(bitStr)})
	}

	if off+4 > len(data) {
		return nil, fmt.Errorf("huffman decode: %w: truncated original length", rzerr.ErrInvalidData)
	}
	originalLen := int(binary.BigEndian.Uint32(data[off : off+4]))
	off += 4

	if originalLen == 0 {
		return []byte{}, nil
	}

	lookup := make(map[string]byte, len(entries))
	for _, e := range entries {
		lookup[e.bits] = e.byteVal
	}

	payload := data[off:]
	result := make([]byte, 0, originalLen)
	var pending []byte
	for byteIdx := 0; byteIdx < len(payload) && len(result) < originalLen; byteIdx++ {
		bite := payload[byteIdx]
		for bitIdx := 7; bitIdx >= 0 && len(result) < originalLen; bitIdx-- {
			if (bite>>uint(bitIdx))&1 == 1 {
				pending = append(pending, '1')
			} else {
				pending = append(pending, '0')
			}
			if b, ok := lookup[string(pending)]; ok {
				result = append(result, b)
				pending = pending[:0]
			}
		}
	}

	if len(result) != originalLen {
		return nil, fmt.Errorf("huffman decode: %w: bitstream ended before original length was reached", rzerr.ErrInvalidData)
	}
	return result, nil
}
