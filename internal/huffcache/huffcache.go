// Package huffcache caches built Huffman code tables across a batch of
// files so that files sharing a byte distribution (common in, say, a
// directory of similarly-formatted log files) don't each pay for tree
// construction from scratch.
//
// The cache never changes what gets written to disk: the Huffman
// header still serializes the full code table on every call (see
// huffman.EncodeWithCodeTable), so a cache hit only saves CPU, not
// bytes. A single-file run never consults the cache.
//
// Wiring follows internal/spinner's cache in the teacher repo: a
// generic github.com/dgryski/go-tinylfu cache keyed by a
// github.com/cespare/xxhash/v2 digest of the thing being cached.
package huffcache

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"

	"github.com/aandreu7/rustyzipper-go/internal/codec/huffman"
)

// Cache holds recently-built Huffman code tables, admitting new entries
// by TinyLFU popularity rather than plain recency.
type Cache struct {
	tables *tinylfu.T[uint64, map[byte][]bool]
}

// New creates a cache sized for roughly n distinct distributions.
func New(n int) *Cache {
	if n < 1 {
		n = 1
	}
	return &Cache{
		tables: tinylfu.New[uint64, map[byte][]bool](n, n*10, identityHash),
	}
}

func identityHash(k uint64) uint64 { return k }

// key hashes a frequency table into a single uint64 by packing the 256
// big-endian counts and running them through xxhash, mirroring
// internal/fileid's use of xxhash.Digest over a packed byte
// representation in the teacher repo.
func key(counts [256]uint64) uint64 {
	var buf [256 * 8]byte
	for i, c := range counts {
		binary.BigEndian.PutUint64(buf[i*8:i*8+8], c)
	}
	return xxhash.Sum64(buf[:])
}

// CodeTable returns a code table for data's frequency distribution,
// building and admitting one on a miss.
func (c *Cache) CodeTable(data []byte) map[byte][]bool {
	counts := huffman.Frequencies(data)
	k := key(counts)

	if table, ok := c.tables.Get(k); ok {
		return table
	}

	table := huffman.CodeTable(counts)
	c.tables.Add(k, table)
	return table
}
