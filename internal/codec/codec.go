// Package codec defines the stage identifier enumeration and the shared
// contract every codec stage implements. It has no dependency on any
// concrete stage (Huffman, RLE, Caesar, AES-128): those live in their
// own packages and are wired together by the pipeline driver, keeping
// this package a pure vocabulary the rest of the tree agrees on.
package codec

import (
	"fmt"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
)

// ID is a stage identifier as it is persisted in a container header: a
// single byte drawn from a closed, reserved enumeration.
type ID uint8

const (
	// Signature is the container's marker byte, not a stage. It is
	// never present in a stage list.
	Signature ID = 0
	Huffman   ID = 1
	RLE       ID = 2
	Caesar    ID = 3
	AES128    ID = 4
	// LZ77 and Arithmetic are reserved identifiers with no
	// implementation. Using either must fail with ErrInvalidCodec.
	LZ77       ID = 5
	Arithmetic ID = 6
)

func (id ID) String() string {
	switch id {
	case Signature:
		return "signature"
	case Huffman:
		return "huffman"
	case RLE:
		return "rle"
	case Caesar:
		return "caesar"
	case AES128:
		return "aes128"
	case LZ77:
		return "lz77"
	case Arithmetic:
		return "arithmetic"
	default:
		return fmt.Sprintf("codec(%d)", uint8(id))
	}
}

// Keyed reports whether a stage identifier consumes a key from the key
// list during dispatch.
func (id ID) Keyed() bool {
	return id == Caesar || id == AES128
}

// Implemented reports whether a stage identifier names a stage with a
// real implementation. Signature, LZ77, and Arithmetic are not.
func (id ID) Implemented() bool {
	switch id {
	case Huffman, RLE, Caesar, AES128:
		return true
	default:
		return false
	}
}

// Stage is the capability set every codec stage implements: a pure
// transformation from an input buffer (and, for keyed stages, a key) to
// a freshly owned output buffer. key is nil for non-keyed stages.
type Stage interface {
	Encode(data []byte, key *keyhash.Key) ([]byte, error)
	Decode(data []byte, key *keyhash.Key) ([]byte, error)
}
