// Package keyhash implements the key representation and the
// key-verification fingerprint shared by every keyed codec stage
// (Caesar, AES-128).
//
// A Key is the big-endian byte representation of the signed 128-bit
// integer the original tool keys its stream ciphers with. Nothing in
// this package or its callers ever needs to do arithmetic on that
// integer: every consumer only ever wants its byte representation (all
// 16 bytes for AES, the low byte for Caesar), so Key is carried as
// [16]byte rather than a big-integer type.
package keyhash

import "crypto/sha256"

// Key is the 16-byte big-endian representation of a stage's 128-bit key.
type Key [16]byte

// ParseASCII builds a Key from a raw ASCII byte string the way the CLI's
// argument parser does: the string's bytes are right-aligned into the
// 16-byte key, zero-padded at the high (leftmost) end if shorter, and
// truncated to the trailing 16 bytes if longer.
func ParseASCII(s string) Key {
	var k Key
	b := []byte(s)
	if len(b) >= len(k) {
		copy(k[:], b[len(b)-len(k):])
	} else {
		copy(k[len(k)-len(b):], b)
	}
	return k
}

// LowByte returns the key's low-order byte, used by the Caesar stage's
// wraparound addition.
func (k Key) LowByte() byte {
	return k[len(k)-1]
}

// Bytes returns the key's 16 big-endian bytes, used directly as an
// AES-128 key.
func (k Key) Bytes() []byte {
	return k[:]
}

// Fingerprint returns the 32-byte SHA-256 digest of the key's 16
// big-endian bytes. It is not a MAC: it only lets a decoder detect that
// the wrong key was supplied, never whether the payload was tampered
// with.
func Fingerprint(k Key) [32]byte {
	return sha256.Sum256(k.Bytes())
}

// Verify reports whether candidate's fingerprint equals stored. stored
// must be the 32-byte fingerprint prefix read back from a keyed stage's
// output; a length other than 32 never matches.
func Verify(candidate Key, stored []byte) bool {
	if len(stored) != sha256.Size {
		return false
	}
	fp := Fingerprint(candidate)
	return fp == [32]byte(stored)
}
