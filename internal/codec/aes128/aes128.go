// Package aes128 implements the keyed AES-128 ECB codec stage with
// PKCS#7-style padding. ECB leaks equal-plaintext-block patterns; that
// weakness is inherited faithfully rather than upgraded to a chained
// mode, matching the tool's original design.
package aes128

import (
	"crypto/aes"
	"fmt"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

const blockSize = 16

// Stage implements codec.Stage for AES-128 in ECB mode.
type Stage struct{}

// Encode implements codec.Stage. key must be non-nil: AES-128 is keyed.
func (Stage) Encode(data []byte, key *keyhash.Key) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("aes128 encode: %w", rzerr.ErrMissingKey)
	}

	cipher, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("aes128 encode: %w: %v", rzerr.ErrInvalidData, err)
	}

	padded := pkcs7Pad(data, blockSize)
	ciphertext := make([]byte, len(padded))
	for off := 0; off < len(padded); off += blockSize {
		cipher.Encrypt(ciphertext[off:off+blockSize], padded[off:off+blockSize])
	}

	fp := keyhash.Fingerprint(*key)
	out := make([]byte, 0, len(fp)+len(ciphertext))
	out = append(out, fp[:]...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decode implements codec.Stage. key must be non-nil: AES-128 is keyed.
func (Stage) Decode(data []byte, key *keyhash.Key) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("aes128 decode: %w", rzerr.ErrMissingKey)
	}
	if len(data) < 33 {
		return nil, fmt.Errorf("aes128 decode: %w: payload shorter than a fingerprint plus one block", rzerr.ErrInvalidData)
	}

	stored := data[:32]
	if !keyhash.Verify(*key, stored) {
		return nil, fmt.Errorf("aes128 decode: %w", rzerr.ErrPermissionDenied)
	}

	ciphertext := data[32:]
	if len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("aes128 decode: %w: ciphertext is not a multiple of the block size", rzerr.ErrInvalidData)
	}

	cipher, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("aes128 decode: %w: %v", rzerr.ErrInvalidData, err)
	}

	plain := make([]byte, len(ciphertext))
	for off := 0; off < len(ciphertext); off += blockSize {
		cipher.Decrypt(plain[off:off+blockSize], ciphertext[off:off+blockSize])
	}

	return pkcs7Unpad(plain), nil
}

// pkcs7Pad appends P bytes each equal to P, where P = blockSize -
// (len(data) mod blockSize); an already block-aligned input still gains
// one full block of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padding)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padding)
	}
	return out
}

// pkcs7Unpad strips padding leniently: it trims P bytes if the last
// byte P is in [1, 16] and does not exceed the buffer length, but never
// validates that all P padding bytes actually equal P. This mirrors the
// source tool's lenient decoder exactly (see SPEC_FULL.md's note on
// padding leniency); a decoder that also validated padding bytes would
// reject some inputs this one accepts.
func pkcs7Unpad(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	padding := int(data[len(data)-1])
	if padding < 1 || padding > blockSize || padding > len(data) {
		return data
	}
	return data[:len(data)-padding]
}
