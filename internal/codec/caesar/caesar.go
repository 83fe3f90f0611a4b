// Package caesar implements the keyed additive cipher stage: a
// fingerprint-prefixed, wraparound byte shift by the key's low-order
// byte.
package caesar

import (
	"fmt"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

// Stage implements codec.Stage for the Caesar cipher.
type Stage struct{}

// Encode implements codec.Stage. key must be non-nil: Caesar is keyed.
func (Stage) Encode(data []byte, key *keyhash.Key) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("caesar encode: %w", rzerr.ErrMissingKey)
	}
	shift := key.LowByte()

	fp := keyhash.Fingerprint(*key)
	out := make([]byte, 0, len(fp)+len(data))
	out = append(out, fp[:]...)
	for _, b := range data {
		out = append(out, b+shift)
	}
	return out, nil
}

// Decode implements codec.Stage. key must be non-nil: Caesar is keyed.
func (Stage) Decode(data []byte, key *keyhash.Key) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("caesar decode: %w", rzerr.ErrMissingKey)
	}
	if len(data) < 32 {
		return nil, fmt.Errorf("caesar decode: %w: payload shorter than a fingerprint", rzerr.ErrInvalidData)
	}

	stored := data[:32]
	if !keyhash.Verify(*key, stored) {
		return nil, fmt.Errorf("caesar decode: %w", rzerr.ErrPermissionDenied)
	}

	shift := key.LowByte()
	payload := data[32:]
	out := make([]byte, len(payload))
	for i, b := range payload {
		out[i] = b - shift
	}
	return out, nil
}
