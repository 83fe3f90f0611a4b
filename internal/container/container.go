// Package container implements the on-disk envelope that binds a
// sequence of codec stages to the payload they produced: a one-byte
// signature, a one-byte stage count, the stage identifier list, and
// finally the payload.
package container

import (
	"fmt"

	"github.com/aandreu7/rustyzipper-go/internal/codec"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

// Signature is the reserved marker byte written as the container's
// first byte. It doubles as codec.Signature, the zero stage identifier
// that is never itself a pipeline stage.
const Signature byte = byte(codec.Signature)

// Write serializes stages and payload into the container's on-disk
// layout: [signature][stage count][stage ids...][payload].
func Write(stages []codec.ID, payload []byte) ([]byte, error) {
	if len(stages) > 255 {
		return nil, fmt.Errorf("container write: %w: more than 255 stages", rzerr.ErrInvalidData)
	}

	out := make([]byte, 0, 2+len(stages)+len(payload))
	out = append(out, Signature)
	out = append(out, byte(len(stages)))
	for _, id := range stages {
		out = append(out, byte(id))
	}
	out = append(out, payload...)
	return out, nil
}

// Read parses the container's on-disk layout, validating the signature
// and returning the stage list (in declared, on-disk order) and the
// remaining payload. It fails with ErrInvalidFormat if the signature is
// wrong or the buffer is too short to hold its own header, and with
// ErrInvalidCodec if any stage identifier names an unknown or
// reserved-but-unimplemented codec.
func Read(data []byte) (stages []codec.ID, payload []byte, err error) {
	if len(data) < 2 {
		return nil, nil, fmt.Errorf("container read: %w: buffer too short for a header", rzerr.ErrInvalidFormat)
	}
	if data[0] != Signature {
		return nil, nil, fmt.Errorf("container read: %w: bad signature byte %#x", rzerr.ErrInvalidFormat, data[0])
	}

	n := int(data[1])
	if len(data) < 2+n {
		return nil, nil, fmt.Errorf("container read: %w: buffer too short for %d stage ids", rzerr.ErrInvalidFormat, n)
	}

	stages = make([]codec.ID, n)
	for i := 0; i < n; i++ {
		id := codec.ID(data[2+i])
		if !id.Implemented() {
			return nil, nil, fmt.Errorf("container read: %w: stage id %s", rzerr.ErrInvalidCodec, id)
		}
		stages[i] = id
	}

	payload = data[2+n:]
	return stages, payload, nil
}
