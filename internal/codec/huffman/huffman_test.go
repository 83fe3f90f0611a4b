package huffman

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":            {},
		"single byte":      []byte{0x41},
		"single repeated":  bytes.Repeat([]byte{0x61}, 100),
		"mississippi":      []byte("mississippi"),
		"all 256 values":   allByteValues(),
		"two distinct":     []byte{0, 1, 0, 1, 0, 0, 0, 1},
		"binary-ish random": randomBytes(4096, 1),
	}

	var s Stage
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			encoded, err := s.Encode(data, nil)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			decoded, err := s.Decode(encoded, nil)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(decoded, data) && !(len(decoded) == 0 && len(data) == 0) {
				t.Fatalf("round trip mismatch: got %v, want %v", decoded, data)
			}
		})
	}
}

func TestEmptyInputHeader(t *testing.T) {
	var s Stage
	encoded, err := s.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// u16 code_count=0, u32 original_length=0, no payload.
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("empty-input header = %v, want %v", encoded, want)
	}
}

func TestSingleDistinctByteProducesLength1Code(t *testing.T) {
	var s Stage
	data := bytes.Repeat([]byte{0x7A}, 10)
	encoded, err := s.Encode(data, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded[0] != 0 || encoded[1] != 1 {
		t.Fatalf("expected code_count=1, got %v", encoded[:2])
	}
	if encoded[2] != 0x7A {
		t.Fatalf("expected byte_value=0x7A, got %#x", encoded[2])
	}
	if encoded[3] != 1 {
		t.Fatalf("expected code_length_in_bits=1, got %d", encoded[3])
	}
}

func allByteValues() []byte {
	out := make([]byte, 256)
	for i := range out {
		out[i] = byte(i)
	}
	return out
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	out := make([]byte, n)
	r.Read(out)
	return out
}
