package caesar

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

func TestScenarioABC(t *testing.T) {
	key := keyhash.ParseASCII("1")
	var s Stage

	encoded, err := s.Encode([]byte("ABC"), &key)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(encoded) != 32+3 {
		t.Fatalf("encoded length = %d, want 35", len(encoded))
	}
	want := []byte{0x72, 0x73, 0x74}
	if !bytes.Equal(encoded[32:], want) {
		t.Fatalf("payload = %v, want %v", encoded[32:], want)
	}

	decoded, err := s.Decode(encoded, &key)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(decoded) != "ABC" {
		t.Fatalf("Decode = %q, want %q", decoded, "ABC")
	}

	wrongKey := keyhash.ParseASCII("2")
	_, err = s.Decode(encoded, &wrongKey)
	if !errors.Is(err, rzerr.ErrPermissionDenied) {
		t.Fatalf("Decode with wrong key: got %v, want ErrPermissionDenied", err)
	}
}

func TestRoundTripArbitrary(t *testing.T) {
	key := keyhash.ParseASCII("another secret")
	var s Stage
	data := []byte{0, 1, 2, 255, 254, 128, 'x', 'y', 'z'}

	encoded, err := s.Encode(data, &key)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := s.Decode(encoded, &key)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Fatalf("round trip mismatch: got %v, want %v", decoded, data)
	}
}

func TestMissingKey(t *testing.T) {
	var s Stage
	if _, err := s.Encode([]byte("x"), nil); !errors.Is(err, rzerr.ErrMissingKey) {
		t.Fatalf("Encode with nil key: got %v, want ErrMissingKey", err)
	}
}

func TestShortPayloadIsInvalidData(t *testing.T) {
	key := keyhash.ParseASCII("k")
	var s Stage
	_, err := s.Decode(make([]byte, 5), &key)
	if !errors.Is(err, rzerr.ErrInvalidData) {
		t.Fatalf("Decode short payload: got %v, want ErrInvalidData", err)
	}
}
