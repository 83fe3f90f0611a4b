package aes128

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

func TestRoundTrip(t *testing.T) {
	cases := map[string][]byte{
		"empty":               {},
		"shorter than block":  []byte("hi"),
		"exact block":         bytes.Repeat([]byte{0}, 16),
		"multi block":         []byte("the quick brown fox jumps over the lazy dog"),
	}

	key := keyhash.ParseASCII("secret")
	var s Stage
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
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
		})
	}
}

func TestExactBlockGainsFullPaddingBlock(t *testing.T) {
	key := keyhash.ParseASCII("key")
	var s Stage
	data := bytes.Repeat([]byte{0}, 16)
	encoded, err := s.Encode(data, &key)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := len(encoded), 32+32; got != want {
		t.Fatalf("encoded length = %d, want %d (fingerprint + data block + padding block)", got, want)
	}
}

func TestWrongKeyFailsPermissionDenied(t *testing.T) {
	right := keyhash.ParseASCII("secret")
	wrong := keyhash.ParseASCII("other")
	var s Stage

	encoded, err := s.Encode([]byte("payload"), &right)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = s.Decode(encoded, &wrong)
	if !errors.Is(err, rzerr.ErrPermissionDenied) {
		t.Fatalf("Decode with wrong key: got %v, want ErrPermissionDenied", err)
	}
}

func TestMissingKey(t *testing.T) {
	var s Stage
	if _, err := s.Encode([]byte("x"), nil); !errors.Is(err, rzerr.ErrMissingKey) {
		t.Fatalf("Encode with nil key: got %v, want ErrMissingKey", err)
	}
	if _, err := s.Decode([]byte("x"), nil); !errors.Is(err, rzerr.ErrMissingKey) {
		t.Fatalf("Decode with nil key: got %v, want ErrMissingKey", err)
	}
}

func TestShortBufferIsInvalidData(t *testing.T) {
	key := keyhash.ParseASCII("k")
	var s Stage
	_, err := s.Decode(make([]byte, 10), &key)
	if !errors.Is(err, rzerr.ErrInvalidData) {
		t.Fatalf("Decode short buffer: got %v, want ErrInvalidData", err)
	}
}
