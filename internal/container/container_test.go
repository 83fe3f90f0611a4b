package container

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aandreu7/rustyzipper-go/internal/codec"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
)

func TestWriteReadRoundTrip(t *testing.T) {
	stages := []codec.ID{codec.Huffman, codec.AES128}
	payload := []byte{1, 2, 3, 4}

	encoded, err := Write(stages, payload)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotStages, gotPayload, err := Read(encoded)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(gotStages) != len(stages) {
		t.Fatalf("stages = %v, want %v", gotStages, stages)
	}
	for i := range stages {
		if gotStages[i] != stages[i] {
			t.Fatalf("stages[%d] = %v, want %v", i, gotStages[i], stages[i])
		}
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Fatalf("payload = %v, want %v", gotPayload, payload)
	}
}

func TestScenarioEmptyHuffmanHeader(t *testing.T) {
	encoded, err := Write([]codec.ID{codec.Huffman}, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []byte{0x00, 0x01, 0x01}
	if !bytes.Equal(encoded, want) {
		t.Fatalf("Write = %v, want %v", encoded, want)
	}
}

func TestBadSignatureIsInvalidFormat(t *testing.T) {
	_, _, err := Read([]byte{0x01, 0x00})
	if !errors.Is(err, rzerr.ErrInvalidFormat) {
		t.Fatalf("Read bad signature: got %v, want ErrInvalidFormat", err)
	}
}

func TestTooShortIsInvalidFormat(t *testing.T) {
	_, _, err := Read([]byte{0x00})
	if !errors.Is(err, rzerr.ErrInvalidFormat) {
		t.Fatalf("Read short buffer: got %v, want ErrInvalidFormat", err)
	}
}

func TestUnknownStageIsInvalidCodec(t *testing.T) {
	_, _, err := Read([]byte{0x00, 0x01, 0x09})
	if !errors.Is(err, rzerr.ErrInvalidCodec) {
		t.Fatalf("Read unknown stage: got %v, want ErrInvalidCodec", err)
	}
}

func TestReservedStageIsInvalidCodec(t *testing.T) {
	_, _, err := Read([]byte{0x00, 0x01, byte(codec.LZ77)})
	if !errors.Is(err, rzerr.ErrInvalidCodec) {
		t.Fatalf("Read reserved stage: got %v, want ErrInvalidCodec", err)
	}
}
