// Package pipeline is the stage dispatch loop: it drives a byte buffer
// through a declared sequence of codec stages on encode, and through
// their inverses in reverse order on decode, then hands the file
// boundary (reading sources, writing and removing containers) to its
// own small set of disk operations.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aandreu7/rustyzipper-go/internal/codec"
	"github.com/aandreu7/rustyzipper-go/internal/codec/aes128"
	"github.com/aandreu7/rustyzipper-go/internal/codec/caesar"
	"github.com/aandreu7/rustyzipper-go/internal/codec/huffman"
	"github.com/aandreu7/rustyzipper-go/internal/codec/rle"
	"github.com/aandreu7/rustyzipper-go/internal/container"
	"github.com/aandreu7/rustyzipper-go/internal/huffcache"
	"github.com/aandreu7/rustyzipper-go/internal/keyhash"
	"github.com/aandreu7/rustyzipper-go/internal/rzerr"
	"github.com/aandreu7/rustyzipper-go/internal/source"
)

// containerSuffix is appended on encode and stripped on decode.
const containerSuffix = ".rsz"

// Driver owns the stage registry and, when batch mode is in play, the
// Huffman code-table cache shared across the files in that batch. A
// Driver is safe to reuse across many single-file or batch invocations;
// it holds no per-call state of its own.
type Driver struct {
	stages map[codec.ID]codec.Stage
	cache  *huffcache.Cache
}

// NewDriver builds a Driver with every implemented stage wired in and a
// Huffman code-table cache sized for batch reuse.
func NewDriver() *Driver {
	return &Driver{
		stages: map[codec.ID]codec.Stage{
			codec.Huffman: huffman.Stage{},
			codec.RLE:     rle.Stage{},
			codec.Caesar:  caesar.Stage{},
			codec.AES128:  aes128.Stage{},
		},
		cache: huffcache.New(64),
	}
}

// EncodeBuffer runs data through stages in declared order, consuming
// one key per keyed stage from the front of keys (the order they were
// declared), and wraps the result in a container.
func (d *Driver) EncodeBuffer(data []byte, stages []codec.ID, keys []keyhash.Key) ([]byte, error) {
	buf := data
	for _, id := range stages {
		var keyPtr *keyhash.Key
		if id.Keyed() {
			k, ok := popFront(&keys)
			if !ok {
				return nil, fmt.Errorf("pipeline encode: stage %s: %w", id, rzerr.ErrMissingKey)
			}
			keyPtr = &k
		}

		stage, err := d.lookup(id)
		if err != nil {
			return nil, err
		}

		out, err := stage.Encode(buf, keyPtr)
		if err != nil {
			return nil, fmt.Errorf("pipeline encode: stage %s: %w", id, err)
		}
		buf = out
	}

	return container.Write(stages, buf)
}

// DecodeBuffer parses a container and runs its payload through the
// stage inverses in reverse order.
//
// Key order is the tricky part: the key list the caller supplies is in
// the same order the stages were originally declared on encode (it is
// never reversed on the command line). But the driver here walks the
// stage list in reverse, so matching each reversed, keyed stage to its
// own key means popping from the back of keys rather than the front —
// the first keyed stage encountered while walking backward is the last
// one that was declared forward, and its key is the last one in the
// list.
func (d *Driver) DecodeBuffer(data []byte, keys []keyhash.Key) ([]byte, error) {
	stages, payload, err := container.Read(data)
	if err != nil {
		return nil, fmt.Errorf("pipeline decode: %w", err)
	}

	buf := payload
	for i := len(stages) - 1; i >= 0; i-- {
		id := stages[i]

		var keyPtr *keyhash.Key
		if id.Keyed() {
			k, ok := popBack(&keys)
			if !ok {
				return nil, fmt.Errorf("pipeline decode: stage %s: %w", id, rzerr.ErrMissingKey)
			}
			keyPtr = &k
		}

		stage, err := d.lookup(id)
		if err != nil {
			return nil, err
		}

		out, err := stage.Decode(buf, keyPtr)
		if err != nil {
			return nil, fmt.Errorf("pipeline decode: stage %s: %w", id, err)
		}
		buf = out
	}

	return buf, nil
}

func (d *Driver) lookup(id codec.ID) (codec.Stage, error) {
	stage, ok := d.stages[id]
	if !ok {
		return nil, fmt.Errorf("pipeline: %w: stage %s", rzerr.ErrInvalidCodec, id)
	}
	return stage, nil
}

// EncodeFile reads path (transparently unwrapping an xz-compressed
// source, see internal/source), runs it through stages with a single
// freshly-built Huffman tree per spec.md §5, and writes path+".rsz".
// Use EncodeFileBatch instead when processing many files in the same
// invocation so repeated distributions can share a code table.
func (d *Driver) EncodeFile(path string, stages []codec.ID, keys []keyhash.Key) (outPath string, err error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
	}

	encoded, err := d.EncodeBuffer(data, stages, keys)
	if err != nil {
		return "", err
	}

	outPath = path + containerSuffix
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
	}
	return outPath, nil
}

// EncodeFileBatch is EncodeFile for a set of paths discovered together
// (see internal/source's glob expansion), routing the Huffman stage
// through the Driver's code-table cache so files sharing a byte
// distribution reuse one built tree. It never changes what gets written
// to disk (see internal/huffcache's doc comment) — only a single-tree
// guarantee for standalone EncodeFile calls is given up.
func (d *Driver) EncodeFileBatch(paths []string, stages []codec.ID, keys []keyhash.Key) (outPaths []string, err error) {
	outPaths = make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := source.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
		}

		encoded, err := d.encodeBufferCached(data, stages, keys)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", path, err)
		}

		outPath := path + containerSuffix
		if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
			return nil, fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
		}
		outPaths = append(outPaths, outPath)
	}
	return outPaths, nil
}

// encodeBufferCached is EncodeBuffer with the Huffman stage routed
// through the Driver's code-table cache whenever Huffman appears in
// stages. It never changes the bytes a plain EncodeBuffer call would
// produce; see internal/huffcache's doc comment.
func (d *Driver) encodeBufferCached(data []byte, stages []codec.ID, keys []keyhash.Key) ([]byte, error) {
	usesHuffman := false
	for _, id := range stages {
		if id == codec.Huffman {
			usesHuffman = true
			break
		}
	}
	if !usesHuffman || len(data) == 0 {
		return d.EncodeBuffer(data, stages, keys)
	}

	buf := data
	remainingKeys := keys
	for _, id := range stages {
		var keyPtr *keyhash.Key
		if id.Keyed() {
			k, ok := popFront(&remainingKeys)
			if !ok {
				return nil, fmt.Errorf("pipeline encode: stage %s: %w", id, rzerr.ErrMissingKey)
			}
			keyPtr = &k
		}

		var (
			out []byte
			err error
		)
		if id == codec.Huffman {
			table := d.cache.CodeTable(buf)
			out, err = huffman.EncodeWithCodeTable(buf, table)
		} else {
			stage, lookupErr := d.lookup(id)
			if lookupErr != nil {
				return nil, lookupErr
			}
			out, err = stage.Encode(buf, keyPtr)
		}
		if err != nil {
			return nil, fmt.Errorf("pipeline encode: stage %s: %w", id, err)
		}
		buf = out
	}

	return container.Write(stages, buf)
}

// DecodeFile reads an encoded container at path, recovers the original
// bytes, writes them to path with the ".rsz" suffix stripped (if
// present), and deletes the container file on success, matching
// SPEC_FULL.md's carried-forward delete-on-success contract.
func (d *Driver) DecodeFile(path string, keys []keyhash.Key) (outPath string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
	}

	decoded, err := d.DecodeBuffer(data, keys)
	if err != nil {
		return "", err
	}

	outPath = strings.TrimSuffix(path, containerSuffix)
	if err := os.WriteFile(outPath, decoded, 0o644); err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", rzerr.ErrIO, err)
	}

	if outPath == path {
		// No ".rsz" suffix: the decoded bytes already replaced the
		// container in place, so there is nothing left to delete.
		return outPath, nil
	}
	if err := os.Remove(path); err != nil {
		slog.Warn("decoded file written but source container could not be removed",
			"path", path, "error", err)
	}

	return outPath, nil
}

// IsRecoverable reports whether err is one of the stage/container
// failure kinds: every rzerr kind except ErrIO. Errors of no rzerr kind
// are not recoverable either.
func IsRecoverable(err error) bool {
	return errors.Is(err, rzerr.ErrInvalidFormat) ||
		errors.Is(err, rzerr.ErrInvalidCodec) ||
		errors.Is(err, rzerr.ErrMissingKey) ||
		errors.Is(err, rzerr.ErrPermissionDenied) ||
		errors.Is(err, rzerr.ErrInvalidData)
}

func popFront(keys *[]keyhash.Key) (keyhash.Key, bool) {
	if len(*keys) == 0 {
		return keyhash.Key{}, false
	}
	k := (*keys)[0]
	*keys = (*keys)[1:]
	return k, true
}

func popBack(keys *[]keyhash.Key) (keyhash.Key, bool) {
	n := len(*keys)
	if n == 0 {
		return keyhash.Key{}, false
	}
	k := (*keys)[n-1]
	*keys = (*keys)[:n-1]
	return k, true
}
