// Package source resolves the CLI's input argument into a list of
// concrete file paths and transparently decompresses any discovered
// input that already carries an xz magic number.
//
// Expanding a glob pattern is grounded on the teacher repo's use of
// github.com/bmatcuk/doublestar/v4 for hierarchical path matching
// (path.go); magic-byte sniffing for a compressed wrapper format is
// grounded on the teacher's fs.go/probe.go format-detection switch,
// narrowed here to the one format (xz) this tool transparently unwraps.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/therootcompany/xz"
)

// xzMagic is the 6-byte signature at the start of an xz stream.
var xzMagic = []byte("\xfd7zXZ\x00")

// Resolve expands arg into the file paths it names. A plain path that
// exists on disk is returned as a single-element list unchanged; a
// pattern containing glob metacharacters is expanded with
// doublestar.FilepathGlob so a batch invocation can address many files
// in one pipeline run, matching SPEC_FULL.md's batch input discovery
// expansion. Results are returned in the order doublestar reports them.
func Resolve(arg string) ([]string, error) {
	if !doublestar.ValidatePattern(arg) {
		return nil, fmt.Errorf("source: invalid glob pattern %q", arg)
	}

	if !hasMeta(arg) {
		if _, err := os.Stat(arg); err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		return []string{arg}, nil
	}

	matches, err := doublestar.FilepathGlob(arg)
	if err != nil {
		return nil, fmt.Errorf("source: glob %q: %w", arg, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("source: glob %q matched no files", arg)
	}
	return matches, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// ReadFile reads path's contents, transparently decompressing them
// first if the file opens with the xz magic number. The pipeline driver
// is handed raw, already-decompressed bytes either way.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	if !bytes.HasPrefix(raw, xzMagic) {
		return raw, nil
	}

	r, err := xz.NewReader(bytes.NewReader(raw), xz.DefaultDictMax)
	if err != nil {
		return nil, fmt.Errorf("source: xz: %w", err)
	}
	decompressed, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: xz: %w", err)
	}
	return decompressed, nil
}
