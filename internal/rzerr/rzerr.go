// Package rzerr defines the sentinel error kinds shared by every codec
// stage, the container codec, and the pipeline driver.
//
// Callers should test for a kind with errors.Is, since stages and the
// driver wrap these with context via fmt.Errorf("...: %w", err).
package rzerr

import "errors"

var (
	// ErrInvalidFormat means the container signature was wrong or the
	// payload was too short to contain a valid header.
	ErrInvalidFormat = errors.New("rustyzipper: invalid container format")

	// ErrInvalidCodec means a stage identifier was unknown or refers to
	// a reserved-but-unimplemented codec (LZ77, Arithmetic).
	ErrInvalidCodec = errors.New("rustyzipper: invalid or unimplemented codec")

	// ErrMissingKey means a keyed stage was reached with no key left to
	// consume from the key list.
	ErrMissingKey = errors.New("rustyzipper: missing key for keyed stage")

	// ErrPermissionDenied means a keyed decode's key fingerprint did not
	// match the fingerprint stored in the stage's payload.
	ErrPermissionDenied = errors.New("rustyzipper: key fingerprint mismatch")

	// ErrInvalidData means a stage found its input internally
	// inconsistent: a truncated Huffman header, a cipher that failed to
	// initialize, a short keyed-stage buffer, and so on.
	ErrInvalidData = errors.New("rustyzipper: invalid stage data")

	// ErrIO wraps failures at the file boundary (reading the input,
	// writing the container or the decoded file). A failure to delete
	// the container after a successful decode is only logged.
	ErrIO = errors.New("rustyzipper: i/o error")
)
