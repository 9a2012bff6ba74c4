package l2encdec

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownProtocol indicates the protocol version has no entry in the protocol table.
	ErrUnknownProtocol = errors.New("unknown protocol version")

	// ErrUnknownVariant indicates a cipher override names no known variant.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrMalformedKey indicates supplied key bytes could not be parsed into the expected shape.
	ErrMalformedKey = errors.New("malformed key material")

	// ErrKeyShapeMismatch indicates supplied key bytes are of the wrong kind
	// (symmetric bytes for an RSA protocol, or an RSA key for a symmetric one).
	ErrKeyShapeMismatch = errors.New("key shape mismatch")

	// ErrChecksumMismatch indicates the tail checksum or header does not match the payload.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidPadding indicates block padding inconsistent with the protocol's padding scheme.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrCipherFailure indicates the block cipher or RSA operation itself failed.
	ErrCipherFailure = errors.New("cipher failure")

	// ErrCompression indicates the zlib stage failed to compress or decompress.
	ErrCompression = errors.New("compression failed")

	// ErrTruncated indicates the wire buffer is shorter than its fixed framing.
	ErrTruncated = errors.New("input truncated")
)

// ProtocolError reports a protocol version that could not be resolved.
type ProtocolError struct {
	Protocol int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s %d", ErrUnknownProtocol.Error(), e.Protocol)
}

func (e *ProtocolError) Unwrap() error {
	return ErrUnknownProtocol
}

// KeyError represents a key material failure.
// It wraps a sentinel error with the key shape the protocol expected.
type KeyError struct {
	Err   error    // Underlying sentinel error (ErrMalformedKey, ErrKeyShapeMismatch)
	Shape KeyShape // Shape the descriptor demanded
	Cause error    // Original parse error, if any
}

func (e *KeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (want %s): %v", e.Err.Error(), e.Shape, e.Cause)
	}
	return fmt.Sprintf("%s (want %s)", e.Err.Error(), e.Shape)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// StageError represents a failure inside one pipeline stage.
// It wraps a sentinel error with context about which stage and protocol failed.
type StageError struct {
	Err      error  // Underlying sentinel error (ErrChecksumMismatch, ErrInvalidPadding, etc.)
	Stage    string // Stage that failed (tail, header, cipher, padding, compression)
	Protocol int    // Protocol version being processed
	Cause    error  // Original error from the underlying operation
}

func (e *StageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol %d: %s stage: %s: %v", e.Protocol, e.Stage, e.Err.Error(), e.Cause)
	}
	return fmt.Sprintf("protocol %d: %s stage: %s", e.Protocol, e.Stage, e.Err.Error())
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// newKeyError creates a KeyError for key provider failures.
func newKeyError(sentinel error, shape KeyShape, cause error) error {
	return &KeyError{
		Err:   sentinel,
		Shape: shape,
		Cause: cause,
	}
}

// newStageError creates a StageError for pipeline failures.
func newStageError(sentinel error, stage string, protocol int, cause error) error {
	return &StageError{
		Err:      sentinel,
		Stage:    stage,
		Protocol: protocol,
		Cause:    cause,
	}
}
