// Package l2encdec encodes and decodes Lineage 2 client files
// ("Lineage2VerNNN" containers).
//
// Each protocol version selects a fixed transform pipeline from a read-only
// protocol table. Encode runs the pipeline forward, Decode runs its mirror:
//
//	plaintext -> [zlib] -> [RSA block padding] -> cipher -> header -> CRC32 tail
//
// # Protocols
//
//   - 111: XOR with key 0xAC
//   - 120: XOR with a key derived from each byte's position (start 0xE6)
//   - 121: XOR with a key derived from the file name
//   - 211, 212: Blowfish with built-in keys, little-endian words
//   - 411-414: zlib, 124-byte chunks framed in 128-byte blocks, raw RSA
//
// # Basic Usage
//
//	wire, err := l2encdec.Encode(plain, l2encdec.Params{Protocol: 413})
//	plain, err := l2encdec.Decode(wire, l2encdec.Params{Protocol: 413})
//
// # Keys
//
// Every protocol ships a publicly known key, used when Params.Key is the
// zero value. Supplied keys are parsed by shape: PEM, DER or a YAML/JSON
// document with hex modulus and exponents for RSA protocols, raw key text
// for Blowfish, an integer for the XOR protocols.
//
// Protocols 411-414 decode with the shared modern key by default. Files
// signed with the original per-version keys need LegacyDecryptRSA; the
// legacy keys cannot encode.
//
// # Errors
//
// Failures unwrap to one of the sentinel errors (ErrUnknownProtocol,
// ErrMalformedKey, ErrKeyShapeMismatch, ErrChecksumMismatch,
// ErrInvalidPadding, ErrCipherFailure, ErrCompression, ErrTruncated).
// Use errors.Is to test for them.
package l2encdec

import (
	"context"
	"sync"
	"time"
)

// Params configures a single Encode or Decode call.
type Params struct {
	Protocol         int       // protocol version, e.g. 413
	Key              KeySource // BuiltIn() or Supplied(keyFileBytes)
	LegacyDecryptRSA bool      // decode 411-414 with the original per-version key
	Filename         string    // base file name; protocol 121 derives its key from it
	Variant          Variant   // runs another variant under this protocol's header

	Header     string // overrides "Lineage2Ver<protocol>"
	SkipHeader bool   // no header on the wire
	SkipTail   bool   // no 20-byte tail on the wire
	Tail       []byte // explicit tail, written and expected verbatim
}

func (p Params) framing() Framing {
	return Framing{
		Header:     p.Header,
		SkipHeader: p.SkipHeader,
		SkipTail:   p.SkipTail,
		Tail:       p.Tail,
	}
}

// Handle is a ready codec. It holds no per-call state and is safe for
// concurrent use.
type Handle struct {
	keys KeyProvider
}

// NewHandle returns a Handle resolving keys through keys.
// A nil provider selects DefaultKeyProvider.
func NewHandle(keys KeyProvider) *Handle {
	if keys == nil {
		keys = DefaultKeyProvider()
	}
	return &Handle{keys: keys}
}

var (
	defaultHandle *Handle
	initOnce      sync.Once
)

// Initialize returns the process-wide default Handle, building it on first
// use. Hosts call it once before issuing Encode or Decode.
func Initialize() *Handle {
	initOnce.Do(func() {
		defaultHandle = NewHandle(nil)
		emitInitialized(context.Background(), len(protocols))
	})
	return defaultHandle
}

// Encode encodes plaintext with the default Handle.
func Encode(plaintext []byte, p Params) ([]byte, error) {
	return Initialize().Encode(context.Background(), plaintext, p)
}

// Decode decodes wire bytes with the default Handle.
func Decode(wire []byte, p Params) ([]byte, error) {
	return Initialize().Decode(context.Background(), wire, p)
}

// Encode transforms plaintext into wire bytes. The legacy flag is ignored:
// the legacy keys cannot encrypt.
func (h *Handle) Encode(ctx context.Context, plaintext []byte, p Params) ([]byte, error) {
	start := time.Now()
	emitEncodeStart(ctx, p.Protocol, len(plaintext))

	var variant Variant
	out, err := func() ([]byte, error) {
		pl, err := h.pipeline(p, false)
		if err != nil {
			return nil, err
		}
		variant = pl.desc.Variant
		return pl.Forward(plaintext)
	}()

	emitEncodeComplete(ctx, p.Protocol, variant, len(plaintext), len(out), time.Since(start), err)
	return out, err
}

// Decode transforms wire bytes into plaintext.
func (h *Handle) Decode(ctx context.Context, wire []byte, p Params) ([]byte, error) {
	start := time.Now()
	emitDecodeStart(ctx, p.Protocol, len(wire), p.LegacyDecryptRSA)

	var variant Variant
	var legacy bool
	out, err := func() ([]byte, error) {
		pl, err := h.pipeline(p, p.LegacyDecryptRSA)
		if err != nil {
			return nil, err
		}
		variant = pl.desc.Variant
		legacy = p.LegacyDecryptRSA && pl.desc.LegacyRSA
		return pl.Inverse(wire)
	}()

	emitDecodeComplete(ctx, p.Protocol, variant, len(wire), len(out), time.Since(start), legacy, err)
	return out, err
}

// Pipeline resolves the protocol and key material for p and returns the
// pipeline a call would run. legacy selects the legacy RSA key where the
// protocol allows it.
func (h *Handle) Pipeline(p Params, legacy bool) (*Pipeline, error) {
	return h.pipeline(p, legacy)
}

func (h *Handle) pipeline(p Params, legacy bool) (*Pipeline, error) {
	d, err := Resolve(p.Protocol)
	if err != nil {
		return nil, err
	}
	if d, err = d.WithVariant(p.Variant); err != nil {
		return nil, err
	}
	km, err := h.keys.Obtain(d, KeyRequest{
		Source:   p.Key,
		Filename: p.Filename,
		Legacy:   legacy,
	})
	if err != nil {
		return nil, err
	}
	return NewPipeline(d, km, p.framing())
}
