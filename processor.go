package l2encdec

import (
	"bytes"
	"errors"
	"fmt"
)

// Framing controls the header and tail wrapped around the cipher body.
// The zero value writes and expects the protocol's default header and a
// computed CRC32 tail.
type Framing struct {
	Header     string // header text; empty means "Lineage2Ver<protocol>"
	SkipHeader bool   // no header on the wire
	SkipTail   bool   // no tail on the wire
	Tail       []byte // explicit tail written verbatim and expected verbatim
}

// Pipeline runs one descriptor's stages over a buffer.
// Forward goes plaintext to wire: compress, pad, encrypt, header, tail.
// Inverse runs the mirror in reverse order.
//
// A Pipeline holds key material for a single call and is not shared.
type Pipeline struct {
	desc   Descriptor
	enc    Encryptor
	sum    Checksummer
	header []byte
	tail   []byte
	noTail bool
}

// NewPipeline builds the pipeline for a descriptor and its key material.
func NewPipeline(d Descriptor, km *KeyMaterial, f Framing) (*Pipeline, error) {
	if km == nil {
		return nil, newKeyError(ErrMalformedKey, d.KeyShape, errors.New("no key material"))
	}
	if km.Shape != d.KeyShape {
		return nil, newKeyError(ErrKeyShapeMismatch, d.KeyShape, fmt.Errorf("got %s", km.Shape))
	}

	enc, err := newEncryptor(d.Variant, km)
	if err != nil {
		return nil, err
	}

	sum, ok := builtinChecksummers()[d.Checksum]
	if !ok {
		return nil, fmt.Errorf("no checksummer for policy %q", d.Checksum)
	}

	p := &Pipeline{
		desc:   d,
		enc:    enc,
		sum:    sum,
		noTail: f.SkipTail,
	}
	if !f.SkipHeader {
		text := f.Header
		if text == "" {
			text = d.Header()
		}
		p.header = WideHeader(text)
	}
	if len(f.Tail) > 0 {
		p.tail = clone(f.Tail)
	}
	return p, nil
}

// Descriptor returns the descriptor the pipeline was built for.
func (p *Pipeline) Descriptor() Descriptor {
	return p.desc
}

// Forward encodes plaintext into wire bytes. plaintext is not modified.
func (p *Pipeline) Forward(plaintext []byte) ([]byte, error) {
	body := plaintext

	if p.desc.Compression == CompressionZlibSized {
		packed, err := compressSized(body, p.desc.ByteOrder)
		if err != nil {
			return nil, newStageError(ErrCompression, "compression", p.desc.Protocol, err)
		}
		body = packed
	}

	if p.desc.Padding == PaddingRSABlock {
		body = padRSABlocks(body)
	}

	enc, err := p.enc.Encrypt(body)
	if err != nil {
		return nil, p.cipherError(err)
	}

	out := make([]byte, 0, len(p.header)+len(enc)+TailSize)
	out = append(out, p.header...)
	out = append(out, enc...)

	switch {
	case p.noTail:
	case p.tail != nil:
		out = append(out, p.tail...)
	default:
		out = append(out, MakeTail(p.sum.Sum32(out), p.desc.ByteOrder)...)
	}
	return out, nil
}

// Inverse decodes wire bytes into plaintext. wire is not modified.
// Integrity is checked before any cipher work: the tail first, then the header.
func (p *Pipeline) Inverse(wire []byte) ([]byte, error) {
	tailLen := p.tailLen()
	if len(wire) < len(p.header)+tailLen {
		return nil, newStageError(ErrTruncated, "framing", p.desc.Protocol,
			fmt.Errorf("%d bytes, need at least %d", len(wire), len(p.header)+tailLen))
	}

	switch {
	case p.noTail:
	case p.tail != nil:
		if !bytes.Equal(wire[len(wire)-tailLen:], p.tail) {
			return nil, newStageError(ErrChecksumMismatch, "tail", p.desc.Protocol, errors.New("tail differs from expected"))
		}
	default:
		if err := verifyTail(wire, p.desc.Protocol, p.sum, p.desc.ByteOrder); err != nil {
			return nil, err
		}
	}

	if got := wire[:len(p.header)]; !bytes.Equal(got, p.header) {
		return nil, newStageError(ErrChecksumMismatch, "header", p.desc.Protocol,
			fmt.Errorf("header %q, want %q", readWideHeader(got), readWideHeader(p.header)))
	}

	body, err := p.enc.Decrypt(wire[len(p.header) : len(wire)-tailLen])
	if err != nil {
		return nil, p.cipherError(err)
	}

	if p.desc.Padding == PaddingRSABlock {
		if body, err = unpadRSABlocks(body); err != nil {
			return nil, newStageError(ErrInvalidPadding, "padding", p.desc.Protocol, err)
		}
	}

	if p.desc.Compression == CompressionZlibSized {
		if body, err = decompressSized(body, p.desc.ByteOrder); err != nil {
			return nil, newStageError(ErrCompression, "compression", p.desc.Protocol, err)
		}
	}

	return body, nil
}

func (p *Pipeline) tailLen() int {
	switch {
	case p.noTail:
		return 0
	case p.tail != nil:
		return len(p.tail)
	}
	return TailSize
}

func (p *Pipeline) cipherError(err error) error {
	var ke *KeyError
	if errors.As(err, &ke) {
		return err
	}
	return newStageError(ErrCipherFailure, "cipher", p.desc.Protocol, err)
}
