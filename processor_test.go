package l2encdec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func newTestPipeline(t *testing.T, protocol int, f Framing) *Pipeline {
	t.Helper()
	d := mustResolve(t, protocol)
	km, err := Obtain(d, KeyRequest{Filename: testFilename})
	if err != nil {
		t.Fatalf("Obtain(%d) error: %v", protocol, err)
	}
	p, err := NewPipeline(d, km, f)
	if err != nil {
		t.Fatalf("NewPipeline(%d) error: %v", protocol, err)
	}
	return p
}

// --- Construction ---

func TestNewPipeline_ShapeMismatch(t *testing.T) {
	d := mustResolve(t, 413)
	_, err := NewPipeline(d, &KeyMaterial{Shape: KeySymmetric, Blowfish: []byte("k\x00")}, Framing{})
	if !errors.Is(err, ErrKeyShapeMismatch) {
		t.Errorf("error = %v, want ErrKeyShapeMismatch", err)
	}
}

func TestNewPipeline_NilKeyMaterial(t *testing.T) {
	_, err := NewPipeline(mustResolve(t, 111), nil, Framing{})
	if !errors.Is(err, ErrMalformedKey) {
		t.Errorf("error = %v, want ErrMalformedKey", err)
	}
}

func TestPipeline_Descriptor(t *testing.T) {
	p := newTestPipeline(t, 120, Framing{})
	if p.Descriptor().Protocol != 120 {
		t.Errorf("Protocol = %d, want 120", p.Descriptor().Protocol)
	}
}

// --- Forward layout ---

func TestForward_Layout(t *testing.T) {
	p := newTestPipeline(t, 111, Framing{})
	plain := []byte("abc")

	wire, err := p.Forward(plain)
	if err != nil {
		t.Fatalf("Forward error: %v", err)
	}
	if len(wire) != HeaderSize+len(plain)+TailSize {
		t.Fatalf("len = %d, want %d", len(wire), HeaderSize+len(plain)+TailSize)
	}

	if got := readWideHeader(wire[:HeaderSize]); got != "Lineage2Ver111" {
		t.Errorf("header = %q, want Lineage2Ver111", got)
	}
	body := wire[HeaderSize : HeaderSize+3]
	if !bytes.Equal(body, []byte{'a' ^ 0xAC, 'b' ^ 0xAC, 'c' ^ 0xAC}) {
		t.Errorf("body = %x", body)
	}

	tail := wire[len(wire)-TailSize:]
	want := CRC32().Sum32(wire[:len(wire)-TailSize])
	if got := binary.LittleEndian.Uint32(tail[TailChecksumOffset:]); got != want {
		t.Errorf("tail crc = %#08x, want %#08x", got, want)
	}
}

func TestForward_PositionKeyStartsAtIndex(t *testing.T) {
	p := newTestPipeline(t, 120, Framing{SkipHeader: true, SkipTail: true})
	wire, _ := p.Forward(make([]byte, 3))

	want := []byte{PositionKey(0xE6), PositionKey(0xE7), PositionKey(0xE8)}
	if !bytes.Equal(wire, want) {
		t.Errorf("body = %x, want %x", wire, want)
	}
}

func TestForward_RSABodyBlocks(t *testing.T) {
	p := newTestPipeline(t, 412, Framing{SkipHeader: true, SkipTail: true})
	wire, err := p.Forward(bytes.Repeat([]byte("x"), 5000))
	if err != nil {
		t.Fatalf("Forward error: %v", err)
	}
	if len(wire)%rsaBlockSize != 0 || len(wire) == 0 {
		t.Errorf("body = %d bytes, want a non-zero multiple of %d", len(wire), rsaBlockSize)
	}
}

// --- Inverse stages ---

func TestInverse_StageErrors(t *testing.T) {
	p := newTestPipeline(t, 413, Framing{})
	d := p.Descriptor()
	enc, _ := RSA(d.builtin.rsa)

	frame := func(body []byte) []byte {
		wire := append(WideHeader(d.Header()), body...)
		return append(wire, MakeTail(CRC32().Sum32(wire), d.ByteOrder)...)
	}

	badPad := make([]byte, rsaBlockSize)
	badPad[0] = 1
	badPadCT, _ := enc.Encrypt(badPad)

	badZlib := padRSABlocks([]byte{5, 0, 0, 0, 'n', 'o', 'p', 'e', '!'})
	badZlibCT, _ := enc.Encrypt(badZlib)

	tests := []struct {
		name  string
		wire  []byte
		want  error
		stage string
	}{
		{"truncated", make([]byte, HeaderSize), ErrTruncated, "framing"},
		{"bad tail", append(frame(badPadCT)[:HeaderSize+rsaBlockSize], make([]byte, TailSize)...), ErrChecksumMismatch, "tail"},
		{"bad padding", frame(badPadCT), ErrInvalidPadding, "padding"},
		{"bad stream", frame(badZlibCT), ErrCompression, "compression"},
		{"unaligned", frame(make([]byte, 64)), ErrCipherFailure, "cipher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Inverse(tt.wire)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var se *StageError
			if !errors.As(err, &se) || se.Stage != tt.stage {
				t.Errorf("stage = %v, want %q", err, tt.stage)
			}
			if out != nil {
				t.Error("no output expected on failure")
			}
		})
	}
}

func TestInverse_HeaderMismatchBeforeCipher(t *testing.T) {
	p := newTestPipeline(t, 211, Framing{})
	other := newTestPipeline(t, 212, Framing{})

	wire, _ := other.Forward(testPlaintext())
	_, err := p.Inverse(wire)

	var se *StageError
	if !errors.As(err, &se) || se.Stage != "header" || !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("error = %v, want header stage ErrChecksumMismatch", err)
	}
}

func TestPipeline_SkipBoth(t *testing.T) {
	p := newTestPipeline(t, 211, Framing{SkipHeader: true, SkipTail: true})
	plain := testPlaintext()

	wire, _ := p.Forward(plain)
	if len(wire) != len(plain) {
		t.Errorf("len = %d, want %d", len(wire), len(plain))
	}
	got, err := p.Inverse(wire)
	if err != nil {
		t.Fatalf("Inverse error: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Error("round-trip failed")
	}
}
