package l2encdec

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestCRC32_KnownValue(t *testing.T) {
	// Standard check value for CRC-32/IEEE.
	if got := CRC32().Sum32([]byte("123456789")); got != 0xCBF43926 {
		t.Errorf("Sum32 = %#08x, want 0xcbf43926", got)
	}
}

func TestMakeTail(t *testing.T) {
	tail := MakeTail(0xDEADBEEF, binary.LittleEndian)

	if len(tail) != TailSize {
		t.Fatalf("len = %d, want %d", len(tail), TailSize)
	}
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	for i, b := range want {
		if tail[TailChecksumOffset+i] != b {
			t.Errorf("tail[%d] = %#02x, want %#02x", TailChecksumOffset+i, tail[TailChecksumOffset+i], b)
		}
	}
	for i, b := range tail {
		if (i < TailChecksumOffset || i >= TailChecksumOffset+4) && b != 0 {
			t.Errorf("tail[%d] = %#02x, want 0", i, b)
		}
	}
}

func TestVerifyChecksum(t *testing.T) {
	wire, err := Encode(testPlaintext(), testParams(212))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	if err := VerifyChecksum(wire); err != nil {
		t.Errorf("VerifyChecksum error: %v", err)
	}

	tests := []struct {
		name string
		pos  int
	}{
		{"header byte", 2},
		{"body byte", HeaderSize + 3},
		{"checksum byte", len(wire) - TailSize + TailChecksumOffset},
		{"reserved tail byte", len(wire) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := append([]byte{}, wire...)
			tampered[tt.pos] ^= 0x80
			if err := VerifyChecksum(tampered); !errors.Is(err, ErrChecksumMismatch) {
				t.Errorf("error = %v, want ErrChecksumMismatch", err)
			}
		})
	}
}

func TestVerifyChecksum_Short(t *testing.T) {
	if err := VerifyChecksum(make([]byte, TailSize-1)); !errors.Is(err, ErrTruncated) {
		t.Errorf("error = %v, want ErrTruncated", err)
	}
}

func TestVerifyChecksum_TailOnly(t *testing.T) {
	// CRC32 of nothing is zero, so an all-zero tail is valid.
	if err := VerifyChecksum(make([]byte, TailSize)); err != nil {
		t.Errorf("VerifyChecksum error: %v", err)
	}
}

func TestBuiltinChecksummers(t *testing.T) {
	if _, ok := builtinChecksummers()[ChecksumCRC32Tail]; !ok {
		t.Error("crc32_tail should have a checksummer")
	}
}
