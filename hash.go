package l2encdec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// Checksummer computes the integrity value stored in the tail.
type Checksummer interface {
	// Sum32 returns the checksum of data.
	Sum32(data []byte) uint32
}

// crc32Checksummer implements CRC-32 (IEEE), the zlib crc32.
type crc32Checksummer struct{}

// CRC32 returns the IEEE CRC-32 checksummer.
func CRC32() Checksummer {
	return crc32Checksummer{}
}

func (crc32Checksummer) Sum32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// builtinChecksummers returns the checksummer registry.
func builtinChecksummers() map[ChecksumPolicy]Checksummer {
	return map[ChecksumPolicy]Checksummer{
		ChecksumCRC32Tail: CRC32(),
	}
}

// MakeTail builds the 20-byte tail: zero except for sum at TailChecksumOffset.
func MakeTail(sum uint32, order binary.ByteOrder) []byte {
	tail := make([]byte, TailSize)
	order.PutUint32(tail[TailChecksumOffset:], sum)
	return tail
}

// VerifyChecksum checks the CRC32 stored in the tail of a default-framed
// file against the bytes before it.
func VerifyChecksum(wire []byte) error {
	if len(wire) < TailSize {
		return newStageError(ErrTruncated, "tail", 0, fmt.Errorf("%d bytes", len(wire)))
	}
	return verifyTail(wire, 0, CRC32(), binary.LittleEndian)
}

// verifyTail compares the whole tail with the one Encode would have written
// for the preceding bytes, so the reserved bytes are covered as well.
func verifyTail(wire []byte, protocol int, sum Checksummer, order binary.ByteOrder) error {
	body, tail := wire[:len(wire)-TailSize], wire[len(wire)-TailSize:]
	want := MakeTail(sum.Sum32(body), order)
	if !bytes.Equal(tail, want) {
		return newStageError(ErrChecksumMismatch, "tail", protocol,
			fmt.Errorf("stored %#08x, computed %#08x",
				order.Uint32(tail[TailChecksumOffset:]), order.Uint32(want[TailChecksumOffset:])))
	}
	return nil
}
