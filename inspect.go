package l2encdec

import (
	"encoding/binary"
	"fmt"
)

// Info describes a wire file without decoding its body.
type Info struct {
	Size       int    `json:"size" yaml:"size"`
	Header     string `json:"header" yaml:"header"`
	Protocol   int    `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Variant    string `json:"variant,omitempty" yaml:"variant,omitempty"`
	BodySize   int    `json:"body_size" yaml:"body_size"`
	RSABlocks  int    `json:"rsa_blocks,omitempty" yaml:"rsa_blocks,omitempty"`
	Stored     string `json:"stored_crc,omitempty" yaml:"stored_crc,omitempty"`
	Computed   string `json:"computed_crc,omitempty" yaml:"computed_crc,omitempty"`
	ChecksumOK bool   `json:"checksum_ok" yaml:"checksum_ok"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Inspect reports what can be read from a default-framed file: the header,
// the protocol it names, the body size and the tail checksum status.
// Problems are recorded in Info.Error; Inspect itself never fails.
func Inspect(wire []byte) Info {
	info := Info{Size: len(wire)}

	if len(wire) >= HeaderSize {
		info.Header = readWideHeader(wire[:HeaderSize])
	}
	protocol, err := DetectProtocol(wire)
	if err != nil {
		info.Error = err.Error()
	} else {
		d, _ := Resolve(protocol)
		info.Protocol = protocol
		info.Variant = string(d.Variant)
	}

	if len(wire) < HeaderSize+TailSize {
		if info.Error == "" {
			info.Error = fmt.Sprintf("%d bytes, need at least %d", len(wire), HeaderSize+TailSize)
		}
		return info
	}

	info.BodySize = len(wire) - HeaderSize - TailSize
	if info.Variant == string(VariantRSA) && info.BodySize%rsaBlockSize == 0 {
		info.RSABlocks = info.BodySize / rsaBlockSize
	}

	stored := binary.LittleEndian.Uint32(wire[len(wire)-TailSize+TailChecksumOffset:])
	computed := CRC32().Sum32(wire[:len(wire)-TailSize])
	info.Stored = fmt.Sprintf("%08x", stored)
	info.Computed = fmt.Sprintf("%08x", computed)

	if err := VerifyChecksum(wire); err != nil {
		if info.Error == "" {
			info.Error = err.Error()
		}
	} else {
		info.ChecksumOK = true
	}
	return info
}
