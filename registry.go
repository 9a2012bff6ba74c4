package l2encdec

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
)

// Wire framing shared by every protocol epoch.
const (
	// HeaderPrefix is the ASCII text every default header starts with.
	HeaderPrefix = "Lineage2Ver"

	// HeaderSize is the length of a default UTF-16LE header ("Lineage2VerNNN").
	HeaderSize = (len(HeaderPrefix) + 3) * 2

	// TailSize is the length of the integrity tail appended after the body.
	TailSize = 20

	// TailChecksumOffset is where the CRC32 sits inside the tail.
	TailChecksumOffset = 12
)

// Descriptor is the immutable transform recipe for one protocol epoch.
// Descriptors are looked up by version and never mutated.
type Descriptor struct {
	Protocol    int
	Variant     Variant
	KeyShape    KeyShape
	Checksum    ChecksumPolicy
	Padding     PaddingPolicy
	Compression CompressionPolicy
	LegacyRSA   bool             // legacy RSA decrypt may be selected
	ByteOrder   binary.ByteOrder // order of every multi-byte integer on the wire
	BlockSize   int              // cipher block size in bytes

	builtin keyDefaults
}

// keyDefaults holds the publicly known keys shipped with a protocol epoch.
type keyDefaults struct {
	xorKey   byte
	xorStart int
	blowfish string
	rsa      *RSAKey
	legacy   *RSAKey
}

// Header returns the default header text for the descriptor.
func (d Descriptor) Header() string {
	return fmt.Sprintf("%s%d", HeaderPrefix, d.Protocol)
}

// MinWireSize returns the encoded length of an empty plaintext:
// header, tail, and whatever the body stages emit for zero input.
func (d Descriptor) MinWireSize() int {
	body := 0
	if d.Padding == PaddingRSABlock {
		body = rsaBlockSize
	}
	return len(d.Header())*2 + TailSize + body
}

// Keys published with the original client. The modern pair is the re-keyed
// encdec key shared by 411-414; the legacy moduli can only decrypt.
const (
	modernModulus = "75b4d6de5c016544068a1acf125869f43d2e09fc55b8b1e289556daf9b8757635593446288b3653da1ce91c87bb1a5c18f16323495c55d7d72c0890a83f69bfd1fd9434eb1c02f3e4679edfa43309319070129c267c85604d87bb65bae205de3707af1d2108881abb567c3b3d069ae67c3a4c6a3aa93d26413d4c66094ae2039"
	modernPublic  = "30b4c2d798d47086145c75063c8e841e719776e400291d7838d3e6c4405b504c6a07f8fca27f32b86643d2649d1d5f124cdd0bf272f0909dd7352fe10a77b34d831043d9ae541f8263c6fe3d1c14c2f04e43a7253a6dda9a8c1562cbd493c1b631a1957618ad5dfe5ca28553f746e2fc6f2db816c7db223ec91e955081c1de65"
	modernPrivate = "1d"
)

var legacyKeys = map[int][2]string{
	411: {"8c9d5da87b30f5d7cd9dc88c746eaac5bb180267fa11737358c4c95d9adf59dd37689f9befb251508759555d6fe0eca87bebe0a10712cf0ec245af84cd22eb4cb675e98eaf5799fca62a20a2baa4801d5d70718dcd43283b8428f1387aec6600f937bfc7bb72404d187d3a9c438f1ffce9ce365dccf754232ff6def038a41385", "1d"},
	412: {"a465134799cf2c45087093e7d0f0f144e6d528110c08f674730d436e40827330eccea46e70acf10cdda7d8f710e3b44dcca931812d76cd7494289bca8b73823f57efc0515b97e4a2a02612ccfa719cf7885104b06f2e7e2cc967b62e3d3b1aadb925db94cbc8cd3070a4bb13f7e202c7733a67b1b94c1ebc0afcbe1a63b448cf", "25"},
	413: {"97df398472ddf737ef0a0cd17e8d172f0fef1661a38a8ae1d6e829bc1c6e4c3cfc19292dda9ef90175e46e7394a18850b6417d03be6eea274d3ed1dde5b5d7bde72cc0a0b71d03608655633881793a02c9a67d9ef2b45eb7c08d4be329083ce450e68f7867b6749314d40511d09bc5744551baa86a89dc38123dc1668fd72d83", "35"},
	414: {"ad70257b2316ce09dfaf2ebc3f63b3d673b0c98a403950e26bb87379b11e17aed0e45af23e7171e5ec1fbc8d1ae32ffb7801b31266eef9c334b53469d4b7cbe83284273d35a9aab49b453e7012f374496c65f8089f5d134b0eb3d1e3b22051ed5977a6dd68c4f85785dfcc9f4412c81681944fc4b8ce27caf0242deaa5762e8d", "25"},
}

// protocols is built once at package init and only read afterwards.
var protocols = buildProtocols()

func buildProtocols() map[int]Descriptor {
	table := map[int]Descriptor{
		111: symmetric(111, VariantXOR, 1, keyDefaults{xorKey: 0xAC}),
		120: symmetric(120, VariantXORPosition, 1, keyDefaults{xorStart: 0xE6}),
		121: symmetric(121, VariantXORFilename, 1, keyDefaults{}),
		211: symmetric(211, VariantBlowfish, blowfishBlockSize, keyDefaults{blowfish: "31==-%&@!^+][;'.]94-"}),
		212: symmetric(212, VariantBlowfish, blowfishBlockSize, keyDefaults{blowfish: "[;'.]94-&@%!^+]-31=="}),
	}

	modern := &RSAKey{
		Modulus:         mustHex(modernModulus),
		EncryptExponent: mustHex(modernPublic),
		DecryptExponent: mustHex(modernPrivate),
	}
	for protocol, legacy := range legacyKeys {
		table[protocol] = Descriptor{
			Protocol:    protocol,
			Variant:     VariantRSA,
			KeyShape:    KeyRSA,
			Checksum:    ChecksumCRC32Tail,
			Padding:     PaddingRSABlock,
			Compression: CompressionZlibSized,
			LegacyRSA:   true,
			ByteOrder:   binary.LittleEndian,
			BlockSize:   rsaBlockSize,
			builtin: keyDefaults{
				rsa: modern,
				legacy: &RSAKey{
					Modulus:         mustHex(legacy[0]),
					DecryptExponent: mustHex(legacy[1]),
				},
			},
		}
	}
	return table
}

func symmetric(protocol int, v Variant, blockSize int, keys keyDefaults) Descriptor {
	return Descriptor{
		Protocol:    protocol,
		Variant:     v,
		KeyShape:    ShapeOf(v),
		Checksum:    ChecksumCRC32Tail,
		Padding:     PaddingNone,
		Compression: CompressionNone,
		ByteOrder:   binary.LittleEndian,
		BlockSize:   blockSize,
		builtin:     keys,
	}
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("l2encdec: bad built-in key " + s)
	}
	return n
}

// Resolve returns the descriptor for a protocol version.
// Lookup is exact; there is no nearest-version fallback.
func Resolve(protocol int) (Descriptor, error) {
	d, ok := protocols[protocol]
	if !ok {
		return Descriptor{}, &ProtocolError{Protocol: protocol}
	}
	return d, nil
}

// variantTemplates names the protocol whose stages and built-in keys a
// variant override takes.
var variantTemplates = map[Variant]int{
	VariantXOR:         111,
	VariantXORPosition: 120,
	VariantXORFilename: 121,
	VariantBlowfish:    211,
	VariantRSA:         413,
}

// WithVariant returns d running variant v instead of its own. The protocol
// number, and so the default header, is kept; stages and built-in keys come
// from the first protocol that uses v.
func (d Descriptor) WithVariant(v Variant) (Descriptor, error) {
	if v == "" || v == d.Variant {
		return d, nil
	}
	template, ok := variantTemplates[v]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q", ErrUnknownVariant, v)
	}
	out := protocols[template]
	out.Protocol = d.Protocol
	return out, nil
}

// SupportedProtocols returns every known protocol version in ascending order.
func SupportedProtocols() []int {
	out := make([]int, 0, len(protocols))
	for p := range protocols {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// IsSupported reports whether the protocol version has a descriptor.
func IsSupported(protocol int) bool {
	_, ok := protocols[protocol]
	return ok
}
