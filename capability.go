package l2encdec

// Variant represents the block transform a protocol epoch applies.
type Variant string

const (
	// VariantNone passes the body through unchanged.
	VariantNone Variant = "none"

	// VariantXOR XORs every byte with a single key byte (protocol 111).
	VariantXOR Variant = "xor"

	// VariantXORPosition XORs every byte with a key derived from its running index (protocol 120).
	VariantXORPosition Variant = "xor_position"

	// VariantXORFilename XORs every byte with a key derived from the file name (protocol 121).
	VariantXORFilename Variant = "xor_filename"

	// VariantBlowfish encrypts full 8-byte blocks with little-endian Blowfish (protocols 211-212).
	VariantBlowfish Variant = "blowfish"

	// VariantRSA compresses, pads and encrypts 128-byte blocks with raw RSA (protocols 411-414).
	VariantRSA Variant = "rsa"
)

// KeyShape describes the key material a variant consumes.
type KeyShape string

const (
	// KeyNone means the variant takes no key.
	KeyNone KeyShape = "none"

	// KeyXORByte is a single XOR key byte.
	KeyXORByte KeyShape = "xor_byte"

	// KeyXORIndex is the starting index for position-derived XOR keys.
	KeyXORIndex KeyShape = "xor_index"

	// KeyFilename is an XOR key byte derived from a file name.
	KeyFilename KeyShape = "filename"

	// KeySymmetric is a raw symmetric cipher key.
	KeySymmetric KeyShape = "symmetric"

	// KeyRSA is an RSA modulus with encrypt and/or decrypt exponents.
	KeyRSA KeyShape = "rsa"
)

// ChecksumPolicy selects how integrity data is attached to the wire buffer.
type ChecksumPolicy string

const (
	// ChecksumCRC32Tail appends a 20-byte tail carrying the CRC32 of header and body.
	ChecksumCRC32Tail ChecksumPolicy = "crc32_tail"
)

// PaddingPolicy selects how the body is padded before the block cipher.
type PaddingPolicy string

const (
	// PaddingNone leaves the body length unchanged.
	PaddingNone PaddingPolicy = "none"

	// PaddingRSABlock splits the body into 124-byte chunks framed in 128-byte blocks.
	PaddingRSABlock PaddingPolicy = "rsa_block"
)

// CompressionPolicy selects whether the plaintext is compressed before padding.
type CompressionPolicy string

const (
	// CompressionNone leaves the plaintext uncompressed.
	CompressionNone CompressionPolicy = "none"

	// CompressionZlibSized prefixes a zlib stream with the little-endian plaintext length.
	CompressionZlibSized CompressionPolicy = "zlib_sized"
)

// validVariants contains all valid variants.
var validVariants = map[Variant]bool{
	VariantNone:        true,
	VariantXOR:         true,
	VariantXORPosition: true,
	VariantXORFilename: true,
	VariantBlowfish:    true,
	VariantRSA:         true,
}

// variantShapes maps each variant to the key shape it consumes.
var variantShapes = map[Variant]KeyShape{
	VariantNone:        KeyNone,
	VariantXOR:         KeyXORByte,
	VariantXORPosition: KeyXORIndex,
	VariantXORFilename: KeyFilename,
	VariantBlowfish:    KeySymmetric,
	VariantRSA:         KeyRSA,
}

// IsValidVariant returns true if the variant is a known block transform.
func IsValidVariant(v Variant) bool {
	return validVariants[v]
}

// ShapeOf returns the key shape a variant consumes.
// Unknown variants report KeyNone.
func ShapeOf(v Variant) KeyShape {
	if s, ok := variantShapes[v]; ok {
		return s
	}
	return KeyNone
}

// IsAsymmetric reports whether the shape requires an RSA key.
func (s KeyShape) IsAsymmetric() bool {
	return s == KeyRSA
}
