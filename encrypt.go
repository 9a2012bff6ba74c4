package l2encdec

// Encryptor handles the block transform of one protocol epoch.
type Encryptor interface {
	// Encrypt transforms a padded body into cipher bytes.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt.
	Decrypt(ciphertext []byte) ([]byte, error)
}

// passthrough implements the identity transform.
type passthrough struct{}

func (passthrough) Encrypt(plaintext []byte) ([]byte, error) {
	return clone(plaintext), nil
}

func (passthrough) Decrypt(ciphertext []byte) ([]byte, error) {
	return clone(ciphertext), nil
}

// newEncryptor builds the Encryptor for a variant from resolved key material.
func newEncryptor(v Variant, km *KeyMaterial) (Encryptor, error) {
	switch v {
	case VariantXOR, VariantXORFilename:
		return XOR(km.XOR), nil
	case VariantXORPosition:
		return XORPosition(km.XORStart), nil
	case VariantBlowfish:
		return Blowfish(km.Blowfish)
	case VariantRSA:
		return RSA(km.RSA)
	}
	return passthrough{}, nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
