package l2encdec

import (
	"errors"
	"math/big"
)

// KeySource says where a call's key material comes from: the descriptor's
// built-in key (the zero value) or caller-supplied key file bytes.
type KeySource struct {
	supplied bool
	data     []byte
}

// BuiltIn selects the protocol's publicly known default key.
func BuiltIn() KeySource {
	return KeySource{}
}

// Supplied selects key material parsed from b. The slice is copied.
func Supplied(b []byte) KeySource {
	data := make([]byte, len(b))
	copy(data, b)
	return KeySource{supplied: true, data: data}
}

// IsSupplied reports whether the caller provided key bytes.
func (k KeySource) IsSupplied() bool {
	return k.supplied
}

// RSAKey is a raw RSA key as the client files use it: a modulus and the
// exponents for each direction. Either exponent may be nil when only one
// direction is needed.
type RSAKey struct {
	Modulus         *big.Int
	EncryptExponent *big.Int
	DecryptExponent *big.Int
}

func (k *RSAKey) clone() *RSAKey {
	c := &RSAKey{Modulus: new(big.Int).Set(k.Modulus)}
	if k.EncryptExponent != nil {
		c.EncryptExponent = new(big.Int).Set(k.EncryptExponent)
	}
	if k.DecryptExponent != nil {
		c.DecryptExponent = new(big.Int).Set(k.DecryptExponent)
	}
	return c
}

// KeyMaterial is the key data one invocation owns. Which field is set
// depends on Shape.
type KeyMaterial struct {
	Shape    KeyShape
	XOR      byte
	XORStart int
	Blowfish []byte
	RSA      *RSAKey
}

// KeyRequest carries the per-call inputs a KeyProvider needs.
type KeyRequest struct {
	Source   KeySource
	Filename string // base file name, for filename-derived XOR keys
	Legacy   bool   // select the legacy RSA key when no key is supplied
}

// KeyProvider resolves key material for a descriptor.
// Implementations must be safe for concurrent use.
type KeyProvider interface {
	Obtain(d Descriptor, req KeyRequest) (*KeyMaterial, error)
}

// defaultKeyProvider serves built-in keys and parses supplied key files.
type defaultKeyProvider struct{}

// DefaultKeyProvider returns the provider backed by the protocol table's
// built-in keys and the key file parsers.
func DefaultKeyProvider() KeyProvider {
	return defaultKeyProvider{}
}

// Obtain resolves key material with the default provider.
func Obtain(d Descriptor, req KeyRequest) (*KeyMaterial, error) {
	return defaultKeyProvider{}.Obtain(d, req)
}

func (defaultKeyProvider) Obtain(d Descriptor, req KeyRequest) (*KeyMaterial, error) {
	if req.Source.IsSupplied() {
		return parseKeyFile(d.KeyShape, req.Source.data)
	}
	return builtinKey(d, req)
}

var errFilenameRequired = errors.New("filename required to derive key")

func builtinKey(d Descriptor, req KeyRequest) (*KeyMaterial, error) {
	km := &KeyMaterial{Shape: d.KeyShape}
	switch d.KeyShape {
	case KeyXORByte:
		km.XOR = d.builtin.xorKey
	case KeyXORIndex:
		km.XORStart = d.builtin.xorStart
	case KeyFilename:
		if req.Filename == "" {
			return nil, newKeyError(ErrMalformedKey, d.KeyShape, errFilenameRequired)
		}
		km.XOR = filenameKey(req.Filename)
	case KeySymmetric:
		km.Blowfish = append([]byte(d.builtin.blowfish), 0)
	case KeyRSA:
		if req.Legacy && d.LegacyRSA && d.builtin.legacy != nil {
			km.RSA = d.builtin.legacy.clone()
		} else {
			km.RSA = d.builtin.rsa.clone()
		}
	}
	return km, nil
}
