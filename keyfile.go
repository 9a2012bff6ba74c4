package l2encdec

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// rsaKeyDocument is the YAML/JSON key file layout, hex encoded the same way
// the encdec tools print keys:
//
//	modulus: 75b4d6de...
//	public_exponent: 30b4c2d7...
//	private_exponent: 1d
type rsaKeyDocument struct {
	Modulus         string `yaml:"modulus" json:"modulus"`
	PublicExponent  string `yaml:"public_exponent" json:"public_exponent"`
	PrivateExponent string `yaml:"private_exponent" json:"private_exponent"`
}

var (
	errNotRSAKey      = errors.New("bytes are not an RSA key")
	errModulusSize    = fmt.Errorf("modulus must be %d bytes", rsaBlockSize)
	errNoExponent     = errors.New("key has no exponent")
	errEmptyKey       = errors.New("key is empty")
	errBlowfishKeyLen = fmt.Errorf("key must be 1-%d bytes", blowfishMaxKey-1)
)

// parseKeyFile parses supplied key bytes into the shape the descriptor demands.
func parseKeyFile(shape KeyShape, data []byte) (*KeyMaterial, error) {
	km := &KeyMaterial{Shape: shape}

	switch shape {
	case KeyRSA:
		key, err := parseRSAKey(data)
		if err != nil {
			if errors.Is(err, errNotRSAKey) {
				return nil, newKeyError(ErrKeyShapeMismatch, shape, err)
			}
			return nil, newKeyError(ErrMalformedKey, shape, err)
		}
		km.RSA = key
		return km, nil

	case KeySymmetric:
		if looksAsymmetric(data) {
			return nil, newKeyError(ErrKeyShapeMismatch, shape, nil)
		}
		key := bytes.TrimRight(data, "\r\n")
		if len(key) == 0 {
			return nil, newKeyError(ErrMalformedKey, shape, errEmptyKey)
		}
		if key[len(key)-1] != 0 {
			key = append(append([]byte{}, key...), 0)
		}
		if len(key) > blowfishMaxKey {
			return nil, newKeyError(ErrMalformedKey, shape, errBlowfishKeyLen)
		}
		km.Blowfish = key
		return km, nil

	case KeyXORByte, KeyFilename:
		if looksAsymmetric(data) {
			return nil, newKeyError(ErrKeyShapeMismatch, shape, nil)
		}
		v, err := parseKeyInt(data)
		if err != nil {
			return nil, newKeyError(ErrMalformedKey, shape, err)
		}
		if v > 0xFF {
			return nil, newKeyError(ErrMalformedKey, shape, fmt.Errorf("xor key %#x exceeds one byte", v))
		}
		km.XOR = byte(v)
		return km, nil

	case KeyXORIndex:
		if looksAsymmetric(data) {
			return nil, newKeyError(ErrKeyShapeMismatch, shape, nil)
		}
		v, err := parseKeyInt(data)
		if err != nil {
			return nil, newKeyError(ErrMalformedKey, shape, err)
		}
		km.XORStart = int(v)
		return km, nil
	}

	return km, nil
}

// parseKeyInt reads a decimal or 0x-prefixed integer, or a single raw byte.
func parseKeyInt(data []byte) (uint64, error) {
	text := strings.TrimSpace(string(data))
	if v, err := strconv.ParseUint(text, 0, 32); err == nil {
		return v, nil
	}
	if len(data) == 1 {
		return uint64(data[0]), nil
	}
	if text == "" {
		return 0, errEmptyKey
	}
	return 0, fmt.Errorf("cannot parse %q as an integer key", text)
}

// looksAsymmetric reports whether data is any form of RSA key.
func looksAsymmetric(data []byte) bool {
	if bytes.Contains(data, []byte("-----BEGIN")) {
		return true
	}
	if _, ok := parseDER(data); ok {
		return true
	}
	doc, ok := parseKeyDocument(data)
	return ok && doc.Modulus != ""
}

// parseRSAKey accepts PEM, bare DER, or a YAML/JSON key document.
func parseRSAKey(data []byte) (*RSAKey, error) {
	if bytes.Contains(data, []byte("-----BEGIN")) {
		block, _ := pem.Decode(data)
		if block == nil {
			return nil, errors.New("invalid PEM block")
		}
		key, ok := parseDER(block.Bytes)
		if !ok {
			return nil, fmt.Errorf("unsupported PEM block %q", block.Type)
		}
		return checkRSAKey(key)
	}

	if key, ok := parseDER(data); ok {
		return checkRSAKey(key)
	}

	doc, ok := parseKeyDocument(data)
	if !ok || doc.Modulus == "" {
		return nil, errNotRSAKey
	}
	key := &RSAKey{}
	var err error
	if key.Modulus, err = parseHex(doc.Modulus); err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	if doc.PublicExponent != "" {
		if key.EncryptExponent, err = parseHex(doc.PublicExponent); err != nil {
			return nil, fmt.Errorf("public_exponent: %w", err)
		}
	}
	if doc.PrivateExponent != "" {
		if key.DecryptExponent, err = parseHex(doc.PrivateExponent); err != nil {
			return nil, fmt.Errorf("private_exponent: %w", err)
		}
	}
	return checkRSAKey(key)
}

// parseDER tries every DER encoding of an RSA key the x509 package knows.
func parseDER(der []byte) (*RSAKey, bool) {
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return fromPrivate(priv), true
	}
	if pub, err := x509.ParsePKCS1PublicKey(der); err == nil {
		return fromPublic(pub), true
	}
	if k, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		if priv, ok := k.(*rsa.PrivateKey); ok {
			return fromPrivate(priv), true
		}
	}
	if k, err := x509.ParsePKIXPublicKey(der); err == nil {
		if pub, ok := k.(*rsa.PublicKey); ok {
			return fromPublic(pub), true
		}
	}
	return nil, false
}

func fromPrivate(priv *rsa.PrivateKey) *RSAKey {
	return &RSAKey{
		Modulus:         new(big.Int).Set(priv.N),
		EncryptExponent: big.NewInt(int64(priv.E)),
		DecryptExponent: new(big.Int).Set(priv.D),
	}
}

func fromPublic(pub *rsa.PublicKey) *RSAKey {
	return &RSAKey{
		Modulus:         new(big.Int).Set(pub.N),
		EncryptExponent: big.NewInt(int64(pub.E)),
	}
}

func parseKeyDocument(data []byte) (rsaKeyDocument, bool) {
	var doc rsaKeyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func parseHex(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, ok := new(big.Int).SetString(s, 16)
	if !ok || n.Sign() <= 0 {
		return nil, fmt.Errorf("invalid hex value %q", s)
	}
	return n, nil
}

func checkRSAKey(key *RSAKey) (*RSAKey, error) {
	if key.Modulus == nil || (key.Modulus.BitLen()+7)/8 != rsaBlockSize {
		return nil, errModulusSize
	}
	if key.EncryptExponent == nil && key.DecryptExponent == nil {
		return nil, errNoExponent
	}
	return key, nil
}
