package l2encdec

import "golang.org/x/crypto/blowfish"

const (
	blowfishBlockSize = blowfish.BlockSize
	blowfishMaxKey    = 56
)

// blowfishEncryptor implements Blowfish in ECB mode over little-endian
// 32-bit halves, the byte order the client uses.
type blowfishEncryptor struct {
	c *blowfish.Cipher
}

// Blowfish returns a Blowfish encryptor. The key is used as given; the
// built-in keys already carry their trailing NUL.
// Only full 8-byte blocks are transformed, a trailing partial block is
// copied through unchanged.
func Blowfish(key []byte) (Encryptor, error) {
	c, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, newKeyError(ErrMalformedKey, KeySymmetric, err)
	}
	return &blowfishEncryptor{c: c}, nil
}

func (e *blowfishEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	return e.process(plaintext, e.c.Encrypt), nil
}

func (e *blowfishEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	return e.process(ciphertext, e.c.Decrypt), nil
}

func (e *blowfishEncryptor) process(in []byte, fn func(dst, src []byte)) []byte {
	out := clone(in)
	full := len(out) / blowfishBlockSize * blowfishBlockSize
	var block [blowfishBlockSize]byte
	for i := 0; i < full; i += blowfishBlockSize {
		swapWords(block[:], out[i:i+blowfishBlockSize])
		fn(block[:], block[:])
		swapWords(out[i:i+blowfishBlockSize], block[:])
	}
	return out
}

// swapWords reverses the byte order of both 32-bit halves of a block.
// x/crypto reads the halves big-endian.
func swapWords(dst, src []byte) {
	dst[0], dst[1], dst[2], dst[3] = src[3], src[2], src[1], src[0]
	dst[4], dst[5], dst[6], dst[7] = src[7], src[6], src[5], src[4]
}
