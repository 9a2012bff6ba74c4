package l2encdec

import (
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	rsaBlockSize = 128
	rsaBodySize  = 124
)

var (
	errBlockAlign   = fmt.Errorf("length is not a multiple of %d", rsaBlockSize)
	errNoEncryptExp = errors.New("encrypt exponent required for encryption")
	errNoDecryptExp = errors.New("decrypt exponent required for decryption")
)

// rsaEncryptor implements textbook RSA over independent 128-byte blocks.
// There is no OAEP or PKCS#1 padding; block framing is done by padRSABlocks.
type rsaEncryptor struct {
	key *RSAKey
}

// RSA returns a raw block RSA encryptor.
// EncryptExponent is required for Encrypt; DecryptExponent for Decrypt.
func RSA(key *RSAKey) (Encryptor, error) {
	if key == nil || key.Modulus == nil || key.Modulus.Sign() <= 0 {
		return nil, newKeyError(ErrMalformedKey, KeyRSA, errors.New("rsa modulus required"))
	}
	return &rsaEncryptor{key: key}, nil
}

func (e *rsaEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	if e.key.EncryptExponent == nil {
		return nil, errNoEncryptExp
	}
	return e.modExp(plaintext, e.key.EncryptExponent)
}

func (e *rsaEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.key.DecryptExponent == nil {
		return nil, errNoDecryptExp
	}
	return e.modExp(ciphertext, e.key.DecryptExponent)
}

// modExp raises every block to exp mod N. Blocks are independent, so they
// are spread over GOMAXPROCS workers; the call returns after all finish.
func (e *rsaEncryptor) modExp(in []byte, exp *big.Int) ([]byte, error) {
	if len(in)%rsaBlockSize != 0 {
		return nil, errBlockAlign
	}

	out := make([]byte, len(in))
	blocks := len(in) / rsaBlockSize
	workers := min(runtime.GOMAXPROCS(0), blocks)

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := new(big.Int)
			for {
				i := int(next.Add(1) - 1)
				if i >= blocks {
					return
				}
				off := i * rsaBlockSize
				m.SetBytes(in[off : off+rsaBlockSize])
				m.Exp(m, exp, e.key.Modulus)
				m.FillBytes(out[off : off+rsaBlockSize])
			}
		}()
	}
	wg.Wait()

	return out, nil
}

// padRSABlocks frames data into 128-byte blocks: bytes 0-2 zero, byte 3
// the chunk length (at most 124), the chunk right-aligned to a 4-byte
// boundary, every other byte zero.
func padRSABlocks(data []byte) []byte {
	blocks := (len(data) + rsaBodySize - 1) / rsaBodySize
	out := make([]byte, blocks*rsaBlockSize)
	for i := 0; i < blocks; i++ {
		chunk := data[i*rsaBodySize : min((i+1)*rsaBodySize, len(data))]
		block := out[i*rsaBlockSize : (i+1)*rsaBlockSize]
		block[3] = byte(len(chunk))
		copy(block[rsaBlockSize-align4(len(chunk)):], chunk)
	}
	return out
}

// unpadRSABlocks reverses padRSABlocks.
func unpadRSABlocks(data []byte) ([]byte, error) {
	if len(data)%rsaBlockSize != 0 {
		return nil, errBlockAlign
	}
	out := make([]byte, 0, len(data)/rsaBlockSize*rsaBodySize)
	for off := 0; off < len(data); off += rsaBlockSize {
		block := data[off : off+rsaBlockSize]
		if block[0]|block[1]|block[2] != 0 {
			return nil, fmt.Errorf("block %d: non-zero frame bytes", off/rsaBlockSize)
		}
		size := int(block[3])
		if size == 0 || size > rsaBodySize {
			return nil, fmt.Errorf("block %d: chunk length %d out of range", off/rsaBlockSize, size)
		}
		start := rsaBlockSize - align4(size)
		out = append(out, block[start:start+size]...)
	}
	return out, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}
