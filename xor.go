package l2encdec

// xorEncryptor XORs every byte with one key byte.
type xorEncryptor struct {
	key byte
}

// XOR returns a single-byte XOR encryptor. XOR is its own inverse.
func XOR(key byte) Encryptor {
	return &xorEncryptor{key: key}
}

func (e *xorEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ e.key
	}
	return out, nil
}

func (e *xorEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	return e.Encrypt(ciphertext)
}

// xorPositionEncryptor XORs each byte with a key derived from its index.
type xorPositionEncryptor struct {
	start int
}

// XORPosition returns an encryptor whose key stream starts at index start.
func XORPosition(start int) Encryptor {
	return &xorPositionEncryptor{start: start}
}

func (e *xorPositionEncryptor) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ PositionKey(e.start+i)
	}
	return out, nil
}

func (e *xorPositionEncryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	return e.Encrypt(ciphertext)
}

// PositionKey returns the XOR key for a running index: the low nibble is
// nibble0^nibble2 and the high nibble is nibble1^nibble3.
func PositionKey(index int) byte {
	d1 := index & 0xf
	d2 := (index >> 4) & 0xf
	d3 := (index >> 8) & 0xf
	d4 := (index >> 12) & 0xf
	return byte(((d2 ^ d4) << 4) | (d1 ^ d3))
}

// filenameKey sums the bytes of the file name with A-Z folded to a-z.
// Other bytes, including UTF-8 sequences, are summed as they are.
func filenameKey(name string) byte {
	var acc int
	for _, c := range []byte(name) {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		acc += int(c)
	}
	return byte(acc & 0xff)
}

// FilenameKey returns the XOR key protocol 121 derives from a file name.
func FilenameKey(name string) byte {
	return filenameKey(name)
}
