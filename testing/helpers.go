// Package testing provides test utilities for l2encdec.
package testing

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sync"
	"testing"

	"github.com/zoobzio/l2encdec"
)

// TestFilename is the file name used for protocol 121 fixtures.
const TestFilename = "l2.ini"

// TestPlaintext returns a small ini-style payload resembling a client file.
func TestPlaintext() []byte {
	return []byte("[Engine.GameEngine]\r\nCacheSizeMegs=64\r\nUseSound=True\r\n" +
		"[URL]\r\nProtocol=unreal\r\nPort=7777\r\nMap=Entry.unr\r\n")
}

// TestPayload returns n deterministic bytes that do not compress well.
func TestPayload(n int) []byte {
	out := make([]byte, n)
	var x uint32 = 2463534242
	for i := range out {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		out[i] = byte(x)
	}
	return out
}

// TestParams returns Params that round-trip with built-in keys for protocol.
func TestParams(protocol int) l2encdec.Params {
	return l2encdec.Params{Protocol: protocol, Filename: TestFilename}
}

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
	keyErr  error
)

// TestRSAKey returns a 1024-bit RSA key, generated once per test binary.
func TestRSAKey(tb testing.TB) *rsa.PrivateKey {
	tb.Helper()
	keyOnce.Do(func() {
		testKey, keyErr = rsa.GenerateKey(rand.Reader, 1024)
	})
	if keyErr != nil {
		tb.Fatalf("generate rsa key: %v", keyErr)
	}
	return testKey
}

// TestPrivateKeyPEM returns TestRSAKey as a PKCS#1 "RSA PRIVATE KEY" block.
func TestPrivateKeyPEM(tb testing.TB) []byte {
	tb.Helper()
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(TestRSAKey(tb)),
	})
}

// TestPublicKeyPEM returns the public half of TestRSAKey as a PKIX "PUBLIC KEY" block.
func TestPublicKeyPEM(tb testing.TB) []byte {
	tb.Helper()
	der, err := x509.MarshalPKIXPublicKey(&TestRSAKey(tb).PublicKey)
	if err != nil {
		tb.Fatalf("marshal public key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// TestKeyDocument returns TestRSAKey as a YAML key document.
func TestKeyDocument(tb testing.TB) []byte {
	tb.Helper()
	k := TestRSAKey(tb)
	return []byte(fmt.Sprintf("modulus: %x\npublic_exponent: %x\nprivate_exponent: %x\n", k.N, k.E, k.D))
}

// MustEncode encodes plaintext or fails the test.
func MustEncode(tb testing.TB, plaintext []byte, p l2encdec.Params) []byte {
	tb.Helper()
	wire, err := l2encdec.Encode(plaintext, p)
	if err != nil {
		tb.Fatalf("Encode(%d) error: %v", p.Protocol, err)
	}
	return wire
}
