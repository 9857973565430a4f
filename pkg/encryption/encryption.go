// Package encryption provides the symmetric encryption and hashing primitives used for
// credential payloads, anchor hashes and disclosure commitments.
//
// Encrypted blobs use AES-256-CBC with PKCS#7 padding and a fresh random IV per call,
// encoded as hex(iv) + ":" + hex(ciphertext) so every blob is self-contained.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	dErrors "credvault/pkg/domain-errors"
)

const blobSeparator = ":"

// Cipher encrypts and decrypts payloads with a process-wide 32-byte key.
// It is safe for concurrent use.
type Cipher struct {
	block cipher.Block
	rand  io.Reader
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithRandom overrides the IV source. Intended for tests.
func WithRandom(r io.Reader) Option {
	return func(c *Cipher) {
		if r != nil {
			c.rand = r
		}
	}
}

// NewCipher builds a Cipher from key material that must be exactly KeySize bytes.
func NewCipher(key []byte, opts ...Option) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, fmt.Sprintf("encryption key must be %d bytes, got %d", KeySize, len(key)))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "could not initialize cipher")
	}
	c := &Cipher{block: block, rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt serializes v and returns an encrypted blob.
// Strings and byte slices are encrypted verbatim; anything else is encoded as canonical JSON.
func (c *Cipher) Encrypt(v any) (string, error) {
	plaintext, err := serialize(v)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeCryptoFailure, "could not generate iv")
	}

	padded := pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + blobSeparator + hex.EncodeToString(ciphertext), nil
}

// Decrypt parses and decrypts a blob produced by Encrypt.
func (c *Cipher) Decrypt(blob string) (Plaintext, error) {
	parts := strings.Split(blob, blobSeparator)
	if len(parts) != 2 {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "invalid encrypted data structure")
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "invalid initialization vector")
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "invalid ciphertext")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	return Plaintext(unpadded), nil
}

// Plaintext is decrypted payload content.
type Plaintext []byte

// Decode unmarshals JSON plaintext into v.
func (p Plaintext) Decode(v any) error {
	if err := json.Unmarshal(p, v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeCryptoFailure, "decrypted payload is not valid JSON")
	}
	return nil
}

// Value returns the structured value when the plaintext is JSON, otherwise the raw text.
func (p Plaintext) Value() any {
	var v any
	if err := json.Unmarshal(p, &v); err != nil {
		return string(p)
	}
	return v
}

// String returns the plaintext as text.
func (p Plaintext) String() string {
	return string(p)
}

func serialize(v any) ([]byte, error) {
	switch value := v.(type) {
	case []byte:
		return value, nil
	case string:
		return []byte(value), nil
	case Plaintext:
		return value, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeCryptoFailure, "could not serialize payload")
	}
	return data, nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "bad decrypt")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, dErrors.New(dErrors.CodeCryptoFailure, "bad decrypt")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, dErrors.New(dErrors.CodeCryptoFailure, "bad decrypt")
		}
	}
	return data[:len(data)-n], nil
}
