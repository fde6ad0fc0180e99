package vending

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math/big"
)

// DefaultPublicKey is the backend's login public key, published as a
// packed [modulus length][modulus][exponent length][exponent] blob.
const DefaultPublicKey = "AAAAgMom/1a/v0lblO2Ubrt60J2gcuXSljGFQXgcyZWveWLEwo6prwgi3iJIZdodyhKZQrNWp5nKJ3srRXcUW" +
	"+F1BD3baEVGcmEgqaLZUNBjm057pKRI16kB0YppeGx5qIQ5QjKzsR8ETQbKLNWgRY0QRNVz34kMJR3P/LgHax" +
	"/6rmf5AAAAAwEAAQ=="

// EncryptCredential encodes a mail/password pair against the default
// backend key. The result is safe to transmit as a request field.
func EncryptCredential(mail, password string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(DefaultPublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode login public key: %w", err)
	}
	return EncryptCredentialWithKey(mail, password, blob)
}

// EncryptCredentialWithKey encrypts mail + NUL + password with RSA
// OAEP (SHA-1 digest and mask generation) under the supplied key blob,
// prefixes the ciphertext with a zero byte plus the first four bytes
// of the blob's SHA-1, and encodes the whole thing URL-safe base64.
func EncryptCredentialWithKey(mail, password string, keyBlob []byte) (string, error) {
	pub, err := parsePublicKey(keyBlob)
	if err != nil {
		return "", err
	}

	digest := sha1.Sum(keyBlob)
	prefix := append([]byte{0}, digest[:4]...)

	plaintext := make([]byte, 0, len(mail)+1+len(password))
	plaintext = append(plaintext, mail...)
	plaintext = append(plaintext, 0)
	plaintext = append(plaintext, password...)

	ciphertext, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, pub, plaintext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt credential: %w", err)
	}

	return base64.URLEncoding.EncodeToString(append(prefix, ciphertext...)), nil
}

// parsePublicKey recovers the RSA key from the packed blob. Lengths
// are big-endian uint32; modulus and exponent bytes are interpreted as
// unsigned big-endian integers.
func parsePublicKey(blob []byte) (*rsa.PublicKey, error) {
	if len(blob) < 4 {
		return nil, fmt.Errorf("login public key blob is truncated")
	}
	// Length math in uint64 so a hostile length field cannot wrap the
	// bounds checks.
	modLen := uint64(binary.BigEndian.Uint32(blob))
	if uint64(len(blob)) < 4+modLen+4 {
		return nil, fmt.Errorf("login public key blob is truncated")
	}
	modulus := blob[4 : 4+modLen]

	expOffset := 4 + modLen
	expLen := uint64(binary.BigEndian.Uint32(blob[expOffset:]))
	if uint64(len(blob)) < expOffset+4+expLen {
		return nil, fmt.Errorf("login public key blob is truncated")
	}
	exponent := blob[expOffset+4 : expOffset+4+expLen]

	e := new(big.Int).SetBytes(exponent)
	if !e.IsInt64() || e.Int64() <= 1 {
		return nil, fmt.Errorf("login public key has invalid exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: int(e.Int64()),
	}, nil
}
