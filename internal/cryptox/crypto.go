// Package cryptox implements document encryption for GophDocs.
//
// Every document is sealed under its own Secret: 32 random bytes carried as
// base64 text. A secret is never sent to the server; whoever holds the
// document id and the secret can read the document, nobody else can.
//
// Ciphertext is a small JSON envelope so it can travel as a plain string
// through both replicas:
//
//	{"v":1,"alg":"aes-256-gcm","salt":"...","iv":"...","ct":"..."}
//
// The AES-256 key is derived per message with HKDF-SHA256 from the secret and
// a random salt, and AES-GCM is used with a random 12-byte nonce.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	secretSize = 32
	saltSize   = 16
	nonceSize  = 12

	envelopeVersion = 1
	envelopeAlg     = "aes-256-gcm"
)

var hkdfInfo = []byte("gophdocs document v1")

var (
	// ErrEncryption is returned by Encrypt when the secret is malformed.
	ErrEncryption = errors.New("encryption failed")

	// ErrDecryption is returned by Decrypt when the secret does not match the
	// ciphertext or the ciphertext is malformed.
	ErrDecryption = errors.New("decryption failed")
)

// randReader is a test seam for the entropy source.
var randReader io.Reader = rand.Reader

// Secret is the symmetric key material of a single document, encoded as
// standard base64.
type Secret string

// String hides the key material from accidental logging.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[secret]"
}

// GenerateSecret returns a fresh secret read from the system CSPRNG.
func GenerateSecret() (Secret, error) {
	b := make([]byte, secretSize)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return Secret(base64.StdEncoding.EncodeToString(b)), nil
}

func (s Secret) bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(string(s))
	if err != nil {
		return nil, err
	}
	if len(b) != secretSize {
		return nil, fmt.Errorf("secret must be %d bytes, got %d", secretSize, len(b))
	}
	return b, nil
}

// Validate reports whether s is well-formed key material.
func (s Secret) Validate() error {
	_, err := s.bytes()
	return err
}

type envelope struct {
	Version int    `json:"v"`
	Alg     string `json:"alg"`
	Salt    []byte `json:"salt"`
	IV      []byte `json:"iv"`
	CT      []byte `json:"ct"`
}

func newGCM(secret, salt []byte) (cipher.AEAD, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, hkdfInfo), key); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plaintext under secret and returns the text envelope.
func Encrypt(plaintext string, secret Secret) (string, error) {
	key, err := secret.bytes()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	aead, err := newGCM(key, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	env := envelope{
		Version: envelopeVersion,
		Alg:     envelopeAlg,
		Salt:    salt,
		IV:      nonce,
		CT:      aead.Seal(nil, nonce, []byte(plaintext), nil),
	}

	out, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryption, err)
	}
	return string(out), nil
}

// Decrypt opens an envelope produced by Encrypt.
func Decrypt(ciphertext string, secret Secret) (string, error) {
	key, err := secret.bytes()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(ciphertext), &env); err != nil {
		return "", fmt.Errorf("%w: malformed envelope", ErrDecryption)
	}
	if env.Version != envelopeVersion || env.Alg != envelopeAlg {
		return "", fmt.Errorf("%w: unsupported envelope %d/%s", ErrDecryption, env.Version, env.Alg)
	}
	if len(env.IV) != nonceSize || len(env.Salt) != saltSize {
		return "", fmt.Errorf("%w: malformed envelope", ErrDecryption)
	}

	aead, err := newGCM(key, env.Salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}

	plaintext, err := aead.Open(nil, env.IV, env.CT, nil)
	if err != nil {
		return "", ErrDecryption
	}
	return string(plaintext), nil
}
