// Package vapid adapts the stored application-server key pair of the Web Push
// protocol (RFC 8292) into structured EC P-256 keys.
package vapid

import (
	"bytes"
	"crypto/ecdh"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
)

const (
	uncompressedTag = 0x04
	coordinateLen   = 32
	publicKeyLen    = 1 + 2*coordinateLen
	privateKeyLen   = 32
)

var ErrInvalidKey = errors.New("invalid VAPID key")

// JWK is the JSON Web Key form of one half of the pair. D is empty on the
// public half.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	D   string `json:"d,omitempty"`
}

// KeyPair holds both halves; they share X and Y.
type KeyPair struct {
	Public  JWK
	Private JWK

	publicRaw  []byte
	privateRaw []byte
}

// Parse decodes base64url public (uncompressed point) and private (raw
// scalar) key strings. The scalar must generate the given public point.
func Parse(publicB64, privateB64 string) (*KeyPair, error) {
	pub, err := decode(publicB64)
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %v", ErrInvalidKey, err)
	}
	if len(pub) != publicKeyLen {
		return nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrInvalidKey, len(pub), publicKeyLen)
	}
	if pub[0] != uncompressedTag {
		return nil, fmt.Errorf("%w: public key must start with 0x04, got 0x%02x", ErrInvalidKey, pub[0])
	}

	priv, err := decode(privateB64)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrInvalidKey, err)
	}
	if len(priv) != privateKeyLen {
		return nil, fmt.Errorf("%w: private key is %d bytes, want %d", ErrInvalidKey, len(priv), privateKeyLen)
	}

	sk, err := ecdh.P256().NewPrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrInvalidKey, err)
	}
	if !bytes.Equal(sk.PublicKey().Bytes(), pub) {
		return nil, fmt.Errorf("%w: private key does not match public key", ErrInvalidKey)
	}

	x := encode(pub[1 : 1+coordinateLen])
	y := encode(pub[1+coordinateLen:])

	return &KeyPair{
		Public:     JWK{Kty: "EC", Crv: "P-256", X: x, Y: y},
		Private:    JWK{Kty: "EC", Crv: "P-256", X: x, Y: y, D: encode(priv)},
		publicRaw:  pub,
		privateRaw: priv,
	}, nil
}

// PublicKeyString returns the canonical unpadded base64url public key, the
// form browsers expect as applicationServerKey.
func (k *KeyPair) PublicKeyString() string { return encode(k.publicRaw) }

// PrivateKeyString returns the canonical unpadded base64url private scalar.
func (k *KeyPair) PrivateKeyString() string { return encode(k.privateRaw) }

// Generate creates a fresh pair with webpush-go and returns it in canonical
// form after Parse has accepted it.
func Generate() (publicB64, privateB64 string, err error) {
	priv, pub, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return "", "", fmt.Errorf("generate VAPID keys: %w", err)
	}
	kp, err := Parse(pub, priv)
	if err != nil {
		return "", "", err
	}
	return kp.PublicKeyString(), kp.PrivateKeyString(), nil
}

func decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty")
	}
	// Padded and standard-alphabet input is normalized first.
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return base64.RawURLEncoding.DecodeString(s)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
