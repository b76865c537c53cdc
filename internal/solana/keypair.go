package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// SystemProgramID is the Solana System Program address.
const SystemProgramID = "11111111111111111111111111111111"

// Keypair holds an ed25519 signing keypair for a Solana account.
type Keypair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// NewKeypair generates a fresh keypair.
func NewKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// KeypairFromBase58 restores a keypair from a base58-encoded 64-byte
// secret (the standard Solana secret key export format).
func KeypairFromBase58(secret string) (*Keypair, error) {
	raw, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	priv := ed25519.PrivateKey(raw)
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("derive public key")
	}
	return &Keypair{pub: pub, priv: priv}, nil
}

// Address returns the base58 public key.
func (k *Keypair) Address() string {
	return base58.Encode(k.pub)
}

// SecretBase58 returns the base58-encoded 64-byte secret key.
func (k *Keypair) SecretBase58() string {
	return base58.Encode(k.priv)
}

// PublicKeyBytes returns the raw 32-byte public key.
func (k *Keypair) PublicKeyBytes() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// Sign signs a message with the keypair's private key.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// IsValidAddress reports whether addr is a base58-encoded 32-byte
// ed25519 public key on the curve. Off-curve addresses (PDAs) are
// rejected: a funding wallet must be able to sign.
func IsValidAddress(addr string) bool {
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
